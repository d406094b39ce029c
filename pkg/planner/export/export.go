// Package export writes the entities a read emits to a single Parquet
// file, for callers that want a bulk columnar snapshot of a read
// result alongside (or instead of) per-entity processing. Modeled on
// a storage sink's JSON-schema-driven Parquet writer: the caller
// supplies the flat column list up front, and each entity's properties
// are projected onto those columns, missing properties becoming nulls.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
)

// FieldType enumerates the physical Parquet types this writer supports.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt64
	FieldDouble
	FieldBoolean
)

// Field describes one output column, projected from the like-named
// entity property.
type Field struct {
	Name string
	Type FieldType
}

// Writer accumulates entities and flushes them to a single Parquet
// file on Close.
type Writer struct {
	pfw    io.Closer
	pw     *writer.JSONWriter
	fields []Field
	rows   int64
}

// New opens a Parquet writer over dst, with one column per field plus
// a "key" string column holding the kind and name (or id) of each
// entity's leaf path element, as "Kind/name".
func New(dst io.Writer, fields []Field) (*Writer, error) {
	pfw := writerfile.NewWriterFile(dst)
	pw, err := writer.NewJSONWriter(buildSchema(fields), pfw, 4)
	if err != nil {
		_ = pfw.Close()
		return nil, fmt.Errorf("export: open parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	return &Writer{pfw: pfw, pw: pw, fields: fields}, nil
}

// Write projects entity onto the configured columns and appends one row.
func (w *Writer) Write(entity *hkvpb.Entity) error {
	row := projectRow(entity, w.fields)
	b, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("export: marshal row: %w", err)
	}
	if err := w.pw.Write(string(b)); err != nil {
		return fmt.Errorf("export: write row: %w", err)
	}
	w.rows++
	return nil
}

// Rows reports how many entities have been written so far.
func (w *Writer) Rows() int64 { return w.rows }

// Close flushes the Parquet footer and releases the underlying sink.
// It must be called exactly once, after the last Write.
func (w *Writer) Close() error {
	if err := w.pw.WriteStop(); err != nil {
		_ = w.pfw.Close()
		return fmt.Errorf("export: finalize parquet file: %w", err)
	}
	return w.pfw.Close()
}

func buildSchema(fields []Field) string {
	cols := make([]map[string]string, 0, len(fields)+1)
	cols = append(cols, map[string]string{"Tag": "name=key, type=BYTE_ARRAY, repetitiontype=OPTIONAL"})
	for _, f := range fields {
		cols = append(cols, map[string]string{"Tag": fmt.Sprintf("name=%s, type=%s, repetitiontype=OPTIONAL", f.Name, physicalType(f.Type))})
	}
	schema := map[string]any{
		"Tag":    "name=hkv_export_root, repetitiontype=REQUIRED",
		"Fields": cols,
	}
	b, _ := json.Marshal(schema)
	return string(b)
}

func physicalType(t FieldType) string {
	switch t {
	case FieldInt64:
		return "INT64"
	case FieldDouble:
		return "DOUBLE"
	case FieldBoolean:
		return "BOOLEAN"
	default:
		return "BYTE_ARRAY"
	}
}

func projectRow(entity *hkvpb.Entity, fields []Field) map[string]any {
	row := map[string]any{"key": keyString(entity.Key)}
	for _, f := range fields {
		v, ok := entity.Properties[f.Name]
		if !ok || v == nil {
			row[f.Name] = nil
			continue
		}
		row[f.Name] = scalarOf(v, f.Type)
	}
	return row
}

func scalarOf(v *hkvpb.Value, t FieldType) any {
	switch t {
	case FieldInt64:
		if v.IntegerValue != nil {
			return *v.IntegerValue
		}
		if v.TimestampValue != nil {
			return *v.TimestampValue
		}
	case FieldDouble:
		if v.DoubleValue != nil {
			return *v.DoubleValue
		}
	case FieldBoolean:
		if v.BooleanValue != nil {
			return *v.BooleanValue
		}
	default:
		if v.StringValue != nil {
			return *v.StringValue
		}
		if v.BlobValue != nil {
			return string(v.BlobValue)
		}
	}
	return nil
}

func keyString(k *hkvpb.Key) string {
	if k == nil || len(k.Path) == 0 {
		return ""
	}
	last := k.Path[len(k.Path)-1]
	if last.Name != "" {
		return fmt.Sprintf("%s/%s", last.Kind, last.Name)
	}
	return fmt.Sprintf("%s/%d", last.Kind, last.Id)
}
