package emulator

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
)

// postgresStore persists entities as one row per key: scoped columns
// plus a jsonb blob for the wire Entity, following a tenant/project/key
// scoped table shape with a jsonb value column.
type postgresStore struct {
	db *sql.DB
}

func dsnFromEnv() string {
	for _, name := range []string{"KV_DATABASE_URL", "DATABASE_URL", "METADATA_DATABASE_URL"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// newPostgresStore connects using the first configured DSN environment
// variable, returning (nil, nil) when none is set so the caller can
// fall back to the in-memory store.
func newPostgresStore() (*postgresStore, error) {
	dsn := dsnFromEnv()
	if dsn == "" {
		return nil, nil
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := ensureEntityTable(db); err != nil {
		return nil, err
	}
	return &postgresStore{db: db}, nil
}

func ensureEntityTable(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS hkv_entities (
  project_id text NOT NULL,
  database_id text NOT NULL,
  namespace text NOT NULL DEFAULT '',
  kind text NOT NULL,
  key_name text NOT NULL,
  entity jsonb NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now(),
  PRIMARY KEY (project_id, database_id, namespace, kind, key_name)
);
CREATE INDEX IF NOT EXISTS hkv_entities_scope_idx ON hkv_entities (project_id, database_id, namespace, kind);
`
	_, err := db.Exec(ddl)
	return err
}

func (s *postgresStore) Put(ctx context.Context, key keys.Key, entity *hkvpb.Entity) error {
	blob, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	scope := scopeOf(key)
	_, err = s.db.ExecContext(ctx, `
INSERT INTO hkv_entities (project_id, database_id, namespace, kind, key_name, entity, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,now())
ON CONFLICT (project_id, database_id, namespace, kind, key_name)
DO UPDATE SET entity = EXCLUDED.entity, updated_at = now()
`, scope.ProjectID, scope.DatabaseID, scope.Namespace, scope.Kind, key.Encode(), blob)
	return err
}

func (s *postgresStore) Delete(ctx context.Context, key keys.Key) error {
	scope := scopeOf(key)
	_, err := s.db.ExecContext(ctx, `
DELETE FROM hkv_entities WHERE project_id=$1 AND database_id=$2 AND namespace=$3 AND kind=$4 AND key_name=$5
`, scope.ProjectID, scope.DatabaseID, scope.Namespace, scope.Kind, key.Encode())
	return err
}

func (s *postgresStore) Scan(ctx context.Context, scope scopeKey) ([]*hkvpb.Entity, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT entity FROM hkv_entities WHERE project_id=$1 AND database_id=$2 AND namespace=$3 AND kind=$4
`, scope.ProjectID, scope.DatabaseID, scope.Namespace, scope.Kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*hkvpb.Entity
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var entity hkvpb.Entity
		if err := json.Unmarshal(blob, &entity); err != nil {
			return nil, err
		}
		out = append(out, &entity)
	}
	return out, rows.Err()
}

func (s *postgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var errNoDatabaseConfigured = errors.New("hkv-emulator: no KV_DATABASE_URL/DATABASE_URL/METADATA_DATABASE_URL set, using in-memory store")
