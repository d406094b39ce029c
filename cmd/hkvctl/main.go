// Command hkvctl is a small operator CLI for exercising a Store
// endpoint directly: read entities of a kind (optionally as a GQL
// query, optionally exported to a Parquet file), upsert one entity
// from string-valued flags, and delete one entity by key.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nucleus/hkv-connector/pkg/config"
	"github.com/nucleus/hkv-connector/pkg/connector"
	"github.com/nucleus/hkv-connector/pkg/hkvclient"
	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
	"github.com/nucleus/hkv-connector/pkg/planner/export"
	"github.com/nucleus/hkv-connector/pkg/writer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var endpoint, projectID, databaseID, namespace string

	root := &cobra.Command{
		Use:          "hkvctl",
		Short:        "Operate a hierarchical key-value Store endpoint",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&endpoint, "endpoint", "localhost:8081", "Store gRPC endpoint")
	root.PersistentFlags().StringVar(&projectID, "project", "", "project id (required)")
	root.PersistentFlags().StringVar(&databaseID, "database", "", "database id")
	root.PersistentFlags().StringVar(&namespace, "namespace", "", "namespace")

	root.AddCommand(newReadCmd(&endpoint, &projectID, &databaseID, &namespace))
	root.AddCommand(newUpsertCmd(&endpoint, &projectID, &databaseID, &namespace))
	root.AddCommand(newDeleteCmd(&endpoint, &projectID, &databaseID, &namespace))
	return root
}

func dialAndConfig(ctx context.Context, endpoint, projectID, databaseID, namespace string) (*hkvclient.Client, *config.Config, error) {
	cli, err := hkvclient.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.New(projectID,
		config.WithDatabaseID(databaseID),
		config.WithNamespace(namespace),
		config.WithEndpoint(endpoint),
	)
	if err != nil {
		_ = cli.Close()
		return nil, nil, err
	}
	return cli, cfg, nil
}

func newReadCmd(endpoint, projectID, databaseID, namespace *string) *cobra.Command {
	var kind, gql, exportPath, exportColumns string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read every entity of a kind, or the results of a GQL query",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "" && gql == "" {
				return fmt.Errorf("hkvctl: one of --kind or --gql is required")
			}
			if kind != "" && gql != "" {
				return fmt.Errorf("hkvctl: --kind and --gql are mutually exclusive")
			}
			ctx := cmd.Context()
			cli, cfg, err := dialAndConfig(ctx, *endpoint, *projectID, *databaseID, *namespace)
			if err != nil {
				return err
			}
			defer cli.Close()

			var exp *export.Writer
			if exportPath != "" {
				f, err := os.Create(exportPath)
				if err != nil {
					return fmt.Errorf("hkvctl: create export file: %w", err)
				}
				defer f.Close()
				fields := exportFieldsFrom(exportColumns)
				exp, err = export.New(f, fields)
				if err != nil {
					return fmt.Errorf("hkvctl: open export writer: %w", err)
				}
				defer exp.Close()
			}

			reader := connector.NewReader(cli, cfg)
			emit := func(e *hkvpb.Entity) error {
				if exp != nil {
					return exp.Write(e)
				}
				fmt.Println(describeEntity(e))
				return nil
			}

			if gql != "" {
				err = reader.GQL(ctx, gql, emit)
			} else {
				err = reader.Query(ctx, &hkvpb.Query{Kind: []*hkvpb.KindExpression{{Name: kind}}}, emit)
			}
			if err != nil {
				return err
			}
			if exp != nil {
				fmt.Printf("wrote %d rows to %s\n", exp.Rows(), exportPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "entity kind to read")
	cmd.Flags().StringVar(&gql, "gql", "", "GQL query string (mutually exclusive with --kind)")
	cmd.Flags().StringVar(&exportPath, "export", "", "write results to a Parquet file at this path instead of stdout")
	cmd.Flags().StringVar(&exportColumns, "export-columns", "", "comma-separated string property names to include in the Parquet export")
	return cmd
}

func newUpsertCmd(endpoint, projectID, databaseID, namespace *string) *cobra.Command {
	var kind, name string
	var id int64
	var props []string

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Upsert one entity from string-valued key=value properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "" || (name == "" && id == 0) {
				return fmt.Errorf("hkvctl: --kind and one of --name/--id are required")
			}
			ctx := cmd.Context()
			cli, cfg, err := dialAndConfig(ctx, *endpoint, *projectID, *databaseID, *namespace)
			if err != nil {
				return err
			}
			defer cli.Close()

			entity := &hkvpb.Entity{
				Key:        entityKey(cfg, kind, name, id),
				Properties: propertiesFrom(props),
			}

			var upserted bool
			engine := connector.Upsert[*hkvpb.Entity, struct{}](cli, cfg, func(writer.WriteSuccessSummary[struct{}]) { upserted = true }, func(e *hkvpb.Entity) (*hkvpb.Entity, error) {
				return e, nil
			})
			if err := engine.ProcessElement(ctx, entity, struct{}{}); err != nil {
				return err
			}
			if err := engine.FinishBundle(ctx); err != nil {
				return err
			}
			if upserted {
				fmt.Println("upserted 1 entity")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "entity kind")
	cmd.Flags().StringVar(&name, "name", "", "entity key name")
	cmd.Flags().Int64Var(&id, "id", 0, "entity key numeric id (alternative to --name)")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "a string property as key=value; may be repeated")
	return cmd
}

func newDeleteCmd(endpoint, projectID, databaseID, namespace *string) *cobra.Command {
	var kind, name string
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one entity by key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind == "" || (name == "" && id == 0) {
				return fmt.Errorf("hkvctl: --kind and one of --name/--id are required")
			}
			ctx := cmd.Context()
			cli, cfg, err := dialAndConfig(ctx, *endpoint, *projectID, *databaseID, *namespace)
			if err != nil {
				return err
			}
			defer cli.Close()

			key := entityKey(cfg, kind, name, id)
			var deleted bool
			engine := connector.DeleteByKey[*hkvpb.Key, struct{}](cli, cfg, func(writer.WriteSuccessSummary[struct{}]) { deleted = true }, func(k *hkvpb.Key) (*hkvpb.Key, error) {
				return k, nil
			})
			if err := engine.ProcessElement(ctx, key, struct{}{}); err != nil {
				return err
			}
			if err := engine.FinishBundle(ctx); err != nil {
				return err
			}
			if deleted {
				fmt.Println("deleted 1 entity")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "entity kind")
	cmd.Flags().StringVar(&name, "name", "", "entity key name")
	cmd.Flags().Int64Var(&id, "id", 0, "entity key numeric id (alternative to --name)")
	return cmd
}

func entityKey(cfg *config.Config, kind, name string, id int64) *hkvpb.Key {
	var namespaceID *string
	if cfg.Namespace != "" {
		namespaceID = &cfg.Namespace
	}
	elem := &hkvpb.PathElement{Kind: kind}
	if name != "" {
		elem.Name = name
	} else {
		elem.Id = id
	}
	return &hkvpb.Key{
		PartitionId: &hkvpb.PartitionId{ProjectId: cfg.ProjectID, DatabaseId: cfg.DatabaseID, NamespaceId: namespaceID},
		Path:        []*hkvpb.PathElement{elem},
	}
}

func propertiesFrom(props []string) map[string]*hkvpb.Value {
	out := make(map[string]*hkvpb.Value, len(props))
	for _, p := range props {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		val := v
		out[k] = &hkvpb.Value{StringValue: &val}
	}
	return out
}

func exportFieldsFrom(columns string) []export.Field {
	if columns == "" {
		return nil
	}
	names := strings.Split(columns, ",")
	fields := make([]export.Field, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		fields = append(fields, export.Field{Name: n, Type: export.FieldString})
	}
	return fields
}

func describeEntity(e *hkvpb.Entity) string {
	k := keys.Key{}
	if e.Key != nil {
		for _, el := range e.Key.Path {
			k.Path = append(k.Path, keys.PathElement{Kind: el.Kind, ID: el.Id, Name: el.Name})
		}
	}
	return fmt.Sprintf("%s (%d properties)", k.Encode(), len(e.Properties))
}
