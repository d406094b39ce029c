// Package config loads the connector's configuration surface:
// endpoint addressing, read parameters, and write/delete load-shaping
// knobs. Uses the same getEnv/getEnvInt convention as the rest of this
// module's environment-driven config, extended with a functional
// options constructor for embedders that wire the connector
// programmatically instead of through the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/nucleus/hkv-connector/pkg/hkverrors"
)

const productionEndpoint = "batch-datastore.googleapis.com"

// Config is what the connector engine consumes from its embedder.
type Config struct {
	ProjectID  string
	DatabaseID string
	Namespace  string

	// Endpoint is the Store's address. WithEndpoint (or HKV_LOCALHOST
	// in FromEnv) overrides the production default (emulator
	// development).
	Endpoint string

	// NumQuerySplits is the user override for split count; 0 means
	// "let the planner decide".
	NumQuerySplits int

	// ReadTimeMs is an optional snapshot timestamp, ms since epoch.
	ReadTimeMs *int64

	// ThrottleRampup enables the per-worker ramp-up ceiling for
	// write/delete operations. Default true.
	ThrottleRampup bool

	// HintNumWorkers divides the ramp-up budget across workers.
	// Default 500.
	HintNumWorkers int
}

// Option configures a Config constructed with New.
type Option func(*Config)

// WithDatabaseID overrides the default "" (default database).
func WithDatabaseID(id string) Option { return func(c *Config) { c.DatabaseID = id } }

// WithNamespace sets the partition's namespace.
func WithNamespace(ns string) Option { return func(c *Config) { c.Namespace = ns } }

// WithEndpoint overrides the production Store endpoint, typically with
// a local emulator's host:port.
func WithEndpoint(addr string) Option { return func(c *Config) { c.Endpoint = addr } }

// WithNumQuerySplits sets a fixed split count, bypassing estimation.
func WithNumQuerySplits(n int) Option { return func(c *Config) { c.NumQuerySplits = n } }

// WithReadTimeMs sets a snapshot read timestamp.
func WithReadTimeMs(ms int64) Option { return func(c *Config) { c.ReadTimeMs = &ms } }

// WithThrottleRampup toggles the ramp-up throttle for writes/deletes.
func WithThrottleRampup(enabled bool) Option { return func(c *Config) { c.ThrottleRampup = enabled } }

// WithHintNumWorkers sets the worker count the ramp-up budget divides by.
func WithHintNumWorkers(n int) Option { return func(c *Config) { c.HintNumWorkers = n } }

// New builds a Config for projectID, applying opts over the documented
// defaults. It returns a hkverrors.ConfigError if projectID is empty,
// so a bad configuration is surfaced synchronously at construction
// rather than on the first RPC.
func New(projectID string, opts ...Option) (*Config, error) {
	if projectID == "" {
		return nil, hkverrors.ConfigError{Reason: "projectId is required"}
	}
	c := &Config{
		ProjectID:      projectID,
		DatabaseID:     "",
		Endpoint:       productionEndpoint,
		ThrottleRampup: true,
		HintNumWorkers: 500,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.NumQuerySplits < 0 || c.NumQuerySplits > 50_000 {
		return nil, hkverrors.ConfigError{Reason: "numQuerySplits must be in [0, 50000]"}
	}
	if c.HintNumWorkers <= 0 {
		return nil, hkverrors.ConfigError{Reason: "hintNumWorkers must be positive"}
	}
	return c, nil
}

// FromEnv builds a Config from the process environment.
// HKV_PROJECT_ID is required.
func FromEnv() (*Config, error) {
	projectID := getEnv("HKV_PROJECT_ID", "")
	var opts []Option
	if db := getEnv("HKV_DATABASE_ID", ""); db != "" {
		opts = append(opts, WithDatabaseID(db))
	}
	if ns := getEnv("HKV_NAMESPACE", ""); ns != "" {
		opts = append(opts, WithNamespace(ns))
	}
	if ep := getEnv("HKV_LOCALHOST", ""); ep != "" {
		opts = append(opts, WithEndpoint(ep))
	}
	opts = append(opts,
		WithNumQuerySplits(getEnvInt("HKV_NUM_QUERY_SPLITS", 0)),
		WithThrottleRampup(getEnvBool("HKV_THROTTLE_RAMPUP", true)),
		WithHintNumWorkers(getEnvInt("HKV_HINT_NUM_WORKERS", 500)),
	)
	return New(projectID, opts...)
}

// fileConfig mirrors the subset of Config an operator can set from a
// YAML file, following the same tagged-struct-plus-yaml.Unmarshal
// pattern used for directory-of-YAML-files registries elsewhere in
// this codebase.
type fileConfig struct {
	ProjectID      string `yaml:"projectId"`
	DatabaseID     string `yaml:"databaseId"`
	Namespace      string `yaml:"namespace"`
	Endpoint       string `yaml:"endpoint"`
	NumQuerySplits int    `yaml:"numQuerySplits"`
	ThrottleRampup *bool  `yaml:"throttleRampup"`
	HintNumWorkers int    `yaml:"hintNumWorkers"`
}

// FromYAML builds a Config from a YAML document, useful for embedders
// that keep connector settings alongside their own deployment manifests
// rather than in process environment variables.
func FromYAML(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	opts := []Option{}
	if fc.DatabaseID != "" {
		opts = append(opts, WithDatabaseID(fc.DatabaseID))
	}
	if fc.Namespace != "" {
		opts = append(opts, WithNamespace(fc.Namespace))
	}
	if fc.Endpoint != "" {
		opts = append(opts, WithEndpoint(fc.Endpoint))
	}
	if fc.NumQuerySplits != 0 {
		opts = append(opts, WithNumQuerySplits(fc.NumQuerySplits))
	}
	if fc.ThrottleRampup != nil {
		opts = append(opts, WithThrottleRampup(*fc.ThrottleRampup))
	}
	if fc.HintNumWorkers != 0 {
		opts = append(opts, WithHintNumWorkers(fc.HintNumWorkers))
	}
	return New(fc.ProjectID, opts...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
