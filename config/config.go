// Package config resolves the LiteAPI client configuration.
//
// Sources are layered with the following priority:
//  1. Explicit overrides applied with Config.Merge (highest priority)
//  2. Environment variables prefixed with LITEAPI_
//  3. YAML files or raw YAML documents passed to Load
//  4. Built-in defaults from Default (lowest priority)
//
// Nothing in this package keeps process-wide state; every Load call builds a
// fresh value.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// LoadOption customizes Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	files   []string
	docs    [][]byte
	environ func() []string
}

// WithFile adds a YAML file source. The file must exist.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.files = append(o.files, path)
		}
	}
}

// WithYAML adds an in-memory YAML document, applied after files.
func WithYAML(doc []byte) LoadOption {
	return func(o *loadOptions) {
		o.docs = append(o.docs, doc)
	}
}

// WithEnviron replaces os.Environ as the source of environment variables.
func WithEnviron(environ func() []string) LoadOption {
	return func(o *loadOptions) {
		o.environ = environ
	}
}

// Load builds a Config from defaults, YAML sources and the environment.
// The result is not validated; the client validates after applying overrides.
func Load(opts ...LoadOption) (Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	for _, path := range o.files {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	for i, doc := range o.docs {
		if err := k.Load(rawbytes.Provider(doc), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to parse yaml document %d: %w", i, err)
		}
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   o.environ,
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// sections lists the nested koanf sections reachable from environment names,
// e.g. LITEAPI_RETRY_MAX_INTERVAL -> retry.max_interval.
var sections = []string{"retry", "log"}

// envKey maps LITEAPI_BOOK_BASE_URL to book_base_url. Empty values are skipped
// so an exported-but-blank variable does not erase a default.
func envKey(k, v string) (string, any) {
	if v == "" {
		return "", nil
	}
	key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest, v
		}
	}
	return key, v
}

func loadDefaults(k *koanf.Koanf) error {
	d := Default()
	defaults := map[string]any{
		"base_url":           d.BaseURL,
		"book_base_url":      d.BookBaseURL,
		"dashboard_base_url": d.DashboardBaseURL,
		"timeout":            d.Timeout.String(),
		"open_timeout":       d.OpenTimeout.String(),
		"max_retries":        d.MaxRetries,

		"retry.interval":       d.Retry.Interval.String(),
		"retry.backoff_factor": d.Retry.BackoffFactor,
		"retry.randomness":     d.Retry.Randomness,
		"retry.max_interval":   d.Retry.MaxInterval.String(),
		"retry.network_errors": d.Retry.NetworkErrors,

		"log.level":             d.Log.Level,
		"log.pretty":            d.Log.Pretty,
		"log.payloads":          d.Log.Payloads,
		"log.max_payload_bytes": d.Log.MaxPayloadBytes,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
