// Package config loads .jsonld-lint.yaml files.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/reoring/jsonldlint"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".jsonld-lint.yaml"

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://jsonld-lint.dev/schemas/config.json"

// Config is the CLI and language server configuration.
type Config struct {
	FileExtension string            `yaml:"fileExtension,omitempty"`
	Recursive     bool              `yaml:"recursive,omitempty"`
	Rules         []string          `yaml:"rules,omitempty"`
	Contexts      map[string]string `yaml:"contexts,omitempty"`
	CacheSize     int               `yaml:"cacheSize,omitempty"`
	Concurrency   int               `yaml:"concurrency,omitempty"`

	// dir is the directory relative context paths are resolved against.
	dir string
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		FileExtension: ".jsonld",
		Rules:         []string{"unrecognized-jsonld-keyword", "unmapped-term"},
		CacheSize:     jsonldlint.DefaultCacheSize,
		Concurrency:   runtime.NumCPU(),
	}
}

// Load reads path. An empty path looks for FileName in dir and falls back
// to Default when it does not exist.
func Load(path, dir string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.dir = dir
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes and validates a YAML configuration, filling defaults for
// omitted keys.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if raw != nil {
		if err := validate(raw); err != nil {
			return nil, err
		}
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func validate(raw any) error {
	compiler := jsonschema.NewCompiler()
	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	// Round-trip through JSON so YAML maps and integers take the shapes the
	// validator expects.
	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(b, &normalized); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LintRules maps the configured short rule names to lint rules.
func (c *Config) LintRules() ([]jsonldlint.LintRule, error) {
	rules := make([]jsonldlint.LintRule, 0, len(c.Rules))
	for _, name := range c.Rules {
		r, err := ParseRule(name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// ParseRule accepts a short rule name ("unmapped-term") or a full
// identifier ("jsonld-lint/unmapped-term").
func ParseRule(name string) (jsonldlint.LintRule, error) {
	full := name
	if !strings.HasPrefix(full, "jsonld-lint/") {
		full = "jsonld-lint/" + name
	}
	for _, r := range []jsonldlint.LintRule{jsonldlint.UnrecognizedJsonLdKeyword, jsonldlint.UnmappedTerm} {
		if string(r) == full {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown lint rule %q", name)
}

// Resolver builds the shared context resolver, preloading every configured
// local context file.
func (c *Config) Resolver() (*jsonldlint.CachingResolver, error) {
	opts := []jsonldlint.ResolverOption{jsonldlint.WithCacheSize(c.CacheSize)}
	for ref, file := range c.Contexts {
		if !filepath.IsAbs(file) && c.dir != "" {
			file = filepath.Join(c.dir, file)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("context %s: %w", ref, err)
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("context %s: %s is not JSON: %w", ref, file, err)
		}
		opts = append(opts, jsonldlint.WithPreloadedContext(ref, doc))
	}
	return jsonldlint.NewContextResolver(opts...), nil
}

// Options returns the processing options for this configuration.
func (c *Config) Options(resolver jsonldlint.ContextResolver) ([]jsonldlint.Option, error) {
	rules, err := c.LintRules()
	if err != nil {
		return nil, err
	}
	return []jsonldlint.Option{
		jsonldlint.WithLintingRules(rules...),
		jsonldlint.WithContextResolver(resolver),
	}, nil
}
