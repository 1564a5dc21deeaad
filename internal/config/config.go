// Package config loads rpipipe settings.
// Precedence, lowest first: Defaults, YAML file, environment, CLI flags
// (applied by the commands).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gaurav-prasanna/rpipipe/core/route"
	"github.com/gaurav-prasanna/rpipipe/core/transform"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Sink kinds.
const (
	SinkMongo = "mongo"
	SinkFile  = "file"
)

// Environment variables read by ApplyEnv.
const (
	EnvMongoURI      = "RPIPIPE_MONGO_URI"
	EnvMongoDatabase = "RPIPIPE_MONGO_DATABASE"
	EnvWorkDir       = "RPIPIPE_WORK_DIR"
	EnvLogLevel      = "RPIPIPE_LOG_LEVEL"
	EnvSink          = "RPIPIPE_SINK"
)

type Config struct {
	WorkDir     string            `yaml:"work_dir"`
	KeepWorkDir bool              `yaml:"keep_work_dir"`
	Source      Source            `yaml:"source"`
	Sink        Sink              `yaml:"sink"`
	Collections map[string]string `yaml:"collections"`
	Log         Log               `yaml:"log"`
}

type Source struct {
	IndexURL   string        `yaml:"index_url"`
	ArchiveURL string        `yaml:"archive_url"`
	Types      []string      `yaml:"types"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Sink struct {
	Kind  string    `yaml:"kind"`
	Mongo MongoSink `yaml:"mongo"`
	File  FileSink  `yaml:"file"`
}

// MongoSink holds the database settings. URI carries credentials and is
// expected from the environment rather than the file.
type MongoSink struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type FileSink struct {
	Dir string `yaml:"dir"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns a Config with safe defaults. The sink URI has none.
func Defaults() Config {
	collections := make(map[string]string, len(route.DefaultCollections))
	for code, name := range route.DefaultCollections {
		collections[code] = name
	}
	types := make([]string, 0, len(transform.Types()))
	for _, t := range transform.Types() {
		types = append(types, t.Code())
	}
	return Config{
		WorkDir: "data",
		Source: Source{
			IndexURL:   "http://revistas.inpi.gov.br/rpi/",
			ArchiveURL: "http://revistas.inpi.gov.br/txt/",
			Types:      types,
			Timeout:    5 * time.Minute,
		},
		Sink: Sink{
			Kind:  SinkMongo,
			Mongo: MongoSink{Database: "DB_MAGAZINE"},
			File:  FileSink{Dir: "out"},
		},
		Collections: collections,
		Log:         Log{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path over Defaults. Unknown keys are
// rejected. An empty path returns Defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes raw YAML over Defaults.
func Parse(raw []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment settings read through getenv.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if v := getenv(EnvMongoURI); v != "" {
		cfg.Sink.Mongo.URI = v
	}
	if v := getenv(EnvMongoDatabase); v != "" {
		cfg.Sink.Mongo.Database = v
	}
	if v := getenv(EnvWorkDir); v != "" {
		cfg.WorkDir = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvSink); v != "" {
		cfg.Sink.Kind = v
	}
	return cfg
}

// Validate checks the settings the pipeline depends on.
func (c Config) Validate() error {
	switch c.Sink.Kind {
	case SinkMongo:
		if c.Sink.Mongo.URI == "" {
			return fmt.Errorf("%w: mongo sink needs a URI (set %s)", ErrInvalid, EnvMongoURI)
		}
		if c.Sink.Mongo.Database == "" {
			return fmt.Errorf("%w: mongo sink needs a database", ErrInvalid)
		}
	case SinkFile:
		if c.Sink.File.Dir == "" {
			return fmt.Errorf("%w: file sink needs a directory", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown sink kind %q", ErrInvalid, c.Sink.Kind)
	}
	for code, name := range c.Collections {
		if _, ok := transform.ParseCode(code); !ok {
			return fmt.Errorf("%w: unknown type code %q in collections", ErrInvalid, code)
		}
		if name == "" {
			return fmt.Errorf("%w: empty collection name for %s", ErrInvalid, code)
		}
	}
	for _, code := range c.Source.Types {
		if _, ok := transform.ParseCode(code); !ok {
			return fmt.Errorf("%w: unknown type code %q in source.types", ErrInvalid, code)
		}
	}
	if c.WorkDir == "" {
		return fmt.Errorf("%w: work_dir is empty", ErrInvalid)
	}
	return nil
}
