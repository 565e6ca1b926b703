package project

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/Nareshtt/motion-dom-canvas/internal/sink"
)

// ConfigFile is the project configuration file name.
const ConfigFile = "project.yaml"

//go:embed schema.cue
var schemaSource string

// Config is the decoded project.yaml.
type Config struct {
	Name   string `yaml:"name" json:"name"`
	FPS    int    `yaml:"fps" json:"fps"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`

	// Scenes is the scene folder directory, relative to the project root.
	Scenes string `yaml:"scenes" json:"scenes"`

	// MaxDuration caps offline renders, in seconds.
	MaxDuration float64 `yaml:"max_duration" json:"max_duration"`

	// DefaultSceneDuration stands in for scenes without a usable estimate.
	DefaultSceneDuration float64 `yaml:"default_scene_duration" json:"default_scene_duration"`

	// Database is the SQLite store path, relative to the project root.
	Database string `yaml:"database,omitempty" json:"database,omitempty"`

	Sinks Sinks `yaml:"sinks,omitempty" json:"sinks,omitempty"`
}

// Sinks selects where played values are sent.
type Sinks struct {
	Log  bool             `yaml:"log,omitempty" json:"log,omitempty"`
	MQTT *sink.MQTTConfig `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
}

// DefaultConfig returns the configuration used for absent fields.
func DefaultConfig() Config {
	return Config{
		Name:                 "motion",
		FPS:                  60,
		Width:                1920,
		Height:               1080,
		Scenes:               "scenes",
		MaxDuration:          600,
		DefaultSceneDuration: 10,
		Database:             ".motion/motion.db",
	}
}

// ConfigError reports an invalid project configuration.
type ConfigError struct {
	// Path is the configuration file, when known.
	Path string
	// Field is the dotted path of the offending field, when known.
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid config")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// IsConfigError reports whether err is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// LoadConfig reads path over the defaults and validates the result. A
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

// ParseConfig decodes YAML over the defaults and validates the result.
// Unknown fields are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &ConfigError{Message: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the embedded CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := schema.Unify(ctx.Encode(c))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return configError(err)
	}
	return nil
}

// configError converts the first CUE error into a ConfigError.
func configError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ConfigError{Message: err.Error()}
	}
	first := errs[0]
	format, args := first.Msg()
	return &ConfigError{
		Field:   strings.TrimPrefix(strings.Join(first.Path(), "."), "#Config."),
		Message: fmt.Sprintf(format, args...),
	}
}
