// Package config loads matgraph project settings.
//
// A project file fixes the target shader model, the generated entry point,
// logging and a shared resource layout. Every graph compiled with the same
// file gets the same registers for the same resource names:
//
//	shader_model: "5_1"
//	entry_point: main
//	inline_single_use: true
//	log:
//	  level: info
//	  format: text
//	slots:
//	  textures:
//	    albedo: 0
//	    normal: 1
//	  samplers:
//	    albedoSampler: 0
//	compile:
//	  jobs: 4
//	  debounce: 250ms
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/matgraph/hlsl"
)

// Config is a project configuration file.
type Config struct {
	ShaderModel string `yaml:"shader_model" validate:"omitempty,oneof=5_0 5_1 6_0 6_1 6_2"`
	EntryPoint  string `yaml:"entry_point" validate:"omitempty,identifier"`

	// InlineSingleUse is a pointer so an absent key keeps the default.
	InlineSingleUse *bool `yaml:"inline_single_use,omitempty"`

	// Space is the register space of every resource (SM 5.1 and later).
	Space uint8 `yaml:"space,omitempty"`

	Log LogConfig `yaml:"log"`

	// Slots maps a resource category to register hints by resource name.
	Slots map[string]map[string]uint32 `yaml:"slots,omitempty" validate:"dive,keys,oneof=constant_buffers textures samplers uavs,endkeys"`

	Compile CompileConfig `yaml:"compile"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// CompileConfig holds command line defaults.
type CompileConfig struct {
	// Jobs bounds the number of graphs compiled at once.
	Jobs int `yaml:"jobs" validate:"omitempty,min=1,max=256"`

	// Debounce is the quiet period watch waits for before recompiling.
	Debounce time.Duration `yaml:"debounce"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("identifier", validateIdentifier)
}

// validateIdentifier accepts names that are usable as-is as an HLSL
// function name.
func validateIdentifier(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return hlsl.Sanitize(s) == s && !hlsl.IsReserved(s)
}

// Default returns the configuration matching hlsl.DefaultOptions.
func Default() *Config {
	inline := true
	return &Config{
		ShaderModel:     "5_1",
		EntryPoint:      hlsl.DefaultEntryPoint,
		InlineSingleUse: &inline,
		Log:             LogConfig{Level: "info", Format: "text"},
		Compile:         CompileConfig{Jobs: 4, Debounce: 250 * time.Millisecond},
	}
}

// Load reads the project file at path. Keys absent from the file keep
// their Default values; unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a project file.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %v (%s)", fe.Namespace(), fe.Value(), fe.Tag()))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// HLSLOptions converts the configuration into generator options.
func (c *Config) HLSLOptions() (*hlsl.Options, error) {
	opts := hlsl.DefaultOptions()
	sm, err := hlsl.ParseShaderModel(c.ShaderModel)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	opts.ShaderModel = sm
	if c.EntryPoint != "" {
		opts.EntryPoint = c.EntryPoint
	}
	if c.InlineSingleUse != nil {
		opts.InlineSingleUse = *c.InlineSingleUse
	}
	opts.Space = c.Space
	for category, names := range c.Slots {
		cat, err := hlsl.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("config: slots: %w", err)
		}
		for name, reg := range names {
			opts.SlotHints[hlsl.ResourceKey{Category: cat, Name: name}] = reg
		}
	}
	return opts, nil
}

// Level returns the configured slog level. Unknown values read as Info.
func (c *Config) Level() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger returns a logger writing to w with the configured level and
// format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: c.Level()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
