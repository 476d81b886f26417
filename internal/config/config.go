package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const (
	// EnvPrefix namespaces every environment variable, e.g. GPR_PROCESSING_WORKERS
	EnvPrefix = "GPR"
	// ConfigFileEnv names an explicit YAML config file
	ConfigFileEnv = "GPR_CONFIG"
	// DefaultConfigFile is looked up in the working directory when GPR_CONFIG is unset
	DefaultConfigFile = "gprfilter.yaml"
)

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output stdout"`
}

// ProcessingConfig controls the batch run
type ProcessingConfig struct {
	Workers        int        `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=256"`
	DefaultRecipes RecipeList `yaml:"default_recipes" envconfig:"DEFAULT_RECIPES" validate:"dive,required"`
	InputDir       string     `yaml:"input_dir" envconfig:"INPUT_DIR"`
	OutputDir      string     `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	ReportPath     string     `yaml:"report_path" envconfig:"REPORT_PATH"`
}

// RecipeList holds recipe commands as configured. A YAML entry is either a
// command line ("mult 3.5") or a sequence of name and parameters
// ([mult, 3.5]).
type RecipeList []any

// Lines builds a RecipeList of command lines
func Lines(lines ...string) RecipeList {
	l := make(RecipeList, 0, len(lines))
	for _, line := range lines {
		l = append(l, line)
	}
	return l
}

// Decode reads the environment form: command lines separated by commas
func (l *RecipeList) Decode(value string) error {
	*l = Lines(strings.Split(value, ",")...)
	return nil
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	Enabled        bool    `yaml:"enabled" envconfig:"ENABLED"`
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, then the YAML file named by
// GPR_CONFIG (or gprfilter.yaml if present), then GPR_* environment
// variables, and validates the result
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg. Keys absent
// from the file keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	if c.Logging.Output == "console" {
		c.Logging.Output = "stdout"
	}
	recipes := c.Processing.DefaultRecipes[:0]
	for _, r := range c.Processing.DefaultRecipes {
		if line, ok := r.(string); ok {
			if line = strings.TrimSpace(line); line == "" {
				continue
			}
			r = line
		}
		recipes = append(recipes, r)
	}
	c.Processing.DefaultRecipes = recipes
}

// Validate checks the struct constraints
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// ReportPathOrDefault returns the report path, defaulting to
// report.xlsx in the output directory
func (c *Config) ReportPathOrDefault() string {
	if c.Processing.ReportPath != "" {
		return c.Processing.ReportPath
	}
	if c.Processing.OutputDir == "" {
		return ""
	}
	return filepath.Join(c.Processing.OutputDir, "report.xlsx")
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Use YAML key names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/gprfilter.log",
		},
		Processing: ProcessingConfig{
			Workers: 4,
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			ServiceName:    "gprfilter",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
