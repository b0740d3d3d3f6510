// Package config loads meclust settings from defaults, a YAML file,
// MECLUST_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"meclust/internal/align"
	"meclust/internal/cluster"
	"meclust/internal/samio"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "MECLUST"

// Config represents the complete meclust configuration
type Config struct {
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster"`
	Input   InputConfig   `mapstructure:"input" yaml:"input"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ClusterConfig controls admission and emission
type ClusterConfig struct {
	// Window is the search area in bases past the last member's start
	Window int `mapstructure:"window" yaml:"window" validate:"gte=0"`
	// Split clusters ignore strand when admitting reads
	Split bool `mapstructure:"split" yaml:"split"`
	// AssumeSorted must hold for cluster starts to be defined
	AssumeSorted bool `mapstructure:"assume_sorted" yaml:"assume_sorted"`
	// MinReads drops clusters with fewer members (default: 1)
	MinReads int `mapstructure:"min_reads" yaml:"min_reads" validate:"gte=1"`
	// NamePrefix is followed by a run-wide ordinal in emitted names
	NamePrefix string `mapstructure:"name_prefix" yaml:"name_prefix" validate:"required"`

	UniquePrefix   string `mapstructure:"unique_prefix" yaml:"unique_prefix" validate:"required"`
	MultiplePrefix string `mapstructure:"multiple_prefix" yaml:"multiple_prefix" validate:"required"`
	UnmappedPrefix string `mapstructure:"unmapped_prefix" yaml:"unmapped_prefix" validate:"required"`
}

// InputConfig names the aux tags read from each alignment
type InputConfig struct {
	MobileTag string `mapstructure:"mobile_tag" yaml:"mobile_tag" validate:"len=2,alphanum"`
	SampleTag string `mapstructure:"sample_tag" yaml:"sample_tag" validate:"len=2,alphanum"`
}

// OutputConfig controls where and how summaries are written
type OutputConfig struct {
	// Path is the destination; "-" is stdout. A ".sz" suffix enables snappy.
	Path string `mapstructure:"path" yaml:"path"`
	// Format is one of sam, bam, jsonl, json, text. Empty means infer from Path, else sam.
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=sam bam jsonl json text"`
	Sort   bool   `mapstructure:"sort" yaml:"sort"`
	Header bool   `mapstructure:"header" yaml:"header"`
}

// LoggingConfig controls diagnostics
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=DEBUG INFO WARN ERROR"`
	// File receives JSON log lines; empty means stderr
	File string `mapstructure:"file" yaml:"file"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	// Addr serves /metrics while the run is active; empty disables it
	Addr string `mapstructure:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cluster: ClusterConfig{
			Window:         500,
			AssumeSorted:   true,
			MinReads:       1,
			NamePrefix:     "cluster_",
			UniquePrefix:   align.DefaultClasses.Unique,
			MultiplePrefix: align.DefaultClasses.Multiple,
			UnmappedPrefix: align.DefaultClasses.Unmapped,
		},
		Input: InputConfig{
			MobileTag: samio.DefaultTags.Mobile,
			SampleTag: samio.DefaultTags.Sample,
		},
		Output: OutputConfig{
			Path: "-",
		},
		Logging: LoggingConfig{
			Level: "WARN",
		},
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("cluster.window", d.Cluster.Window)
	v.SetDefault("cluster.split", d.Cluster.Split)
	v.SetDefault("cluster.assume_sorted", d.Cluster.AssumeSorted)
	v.SetDefault("cluster.min_reads", d.Cluster.MinReads)
	v.SetDefault("cluster.name_prefix", d.Cluster.NamePrefix)
	v.SetDefault("cluster.unique_prefix", d.Cluster.UniquePrefix)
	v.SetDefault("cluster.multiple_prefix", d.Cluster.MultiplePrefix)
	v.SetDefault("cluster.unmapped_prefix", d.Cluster.UnmappedPrefix)

	v.SetDefault("input.mobile_tag", d.Input.MobileTag)
	v.SetDefault("input.sample_tag", d.Input.SampleTag)

	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.sort", d.Output.Sort)
	v.SetDefault("output.header", d.Output.Header)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)

	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// NewViper returns a viper instance with defaults, env binding and the
// config file search path installed. path overrides the search.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("meclust")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "meclust"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	// MECLUST_CLUSTER_MIN_READS for cluster.min_reads
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads the config file if there is one. An explicit path must exist.
func ReadFile(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

// Load decodes and validates v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.Logging.Level = strings.ToUpper(c.Logging.Level)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ClusterSettings converts the settings into the cluster package's form.
func (c *Config) ClusterSettings() cluster.Config {
	return cluster.Config{
		Split:        c.Cluster.Split,
		AssumeSorted: c.Cluster.AssumeSorted,
		Classes: align.Classes{
			Unique:   c.Cluster.UniquePrefix,
			Multiple: c.Cluster.MultiplePrefix,
			Unmapped: c.Cluster.UnmappedPrefix,
		},
	}
}

// Tags returns the input aux tags.
func (c *Config) Tags() samio.Tags {
	return samio.Tags{Mobile: c.Input.MobileTag, Sample: c.Input.SampleTag}
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}
