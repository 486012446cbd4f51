package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-fileprobe/internal/logger"
)

// EnvPrefix is the prefix for environment overrides, e.g. FILEPROBE_DIGEST_WORKERS.
const EnvPrefix = "FILEPROBE"

// Config holds engine and CLI settings
type Config struct {
	Scan       ScanConfig       `mapstructure:"scan" json:"scan" yaml:"scan"`
	Digest     DigestConfig     `mapstructure:"digest" json:"digest" yaml:"digest"`
	Classifier ClassifierConfig `mapstructure:"classifier" json:"classifier" yaml:"classifier"`
	Output     OutputConfig     `mapstructure:"output" json:"output" yaml:"output"`
	Log        logger.Config    `mapstructure:"log" json:"log" yaml:"log"`
}

// ScanConfig holds directory scan defaults
type ScanConfig struct {
	Recursive bool `mapstructure:"recursive" json:"recursive" yaml:"recursive"`
	// MaxDepth of 0 means unlimited.
	MaxDepth int `mapstructure:"max_depth" json:"max_depth" yaml:"max_depth"`
}

// DigestConfig holds hashing settings
type DigestConfig struct {
	ChunkSize int `mapstructure:"chunk_size" json:"chunk_size" yaml:"chunk_size"`
	Workers   int `mapstructure:"workers" json:"workers" yaml:"workers"`
}

// ClassifierConfig holds type classification settings
type ClassifierConfig struct {
	AppArchiveExtensions []string `mapstructure:"app_archive_extensions" json:"app_archive_extensions" yaml:"app_archive_extensions"`
}

// OutputConfig holds report rendering settings
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format" yaml:"format"`
}

// DefaultConfigPaths returns the directories searched for fileprobe.yaml
func DefaultConfigPaths() []string {
	return []string{
		".",
		"./config",
		"$HOME/.fileprobe",
		"/etc/fileprobe",
	}
}

// setDefaults registers a default for every key so environment overrides bind
func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.recursive", false)
	v.SetDefault("scan.max_depth", 64)
	v.SetDefault("digest.chunk_size", 8192)
	v.SetDefault("digest.workers", runtime.NumCPU())
	v.SetDefault("classifier.app_archive_extensions", []string{"ipa"})
	v.SetDefault("output.format", "table")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
}

// Default returns the built-in configuration
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from the OS filesystem. See LoadFs.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads configuration from fs. An explicit path must exist; without one the
// default search paths are tried and a missing file is not an error.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fileprobe")
		v.SetConfigType("yaml")
		for _, p := range DefaultConfigPaths() {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that settings are usable
func (c *Config) Validate() error {
	if c.Scan.MaxDepth < 0 {
		return fmt.Errorf("scan.max_depth must be >= 0, got %d", c.Scan.MaxDepth)
	}
	if c.Digest.ChunkSize < 1 {
		return fmt.Errorf("digest.chunk_size must be positive, got %d", c.Digest.ChunkSize)
	}
	if c.Digest.Workers < 1 {
		return fmt.Errorf("digest.workers must be positive, got %d", c.Digest.Workers)
	}
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if !logger.ValidFormat(c.Log.Format) {
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	return nil
}
