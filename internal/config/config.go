package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DriveConfig locates the remote dataset.
type DriveConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	FileID     string `mapstructure:"file_id" yaml:"file_id"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
}

// LocalConfig describes a local dataset copy.
type LocalConfig struct {
	Source      string `mapstructure:"source" yaml:"source"`
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// Global configuration structure.
type Global struct {
	ColumnPrefix     string  `mapstructure:"column_prefix" yaml:"column_prefix"`
	MaxCategories    int     `mapstructure:"max_categories" yaml:"max_categories"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	MaxRows          int     `mapstructure:"max_rows" yaml:"max_rows"`
	LogLevel         string  `mapstructure:"log_level" yaml:"log_level"`
	DataDir          string  `mapstructure:"data_dir" yaml:"data_dir"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	Drive DriveConfig `mapstructure:"drive" yaml:"drive"`
	Local LocalConfig `mapstructure:"local" yaml:"local"`
}

// Keys lists every settable key in display order.
var Keys = []string{
	"column_prefix", "max_categories", "outlier_threshold", "max_rows", "log_level", "data_dir",
	"http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms",
	"drive.base_url", "drive.file_id", "drive.output_path",
	"local.source", "local.destination",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("column_prefix", "col")
	v.SetDefault("max_categories", 20)
	v.SetDefault("outlier_threshold", 1.5)
	v.SetDefault("max_rows", 100000)
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "data")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Import defaults
	v.SetDefault("drive.base_url", "https://drive.google.com")
	v.SetDefault("drive.file_id", "")
	v.SetDefault("drive.output_path", filepath.Join("data", "01_raw", "dataset.csv"))
	v.SetDefault("local.source", "")
	v.SetDefault("local.destination", filepath.Join("data", "01_raw", "dataset.csv"))
}

// DefaultPath returns ~/.edakit/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edakit", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edakit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; CLI flags are applied by callers.
// A .env file in the working directory is loaded first without overriding
// variables that are already set.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("EDAKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get renders one key's value as text.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "column_prefix":
		return c.ColumnPrefix, nil
	case "max_categories":
		return strconv.Itoa(c.MaxCategories), nil
	case "outlier_threshold":
		return strconv.FormatFloat(c.OutlierThreshold, 'g', -1, 64), nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "log_level":
		return c.LogLevel, nil
	case "data_dir":
		return c.DataDir, nil
	case "http_timeout_sec":
		return strconv.Itoa(c.HTTPTimeoutSec), nil
	case "retry_max_attempts":
		return strconv.Itoa(c.RetryMaxAttempts), nil
	case "retry_base_delay_ms":
		return strconv.Itoa(c.RetryBaseDelayMs), nil
	case "retry_max_delay_ms":
		return strconv.Itoa(c.RetryMaxDelayMs), nil
	case "drive.base_url":
		return c.Drive.BaseURL, nil
	case "drive.file_id":
		return c.Drive.FileID, nil
	case "drive.output_path":
		return c.Drive.OutputPath, nil
	case "local.source":
		return c.Local.Source, nil
	case "local.destination":
		return c.Local.Destination, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val for key and stores it.
func (c *Global) Set(key, val string) error {
	nonNegInt := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "column_prefix":
		c.ColumnPrefix = val
	case "max_categories":
		c.MaxCategories, err = nonNegInt()
	case "outlier_threshold":
		f, perr := strconv.ParseFloat(val, 64)
		if perr != nil || f < 0 || math.IsNaN(f) {
			return fmt.Errorf("invalid float for outlier_threshold: %v", val)
		}
		c.OutlierThreshold = f
	case "max_rows":
		c.MaxRows, err = nonNegInt()
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "data_dir":
		c.DataDir = val
	case "http_timeout_sec":
		c.HTTPTimeoutSec, err = nonNegInt()
	case "retry_max_attempts":
		c.RetryMaxAttempts, err = nonNegInt()
	case "retry_base_delay_ms":
		c.RetryBaseDelayMs, err = nonNegInt()
	case "retry_max_delay_ms":
		c.RetryMaxDelayMs, err = nonNegInt()
	case "drive.base_url":
		c.Drive.BaseURL = val
	case "drive.file_id":
		c.Drive.FileID = val
	case "drive.output_path":
		c.Drive.OutputPath = val
	case "local.source":
		c.Local.Source = val
	case "local.destination":
		c.Local.Destination = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}
