package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/maastricht-university/edmo-diareval/assignment"
	"github.com/maastricht-university/edmo-diareval/interval"
)

// EnvPrefix prefixes every environment override, e.g. EDMO_EVAL_PATHS_REFERENCE.
const EnvPrefix = "EDMO_EVAL"

type Service struct {
	URL        string `mapstructure:"url" yaml:"url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}
type Services struct {
	Diarization Service `mapstructure:"diarization" yaml:"diarization"`
}
type Evaluation struct {
	MergeEpsilon float64 `mapstructure:"merge_epsilon" yaml:"merge_epsilon"`
	TieEpsilon   float64 `mapstructure:"tie_epsilon" yaml:"tie_epsilon"`
	Workers      int     `mapstructure:"workers" yaml:"workers"`
}
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}
type Report struct {
	Format string `mapstructure:"format" yaml:"format"`
}
type Paths struct {
	Reference string `mapstructure:"reference" yaml:"reference"`
	Tests     string `mapstructure:"tests" yaml:"tests"`
	Audio     string `mapstructure:"audio" yaml:"audio"`
	Outputs   string `mapstructure:"outputs" yaml:"outputs"`
}
type Root struct {
	Log        Log        `mapstructure:"log" yaml:"log"`
	Paths      Paths      `mapstructure:"paths" yaml:"paths"`
	Evaluation Evaluation `mapstructure:"evaluation" yaml:"evaluation"`
	Report     Report     `mapstructure:"report" yaml:"report"`
	Services   Services   `mapstructure:"services" yaml:"services"`
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("paths.reference", filepath.Join("audio", "all_reference.json"))
	v.SetDefault("paths.tests", "audio")
	v.SetDefault("paths.audio", "audio")
	v.SetDefault("paths.outputs", "")
	v.SetDefault("evaluation.merge_epsilon", interval.DefaultMergeEpsilon)
	v.SetDefault("evaluation.tie_epsilon", assignment.DefaultTieEpsilon)
	v.SetDefault("evaluation.workers", 4)
	v.SetDefault("report.format", "text")
	v.SetDefault("services.diarization.url", "")
	v.SetDefault("services.diarization.timeout_sec", 600)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (explicit path, or the first guess that exists),
// applies defaults/env/flags held by v and validates the result.
func Load(v *viper.Viper, path string) (*Root, error) {
	if path == "" {
		path = guess()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func guess() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	for _, p := range []string{
		filepath.Join("config", env, "config.yaml"),
		"edmo-eval.yaml",
	} {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

func (c *Root) Validate() error {
	if c.Paths.Reference == "" {
		return errors.New("paths.reference is required")
	}
	if c.Evaluation.MergeEpsilon < 0 {
		return fmt.Errorf("evaluation.merge_epsilon must be >= 0, got %g", c.Evaluation.MergeEpsilon)
	}
	if c.Evaluation.TieEpsilon < 0 {
		return fmt.Errorf("evaluation.tie_epsilon must be >= 0, got %g", c.Evaluation.TieEpsilon)
	}
	if c.Evaluation.Workers <= 0 {
		return fmt.Errorf("evaluation.workers must be > 0, got %d", c.Evaluation.Workers)
	}
	switch c.Report.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("report.format must be text, json or yaml, got %q", c.Report.Format)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }
