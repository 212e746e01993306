package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/eduprobe-cli/internal/features"
	"github.com/KaramelBytes/eduprobe-cli/internal/ingest"
)

// EnvPrefix namespaces environment overrides, e.g. EDUPROBE_OUTPUT_DIR.
const EnvPrefix = "EDUPROBE"

// Global configuration structure.
type Global struct {
	// Columns lists the header columns a run requires; empty means no check.
	Columns  []string `mapstructure:"columns" yaml:"columns"`
	NATokens []string `mapstructure:"na_tokens" yaml:"na_tokens"`

	OutlierZScoreThreshold float64 `mapstructure:"outlier_zscore_threshold" yaml:"outlier_zscore_threshold"`
	NumericShareThreshold  float64 `mapstructure:"numeric_share_threshold" yaml:"numeric_share_threshold"`

	KeyColumn     string   `mapstructure:"key_column" yaml:"key_column"`
	GroupBy       []string `mapstructure:"group_by" yaml:"group_by"`
	BucketColumns []string `mapstructure:"bucket_columns" yaml:"bucket_columns"`
	Metrics       []string `mapstructure:"metrics" yaml:"metrics"`
	GradeScheme   string   `mapstructure:"grade_scheme" yaml:"grade_scheme"`

	MinSampleSize        int `mapstructure:"min_sample_size" yaml:"min_sample_size"`
	MinGroupSupport      int `mapstructure:"min_group_support" yaml:"min_group_support"`
	CategoricalMinUnique int `mapstructure:"categorical_min_unique" yaml:"categorical_min_unique"`
	CategoricalMaxUnique int `mapstructure:"categorical_max_unique" yaml:"categorical_max_unique"`
	SampleRows           int `mapstructure:"sample_rows" yaml:"sample_rows"`

	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	XLSXReport bool   `mapstructure:"xlsx_report" yaml:"xlsx_report"`
}

var defaults = map[string]any{
	"columns":                  []string{},
	"na_tokens":                append([]string(nil), ingest.DefaultNATokens...),
	"outlier_zscore_threshold": 2.5,
	"numeric_share_threshold":  0.80,
	"key_column":               "",
	"group_by":                 []string{"Gender", "LearningStyle"},
	"bucket_columns":           []string{"ExamScore", "FinalGrade", "StudyHours"},
	"metrics":                  []string{"ExamScore", "FinalGrade", "StudyHours", "StressLevel"},
	"grade_scheme":             string(features.SchemePercent),
	"min_sample_size":          5,
	"min_group_support":        5,
	"categorical_min_unique":   2,
	"categorical_max_unique":   200,
	"sample_rows":              10,
	"output_dir":               "eda_out",
	"log_level":                "info",
	"log_file":                 "",
	"xlsx_report":              false,
}

// Default returns the built-in configuration, ignoring files and environment.
func Default() *Global {
	c, err := decode(newViper(false))
	if err != nil {
		panic(err) // defaults always decode
	}
	return c
}

func newViper(env bool) *viper.Viper {
	v := viper.New()
	if env {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func decode(v *viper.Viper) (*Global, error) {
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// DefaultPath is ~/.eduprobe/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".eduprobe", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.eduprobe/config.yaml, creating the directory if necessary.
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
// Precedence: env > config file > defaults; CLI flags are applied by the caller.
// A .env file in the working directory is read first and never overrides
// variables already set in the process environment.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	v := newViper(true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return decode(v)
}

// Validate rejects settings no run could use.
func (c *Global) Validate() error {
	var problems []string
	if c.OutlierZScoreThreshold <= 0 {
		problems = append(problems, fmt.Sprintf("outlier_zscore_threshold must be > 0 (got %v)", c.OutlierZScoreThreshold))
	}
	if c.NumericShareThreshold <= 0 || c.NumericShareThreshold > 1 {
		problems = append(problems, fmt.Sprintf("numeric_share_threshold must be in (0, 1] (got %v)", c.NumericShareThreshold))
	}
	if c.MinSampleSize < 1 {
		problems = append(problems, "min_sample_size must be >= 1")
	}
	if c.MinGroupSupport < 1 {
		problems = append(problems, "min_group_support must be >= 1")
	}
	if c.CategoricalMinUnique < 1 || c.CategoricalMaxUnique < c.CategoricalMinUnique {
		problems = append(problems, fmt.Sprintf("categorical unique bounds [%d, %d] are invalid", c.CategoricalMinUnique, c.CategoricalMaxUnique))
	}
	if c.SampleRows < 0 {
		problems = append(problems, "sample_rows must be >= 0")
	}
	if _, err := features.ParseGradeScheme(c.GradeScheme); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Keys returns the settable configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses val into the field named by key. List values are comma-separated.
func (c *Global) Set(key, val string) error {
	list := func() []string {
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	atof := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}

	var err error
	switch key {
	case "columns":
		c.Columns = list()
	case "na_tokens":
		c.NATokens = list()
	case "outlier_zscore_threshold":
		c.OutlierZScoreThreshold, err = atof()
	case "numeric_share_threshold":
		c.NumericShareThreshold, err = atof()
	case "key_column":
		c.KeyColumn = val
	case "group_by":
		c.GroupBy = list()
	case "bucket_columns":
		c.BucketColumns = list()
	case "metrics":
		c.Metrics = list()
	case "grade_scheme":
		var s features.GradeScheme
		if s, err = features.ParseGradeScheme(val); err == nil {
			c.GradeScheme = string(s)
		}
	case "min_sample_size":
		c.MinSampleSize, err = atoi()
	case "min_group_support":
		c.MinGroupSupport, err = atoi()
	case "categorical_min_unique":
		c.CategoricalMinUnique, err = atoi()
	case "categorical_max_unique":
		c.CategoricalMaxUnique, err = atoi()
	case "sample_rows":
		c.SampleRows, err = atoi()
	case "output_dir":
		c.OutputDir = val
	case "log_level":
		c.LogLevel = val
	case "log_file":
		c.LogFile = val
	case "xlsx_report":
		c.XLSXReport, err = strconv.ParseBool(val)
		if err != nil {
			err = fmt.Errorf("invalid bool for %s: %v", key, val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	return c.Validate()
}
