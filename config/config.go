// Package config loads geobench settings.
//
// Settings are resolved in order, later sources overriding earlier ones:
//
//  1. built-in defaults (LoadDefaults)
//  2. a YAML file (LoadFromFile)
//  3. a .env file in the working directory, then GEOBENCH_* environment variables
//
// Example YAML:
//
//	dataset:
//	  dir: out
//	  minLat: 48
//	  maxLat: 58
//	run:
//	  backends: [bruteforce, rtree]
//	  indexSizes: [10000, 100000]
//	  radii: [1000, 10000]
//	  queryPoints: 1000
//	index:
//	  dir: out
//	log:
//	  level: info
//	  format: text
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/viant/geobench/dataset"
	"github.com/viant/geobench/geo"
	"github.com/viant/geobench/index"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnvVars.
const EnvPrefix = "GEOBENCH_"

// Config is the complete geobench configuration.
type Config struct {
	Dataset dataset.Config `yaml:"dataset"`
	Run     RunConfig      `yaml:"run"`
	Index   index.Options  `yaml:"index"`
	Log     LogConfig      `yaml:"log"`
}

// RunConfig selects the sweep and how it is executed.
type RunConfig struct {
	// Backends lists registered backend names; empty selects all of them.
	Backends    []string  `yaml:"backends"`
	IndexSizes  []int     `yaml:"indexSizes"`
	Radii       []float64 `yaml:"radii"`
	QueryPoints int       `yaml:"queryPoints"`
	Parallelism int       `yaml:"parallelism"`
	Progress    bool      `yaml:"progress"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadDefaults returns the built-in configuration.
func LoadDefaults() *Config {
	ds := dataset.DefaultConfig()
	return &Config{
		Dataset: ds,
		Run: RunConfig{
			IndexSizes:  []int{10000, 100000, 1000000, 10000000},
			Radii:       []float64{1000, 10000, 100000, 1000000},
			QueryPoints: 1000,
			Parallelism: 1,
			Progress:    true,
		},
		Index: index.Options{Dir: ds.Dir},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// LoadFromFile overlays the YAML file at path on the defaults. A missing file
// yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := LoadDefaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Load resolves the full configuration: defaults, the optional file at path,
// .env and the environment.
func Load(path string) (*Config, error) {
	cfg := LoadDefaults()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	_ = godotenv.Load(".env")
	if err := cfg.ApplyEnvVars(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvVars overrides fields with GEOBENCH_* variables that are set.
func (c *Config) ApplyEnvVars() error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	intVar := func(key string, target *int) {
		v, err := getEnvInt(key, *target)
		collect(err)
		*target = v
	}
	floatVar := func(key string, target *float64) {
		v, err := getEnvFloat(key, *target)
		collect(err)
		*target = v
	}

	// the output root moves datasets and indexes together, as --out does
	if dir := getEnv("OUTPUT_DIR", ""); dir != "" {
		c.Dataset.Dir = dir
		c.Index.Dir = dir
	}
	floatVar("MIN_LAT", &c.Dataset.MinLat)
	floatVar("MAX_LAT", &c.Dataset.MaxLat)
	floatVar("MIN_LON", &c.Dataset.MinLon)
	floatVar("MAX_LON", &c.Dataset.MaxLon)
	if v := getEnv("SEED", ""); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			collect(fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			c.Dataset.Seed = seed
		}
	}

	if v := getEnv("BACKENDS", ""); v != "" {
		c.Run.Backends = splitList(v)
	}
	if v := getEnv("INDEX_SIZES", ""); v != "" {
		sizes, err := parseInts(v)
		collect(wrapEnv("INDEX_SIZES", err))
		if err == nil {
			c.Run.IndexSizes = sizes
		}
	}
	if v := getEnv("RADII", ""); v != "" {
		radii, err := parseFloats(v)
		collect(wrapEnv("RADII", err))
		if err == nil {
			c.Run.Radii = radii
		}
	}
	intVar("QUERY_POINTS", &c.Run.QueryPoints)
	intVar("PARALLELISM", &c.Run.Parallelism)
	c.Run.Progress = getEnvBool("PROGRESS", c.Run.Progress)

	c.Index.Dir = getEnv("INDEX_DIR", c.Index.Dir)
	c.Index.InMemory = getEnvBool("IN_MEMORY", c.Index.InMemory)
	floatVar("COVER_BASE", &c.Index.CoverBase)
	intVar("GEOHASH_PRECISION", &c.Index.GeohashPrecision)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	return errors.Join(errs...)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Dataset.Validate(); err != nil {
		return err
	}
	if len(c.Run.IndexSizes) == 0 {
		return fmt.Errorf("at least one index size is required")
	}
	for _, size := range c.Run.IndexSizes {
		if size <= 0 {
			return fmt.Errorf("invalid index size: %d", size)
		}
	}
	if len(c.Run.Radii) == 0 {
		return fmt.Errorf("at least one radius is required")
	}
	for _, radius := range c.Run.Radii {
		if radius < 0 {
			return fmt.Errorf("invalid radius: %v", radius)
		}
	}
	if c.Run.QueryPoints < 0 {
		return fmt.Errorf("invalid query points: %d", c.Run.QueryPoints)
	}
	if c.Run.Parallelism < 1 {
		return fmt.Errorf("invalid parallelism: %d", c.Run.Parallelism)
	}
	for _, name := range c.Run.Backends {
		if !index.Registered(name) {
			return fmt.Errorf("%w: %q", index.ErrUnknownBackend, name)
		}
	}
	if p := c.Index.GeohashPrecision; p < 0 || p > geo.MaxGeohashPrecision {
		return fmt.Errorf("invalid geohash precision: %d", p)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	return nil
}

// SelectedBackends returns the configured backends, or every registered one.
func (c *Config) SelectedBackends() []string {
	if len(c.Run.Backends) > 0 {
		return c.Run.Backends
	}
	return index.Names()
}

func wrapEnv(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseInts(value string) ([]int, error) {
	items := splitList(value)
	out := make([]int, 0, len(items))
	for _, item := range items {
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(value string) ([]float64, error) {
	items := splitList(value)
	out := make([]float64, 0, len(items))
	for _, item := range items {
		v, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Helper functions for environment variables

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal, wrapEnv(key, err)
	}
	return i, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal, wrapEnv(key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(os.Getenv(EnvPrefix + key))
	switch val {
	case "":
		return defaultVal
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
