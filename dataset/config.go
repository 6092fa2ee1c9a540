package dataset

import "fmt"

// Role separates the namespaces of index and query datasets.
type Role string

const (
	RoleIndex Role = "index"
	RoleQuery Role = "query"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleIndex || r == RoleQuery }

// Config controls where datasets live and the region points are drawn from.
type Config struct {
	// Dir is the output root shared with result files.
	Dir string `yaml:"dir"`

	MinLat float64 `yaml:"minLat"`
	MaxLat float64 `yaml:"maxLat"`
	MinLon float64 `yaml:"minLon"`
	MaxLon float64 `yaml:"maxLon"`

	// Seed makes generation reproducible across machines when non-zero.
	// Reproducibility across runs does not depend on it.
	Seed uint64 `yaml:"seed"`
}

// DefaultConfig returns a config covering roughly the UK, writing under "out".
func DefaultConfig() Config {
	return Config{
		Dir:    "out",
		MinLat: 48,
		MaxLat: 58,
		MinLon: -5,
		MaxLon: 5,
	}
}

// Validate checks the generation bounds.
func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dataset: output directory is empty")
	}
	if !(c.MinLat < c.MaxLat) || c.MinLat < -90 || c.MaxLat > 90 {
		return fmt.Errorf("dataset: invalid latitude range [%v, %v)", c.MinLat, c.MaxLat)
	}
	if !(c.MinLon < c.MaxLon) || c.MinLon < -180 || c.MaxLon > 180 {
		return fmt.Errorf("dataset: invalid longitude range [%v, %v)", c.MinLon, c.MaxLon)
	}
	return nil
}
