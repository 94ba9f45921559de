package orbitsim

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Display describes the host display bounds in pixels.
type Display struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OrbitConfig is the ellipse geometry shared by every body of a run.
type OrbitConfig struct {
	SemiMajorAxis float64 `json:"semi_major_axis"`
	SemiMinorAxis float64 `json:"semi_minor_axis"`
	FocusOffset   float64 `json:"focus_offset"`
}

// CentralConfig describes the fixed attracting body.
type CentralConfig struct {
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r IntRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Min, r.Max)
}

// PopulationConfig drives the BodyFactory.
type PopulationConfig struct {
	Count           IntRange `json:"count"`
	Mass            IntRange `json:"mass"`
	Eccentricity    IntRange `json:"eccentricity"`     // thousandths, upper bound < 1000
	PositionDivisor IntRange `json:"position_divisor"` // display bounds are divided by a draw from this range
	DistanceJitter  float64  `json:"distance_jitter"`  // upper bound of the random term added to the initial distance
}

// Config holds every parameter read once at startup. There is no reload.
type Config struct {
	Display              Display          `json:"display"`
	Orbit                OrbitConfig      `json:"orbit"`
	Central              CentralConfig    `json:"central"`
	Population           PopulationConfig `json:"population"`
	TickRate             float64          `json:"tick_rate"` // ticks per second, <= 0 runs unpaced
	Seed                 uint64           `json:"seed"`      // 0 lets the caller pick one
	PreserveAcceleration bool             `json:"preserve_acceleration"`
}

// DefaultConfig returns the reference scene.
func DefaultConfig() Config {
	return Config{
		Display: Display{Width: DefaultDisplayWidth, Height: DefaultDisplayHeight},
		Orbit: OrbitConfig{
			SemiMajorAxis: DefaultSemiMajorAxis,
			SemiMinorAxis: DefaultSemiMinorAxis,
			FocusOffset:   DefaultFocusOffset,
		},
		Central: CentralConfig{Mass: DefaultCentralMass, Radius: DefaultCentralRadius},
		Population: PopulationConfig{
			Count:           IntRange{Min: 1, Max: 5},
			Mass:            IntRange{Min: 25, Max: 50},
			Eccentricity:    IntRange{Min: 1, Max: 10},
			PositionDivisor: IntRange{Min: 2, Max: 10},
			DistanceJitter:  100,
		},
		TickRate: DefaultTickRate,
	}
}

// ParseConfig decodes a JSON document over DefaultConfig and validates the
// result. Fields missing from the document keep their default.
func ParseConfig(jsonData []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the whole configuration and returns the first
// *ConfigurationError found.
func (c *Config) Validate() error {
	if err := c.Display.Validate(); err != nil {
		return err
	}
	if err := c.Orbit.Validate(); err != nil {
		return err
	}
	if !(c.Central.Mass > 0) || math.IsInf(c.Central.Mass, 0) {
		return configErr("central.mass", ReasonNonPositive, c.Central.Mass)
	}
	if !(c.Central.Radius > 0) || math.IsInf(c.Central.Radius, 0) {
		return configErr("central.radius", ReasonNonPositive, c.Central.Radius)
	}
	if math.IsNaN(c.TickRate) || math.IsInf(c.TickRate, 0) {
		return configErr("tick_rate", ReasonNotFinite, c.TickRate)
	}
	return c.Population.Validate()
}

// Validate checks the display bounds.
func (d Display) Validate() error {
	if d.Width <= 0 {
		return configErr("display.width", ReasonNonPositive, d.Width)
	}
	if d.Height <= 0 {
		return configErr("display.height", ReasonNonPositive, d.Height)
	}
	return nil
}

// Validate checks the ellipse geometry.
func (o OrbitConfig) Validate() error {
	if !(o.SemiMajorAxis > 0) || math.IsInf(o.SemiMajorAxis, 0) {
		return configErr("orbit.semi_major_axis", ReasonNonPositive, o.SemiMajorAxis)
	}
	if !(o.SemiMinorAxis > 0) || math.IsInf(o.SemiMinorAxis, 0) {
		return configErr("orbit.semi_minor_axis", ReasonNonPositive, o.SemiMinorAxis)
	}
	if math.IsNaN(o.FocusOffset) || math.IsInf(o.FocusOffset, 0) {
		return configErr("orbit.focus_offset", ReasonNotFinite, o.FocusOffset)
	}
	return nil
}

// Validate checks the generation ranges. Eccentricity bounds are in
// thousandths and must stay inside [0, 1000).
func (p PopulationConfig) Validate() error {
	switch {
	case p.Count.Min > p.Count.Max:
		return configErr("population.count", ReasonEmptyRange, p.Count)
	case p.Count.Min < 0:
		return configErr("population.count", ReasonNegative, p.Count)
	case p.Count.Max > MaxBodies:
		return configErr("population.count", ReasonTooLarge, p.Count)
	case p.Mass.Min > p.Mass.Max:
		return configErr("population.mass", ReasonEmptyRange, p.Mass)
	case p.Mass.Min <= 0:
		return configErr("population.mass", ReasonNonPositive, p.Mass)
	case p.Eccentricity.Min > p.Eccentricity.Max:
		return configErr("population.eccentricity", ReasonEmptyRange, p.Eccentricity)
	case p.Eccentricity.Min < 0:
		return configErr("population.eccentricity", ReasonEccentricityNegative, p.Eccentricity)
	case p.Eccentricity.Max >= eccentricityScale:
		return configErr("population.eccentricity", ReasonEccentricityTooHigh, p.Eccentricity)
	case p.PositionDivisor.Min > p.PositionDivisor.Max:
		return configErr("population.position_divisor", ReasonEmptyRange, p.PositionDivisor)
	case p.PositionDivisor.Min < 1:
		return configErr("population.position_divisor", ReasonDivisorTooSmall, p.PositionDivisor)
	case p.DistanceJitter < 0 || math.IsNaN(p.DistanceJitter) || math.IsInf(p.DistanceJitter, 0):
		return configErr("population.distance_jitter", ReasonNegative, p.DistanceJitter)
	}
	return nil
}

func bodyField(i int) string {
	return fmt.Sprintf("bodies[%d]", i)
}
