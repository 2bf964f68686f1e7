package flow

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxRandomness is the largest per-channel jitter a run accepts.
const MaxRandomness = 30

// Config controls the FLOW generator.
type Config struct {
	Width  int `yaml:"width" validate:"gt=0"`
	Height int `yaml:"height" validate:"gt=0"`

	// Points is the number of seed cells the growth starts from.
	Points int `yaml:"points" validate:"gt=0"`
	// Randomness bounds the uniform jitter added to each averaged channel.
	Randomness float64 `yaml:"randomness" validate:"gte=0,lte=30"`

	// Seed feeds the random source. Zero derives a seed from the clock.
	Seed int64 `yaml:"seed"`
	// Seeds places seed cells explicitly; remaining points are drawn at random.
	Seeds []image.Point `yaml:"seeds,omitempty"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:      512,
		Height:     512,
		Points:     4,
		Randomness: 3,
		Seed:       1337,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every problem with the configuration as a *ConfigError.
func (c Config) Validate() error {
	var problems []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return &ConfigError{Problems: []string{err.Error()}}
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}
	if c.Width > 0 && c.Height > 0 {
		capacity := int64(c.Width) * int64(c.Height)
		if int64(c.Points) > capacity {
			problems = append(problems, fmt.Sprintf("points: %d exceeds grid capacity %d", c.Points, capacity))
		}
		seen := make(map[image.Point]bool, len(c.Seeds))
		for _, p := range c.Seeds {
			if p.X < 0 || p.Y < 0 || p.X >= c.Width || p.Y >= c.Height {
				problems = append(problems, fmt.Sprintf("seeds: (%d,%d) outside %dx%d grid", p.X, p.Y, c.Width, c.Height))
				continue
			}
			if seen[p] {
				problems = append(problems, fmt.Sprintf("seeds: (%d,%d) listed twice", p.X, p.Y))
			}
			seen[p] = true
		}
	}
	if len(c.Seeds) > c.Points {
		problems = append(problems, fmt.Sprintf("seeds: %d explicit seeds but only %d points", len(c.Seeds), c.Points))
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s: must be at most %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed %q check", field, fe.Tag())
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Values are taken as given; range checks are left to Validate.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	var problems []string
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Width = parsed
		} else {
			problems = append(problems, fmt.Sprintf("w: %q is not an integer", v))
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Height = parsed
		} else {
			problems = append(problems, fmt.Sprintf("h: %q is not an integer", v))
		}
	}
	if v, ok := cfg["points"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Points = parsed
		} else {
			problems = append(problems, fmt.Sprintf("points: %q is not an integer", v))
		}
	}
	if v, ok := cfg["randomness"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Randomness = parsed
		} else {
			problems = append(problems, fmt.Sprintf("randomness: %q is not a number", v))
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		} else {
			problems = append(problems, fmt.Sprintf("seed: %q is not an integer", v))
		}
	}
	if v, ok := cfg["seeds"]; ok && v != "" {
		seeds, err := ParseSeeds(v)
		if err != nil {
			problems = append(problems, err.Error())
		}
		c.Seeds = seeds
	}
	if len(problems) > 0 {
		return c, &ConfigError{Problems: problems}
	}
	return c, nil
}

// ParseSeeds reads a comma separated list of x:y coordinates.
func ParseSeeds(s string) ([]image.Point, error) {
	var seeds []image.Point
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		xs, ys, ok := strings.Cut(field, ":")
		x, errX := strconv.Atoi(xs)
		y, errY := strconv.Atoi(ys)
		if !ok || errX != nil || errY != nil {
			return nil, fmt.Errorf("seeds: %q is not an x:y coordinate", field)
		}
		seeds = append(seeds, image.Point{X: x, Y: y})
	}
	return seeds, nil
}
