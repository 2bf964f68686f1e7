package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"flowgen/internal/flow"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Algorithm  string   `yaml:"algorithm" validate:"required"`
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Points     int      `yaml:"points"`
	Randomness float64  `yaml:"randomness"`
	Seed       int64    `yaml:"seed"`
	Seeds      []string `yaml:"seeds"`

	Out    string `yaml:"out"`
	Format string `yaml:"format" validate:"oneof=png bmp tif tiff"`
	Scale  int    `yaml:"scale" validate:"gte=1,lte=64"`
	View   string `yaml:"view"`

	GUI bool `yaml:"gui"`
	FPS int  `yaml:"fps" validate:"gte=1,lte=240"`

	MetricsAddr      string        `yaml:"metrics_addr"`
	LogLevel         string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	ProgressInterval time.Duration `yaml:"progress_interval" validate:"gt=0"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	d := flow.DefaultConfig()
	return &Config{
		Algorithm:        "flow",
		Width:            d.Width,
		Height:           d.Height,
		Points:           d.Points,
		Randomness:       d.Randomness,
		Seed:             d.Seed,
		Out:              "out/flow",
		Format:           "png",
		Scale:            1,
		View:             flow.ViewColor,
		FPS:              25,
		LogLevel:         "info",
		ProgressInterval: 50 * time.Millisecond,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Algorithm, "algorithm", "a", c.Algorithm, "algorithm to run")
	fs.IntVarP(&c.Width, "width", "W", c.Width, "image width in pixels")
	fs.IntVarP(&c.Height, "height", "H", c.Height, "image height in pixels")
	fs.IntVarP(&c.Points, "points", "p", c.Points, "number of starting points")
	fs.Float64VarP(&c.Randomness, "randomness", "r", c.Randomness, "per-pixel color jitter, 0 to 30")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 derives one from the clock")
	fs.StringSliceVar(&c.Seeds, "seeds", c.Seeds, "explicit starting points as x:y")
	fs.StringVarP(&c.Out, "out", "o", c.Out, "output directory, empty to skip export")
	fs.StringVar(&c.Format, "format", c.Format, "output format: png, bmp or tiff")
	fs.IntVar(&c.Scale, "scale", c.Scale, "integer upscale factor for the exported image")
	fs.StringVar(&c.View, "view", c.View, "view to export")
	fs.BoolVar(&c.GUI, "gui", c.GUI, "show a live preview window")
	fs.IntVar(&c.FPS, "fps", c.FPS, "preview repaint rate")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve Prometheus metrics on this address")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
	fs.DurationVar(&c.ProgressInterval, "progress-interval", c.ProgressInterval, "console progress cadence")
}

// ApplyFile loads YAML settings from path. Flags the user set explicitly on fs
// take precedence over the file.
func (c *Config) ApplyFile(path string, fs *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	explicit := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			explicit[f.Name] = strings.Join(sv.GetSlice(), ",")
			return
		}
		explicit[f.Name] = f.Value.String()
	})
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	for name, value := range explicit {
		if sv, ok := fs.Lookup(name).Value.(pflag.SliceValue); ok {
			if err := sv.Replace(splitList(value)); err != nil {
				return err
			}
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the application-level settings. Algorithm parameters are
// checked by the algorithm itself.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s: invalid value %v (%s %s)", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return l, nil
}

// Params renders the algorithm settings as the key/value pairs registered
// factories accept.
func (c *Config) Params() map[string]string {
	return map[string]string{
		"w":          strconv.Itoa(c.Width),
		"h":          strconv.Itoa(c.Height),
		"points":     strconv.Itoa(c.Points),
		"randomness": strconv.FormatFloat(c.Randomness, 'f', -1, 64),
		"seed":       strconv.FormatInt(c.Seed, 10),
		"seeds":      strings.Join(c.Seeds, ","),
	}
}
