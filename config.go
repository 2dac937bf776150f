package asciiedge

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Config holds renderer and command line settings, usually loaded from YAML:
//
//	max_chars: 2000
//	char_aspect: 2.5
//	edge_weight: 0.4
//	backend: imaging
//	resampler: catmullrom
//	prompt: true
//	gamma: 1.0
//	brightness: 0
//	contrast: 0
//	sharpen: 0
//	sigmoid_midpoint: 0.5
//	sigmoid_factor: 0
//	invert: false
type Config struct {
	// MaxChars is the budget used when none is given on the command line.
	// Zero means unset.
	MaxChars   int     `yaml:"max_chars"`
	CharAspect float64 `yaml:"char_aspect"`
	EdgeWeight float64 `yaml:"edge_weight"`
	Backend    string  `yaml:"backend"`
	Resampler  string  `yaml:"resampler"`
	// Prompt allows asking for a budget on stdin when no other source has one.
	Prompt bool `yaml:"prompt"`

	// Tonal adjustments. Neutral values are skipped.
	Gamma           float64 `yaml:"gamma"`
	Brightness      float64 `yaml:"brightness"`
	Contrast        float64 `yaml:"contrast"`
	Sharpen         float64 `yaml:"sharpen"`
	SigmoidMidpoint float64 `yaml:"sigmoid_midpoint"`
	SigmoidFactor   float64 `yaml:"sigmoid_factor"`
	Invert          bool    `yaml:"invert"`
}

// DefaultConfig returns the settings used when no file or flag overrides them.
func DefaultConfig() Config {
	return Config{
		CharAspect: DefaultCharAspect,
		EdgeWeight: DefaultEdgeWeight,
		Backend:    BackendImaging,
		Resampler:  FilterCatmullRom,
		Prompt:     true,

		Gamma:           1,
		SigmoidMidpoint: 0.5,
	}
}

// LoadConfig reads the YAML file at path over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigError{Key: "file", Value: path, Err: err}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		if _, ok := err.(*ConfigError); ok {
			return Config{}, err
		}
		return Config{}, &ConfigError{Key: "file", Value: path, Err: err}
	}
	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting as a *ConfigError.
func (c Config) Validate() error {
	if c.MaxChars < 0 {
		return &ConfigError{Key: "max_chars", Value: strconv.Itoa(c.MaxChars), Err: errNotPositive}
	}
	if c.CharAspect <= 0 {
		return &ConfigError{
			Key:   "char_aspect",
			Value: strconv.FormatFloat(c.CharAspect, 'g', -1, 64),
			Err:   fmt.Errorf("must be greater than 0"),
		}
	}
	if c.EdgeWeight < 0 {
		return &ConfigError{
			Key:   "edge_weight",
			Value: strconv.FormatFloat(c.EdgeWeight, 'g', -1, 64),
			Err:   fmt.Errorf("must not be negative"),
		}
	}
	if c.Gamma <= 0 {
		return floatError("gamma", c.Gamma, "must be greater than 0")
	}
	if c.Brightness < -100 || c.Brightness > 100 {
		return floatError("brightness", c.Brightness, "must be within [-100, 100]")
	}
	if c.Contrast < -100 || c.Contrast > 100 {
		return floatError("contrast", c.Contrast, "must be within [-100, 100]")
	}
	if c.Sharpen < 0 {
		return floatError("sharpen", c.Sharpen, "must not be negative")
	}
	if c.SigmoidMidpoint < 0 || c.SigmoidMidpoint > 1 {
		return floatError("sigmoid_midpoint", c.SigmoidMidpoint, "must be within [0, 1]")
	}
	_, err := NewResampler(c.Backend, c.Resampler)
	return err
}

func floatError(key string, v float64, msg string) error {
	return &ConfigError{Key: key, Value: strconv.FormatFloat(v, 'g', -1, 64), Err: errors.New(msg)}
}

// Adjustments returns the tonal adjustments c asks for, in the order they
// are applied: gamma, brightness, sharpen, contrast, sigmoid, invert.
func (c Config) Adjustments() []Adjustment {
	var adjs []Adjustment
	if c.Gamma != 1 {
		adjs = append(adjs, Gamma(c.Gamma))
	}
	if c.Brightness != 0 {
		adjs = append(adjs, Brightness(c.Brightness))
	}
	if c.Sharpen != 0 {
		adjs = append(adjs, Sharpen(c.Sharpen))
	}
	if c.Contrast != 0 {
		adjs = append(adjs, Contrast(c.Contrast))
	}
	if c.SigmoidFactor != 0 {
		adjs = append(adjs, Sigmoid(c.SigmoidMidpoint, c.SigmoidFactor))
	}
	if c.Invert {
		adjs = append(adjs, Invert())
	}
	return adjs
}

// Options converts c into renderer options.
func (c Config) Options() ([]Opt, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rs, err := NewResampler(c.Backend, c.Resampler)
	if err != nil {
		return nil, err
	}
	return []Opt{
		WithCharAspect(c.CharAspect),
		WithEdgeWeight(c.EdgeWeight),
		WithResampler(rs),
		WithAdjustments(c.Adjustments()...),
	}, nil
}
