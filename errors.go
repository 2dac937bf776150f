package asciiedge

import (
	"errors"
	"fmt"
)

var errNotPositive = errors.New("must be at least 1")

// ImageError reports an image that could not be fetched, opened or decoded.
type ImageError struct {
	Op   string // "open", "fetch", "decode" or "read"
	Path string
	Err  error
}

func (e *ImageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("image %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("image %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// ArgumentParseError reports a character budget that is not a positive integer.
type ArgumentParseError struct {
	Arg   string
	Value string
	Err   error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("%s must be a positive integer, got %q: %v", e.Arg, e.Value, e.Err)
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }

// UsageError reports a missing or malformed command line.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
