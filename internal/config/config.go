// Package config loads renderer settings from TOML or YAML files and
// GGRAPH_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggraph"
)

// EnvPrefix prefixes every environment override, e.g.
// GGRAPH_MAX_CAMERA_RATIO.
const EnvPrefix = "GGRAPH"

// Supported formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("config: unsupported format")

// FormatOf returns the format of path from its extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Load returns the default settings overlaid with the file at path (if
// path is not empty) and then with the environment, normalized.
func Load(path string) (ggraph.Settings, error) {
	s := ggraph.DefaultSettings()
	if path != "" {
		format, err := FormatOf(path)
		if err != nil {
			return s, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("config: %w", err)
		}
		if err := Decode(bytes.NewReader(data), format, &s); err != nil {
			return s, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&s); err != nil {
		return s, err
	}
	return s.Normalize(), nil
}

// Decode reads settings in the given format into s. Keys missing from the
// input keep their value in s; unknown keys are ignored.
func Decode(r io.Reader, format string, s *ggraph.Settings) error {
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(s)
		if err != nil {
			return err
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			ggraph.Logger().Debug("unknown settings ignored", "keys", keys)
		}
		return nil
	case FormatYAML:
		err := yaml.NewDecoder(r).Decode(s)
		if errors.Is(err, io.EOF) {
			// Empty document.
			return nil
		}
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ApplyEnv overrides s with the GGRAPH_* variables that are set.
func ApplyEnv(s *ggraph.Settings) error {
	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Encode writes s in the given format.
func Encode(w io.Writer, format string, s ggraph.Settings) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
