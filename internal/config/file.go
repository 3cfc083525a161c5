// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/mia-platform/logbridge/internal/logger"
)

var (
	// ErrParsing reports failures that occur while decoding logger configuration files.
	ErrParsing = errors.New("error parsing")
	// ErrUnsupportedFormat is returned for files that are neither YAML, JSON nor TOML.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// Load reads the logger configuration stored at path. The format is chosen by
// the file extension: .yaml, .yml and .json are decoded as YAML, .toml as TOML.
// An empty file returns the zero configuration.
func Load(path string) (*logger.Config, error) {
	cleanedPath := filepath.Clean(path)

	var decode func(io.Reader, *logger.Config) error
	switch strings.ToLower(filepath.Ext(cleanedPath)) {
	case ".yaml", ".yml", ".json":
		decode = decodeYAML
	case ".toml":
		decode = decodeTOML
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, cleanedPath)
	}

	file, err := os.Open(cleanedPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := new(logger.Config)
	if err := decode(file, config); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, cleanedPath, err)
	}

	if config.Level != "" {
		if _, err := logger.ParseLevel(config.Level); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrParsing, cleanedPath, err)
		}
	}

	return config, nil
}

func decodeYAML(reader io.Reader, config *logger.Config) error {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(reader io.Reader, config *logger.Config) error {
	decoder := toml.NewDecoder(reader)
	decoder.DisallowUnknownFields()

	return decoder.Decode(config)
}
