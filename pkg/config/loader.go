// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config and dictionary parsers
type Parser interface {
	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool

	// 📝 ParseConfig parses a run configuration
	ParseConfig(ctx context.Context, data []byte, filename string) (*Config, error)

	// 📝 ParseDictionary parses a dictionary file
	ParseDictionary(ctx context.Context, data []byte, filename string) (*Dictionary, error)
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func init() {
	Register(&YAMLParser{})
	Register(&JSONParser{})
	Register(&HCLParser{})
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadConfig loads a configuration file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
//
// Relative paths inside the file (root, dictionaries) are resolved against
// the directory holding it.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	cfg, err := p.ParseConfig(ctx, data, path)
	if err != nil {
		return nil, err
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	cfg.Root = cfg.resolve(cfg.Root)

	return cfg, nil
}

// LoadDictionary loads one dictionary file; the format follows the extension
// the same way LoadConfig does.
func LoadDictionary(ctx context.Context, path string) (*Dictionary, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading dictionary")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading dictionary file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	return p.ParseDictionary(ctx, data, path)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func (p *YAMLParser) CanParse(filename string) bool {
	return hasExt(filename, ".yaml", ".yml")
}

func (p *YAMLParser) ParseConfig(ctx context.Context, data []byte, filename string) (*Config, error) {
	var cfg Config
	if err := decodeYAML(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (p *YAMLParser) ParseDictionary(ctx context.Context, data []byte, filename string) (*Dictionary, error) {
	var dict Dictionary
	if err := decodeYAML(data, &dict); err != nil {
		return nil, err
	}
	return &dict, nil
}

func decodeYAML(data []byte, into any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(into); err != nil {
		// an empty document is an empty config
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Errorf("parsing YAML: %w", err)
	}
	return nil
}

// 🔧 JSONParser implements the Parser interface for JSON files
type JSONParser struct{}

func (p *JSONParser) CanParse(filename string) bool {
	return hasExt(filename, ".json")
}

func (p *JSONParser) ParseConfig(ctx context.Context, data []byte, filename string) (*Config, error) {
	var cfg Config
	if err := decodeJSON(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (p *JSONParser) ParseDictionary(ctx context.Context, data []byte, filename string) (*Dictionary, error) {
	var dict Dictionary
	if err := decodeJSON(data, &dict); err != nil {
		return nil, err
	}
	return &dict, nil
}

func decodeJSON(data []byte, into any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		return errors.Errorf("parsing JSON: %w", err)
	}
	return nil
}
