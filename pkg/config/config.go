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
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/script"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultScript    = "hangul"
	DefaultMaxPasses = 1
)

// DefaultInclude matches every file under the root
var DefaultInclude = []string{"**/*"}

// 🧩 PatternRule is a regular expression rule as written in a file
type PatternRule struct {
	Match   string `json:"match" yaml:"match"`
	Replace string `json:"replace" yaml:"replace"`
}

// 📖 Dictionary is one file's worth of rules
type Dictionary struct {
	Phrases   map[string]string `json:"phrases,omitempty" yaml:"phrases,omitempty"`     // Literal matcher -> replacement
	Particles []string          `json:"particles,omitempty" yaml:"particles,omitempty"` // Suffixes stripped before a space
	Patterns  []PatternRule     `json:"patterns,omitempty" yaml:"patterns,omitempty"`   // Applied last, in order
}

// Definition converts the dictionary into the rules package form
func (d *Dictionary) Definition() rules.Definition {
	def := rules.Definition{
		Phrases:   d.Phrases,
		Particles: d.Particles,
	}
	for _, p := range d.Patterns {
		def.Patterns = append(def.Patterns, rules.Pattern{Match: p.Match, Replace: p.Replace})
	}
	return def
}

// 📚 Config represents the complete configuration
type Config struct {
	Root         string   `json:"root,omitempty" yaml:"root,omitempty"`                 // Directory to walk
	Include      []string `json:"include,omitempty" yaml:"include,omitempty"`           // Globs a file must match
	Exclude      []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`           // Globs that remove files or whole directories
	Script       string   `json:"script,omitempty" yaml:"script,omitempty"`             // Target script name
	MaxPasses    int      `json:"max_passes,omitempty" yaml:"max_passes,omitempty"`     // Rule set applications per file
	Workers      int      `json:"workers,omitempty" yaml:"workers,omitempty"`           // Files converted concurrently
	DryRun       bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`           // Report without writing
	Backup       bool     `json:"backup,omitempty" yaml:"backup,omitempty"`             // Keep a .bak next to every rewritten file
	Normalize    *bool    `json:"normalize,omitempty" yaml:"normalize,omitempty"`       // NFC-normalize input, default true
	Dictionaries []string `json:"dictionaries,omitempty" yaml:"dictionaries,omitempty"` // Dictionary files, merged in order

	// Inline rules, merged after every dictionary file
	Dictionary `yaml:",inline"`

	location string
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.MaxPasses < 0 {
		return errors.Errorf("max_passes must not be negative, got %d", cfg.MaxPasses)
	}
	if cfg.MaxPasses == 0 {
		cfg.MaxPasses = DefaultMaxPasses
	}

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	if cfg.Script == "" {
		cfg.Script = DefaultScript
	}
	if _, err := script.Lookup(cfg.Script); err != nil {
		return errors.Errorf("script: %w", err)
	}

	if len(cfg.Include) == 0 {
		cfg.Include = append([]string(nil), DefaultInclude...)
	}
	for _, g := range cfg.Include {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("include pattern %q is not a valid glob", g)
		}
	}
	for _, g := range cfg.Exclude {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("exclude pattern %q is not a valid glob", g)
		}
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}

	return nil
}

// Dir returns the directory relative paths in the config are resolved against
func (cfg *Config) Dir() string {
	if cfg.location == "" {
		return "."
	}
	return filepath.Dir(cfg.location)
}

func (cfg *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cfg.Dir(), path)
}

// NormalizeEnabled reports whether input is NFC-normalized before conversion
func (cfg *Config) NormalizeEnabled() bool {
	return cfg.Normalize == nil || *cfg.Normalize
}

// TargetScript resolves the configured script
func (cfg *Config) TargetScript() (*script.Script, error) {
	name := cfg.Script
	if name == "" {
		name = DefaultScript
	}
	return script.Lookup(name)
}

// 🔀 Definition loads every dictionary file in order and merges the inline
// rules last. Later entries override earlier ones for the same phrase.
func (cfg *Config) Definition(ctx context.Context) (rules.Definition, error) {
	var def rules.Definition

	for _, path := range cfg.Dictionaries {
		dict, err := LoadDictionary(ctx, cfg.resolve(path))
		if err != nil {
			return rules.Definition{}, errors.Errorf("loading dictionary %s: %w", path, err)
		}
		def.Merge(dict.Definition())
	}

	def.Merge(cfg.Dictionary.Definition())

	zerolog.Ctx(ctx).Debug().
		Int("dictionaries", len(cfg.Dictionaries)).
		Int("phrases", len(def.Phrases)).
		Int("particles", len(def.Particles)).
		Int("patterns", len(def.Patterns)).
		Msg("merged rule definition")

	return def, nil
}

// 🏗️ RuleSet merges and builds the configured rules
func (cfg *Config) RuleSet(ctx context.Context) (*rules.RuleSet, error) {
	def, err := cfg.Definition(ctx)
	if err != nil {
		return nil, err
	}
	rs, err := rules.Build(def)
	if err != nil {
		return nil, errors.Errorf("building rules: %w", err)
	}
	return rs, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s [%s] passes=%d dictionaries=%d", cfg.Root, cfg.Script, cfg.MaxPasses, len(cfg.Dictionaries))
}
