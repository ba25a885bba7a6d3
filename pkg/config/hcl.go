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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

type hclPattern struct {
	Match   string `hcl:"match"`
	Replace string `hcl:"replace"`
}

type hclDictionary struct {
	Phrases   map[string]string `hcl:"phrases,optional"`
	Particles []string          `hcl:"particles,optional"`
	Patterns  []hclPattern      `hcl:"pattern,block"`
}

type hclConfig struct {
	Root         string   `hcl:"root,optional"`
	Include      []string `hcl:"include,optional"`
	Exclude      []string `hcl:"exclude,optional"`
	Script       string   `hcl:"script,optional"`
	MaxPasses    int      `hcl:"max_passes,optional"`
	Workers      int      `hcl:"workers,optional"`
	DryRun       bool     `hcl:"dry_run,optional"`
	Backup       bool     `hcl:"backup,optional"`
	Normalize    *bool    `hcl:"normalize,optional"`
	Dictionaries []string `hcl:"dictionaries,optional"`

	Phrases   map[string]string `hcl:"phrases,optional"`
	Particles []string          `hcl:"particles,optional"`
	Patterns  []hclPattern      `hcl:"pattern,block"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

// 📝 ParseConfig parses the config from HCL
func (p *HCLParser) ParseConfig(ctx context.Context, data []byte, filename string) (*Config, error) {
	var raw hclConfig
	if err := decodeHCL(data, filename, &raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		Root:         raw.Root,
		Include:      raw.Include,
		Exclude:      raw.Exclude,
		Script:       raw.Script,
		MaxPasses:    raw.MaxPasses,
		Workers:      raw.Workers,
		DryRun:       raw.DryRun,
		Backup:       raw.Backup,
		Normalize:    raw.Normalize,
		Dictionaries: raw.Dictionaries,
		Dictionary:   convertHCLDictionary(raw.Phrases, raw.Particles, raw.Patterns),
	}

	return cfg, nil
}

// 📝 ParseDictionary parses a dictionary from HCL
func (p *HCLParser) ParseDictionary(ctx context.Context, data []byte, filename string) (*Dictionary, error) {
	var raw hclDictionary
	if err := decodeHCL(data, filename, &raw); err != nil {
		return nil, err
	}

	dict := convertHCLDictionary(raw.Phrases, raw.Particles, raw.Patterns)
	return &dict, nil
}

func decodeHCL(data []byte, filename string, into any) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, into)
	if diags.HasErrors() {
		return errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return nil
}

func convertHCLDictionary(phrases map[string]string, particles []string, patterns []hclPattern) Dictionary {
	dict := Dictionary{
		Phrases:   phrases,
		Particles: particles,
	}
	for _, pt := range patterns {
		dict.Patterns = append(dict.Patterns, PatternRule{Match: pt.Match, Replace: pt.Replace})
	}
	return dict
}
