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

// Package text applies an ordered rule set to text.
//
// A Converter is read-only after construction and holds no per-call state, so
// one instance can be shared by any number of goroutines.
package text

import (
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/script"
	"golang.org/x/text/unicode/norm"
)

// ⚙️ Options configures a Converter
type Options struct {
	// Script is the target script. Defaults to script.Hangul.
	Script *script.Script

	// MaxPasses bounds how many times the rule set is applied. Values below 1 mean 1.
	MaxPasses int

	// Normalize NFC-normalizes text that contains the target script before
	// any rule runs, so decomposed input matches precomposed dictionaries.
	Normalize bool
}

// 📊 ConversionResult is the outcome of converting one text
type ConversionResult struct {
	// NewText is the converted text
	NewText string

	// Changed is true iff NewText differs from the input byte for byte
	Changed bool

	// Passes is the number of rule set applications that ran
	Passes int

	// Replacements is the number of matches replaced across all passes
	Replacements int

	// Converged is true when the last pass changed nothing or no target
	// script characters remain
	Converged bool

	// RunsBefore and RunsAfter count runs of target script characters in the
	// input and in NewText
	RunsBefore int
	RunsAfter  int

	// Residual lists the lines of NewText that still contain the target script
	Residual []ResidualSpan
}

// RunsRemoved returns how many runs of target script the conversion eliminated
func (r *ConversionResult) RunsRemoved() int {
	return r.RunsBefore - r.RunsAfter
}

// 🔄 Converter applies a RuleSet to text
type Converter struct {
	rules     *rules.RuleSet
	script    *script.Script
	maxPasses int
	normalize bool
}

// 🏭 NewConverter creates a Converter for the given rule set
func NewConverter(rs *rules.RuleSet, opts Options) *Converter {
	c := &Converter{
		rules:     rs,
		script:    opts.Script,
		maxPasses: opts.MaxPasses,
		normalize: opts.Normalize,
	}
	if c.script == nil {
		c.script = script.Hangul
	}
	if c.maxPasses < 1 {
		c.maxPasses = 1
	}
	return c
}

// Script returns the target script
func (c *Converter) Script() *script.Script {
	return c.script
}

// Rules returns the rule set the converter applies
func (c *Converter) Rules() *rules.RuleSet {
	return c.rules
}

// MaxPasses returns the pass bound
func (c *Converter) MaxPasses() int {
	return c.maxPasses
}

// 🔍 DetectTargetScript reports whether text has at least one target script character
func (c *Converter) DetectTargetScript(text string) bool {
	return c.script.Contains(text)
}

// 🎯 ApplyOnce runs every rule once, in order. Each rule is applied across the
// whole text before the next one starts, so a rule sees the output of the
// rules before it but never re-scans its own replacements.
func (c *Converter) ApplyOnce(text string) (string, int) {
	total := 0
	for _, r := range c.rules.Rules() {
		var n int
		text, n = r.Apply(text)
		total += n
	}
	return text, total
}

// 🔄 Convert applies the rule set up to MaxPasses times and reports the outcome.
//
// Text without any target script character is returned unchanged without
// running a single rule. Iteration stops early when a pass changes nothing
// or when no target script characters remain.
func (c *Converter) Convert(text string) *ConversionResult {
	res := &ConversionResult{
		NewText:    text,
		RunsBefore: c.script.CountRuns(text),
	}
	if res.RunsBefore == 0 {
		res.Converged = true
		return res
	}

	current := text
	if c.normalize {
		current = norm.NFC.String(current)
	}

	for res.Passes < c.maxPasses {
		next, n := c.ApplyOnce(current)
		res.Passes++
		res.Replacements += n

		if next == current {
			res.Converged = true
			break
		}
		current = next

		if !c.DetectTargetScript(current) {
			res.Converged = true
			break
		}
	}

	res.NewText = current
	res.Changed = current != text
	res.RunsAfter = c.script.CountRuns(current)
	res.Residual = Residuals(current, c.script)
	return res
}

// Convert is a shorthand for converting Hangul text with a one-off Converter
func Convert(text string, rs *rules.RuleSet, maxPasses int) *ConversionResult {
	return NewConverter(rs, Options{MaxPasses: maxPasses}).Convert(text)
}
