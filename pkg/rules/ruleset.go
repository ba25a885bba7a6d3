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

package rules

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/unicode/norm"
)

// 📋 RuleSet is an ordered, immutable sequence of rules.
//
// Order:
//  1. literal rules, longest first (runes, then bytes), ties in byte order
//  2. particle rules, longest first, ties in byte order
//  3. pattern rules, in the order they were given
//
// For literal rules A and B where A is a substring of B, B comes first.
type RuleSet struct {
	rules []Rule
}

// Rules returns a copy of the rules in application order
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Count returns the number of rules of the given kind
func (rs *RuleSet) Count(kind Kind) int {
	if rs == nil {
		return 0
	}
	n := 0
	for _, r := range rs.rules {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// 🏗️ BuildRuleSet builds a RuleSet from a phrase mapping and an ordered list
// of pattern rules.
func BuildRuleSet(phrases map[string]string, patterns []Pattern) (*RuleSet, error) {
	return Build(Definition{Phrases: phrases, Patterns: patterns})
}

// 🏗️ Build validates every entry of def and returns the ordered RuleSet.
//
// Matchers and replacements are NFC-normalized. All invalid entries are
// reported together; each is an *InvalidRuleError.
func Build(def Definition) (*RuleSet, error) {
	var errs []error

	literals, lerrs := buildLiterals(def.Phrases)
	errs = append(errs, lerrs...)

	particles, perrs := buildParticles(def.Particles)
	errs = append(errs, perrs...)

	patterns, xerrs := buildPatterns(def.Patterns)
	errs = append(errs, xerrs...)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	rs := &RuleSet{rules: make([]Rule, 0, len(literals)+len(particles)+len(patterns))}
	rs.rules = append(rs.rules, literals...)
	rs.rules = append(rs.rules, particles...)
	rs.rules = append(rs.rules, patterns...)
	return rs, nil
}

func buildLiterals(phrases map[string]string) ([]Rule, []error) {
	keys := make([]string, 0, len(phrases))
	for k := range phrases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	normalized := make(map[string]string, len(keys))
	for _, k := range keys {
		if k == "" {
			errs = append(errs, &InvalidRuleError{Kind: KindLiteral, Match: k, Reason: "matcher is empty"})
			continue
		}
		nk := norm.NFC.String(k)
		nv := norm.NFC.String(phrases[k])
		if prev, ok := normalized[nk]; ok && prev != nv {
			errs = append(errs, &InvalidRuleError{
				Kind:   KindLiteral,
				Match:  k,
				Reason: "matcher has the same normalized form as another matcher with a different replacement",
			})
			continue
		}
		normalized[nk] = nv
	}

	out := make([]Rule, 0, len(normalized))
	for k, v := range normalized {
		out = append(out, Rule{Kind: KindLiteral, Match: k, Replace: v})
	}
	sortLongestFirst(out)
	return out, errs
}

func buildParticles(particles []string) ([]Rule, []error) {
	var errs []error
	seen := make(map[string]struct{}, len(particles))
	out := make([]Rule, 0, len(particles))

	for _, p := range particles {
		if p == "" {
			errs = append(errs, &InvalidRuleError{Kind: KindParticle, Match: p, Reason: "matcher is empty"})
			continue
		}
		if strings.IndexFunc(p, unicode.IsSpace) >= 0 {
			errs = append(errs, &InvalidRuleError{Kind: KindParticle, Match: p, Reason: "particle must not contain whitespace"})
			continue
		}
		np := norm.NFC.String(p)
		if _, ok := seen[np]; ok {
			continue
		}
		seen[np] = struct{}{}

		// the preceding character keeps a bare particle (a word on its own) intact
		out = append(out, Rule{
			Kind:    KindParticle,
			Match:   np,
			Replace: "${1} ",
			re:      regexp.MustCompile(`(\S)` + regexp.QuoteMeta(np) + ` `),
		})
	}

	sortLongestFirst(out)
	return out, errs
}

var backslashRef = regexp.MustCompile(`\\(\d+)`)

func buildPatterns(patterns []Pattern) ([]Rule, []error) {
	var errs []error
	out := make([]Rule, 0, len(patterns))

	for _, p := range patterns {
		if p.Match == "" {
			errs = append(errs, &InvalidRuleError{Kind: KindPattern, Match: p.Match, Reason: "matcher is empty"})
			continue
		}
		re, err := regexp.Compile(norm.NFC.String(p.Match))
		if err != nil {
			errs = append(errs, &InvalidRuleError{Kind: KindPattern, Match: p.Match, Reason: "malformed regular expression", Err: err})
			continue
		}
		if re.MatchString("") {
			errs = append(errs, &InvalidRuleError{Kind: KindPattern, Match: p.Match, Reason: "expression matches the empty string"})
			continue
		}

		// \1 style references are rewritten to ${1}
		replace := backslashRef.ReplaceAllStringFunc(norm.NFC.String(p.Replace), func(m string) string {
			return "${" + m[1:] + "}"
		})

		out = append(out, Rule{Kind: KindPattern, Match: p.Match, Replace: replace, re: re})
	}

	return out, errs
}

func sortLongestFirst(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i].Match, rules[j].Match
		if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
			return la > lb
		}
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
}
