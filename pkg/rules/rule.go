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
	"strings"
)

// 🏷️ Kind is the matcher class of a rule
type Kind int

const (
	KindLiteral  Kind = iota // exact substring
	KindParticle             // suffix stripped from a word when followed by a space
	KindPattern              // regular expression with back-references
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindParticle:
		return "particle"
	case KindPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// 🔄 Rule is a single (matcher, replacement) pair.
//
// Rules are only created by Build, which guarantees Match is non-empty and
// that particle and pattern rules carry a compiled expression.
type Rule struct {
	Kind    Kind   // Matcher class
	Match   string // Phrase, particle or regular expression as written
	Replace string // Replacement text or template

	re *regexp.Regexp
}

// Expr returns the regular expression the rule runs, or "" for literal rules
func (r Rule) Expr() string {
	if r.re == nil {
		return ""
	}
	return r.re.String()
}

// 🎯 Apply replaces every non-overlapping match of the rule in text, scanning
// left to right once. Text inserted by this call is never matched again by
// the same call. It returns the new text and the number of matches replaced.
func (r Rule) Apply(text string) (string, int) {
	if r.re == nil {
		count := strings.Count(text, r.Match)
		if count == 0 {
			return text, 0
		}
		return strings.ReplaceAll(text, r.Match, r.Replace), count
	}

	matches := r.re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}
	return r.re.ReplaceAllString(text, r.Replace), len(matches)
}
