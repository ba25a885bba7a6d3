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

// Package script classifies text by writing system.
//
// A Script is the set of code points whose presence marks a file as needing
// conversion and whose absence marks it as done.
package script

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

// 🔤 Script is a named set of Unicode range tables
type Script struct {
	name   string
	tables []*unicode.RangeTable
}

var (
	// Hangul covers syllables, jamo, compatibility jamo and the extended jamo blocks.
	Hangul = New("hangul", unicode.Hangul)

	// HangulSyllables is the precomposed syllable block only (가..힣).
	HangulSyllables = New("hangul-syllables", &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1}},
	})
)

// 🏭 New creates a script from one or more range tables
func New(name string, tables ...*unicode.RangeTable) *Script {
	return &Script{name: name, tables: tables}
}

// Name returns the name the script was created or looked up with
func (s *Script) Name() string {
	return s.name
}

// Is reports whether r belongs to the script
func (s *Script) Is(r rune) bool {
	return unicode.IsOneOf(s.tables, r)
}

// 🔍 Contains reports whether text has at least one character of the script
func (s *Script) Contains(text string) bool {
	return strings.IndexFunc(text, s.Is) >= 0
}

// Runs returns the maximal runs of consecutive script characters in text, in order
func (s *Script) Runs(text string) []string {
	var runs []string
	start := -1
	for i, r := range text {
		switch {
		case s.Is(r) && start < 0:
			start = i
		case !s.Is(r) && start >= 0:
			runs = append(runs, text[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, text[start:])
	}
	return runs
}

// CountRuns returns len(s.Runs(text)) without allocating the runs
func (s *Script) CountRuns(text string) int {
	count := 0
	in := false
	for _, r := range text {
		is := s.Is(r)
		if is && !in {
			count++
		}
		in = is
	}
	return count
}

// 🎯 Lookup resolves a script by name.
//
// Accepted forms:
//   - "hangul" and "hangul-syllables"
//   - any key of unicode.Scripts, case-insensitive ("Han", "hiragana")
//   - a comma-separated list of code point ranges ("U+AC00-U+D7A3,U+3131-U+318E")
func Lookup(name string) (*Script, error) {
	trimmed := strings.TrimSpace(name)
	switch strings.ToLower(trimmed) {
	case "":
		return nil, errors.New("script name is empty")
	case "hangul":
		return Hangul, nil
	case "hangul-syllables":
		return HangulSyllables, nil
	}

	for key, table := range unicode.Scripts {
		if strings.EqualFold(key, trimmed) {
			return New(key, table), nil
		}
	}

	if strings.HasPrefix(strings.ToUpper(trimmed), "U+") {
		table, err := parseRanges(trimmed)
		if err != nil {
			return nil, errors.Errorf("parsing script ranges %q: %w", trimmed, err)
		}
		return New(trimmed, table), nil
	}

	return nil, errors.Errorf("unknown script %q", trimmed)
}

// parseRanges turns "U+AC00-U+D7A3,U+3131" into a sorted range table
func parseRanges(s string) (*unicode.RangeTable, error) {
	type span struct{ lo, hi uint32 }
	var spans []span

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		loStr, hiStr, isRange := strings.Cut(part, "-")
		lo, err := parseCodePoint(loStr)
		if err != nil {
			return nil, err
		}
		hi := lo
		if isRange {
			if hi, err = parseCodePoint(hiStr); err != nil {
				return nil, err
			}
		}
		if hi < lo {
			return nil, errors.Errorf("range %q is reversed", part)
		}
		spans = append(spans, span{lo, hi})
	}
	if len(spans) == 0 {
		return nil, errors.New("no ranges given")
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	// RangeTable requires sorted, non-overlapping ranges
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.lo <= last.hi+1 {
			if sp.hi > last.hi {
				last.hi = sp.hi
			}
			continue
		}
		merged = append(merged, sp)
	}

	table := &unicode.RangeTable{}
	for _, sp := range merged {
		if sp.hi <= 0xFFFF {
			table.R16 = append(table.R16, unicode.Range16{Lo: uint16(sp.lo), Hi: uint16(sp.hi), Stride: 1})
			if sp.hi <= unicode.MaxLatin1 {
				table.LatinOffset++
			}
			continue
		}
		if sp.lo <= 0xFFFF {
			table.R16 = append(table.R16, unicode.Range16{Lo: uint16(sp.lo), Hi: 0xFFFF, Stride: 1})
			sp.lo = 0x10000
		}
		table.R32 = append(table.R32, unicode.Range32{Lo: sp.lo, Hi: sp.hi, Stride: 1})
	}
	return table, nil
}

func parseCodePoint(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || !strings.EqualFold(s[:2], "U+") {
		return 0, errors.Errorf("code point %q must look like U+XXXX", s)
	}
	v, err := strconv.ParseUint(s[2:], 16, 32)
	if err != nil {
		return 0, errors.Errorf("code point %q: %w", s, err)
	}
	if v > unicode.MaxRune {
		return 0, errors.Errorf("code point %q is out of range", s)
	}
	return uint32(v), nil
}
