package rules

import "golang.org/x/text/unicode/norm"

// 🧩 Pattern is a regular expression rule as written in a dictionary
type Pattern struct {
	Match   string // RE2 expression
	Replace string // Replacement template; $1, ${name} and \1 are expanded
}

// 📚 Definition is the unordered input to Build: one dictionary, or the
// merge of several.
type Definition struct {
	Phrases   map[string]string // Literal matcher -> replacement
	Particles []string          // Word suffixes stripped when followed by a space
	Patterns  []Pattern         // Applied after all literal and particle rules, in order
}

// 🔀 Merge folds other into d. Phrases from other override phrases in d with
// the same key, compared in NFC form, particles are de-duplicated keeping the
// first occurrence, and patterns are appended after those already in d.
//
// Keys within other that share an NFC form are all kept so Build can report
// the conflict.
func (d *Definition) Merge(other Definition) {
	if len(other.Phrases) > 0 && d.Phrases == nil {
		d.Phrases = make(map[string]string, len(other.Phrases))
	}

	earlier := make(map[string][]string, len(d.Phrases))
	for k := range d.Phrases {
		nk := norm.NFC.String(k)
		earlier[nk] = append(earlier[nk], k)
	}
	for k, v := range other.Phrases {
		for _, old := range earlier[norm.NFC.String(k)] {
			if old != k {
				delete(d.Phrases, old)
			}
		}
		d.Phrases[k] = v
	}

	seen := make(map[string]struct{}, len(d.Particles))
	for _, p := range d.Particles {
		seen[p] = struct{}{}
	}
	for _, p := range other.Particles {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		d.Particles = append(d.Particles, p)
	}

	d.Patterns = append(d.Patterns, other.Patterns...)
}

// Len returns the number of entries in the definition
func (d Definition) Len() int {
	return len(d.Phrases) + len(d.Particles) + len(d.Patterns)
}
