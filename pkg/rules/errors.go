package rules

import (
	"fmt"
)

// ❌ InvalidRuleError reports a rule that cannot be built.
//
// Build validates every rule before returning a RuleSet, so a RuleSet that
// exists is always fully valid.
type InvalidRuleError struct {
	Kind   Kind   // Class of the offending rule
	Match  string // Matcher as written
	Reason string // What is wrong with it
	Err    error  // Underlying cause, e.g. a regexp syntax error
}

func (e *InvalidRuleError) Error() string {
	msg := fmt.Sprintf("invalid %s rule %q: %s", e.Kind, e.Match, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidRuleError) Unwrap() error {
	return e.Err
}
