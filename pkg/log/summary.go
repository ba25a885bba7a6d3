package log

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📊 Summary prints the totals of a run as a table
func (l *Logger) Summary(totals status.Totals, dryRun bool) error {
	data := pterm.TableData{
		{"files", "converted", "unchanged", "skipped", "failed", "replacements", "runs removed", "runs left"},
		{
			strconv.Itoa(totals.Files),
			strconv.Itoa(totals.Converted),
			strconv.Itoa(totals.Unchanged),
			strconv.Itoa(totals.Skipped),
			strconv.Itoa(totals.Failed),
			strconv.Itoa(totals.Replacements),
			strconv.Itoa(totals.RunsRemoved),
			strconv.Itoa(totals.RunsLeft),
		},
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}

	l.LogNewline()
	l.mu.Lock()
	fmt.Fprintln(l.console, table)
	l.mu.Unlock()

	switch {
	case totals.Failed > 0:
		l.Errorf("%d file(s) could not be processed", totals.Failed)
	case totals.Residual > 0:
		l.Warningf("%d file(s) still contain target script", totals.Residual)
	case dryRun:
		l.Successf("dry run: %d file(s) would be converted", totals.Converted)
	default:
		l.Successf("%d file(s) converted", totals.Converted)
	}
	return nil
}

// 📋 Rules prints the rule set in application order
func (l *Logger) Rules(rs *rules.RuleSet) error {
	data := pterm.TableData{{"#", "kind", "match", "replace", "expr"}}
	for i, r := range rs.Rules() {
		data = append(data, []string{strconv.Itoa(i + 1), r.Kind.String(), r.Match, r.Replace, r.Expr()})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering rules: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, table)
	fmt.Fprintf(l.console, "%d literal, %d particle, %d pattern\n",
		rs.Count(rules.KindLiteral), rs.Count(rules.KindParticle), rs.Count(rules.KindPattern))
	return nil
}
