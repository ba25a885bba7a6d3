package text

import (
	"fmt"
	"strings"

	"github.com/walteh/rewriterc/pkg/script"
)

// 📍 ResidualSpan is a line that still contains target script characters
type ResidualSpan struct {
	Line int      `json:"line"` // 1-based line number
	Text string   `json:"text"` // Line content without the line terminator
	Runs []string `json:"runs"` // Target script runs on the line, in order
}

func (s ResidualSpan) String() string {
	return fmt.Sprintf("Line %d: %s", s.Line, strings.TrimSpace(s.Text))
}

// Residuals returns, in line order, every line of text that contains a
// character of s. Both \n and \r\n line endings are handled.
func Residuals(text string, s *script.Script) []ResidualSpan {
	if !s.Contains(text) {
		return nil
	}

	var spans []ResidualSpan
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		runs := s.Runs(line)
		if len(runs) == 0 {
			continue
		}
		spans = append(spans, ResidualSpan{Line: i + 1, Text: line, Runs: runs})
	}
	return spans
}

// FormatResiduals renders spans as "path:line: text" lines for diagnostics
func FormatResiduals(path string, spans []ResidualSpan) string {
	var b strings.Builder
	for _, sp := range spans {
		fmt.Fprintf(&b, "%s:%d: %s\n", path, sp.Line, strings.TrimSpace(sp.Text))
	}
	return b.String()
}
