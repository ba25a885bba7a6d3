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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent   = 4  // spaces to indent file entries
	nameWidth    = 45 // Base width for filename
	statusWidth  = 10 // Width for status text
	residualMark = "↳"
)

// 🎯 FormatFileLine formats one file outcome for the console:
// symbol, padded path, status and a short detail such as "12 replaced, 2 left"
func FormatFileLine(info FileInfo) string {
	var prefix string
	switch info.Status {
	case StatusConverted:
		if info.RunsAfter > 0 {
			prefix = color.YellowString("⟳")
		} else {
			prefix = color.GreenString("✓")
		}
	case StatusUnchanged:
		prefix = color.YellowString("!")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, info.Path)
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status)

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		statusPart,
		color.HiBlackString(detail(info)),
	)
}

// FormatResidualLine formats one line that still holds target script
func FormatResidualLine(line int, content string) string {
	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent*2),
		color.HiBlackString(residualMark),
		color.CyanString("%d:", line),
		strings.TrimSpace(content),
	)
}

func detail(info FileInfo) string {
	switch info.Status {
	case StatusFailed:
		if info.Error != nil {
			return info.Error.Error()
		}
		return ""
	case StatusSkipped:
		return ""
	}
	parts := []string{fmt.Sprintf("%d replaced", info.Replacements)}
	if info.RunsAfter > 0 {
		parts = append(parts, fmt.Sprintf("%d left", info.RunsAfter))
	}
	if info.Passes > 1 {
		parts = append(parts, fmt.Sprintf("%d passes", info.Passes))
	}
	return strings.Join(parts, ", ")
}
