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
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileInfo is what a run learned about one file
type FileInfo struct {
	Path         string              `json:"path"`
	Status       FileStatus          `json:"status"`
	Size         int64               `json:"size"`
	Checksum     string              `json:"checksum,omitempty"` // SHA-256 of the content after the run
	Passes       int                 `json:"passes"`
	Replacements int                 `json:"replacements"`
	RunsBefore   int                 `json:"runs_before"`
	RunsAfter    int                 `json:"runs_after"`
	Converged    bool                `json:"converged"`
	Residual     []text.ResidualSpan `json:"residual,omitempty"`
	Error        error               `json:"-"`
}

// MarshalJSON renders Error as a string
func (fi FileInfo) MarshalJSON() ([]byte, error) {
	type alias FileInfo
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(fi)}
	if fi.Error != nil {
		out.Error = fi.Error.Error()
	}
	return json.Marshal(out)
}

// FromResult fills the conversion fields of a FileInfo
func FromResult(path string, res *text.ConversionResult) FileInfo {
	fi := FileInfo{
		Path:         path,
		Size:         int64(len(res.NewText)),
		Checksum:     Checksum([]byte(res.NewText)),
		Passes:       res.Passes,
		Replacements: res.Replacements,
		RunsBefore:   res.RunsBefore,
		RunsAfter:    res.RunsAfter,
		Converged:    res.Converged,
		Residual:     res.Residual,
	}
	switch {
	case res.RunsBefore == 0:
		fi.Status = StatusSkipped
	case res.Changed:
		fi.Status = StatusConverted
	default:
		fi.Status = StatusUnchanged
	}
	return fi
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) []FileInfo

	StartOperation(ctx context.Context, total int)
	FinishOperation(ctx context.Context)
}

var _ StatusReporter = (*Tracker)(nil)

// 📋 Tracker records per-file outcomes; safe for concurrent use
type Tracker struct {
	logger    *zerolog.Logger
	formatter FileFormatter

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
	started   time.Time
}

// 🏭 NewTracker creates an empty tracker
func NewTracker(logger *zerolog.Logger) *Tracker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Tracker{
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

func (t *Tracker) TrackFile(ctx context.Context, info FileInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.files[info.Path] = info
	t.processed++

	msg := t.formatter.FormatFileOperation(info.Path, info.Status)
	if info.Error != nil {
		msg = t.formatter.FormatError(info.Error)
	}
	t.logger.Debug().
		Str("path", info.Path).
		Stringer("status", info.Status).
		Int("replacements", info.Replacements).
		Int("runs_after", info.RunsAfter).
		Msg(msg)
}

func (t *Tracker) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info, ok := t.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns every tracked file sorted by path
func (t *Tracker) ListFiles(ctx context.Context) []FileInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	files := make([]FileInfo, 0, len(t.files))
	for _, info := range t.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.processed = 0
	t.started = time.Now()
	t.logger.Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) FinishOperation(ctx context.Context) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	t.logger.Debug().
		Int("processed", t.processed).
		Int("total", t.total).
		Dur("elapsed", time.Since(t.started)).
		Msg(t.formatter.FormatProgress(t.processed, t.total))
}

// 📊 Totals aggregates file outcomes
type Totals struct {
	Files        int `json:"files"`
	Skipped      int `json:"skipped"`
	Converted    int `json:"converted"`
	Unchanged    int `json:"unchanged"`
	Failed       int `json:"failed"`
	Residual     int `json:"residual_files"` // files still containing target script
	Replacements int `json:"replacements"`
	RunsRemoved  int `json:"runs_removed"`
	RunsLeft     int `json:"runs_remaining"`
}

// 🧾 Report is the serializable result of a run
type Report struct {
	Root   string     `json:"root"`
	Script string     `json:"script"`
	DryRun bool       `json:"dry_run"`
	Totals Totals     `json:"totals"`
	Files  []FileInfo `json:"files"`
}

// Report builds a report from everything tracked so far
func (t *Tracker) Report(ctx context.Context, root, scriptName string, dryRun bool) *Report {
	files := t.ListFiles(ctx)
	r := &Report{
		Root:   root,
		Script: scriptName,
		DryRun: dryRun,
		Files:  files,
	}
	for _, f := range files {
		r.Totals.Files++
		switch f.Status {
		case StatusSkipped:
			r.Totals.Skipped++
		case StatusConverted:
			r.Totals.Converted++
		case StatusUnchanged:
			r.Totals.Unchanged++
		case StatusFailed:
			r.Totals.Failed++
		}
		if f.RunsAfter > 0 {
			r.Totals.Residual++
		}
		r.Totals.Replacements += f.Replacements
		r.Totals.RunsRemoved += f.RunsBefore - f.RunsAfter
		r.Totals.RunsLeft += f.RunsAfter
	}
	return r
}

// 💾 WriteJSON writes the report to path, indented
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Errorf("writing report: %w", err)
	}
	return nil
}
