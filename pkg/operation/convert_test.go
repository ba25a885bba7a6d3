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

package operation_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🧪 testEnv is a source tree plus everything an operation needs
type testEnv struct {
	ctx     context.Context
	root    string
	console *bytes.Buffer
	opts    operation.Options
}

func newTestEnv(t *testing.T, files map[string]string) *testEnv {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	rs, err := rules.Build(rules.Definition{
		Phrases: map[string]string{
			"오류가 발생했습니다": "An error occurred",
			"오류":         "error",
			"사용자":        "user",
		},
		Particles: []string{"는", "를"},
		Patterns:  []rules.Pattern{{Match: `(\d+)개`, Replace: "$1 items"}},
	})
	require.NoError(t, err)

	console := &bytes.Buffer{}
	logger := log.New(console, zerolog.Disabled)
	zl := zerolog.New(zerolog.NewTestWriter(t))

	return &testEnv{
		ctx:     zl.WithContext(context.Background()),
		root:    root,
		console: console,
		opts: operation.Options{
			Root:      root,
			Include:   []string{"**/*"},
			Workers:   4,
			Converter: text.NewConverter(rs, text.Options{MaxPasses: 2, Normalize: true}),
			Logger:    logger,
		},
	}
}

func (e *testEnv) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

var sources = map[string]string{
	"src/Errors.kt":  "throw Exception(\"오류가 발생했습니다\")\n",
	"src/User.kt":    "// 사용자는 3개\nval x = 1\n",
	"src/Partial.kt": "// 오류 확인\n",
	"src/Plain.kt":   "val x = 1\n",
	"docs/notes.md":  "미번역\n",
}

func TestConvertOperation(t *testing.T) {
	env := newTestEnv(t, sources)

	op, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(env.ctx))

	assert.Equal(t, "throw Exception(\"An error occurred\")\n", env.read(t, "src/Errors.kt"))
	assert.Equal(t, "// user 3 items\nval x = 1\n", env.read(t, "src/User.kt"))
	assert.Equal(t, "// error 확인\n", env.read(t, "src/Partial.kt"))
	assert.Equal(t, "val x = 1\n", env.read(t, "src/Plain.kt"))
	assert.Equal(t, "미번역\n", env.read(t, "docs/notes.md"))

	report := op.Report(env.ctx)
	assert.Equal(t, env.root, report.Root)
	assert.Equal(t, "hangul", report.Script)
	assert.False(t, report.DryRun)
	assert.Equal(t, 5, report.Totals.Files)
	assert.Equal(t, 3, report.Totals.Converted)
	assert.Equal(t, 1, report.Totals.Unchanged)
	assert.Equal(t, 1, report.Totals.Skipped)
	assert.Equal(t, 2, report.Totals.Residual)
	assert.Zero(t, report.Totals.Failed)

	byPath := map[string]status.FileInfo{}
	for _, f := range report.Files {
		byPath[f.Path] = f
	}
	assert.Equal(t, status.StatusConverted, byPath["src/Partial.kt"].Status)
	require.Len(t, byPath["src/Partial.kt"].Residual, 1)
	assert.Equal(t, []string{"확인"}, byPath["src/Partial.kt"].Residual[0].Runs)
	assert.Equal(t, status.StatusUnchanged, byPath["docs/notes.md"].Status)
	assert.Equal(t, status.StatusSkipped, byPath["src/Plain.kt"].Status)

	assert.Contains(t, env.console.String(), "• convert ")
	assert.Contains(t, env.console.String(), "src/Errors.kt")
	assert.NotContains(t, env.console.String(), "src/Plain.kt", "skipped files are quiet by default")
}

func TestConvertOperation_Idempotent(t *testing.T) {
	env := newTestEnv(t, sources)

	op, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(env.ctx))

	first := map[string]string{}
	for name := range sources {
		first[name] = env.read(t, name)
	}

	again, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)
	require.NoError(t, again.Execute(env.ctx))

	for name := range sources {
		assert.Equal(t, first[name], env.read(t, name), "second run should not change %s", name)
	}
	assert.Zero(t, again.Report(env.ctx).Totals.Converted)
}

func TestConvertOperation_DryRun(t *testing.T) {
	env := newTestEnv(t, sources)
	env.opts.DryRun = true

	op, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(env.ctx))

	for name, content := range sources {
		assert.Equal(t, content, env.read(t, name), "dry run must not touch %s", name)
	}

	report := op.Report(env.ctx)
	assert.True(t, report.DryRun)
	assert.Equal(t, 3, report.Totals.Converted, "dry run still reports what would change")
}

func TestConvertOperation_Backup(t *testing.T) {
	env := newTestEnv(t, map[string]string{"a.kt": "오류\n", "b.kt": "plain\n"})
	env.opts.Backup = true

	op, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(env.ctx))

	assert.Equal(t, "error\n", env.read(t, "a.kt"))
	assert.Equal(t, "오류\n", env.read(t, "a.kt"+status.BackupSuffix))

	_, err = os.Stat(filepath.Join(env.root, "b.kt"+status.BackupSuffix))
	assert.True(t, os.IsNotExist(err), "unchanged files get no backup")

	// backups are never picked up by a later walk
	again, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)
	require.NoError(t, again.Execute(env.ctx))
	assert.Equal(t, 2, again.Report(env.ctx).Totals.Files)
}

// 💥 clobberingFiles truncates the target and then fails, like a write
// interrupted halfway
type clobberingFiles struct {
	*status.Manager
}

func (c clobberingFiles) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	if err := os.WriteFile(filepath.Join(c.BaseDir(), path), content[:1], 0644); err != nil {
		return err
	}
	return errors.New("disk full")
}

func TestConvertOperation_WriteFailureRestoresBackup(t *testing.T) {
	tests := []struct {
		name      string
		backup    bool
		wantAfter string
	}{
		{name: "with_backup", backup: true, wantAfter: "오류\n"},
		{name: "without_backup", backup: false, wantAfter: "e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, map[string]string{"a.kt": "오류\n"})
			env.opts.Backup = tt.backup
			env.opts.Files = clobberingFiles{Manager: status.New(env.root, nil)}

			op, err := operation.NewConvertOperation(env.opts)
			require.NoError(t, err)

			err = op.Execute(env.ctx)
			require.ErrorIs(t, err, operation.ErrFailures)

			assert.Equal(t, tt.wantAfter, env.read(t, "a.kt"))
			_, statErr := os.Stat(filepath.Join(env.root, "a.kt"+status.BackupSuffix))
			assert.True(t, os.IsNotExist(statErr), "no backup is left behind")

			report := op.Report(env.ctx)
			require.Len(t, report.Files, 1)
			assert.Equal(t, status.StatusFailed, report.Files[0].Status)
			assert.ErrorContains(t, report.Files[0].Error, "disk full")
		})
	}
}

func TestConvertOperation_InvalidUTF8(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"good.kt": "오류\n",
		"bad.kt":  "\xff\xfe오류\n",
	})

	op, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)

	err = op.Execute(env.ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, operation.ErrFailures)

	assert.Equal(t, "error\n", env.read(t, "good.kt"), "other files are still converted")
	assert.Equal(t, "\xff\xfe오류\n", env.read(t, "bad.kt"), "undecodable files are left alone")

	info, err := op.Tracker.GetFileInfo(env.ctx, "bad.kt")
	require.NoError(t, err)
	assert.Equal(t, status.StatusFailed, info.Status)
	var encErr *status.EncodingError
	assert.ErrorAs(t, info.Error, &encErr)
}

func TestConvertOperation_Filters(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"src/a.kt":       "오류\n",
		"src/build/b.kt": "오류\n",
		"src/c.md":       "오류\n",
	})
	env.opts.Include = []string{"**/*.kt"}
	env.opts.Exclude = []string{"**/build/**"}

	op, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)
	require.NoError(t, op.Execute(env.ctx))

	assert.Equal(t, "error\n", env.read(t, "src/a.kt"))
	assert.Equal(t, "오류\n", env.read(t, "src/build/b.kt"))
	assert.Equal(t, "오류\n", env.read(t, "src/c.md"))
	assert.Equal(t, 1, op.Report(env.ctx).Totals.Files)
}

func TestConvertOperation_Cancelled(t *testing.T) {
	env := newTestEnv(t, sources)
	ctx, cancel := context.WithCancel(env.ctx)
	cancel()

	op, err := operation.NewConvertOperation(env.opts)
	require.NoError(t, err)

	err = op.Execute(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, sources["src/Errors.kt"], env.read(t, "src/Errors.kt"))
}

func TestNewConvertOperation_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name        string
		mutate      func(o *operation.Options)
		errContains string
	}{
		{name: "no_converter", mutate: func(o *operation.Options) { o.Converter = nil }, errContains: "converter is required"},
		{name: "no_logger", mutate: func(o *operation.Options) { o.Logger = nil }, errContains: "logger is required"},
		{name: "no_root", mutate: func(o *operation.Options) { o.Root = "" }, errContains: "root is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := env.opts
			tt.mutate(&opts)
			_, err := operation.NewConvertOperation(opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
