package operation

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// directories that are never descended into
var prunedDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// 🚶 Walk returns the regular files under root whose slash-separated relative
// path matches at least one include glob and no exclude glob. Directories
// matching an exclude glob are pruned. Backup files are never returned.
func Walk(ctx context.Context, root string, include, exclude []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relative path of %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if prunedDirs[d.Name()] || matchAny(exclude, rel) {
				logger.Trace().Str("dir", rel).Msg("pruned")
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || strings.HasSuffix(rel, status.BackupSuffix) {
			return nil
		}
		if !matchAny(include, rel) || matchAny(exclude, rel) {
			logger.Trace().Str("file", rel).Msg("filtered")
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("root", root).Int("files", len(files)).Msg("walked")
	return files, nil
}

// 🔍 matchAny reports whether path matches one of the globs
func matchAny(globs []string, path string) bool {
	for _, g := range globs {
		// a malformed pattern matches nothing; config validation rejects them earlier
		if ok, err := doublestar.Match(g, path); err == nil && ok {
			return true
		}
	}
	return false
}
