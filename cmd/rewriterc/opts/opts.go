package opts

import (
	"context"
	"path/filepath"

	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string // --config
	Root       string // --root, overrides the configured root
	Debug      bool   // --debug

	Config *config.Config
	Logger *log.Logger
}

// 🔧 Load reads the config file and applies command line overrides
func (o *RootOpts) Load(ctx context.Context) error {
	cfg, err := config.LoadConfig(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if o.Root != "" {
		abs, err := filepath.Abs(o.Root)
		if err != nil {
			return errors.Errorf("resolving root: %w", err)
		}
		cfg.Root = abs
	}

	o.Config = cfg
	return nil
}

// RuleSet builds the merged rule set of the loaded config
func (o *RootOpts) RuleSet(ctx context.Context) (*rules.RuleSet, error) {
	if o.Config == nil {
		return nil, errors.Errorf("config not loaded")
	}
	return o.Config.RuleSet(ctx)
}

// 🔄 Converter builds a converter from the loaded config
func (o *RootOpts) Converter(ctx context.Context) (*text.Converter, error) {
	rs, err := o.RuleSet(ctx)
	if err != nil {
		return nil, err
	}
	s, err := o.Config.TargetScript()
	if err != nil {
		return nil, err
	}
	return text.NewConverter(rs, text.Options{
		Script:    s,
		MaxPasses: o.Config.MaxPasses,
		Normalize: o.Config.NormalizeEnabled(),
	}), nil
}

// OperationOptions returns the operation options for the loaded config
func (o *RootOpts) OperationOptions(conv *text.Converter) operation.Options {
	return operation.Options{
		Root:      o.Config.Root,
		Include:   o.Config.Include,
		Exclude:   o.Config.Exclude,
		Workers:   o.Config.Workers,
		DryRun:    o.Config.DryRun,
		Backup:    o.Config.Backup,
		Converter: conv,
		Files:     status.New(o.Config.Root, o.Logger.Zerolog()),
		Logger:    o.Logger,
	}
}
