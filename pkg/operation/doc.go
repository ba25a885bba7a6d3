/*
Package operation runs the converter over a tree of files.

	+-------------+
	|    Walk     |
	| (doublestar)|
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| (errgroup)  |
	+------+------+
	       |
	+------+------+      +-----------+
	|  Convert /  +----->+  Status   |
	|   Check     |      | (Tracker) |
	+-------------+      +-----------+

🎯 Purpose:
- Selects files with include/exclude globs, pruning VCS and excluded directories
- Converts files concurrently with a bounded worker pool
- Delegates reads, atomic writes and backups to the status package
- Checks a tree for leftover target script without writing

🔄 Flow (convert, per file):
1. Read through status.FileManager (non UTF-8 content is recorded as failed)
2. text.Converter.Convert
3. Write when the content changed and the run is not dry
4. Track and log the outcome

⚡ Errors:
- Per-file problems never stop the run; they surface as ErrFailures at the end
- check returns ErrResidual when any file still holds target script
- Cancelling the context stops scheduling new files

🔍 Example:

	op, err := operation.NewConvertOperation(operation.Options{
		Root:      cfg.Root,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
		Workers:   cfg.Workers,
		Converter: text.NewConverter(rs, text.Options{MaxPasses: cfg.MaxPasses}),
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	err = op.Execute(ctx)
	report := op.Report(ctx)
*/
package operation
