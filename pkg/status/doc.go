/*
Package status manages file storage and outcome tracking for rewriterc.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|  Manager  |           | Tracker  |
	|  (Files)  |           | (Report) |
	+-----------+           +----------+

🎯 Purpose:
- Reads files relative to the walk root and rejects non UTF-8 content
- Writes converted files atomically, keeping their permission bits
- Keeps optional .bak copies of rewritten files
- Records what happened to every file and builds a JSON report

🔄 Flow:
1. Operation reads a file through the Manager
2. The converter produces a ConversionResult
3. FromResult turns it into a FileInfo with a status
4. Manager writes changed content unless the run is dry
5. Tracker records the FileInfo; Report totals everything at the end

📊 Statuses:
- skipped: no target script characters, never touched
- converted: content was rewritten
- unchanged: target script present but no rule matched
- failed: read, decode or write error

🔍 Example:

	mgr := status.New(root, logger)
	tracker := status.NewTracker(logger)

	content, err := mgr.ReadFile(ctx, "src/Main.kt")
	res := converter.Convert(string(content))
	info := status.FromResult("src/Main.kt", res)
	if info.Status == status.StatusConverted {
		err = mgr.WriteFileAtomic(ctx, info.Path, []byte(res.NewText))
	}
	tracker.TrackFile(ctx, info)

	report := tracker.Report(ctx, root, "hangul", false)
	err = report.WriteJSON("rewrite-report.json")
*/
package status
