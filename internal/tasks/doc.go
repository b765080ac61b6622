// Package tasks runs long listening-stats operations with progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] fetches every requested (kind, time range) pair with a worker pool, writes
// one file per pair in the chosen format and finishes with export_manifest.json summarizing the run.
// A failed pair is recorded in the manifest and does not stop the others.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Updates are sent with select/default so a
// slow or absent reader never blocks the workers.
package tasks
