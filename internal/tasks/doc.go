// Package tasks runs registration slip exports with progress reporting.
//
// # Operations
//
//  1. [SlipEngine.Export] : render one student's slip and write it to the sink
//  2. [SlipEngine.BulkExport] : render every slip through a rate-limited worker pool, then write a
//     manifest summarising the run
//
// # Sinks
//
// Slips are written through a [Sink], which any [kv.Store] satisfies: a [kv.File] rooted at the
// export directory writes plain files, a [kv.S3] uploads objects.
//
// # Progress Reporting
//
// Bulk exports send [ProgressUpdate] values on an optional channel. Sends never block; a full
// channel drops the update.
package tasks
