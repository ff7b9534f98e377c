// Package operations orchestrates the crime-incident pipeline as a sequence
// of dependent steps: ingestion, staging, primary transformation and
// reporting aggregation. A Manager executes registered steps in dependency
// order, hands datasets between them in memory through the operation state,
// and converts step failures into typed errors the caller can act on. A
// missing input file halts the run gracefully: downstream steps are skipped
// and the operation still completes.
package operations
