// Package ingestion provides pipeline orchestration for capturing thoughts.
//
// The Pipeline type manages the ingestion workflow for thoughts, including:
//   - Adding thoughts to storage
//   - Extracting entities asynchronously
//   - Generating embeddings and indexing them asynchronously
//
// Enrichment is performed concurrently using a worker pool to maximize
// throughput. Errors during async enrichment are logged but do not fail the
// ingestion operation; an unenriched thought is still keyword-searchable.
package ingestion
