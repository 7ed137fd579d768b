// Package reindex provides functionality for rebuilding the vector index
// from stored thoughts, typically after switching embedding models.
//
// This package supports batch processing of thoughts, progress tracking,
// retry logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reindex
