package ingestion

import "errors"

var (
	// ErrThoughtStoreRequired is returned when a thought store is not provided.
	ErrThoughtStoreRequired = errors.New("thought store required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
