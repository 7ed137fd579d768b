// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import "errors"

var (
	// ErrInvalidQuery is returned for an empty query, malformed filter
	// syntax, or an invalid range. Always the caller's fault; never retried.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrRetrieval is returned when the mandatory keyword retrieval path
	// fails. The caller may retry the whole search.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrRetrievalTimeout is returned when the keyword retrieval path
	// exceeds its time budget. A semantic-path timeout degrades instead.
	ErrRetrievalTimeout = errors.New("retrieval timed out")

	// ErrThoughtStoreRequired is returned when a thought store is not provided.
	ErrThoughtStoreRequired = errors.New("thought store required")

	// ErrVectorIndexRequired is returned when a vector index is not provided.
	ErrVectorIndexRequired = errors.New("vector index required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
