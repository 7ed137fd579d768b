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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidThought indicates a Thought failed validation.
	ErrInvalidThought = errors.New("invalid thought")

	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyUserId indicates the UserId field is empty.
	ErrEmptyUserId = errors.New("user id cannot be empty")

	// ErrUnknownEntityType indicates an EntityType value outside the known set.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrEmptyEntityValue indicates the entity Value field is empty.
	ErrEmptyEntityValue = errors.New("entity value cannot be empty")

	// ErrConfidenceOutOfRange indicates a confidence outside [0,1].
	ErrConfidenceOutOfRange = errors.New("confidence must be between 0 and 1")
)
