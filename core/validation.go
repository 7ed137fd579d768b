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

import (
	"fmt"
	"strings"
	"time"
)

// ParseEntityType parses a case-insensitive entity type name.
// Returns ErrUnknownEntityType for values outside the known set.
func ParseEntityType(s string) (EntityType, error) {
	et := EntityType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range EntityTypes {
		if et == known {
			return et, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, s)
}

// ValidateThought validates a Thought according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - UserId must not be empty
//   - Timestamp must not be in the future
//
// NOT validated (populated by the ingestion pipeline):
//   - Entities (can be empty until extraction runs)
//   - ID (0 is valid before assignment)
func ValidateThought(thought *Thought) error {
	if thought == nil {
		return fmt.Errorf("%w: thought is nil", ErrInvalidThought)
	}

	if strings.TrimSpace(thought.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidThought, ErrEmptyContent)
	}

	if thought.UserId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidThought, ErrEmptyUserId)
	}

	if !IsValidTimestamp(thought.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidThought, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - Value must not be empty
//   - Type must be a known entity type
//   - Confidence must lie in [0,1]
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if entity.Value == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityValue)
	}

	if _, err := ParseEntityType(string(entity.Type)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	if entity.Confidence < 0 || entity.Confidence > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrConfidenceOutOfRange)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}

// NormalizeTags lowercases, trims and deduplicates a tag list, preserving
// first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
