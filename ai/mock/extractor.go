package mock

import (
	"context"
	"strings"

	"github.com/poiesic/noema/ai"
)

// MockEntityExtractor is a test double for ai.EntityExtractor.
// It allows custom behavior injection via function fields.
type MockEntityExtractor struct {
	// ExtractEntitiesFunc is called by ExtractEntities if set.
	// If nil, uses default simple word extraction.
	ExtractEntitiesFunc func(ctx context.Context, text string) ([]ai.ExtractedEntity, error)

	callCount int
}

// NewMockEntityExtractor creates a mock entity extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockEntityExtractor() *MockEntityExtractor {
	return &MockEntityExtractor{}
}

// ExtractEntities extracts simple mock entities from text.
// Default behavior: capitalized words become person entities, other long
// words become activity entities.
func (m *MockEntityExtractor) ExtractEntities(ctx context.Context, text string) ([]ai.ExtractedEntity, error) {
	m.callCount++

	if m.ExtractEntitiesFunc != nil {
		return m.ExtractEntitiesFunc(ctx, text)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []ai.ExtractedEntity{}, nil
	}

	entities := make([]ai.ExtractedEntity, 0, len(words))
	confidence := 0.95
	for i, word := range words {
		if i >= 5 { // Limit to 5 entities
			break
		}

		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if word == "" {
			continue
		}

		entityType := "activity"
		if word[0] >= 'A' && word[0] <= 'Z' {
			entityType = "person"
		} else if len(word) <= 5 {
			continue
		}

		entities = append(entities, ai.ExtractedEntity{
			Value:      word,
			Type:       entityType,
			Confidence: confidence,
		})

		// Decrease confidence for each subsequent entity
		if confidence > 0.5 {
			confidence -= 0.05
		}
	}

	return entities, nil
}

// CallCount returns the number of times ExtractEntities was called.
func (m *MockEntityExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockEntityExtractor) Reset() {
	m.callCount = 0
	m.ExtractEntitiesFunc = nil
}
