package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "had coffee with sarah",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer thought that should still hash to a stable identifier no matter how often it is ingested",
		},
		{
			name:    "unicode content",
			content: "café crème at the café",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("morning run in the park")
	id2 := IDFromContent("evening run in the park")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}
