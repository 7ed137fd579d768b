package core

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EntityType
		wantErr bool
	}{
		{"exact match", "person", EntityPerson, false},
		{"uppercase", "LOCATION", EntityLocation, false},
		{"mixed case", "Emotion", EntityEmotion, false},
		{"surrounding whitespace", "  activity  ", EntityActivity, false},
		{"organization", "organization", EntityOrganization, false},
		{"event", "event", EntityEvent, false},
		{"date", "date", EntityDate, false},
		{"unknown type", "robot", "", true},
		{"empty string", "", "", true},
		{"whitespace only", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntityType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownEntityType) {
					t.Errorf("ParseEntityType(%q) error = %v, want ErrUnknownEntityType", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntityType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseEntityType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateThought(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		thought *Thought
		wantErr error
	}{
		{
			name: "valid thought",
			thought: &Thought{
				Id:        1,
				UserId:    "alice",
				Content:   "Had coffee with Sarah",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid thought with ID 0",
			thought: &Thought{
				UserId:    "alice",
				Content:   "Not yet persisted",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid thought without entities",
			thought: &Thought{
				Id:        2,
				UserId:    "alice",
				Content:   "Enrichment pending",
				Timestamp: validTime,
				Entities:  nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil thought",
			thought: nil,
			wantErr: ErrInvalidThought,
		},
		{
			name: "empty content",
			thought: &Thought{
				UserId:    "alice",
				Content:   "",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "whitespace content",
			thought: &Thought{
				UserId:    "alice",
				Content:   "   \t\n",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "empty user id",
			thought: &Thought{
				Content:   "orphaned",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyUserId,
		},
		{
			name: "future timestamp",
			thought: &Thought{
				UserId:    "alice",
				Content:   "from the future",
				Timestamp: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThought(tt.thought)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateThought() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateThought() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidThought) {
				t.Errorf("ValidateThought() error = %v, want wrapped ErrInvalidThought", err)
			}
		})
	}
}

func TestValidateEntity(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		entity  *Entity
		wantErr error
	}{
		{
			name: "valid entity",
			entity: &Entity{
				Type:        EntityPerson,
				Value:       "Sarah",
				Confidence:  0.92,
				StartPos:    16,
				EndPos:      21,
				ExtractedAt: now,
			},
			wantErr: nil,
		},
		{
			name: "valid entity without span",
			entity: &Entity{
				Type:       EntityEmotion,
				Value:      "happy",
				Confidence: 0.8,
				StartPos:   -1,
				EndPos:     -1,
			},
			wantErr: nil,
		},
		{
			name: "confidence at bounds",
			entity: &Entity{
				Type:       EntityLocation,
				Value:      "the park",
				Confidence: 1.0,
			},
			wantErr: nil,
		},
		{
			name:    "nil entity",
			entity:  nil,
			wantErr: ErrInvalidEntity,
		},
		{
			name: "empty value",
			entity: &Entity{
				Type:       EntityPerson,
				Value:      "",
				Confidence: 0.5,
			},
			wantErr: ErrEmptyEntityValue,
		},
		{
			name: "unknown type",
			entity: &Entity{
				Type:       EntityType("gadget"),
				Value:      "phone",
				Confidence: 0.5,
			},
			wantErr: ErrUnknownEntityType,
		},
		{
			name: "confidence above 1",
			entity: &Entity{
				Type:       EntityPerson,
				Value:      "Sarah",
				Confidence: 1.2,
			},
			wantErr: ErrConfidenceOutOfRange,
		},
		{
			name: "negative confidence",
			entity: &Entity{
				Type:       EntityPerson,
				Value:      "Sarah",
				Confidence: -0.1,
			},
			wantErr: ErrConfidenceOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidEntity) {
				t.Errorf("ValidateEntity() error = %v, want wrapped ErrInvalidEntity", err)
			}
		})
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if !IsValidTimestamp(time.Now().Add(-time.Minute)) {
		t.Error("IsValidTimestamp() rejected a past timestamp")
	}
	if IsValidTimestamp(time.Now().Add(time.Hour)) {
		t.Error("IsValidTimestamp() accepted a future timestamp")
	}
	if !IsValidTimestamp(time.Time{}) {
		t.Error("IsValidTimestamp() rejected the zero timestamp")
	}
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "lowercase and dedupe",
			tags: []string{"Work", "life", "work"},
			want: []string{"work", "life"},
		},
		{
			name: "trims whitespace",
			tags: []string{"  travel ", "travel"},
			want: []string{"travel"},
		},
		{
			name: "drops empty entries",
			tags: []string{"", "  ", "ideas"},
			want: []string{"ideas"},
		},
		{
			name: "preserves first-seen order",
			tags: []string{"b", "a", "B", "c"},
			want: []string{"b", "a", "c"},
		},
		{
			name: "nil input",
			tags: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.tags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%v) = %v, want %v", tt.tags, got, tt.want)
			}
		})
	}
}
