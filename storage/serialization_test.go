package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/noema/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("had coffee with sarah")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalVectorEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		entry *core.VectorEntry
	}{
		{
			name: "full entry",
			entry: &core.VectorEntry{
				ThoughtId: 42,
				UserId:    "alice",
				Types:     []core.EntityType{core.EntityPerson, core.EntityLocation},
				Timestamp: now,
				Vector:    []float32{0.1, -0.5, 0.9, 0.0},
			},
		},
		{
			name: "no entity types",
			entry: &core.VectorEntry{
				ThoughtId: 7,
				UserId:    "bob",
				Types:     []core.EntityType{},
				Timestamp: now,
				Vector:    []float32{1, 0, 0},
			},
		},
		{
			name: "empty vector",
			entry: &core.VectorEntry{
				ThoughtId: 1,
				UserId:    "alice",
				Types:     []core.EntityType{},
				Timestamp: now,
				Vector:    []float32{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVectorEntry(tt.entry)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalVectorEntry(data)
			require.NoError(t, err)

			assert.Equal(t, tt.entry.ThoughtId, decoded.ThoughtId)
			assert.Equal(t, tt.entry.UserId, decoded.UserId)
			assert.Equal(t, tt.entry.Types, decoded.Types)
			assert.True(t, tt.entry.Timestamp.Equal(decoded.Timestamp),
				"timestamp mismatch: %v vs %v", tt.entry.Timestamp, decoded.Timestamp)
			assert.Equal(t, tt.entry.Vector, decoded.Vector)
		})
	}
}

func TestUnmarshalVectorEntry_Corrupt(t *testing.T) {
	_, err := UnmarshalVectorEntry([]byte{0xff, 0x01})
	assert.Error(t, err)
}
