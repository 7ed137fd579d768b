package badger

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/noema/core"
)

// Key prefix for vector entries
const vectorEntryPrefix = "thovec:"

// hashUserId reduces an opaque user id to a fixed-width key segment.
// Fixed width keeps user prefixes from colliding regardless of what
// characters the id contains.
func hashUserId(userId string) [8]byte {
	h, _ := blake2b.New(8, nil)
	h.Write([]byte(userId))
	var out [8]byte
	copy(out[:], h.Sum(nil))
	return out
}

// makeVectorKey generates a key for a vector entry.
// Format: prefix + userHash(8) + id(8)
func makeVectorKey(userId string, id core.ID) []byte {
	prefixBytes := []byte(vectorEntryPrefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	userHash := hashUserId(userId)
	offset += copy(buf[offset:], userHash[:])
	// BigEndian so a user's entries sort by id
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeUserPrefix generates the scan prefix covering one user's entries.
func makeUserPrefix(userId string) []byte {
	prefixBytes := []byte(vectorEntryPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	userHash := hashUserId(userId)
	copy(buf[offset:], userHash[:])
	return buf
}
