package cpix

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ContentKey is one key delivered by a CPIX document: a 16-byte key ID and
// the 16-byte content encryption key it names.
type ContentKey struct {
	KID uuid.UUID
	Key []byte
}

// ParseKey parses a "KID:CEK" pair where both tokens are 32 hex characters.
func ParseKey(spec string) (ContentKey, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 2 {
		return ContentKey{}, fmt.Errorf("%w: expected KID:CEK, got %d tokens", ErrMalformedKeySpec, len(parts))
	}
	kid, err := parseHex16(parts[0])
	if err != nil {
		return ContentKey{}, fmt.Errorf("%w: key ID must be 32 hex characters", ErrInvalidKeyLength)
	}
	key, err := parseHex16(parts[1])
	if err != nil {
		return ContentKey{}, fmt.Errorf("%w: content key must be 32 hex characters", ErrInvalidKeyLength)
	}
	return ContentKey{KID: uuid.UUID(kid), Key: key[:]}, nil
}

// ParseKeys parses a batch of "KID:CEK" pairs in order, stopping at the
// first invalid pair. Key IDs must be unique across the batch.
func ParseKeys(specs []string) ([]ContentKey, error) {
	keys := make([]ContentKey, 0, len(specs))
	seen := make(map[uuid.UUID]struct{}, len(specs))
	for i, spec := range specs {
		k, err := ParseKey(spec)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		if _, dup := seen[k.KID]; dup {
			return nil, fmt.Errorf("key %d: %w: %s", i, ErrDuplicateKeyID, k.KID)
		}
		seen[k.KID] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

func parseHex16(s string) ([16]byte, error) {
	var out [16]byte
	if len(s) != 32 {
		return out, fmt.Errorf("expected 32 hex characters, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func hasKey(keys []ContentKey, kid uuid.UUID) bool {
	for _, k := range keys {
		if k.KID == kid {
			return true
		}
	}
	return false
}
