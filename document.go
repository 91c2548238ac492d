// Package cpix builds CPIX 2.x content protection information documents
// for multi-DRM key delivery.
package cpix

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// DRMSystem binds a content key to one DRM system's signaling data. PSSH
// holds the raw box bytes; they are base64-encoded at serialization time.
type DRMSystem struct {
	KID      uuid.UUID
	SystemID uuid.UUID
	PSSH     []byte
}

// Document is a validated CPIX document. Construct one with Assemble; a
// Document that exists holds internally consistent sections.
type Document struct {
	Keys       []ContentKey
	DRMSystems []DRMSystem
	UsageRules []UsageRule
}

// ValidationError reports every referential violation found while
// assembling a document, in input order.
type ValidationError struct {
	Violations []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("document validation failed: %s", strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Violations
}

// Assemble builds a Document from its three sections, preserving input
// order. It checks the whole input before failing: 16-byte key material,
// unique key IDs, every DRM system entry and usage rule referring to a
// listed key, and at most one rule per key. On failure it returns a
// ValidationError carrying all violations.
func Assemble(keys []ContentKey, systems []DRMSystem, rules []UsageRule) (*Document, error) {
	var violations []error
	known := make(map[uuid.UUID]struct{}, len(keys))
	for i, k := range keys {
		if len(k.Key) != 16 {
			violations = append(violations, fmt.Errorf("content key %d: %w: got %d bytes", i, ErrInvalidKeyLength, len(k.Key)))
		}
		if _, dup := known[k.KID]; dup {
			violations = append(violations, fmt.Errorf("content key %d: %w: %s", i, ErrDuplicateKeyID, k.KID))
			continue
		}
		known[k.KID] = struct{}{}
	}
	for i, s := range systems {
		if _, ok := known[s.KID]; !ok {
			violations = append(violations, fmt.Errorf("drm system %d: %w: %s", i, ErrUnknownKeyReference, s.KID))
		}
	}
	ruled := make(map[uuid.UUID]struct{}, len(rules))
	for i, r := range rules {
		if _, ok := known[r.KID]; !ok {
			violations = append(violations, fmt.Errorf("usage rule %d: %w: %s", i, ErrUnknownKeyReference, r.KID))
			continue
		}
		if _, dup := ruled[r.KID]; dup {
			violations = append(violations, fmt.Errorf("usage rule %d: %w: key %s", i, ErrDuplicateUsageRule, r.KID))
			continue
		}
		ruled[r.KID] = struct{}{}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return &Document{
		Keys:       slices.Clone(keys),
		DRMSystems: slices.Clone(systems),
		UsageRules: slices.Clone(rules),
	}, nil
}
