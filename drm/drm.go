// Package drm generates Protection System Specific Header boxes for the
// DRM systems a CPIX document can carry.
package drm

import (
	"errors"

	"github.com/google/uuid"
	"github.com/orajowo/cpix"
)

// Well-known protection system identifiers.
var (
	WidevineSystemID  = uuid.MustParse("edef8ba9-79d6-4ace-a3c8-27dcd51d21ed")
	PlayReadySystemID = uuid.MustParse("9a04f079-9840-4286-ab92-e65be0885f95")
)

var (
	ErrNoKeys        = errors.New("no content keys for system")
	ErrMissingOption = errors.New("missing required option")
	ErrBoxVersion    = errors.New("unsupported pssh box version")
)

// Generator produces one DRM system's PSSH box over a set of content keys.
// Generation is pure; a generator value only carries options.
type Generator interface {
	SystemID() uuid.UUID
	Generate(keys []cpix.ContentKey) ([]byte, error)
}
