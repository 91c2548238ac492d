package drm

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Box is a Protection System Specific Header box (ISO/IEC 23001-7, 8.1):
// size:uint32-BE | "pssh" | version:uint8 | flags:3 bytes(0) | systemID:16 |
// [version 1: kidCount:uint32-BE, kids:16 bytes each] | dataSize:uint32-BE |
// data. Only versions 0 and 1 exist; the key ID list is written for
// version 1 only.
type Box struct {
	Version  uint8
	SystemID uuid.UUID
	KeyIDs   []uuid.UUID
	Data     []byte
}

func (b Box) IsWidevine() bool {
	return b.SystemID == WidevineSystemID
}

func (b Box) IsPlayReady() bool {
	return b.SystemID == PlayReadySystemID
}

// Encode renders the box, size field first.
func (b Box) Encode() ([]byte, error) {
	if b.Version != 0 && b.Version != 1 {
		return nil, fmt.Errorf("%w %d: only versions 0 and 1 are supported", ErrBoxVersion, b.Version)
	}
	size := 32 + len(b.Data)
	if b.Version == 1 {
		size += 4 + 16*len(b.KeyIDs)
	}
	out := make([]byte, 0, size)
	out = binary.BigEndian.AppendUint32(out, uint32(size))
	out = append(out, "pssh"...)
	out = append(out, b.Version, 0, 0, 0)
	out = append(out, b.SystemID[:]...)
	if b.Version == 1 {
		out = binary.BigEndian.AppendUint32(out, uint32(len(b.KeyIDs)))
		for _, kid := range b.KeyIDs {
			out = append(out, kid[:]...)
		}
	}
	out = binary.BigEndian.AppendUint32(out, uint32(len(b.Data)))
	out = append(out, b.Data...)
	return out, nil
}

// ParseBox parses an encoded PSSH box back into its parts. The returned
// payload aliases the input.
func ParseBox(pssh []byte) (Box, error) {
	// Fixed header plus dataSize: 4 (size) + 4 (type) + 1 (version) +
	// 3 (flags) + 16 (systemID) + 4 (dataSize).
	if len(pssh) < 32 {
		return Box{}, fmt.Errorf("pssh data too short: expected at least 32 bytes, got %d", len(pssh))
	}
	if string(pssh[4:8]) != "pssh" {
		return Box{}, fmt.Errorf("not a pssh box: found type '%s'", string(pssh[4:8]))
	}
	version := pssh[8]
	if version != 0 && version != 1 {
		return Box{}, fmt.Errorf("%w %d: only versions 0 and 1 are supported", ErrBoxVersion, version)
	}
	var box Box
	box.Version = version
	copy(box.SystemID[:], pssh[12:28])
	dataSizeOffset := 28
	if version == 1 {
		keyCount := binary.BigEndian.Uint32(pssh[28:32])
		dataSizeOffset = 32 + int(keyCount)*16
		if len(pssh) < dataSizeOffset+4 {
			return Box{}, fmt.Errorf("pssh data too short after key IDs: expected %d bytes, got %d", dataSizeOffset+4, len(pssh))
		}
		box.KeyIDs = make([]uuid.UUID, keyCount)
		for i := range box.KeyIDs {
			copy(box.KeyIDs[i][:], pssh[32+i*16:48+i*16])
		}
	}
	dataSize := binary.BigEndian.Uint32(pssh[dataSizeOffset : dataSizeOffset+4])
	if len(pssh) < dataSizeOffset+4+int(dataSize) {
		return Box{}, fmt.Errorf("pssh data truncated: payload size mismatch: expected %d bytes, got %d", dataSize, len(pssh)-(dataSizeOffset+4))
	}
	box.Data = pssh[dataSizeOffset+4 : dataSizeOffset+4+int(dataSize)]
	return box, nil
}
