package drm

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/orajowo/cpix"
	"google.golang.org/protobuf/encoding/protowire"
)

// Widevine license record field numbers.
const (
	wvAlgorithm protowire.Number = 1
	wvKeyID     protowire.Number = 2
	wvProvider  protowire.Number = 3
	wvContentID protowire.Number = 4
)

// The only algorithm Widevine PSSH data signals.
const wvAESCTR = 1

// Widevine builds Widevine PSSH boxes. Provider and ContentID are optional
// and omitted from the record when unset. Version selects the PSSH box
// version; for version 1 the key ID list also rides in the box header.
type Widevine struct {
	Provider  string
	ContentID []byte
	Version   int
}

func (Widevine) SystemID() uuid.UUID {
	return WidevineSystemID
}

// Generate encodes the key IDs into a Widevine license record and wraps it
// in a PSSH box.
func (w Widevine) Generate(keys []cpix.ContentKey) ([]byte, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: widevine", ErrNoKeys)
	}
	if w.Version != 0 && w.Version != 1 {
		return nil, fmt.Errorf("%w %d: only versions 0 and 1 are supported", ErrBoxVersion, w.Version)
	}
	box := Box{
		Version:  uint8(w.Version),
		SystemID: WidevineSystemID,
		Data:     w.record(keys),
	}
	if w.Version == 1 {
		box.KeyIDs = keyIDs(keys)
	}
	return box.Encode()
}

// record encodes the inner license record, fields in ascending number
// order.
func (w Widevine) record(keys []cpix.ContentKey) []byte {
	b := protowire.AppendTag(nil, wvAlgorithm, protowire.VarintType)
	b = protowire.AppendVarint(b, wvAESCTR)
	for _, k := range keys {
		b = protowire.AppendTag(b, wvKeyID, protowire.BytesType)
		b = protowire.AppendBytes(b, k.KID[:])
	}
	if w.Provider != "" {
		b = protowire.AppendTag(b, wvProvider, protowire.BytesType)
		b = protowire.AppendString(b, w.Provider)
	}
	if len(w.ContentID) > 0 {
		b = protowire.AppendTag(b, wvContentID, protowire.BytesType)
		b = protowire.AppendBytes(b, w.ContentID)
	}
	return b
}

// WidevineData is the decoded inner record of a Widevine PSSH box.
type WidevineData struct {
	Algorithm uint64
	KeyIDs    []uuid.UUID
	Provider  string
	ContentID []byte
}

// ParseWidevineData decodes the inner record of a Widevine PSSH box.
// Unknown fields are skipped.
func ParseWidevineData(data []byte) (WidevineData, error) {
	var out WidevineData
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return WidevineData{}, protowire.ParseError(n)
		}
		data = data[n:]
		switch {
		case num == wvAlgorithm && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return WidevineData{}, protowire.ParseError(n)
			}
			out.Algorithm = v
			data = data[n:]
		case num == wvKeyID && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return WidevineData{}, protowire.ParseError(n)
			}
			kid, err := uuid.FromBytes(v)
			if err != nil {
				return WidevineData{}, fmt.Errorf("widevine key ID: %w", err)
			}
			out.KeyIDs = append(out.KeyIDs, kid)
			data = data[n:]
		case num == wvProvider && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return WidevineData{}, protowire.ParseError(n)
			}
			out.Provider = string(v)
			data = data[n:]
		case num == wvContentID && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return WidevineData{}, protowire.ParseError(n)
			}
			out.ContentID = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return WidevineData{}, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return out, nil
}

func keyIDs(keys []cpix.ContentKey) []uuid.UUID {
	ids := make([]uuid.UUID, len(keys))
	for i, k := range keys {
		ids[i] = k.KID
	}
	return ids
}
