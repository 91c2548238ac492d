package drm

import (
	"crypto/aes"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/google/uuid"
	"github.com/orajowo/cpix"
	"golang.org/x/text/encoding/unicode"
)

const playReadyHeaderNS = "http://schemas.microsoft.com/DRM/2007/03/PlayReadyHeader"

// WRMHEADER versions by encryption scheme.
const (
	wrmVersionCTR = "4.2.0.0"
	wrmVersionCBC = "4.3.0.0"
)

type wrmHeader struct {
	XMLName xml.Name `xml:"WRMHEADER"`
	Xmlns   string   `xml:"xmlns,attr"`
	Version string   `xml:"version,attr"`
	Data    wrmData  `xml:"DATA"`
}

type wrmData struct {
	KIDs  []wrmKID `xml:"PROTECTINFO>KIDS>KID"`
	LAURL string   `xml:"LA_URL"`
}

type wrmKID struct {
	AlgID    string `xml:"ALGID,attr"`
	Checksum string `xml:"CHECKSUM,attr,omitempty"`
	Value    string `xml:"VALUE,attr"`
}

// PlayReady builds PlayReady PSSH boxes carrying a WRMHEADER document as
// UTF-16LE bytes. LAURL is required. CBCS switches the algorithm from
// AESCTR to AESCBC and the header version from 4.2.0.0 to 4.3.0.0.
type PlayReady struct {
	LAURL   string
	CBCS    bool
	Version int
}

func (PlayReady) SystemID() uuid.UUID {
	return PlayReadySystemID
}

// Generate builds the WRMHEADER over all keys, encodes it as UTF-16LE with
// a byte-order mark and wraps it in a PSSH box.
func (p PlayReady) Generate(keys []cpix.ContentKey) ([]byte, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: playready", ErrNoKeys)
	}
	if p.LAURL == "" {
		return nil, fmt.Errorf("%w: playready license acquisition URL", ErrMissingOption)
	}
	if p.Version != 0 && p.Version != 1 {
		return nil, fmt.Errorf("%w %d: only versions 0 and 1 are supported", ErrBoxVersion, p.Version)
	}
	hdr := wrmHeader{
		Xmlns:   playReadyHeaderNS,
		Version: wrmVersionCTR,
	}
	algID := "AESCTR"
	if p.CBCS {
		hdr.Version = wrmVersionCBC
		algID = "AESCBC"
	}
	hdr.Data.LAURL = p.LAURL
	for _, k := range keys {
		kid := wrmKID{
			AlgID: algID,
			Value: base64.StdEncoding.EncodeToString(guidBytes(k.KID)),
		}
		if !p.CBCS {
			sum, err := keyChecksum(k)
			if err != nil {
				return nil, fmt.Errorf("playready checksum: %w", err)
			}
			kid.Checksum = sum
		}
		hdr.Data.KIDs = append(hdr.Data.KIDs, kid)
	}
	u8, err := xml.Marshal(hdr)
	if err != nil {
		return nil, err
	}
	data, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes(u8)
	if err != nil {
		return nil, err
	}
	box := Box{
		Version:  uint8(p.Version),
		SystemID: PlayReadySystemID,
		Data:     data,
	}
	if p.Version == 1 {
		box.KeyIDs = keyIDs(keys)
	}
	return box.Encode()
}

// guidBytes reorders a key ID into PlayReady's GUID byte order: the first
// three fields little-endian, the last eight bytes unchanged.
func guidBytes(kid uuid.UUID) []byte {
	return []byte{
		kid[3], kid[2], kid[1], kid[0],
		kid[5], kid[4],
		kid[7], kid[6],
		kid[8], kid[9], kid[10], kid[11],
		kid[12], kid[13], kid[14], kid[15],
	}
}

// keyChecksum is the AESCTR KID checksum: the GUID-ordered key ID
// encrypted with the content key under AES-ECB, first 8 bytes, base64.
func keyChecksum(k cpix.ContentKey) (string, error) {
	block, err := aes.NewCipher(k.Key)
	if err != nil {
		return "", err
	}
	var out [16]byte
	block.Encrypt(out[:], guidBytes(k.KID))
	return base64.StdEncoding.EncodeToString(out[:8]), nil
}
