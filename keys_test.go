package cpix

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestParseKeyRoundTrip(t *testing.T) {
	for _, spec := range []string{
		"e82f184c3aaa57b4ace8606b5e3febad:c2fa51137c2846f49d68e5d2a63a3a0b",
		"E82F184C3AAA57B4ACE8606B5E3FEBAD:C2FA51137C2846F49D68E5D2A63A3A0B",
	} {
		k, err := ParseKey(spec)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", spec, err)
		}
		kidHex, keyHex, _ := strings.Cut(strings.ToLower(spec), ":")
		if got := hex.EncodeToString(k.KID[:]); got != kidHex {
			t.Errorf("kid = %s, want %s", got, kidHex)
		}
		if got := hex.EncodeToString(k.Key); got != keyHex {
			t.Errorf("key = %s, want %s", got, keyHex)
		}
	}
}

func TestParseKeyErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		spec string
		want error
		msg  string
	}{
		{"no colon", "deadbeef", ErrMalformedKeySpec, ""},
		{"three tokens", "aa:bb:cc", ErrMalformedKeySpec, ""},
		{"short kid", "e82f184c:c2fa51137c2846f49d68e5d2a63a3a0b", ErrInvalidKeyLength, "key ID"},
		{"short key", "e82f184c3aaa57b4ace8606b5e3febad:c2fa", ErrInvalidKeyLength, "content key"},
		{"kid not hex", strings.Repeat("z", 32) + ":" + strings.Repeat("0", 32), ErrInvalidKeyLength, "key ID"},
		{"key not hex", strings.Repeat("0", 32) + ":" + strings.Repeat("z", 32), ErrInvalidKeyLength, "content key"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseKey(tc.spec)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseKey(%q) = %v, want %v", tc.spec, err, tc.want)
			}
			if tc.msg != "" && !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("error %q does not name the %s token", err, tc.msg)
			}
		})
	}
}

func TestParseKeys(t *testing.T) {
	keys, err := ParseKeys([]string{
		"e82f184c3aaa57b4ace8606b5e3febad:c2fa51137c2846f49d68e5d2a63a3a0b",
		"087bcfc6f7a55716b8e7bd1ea1e2d541:0d6e5e491e1a6ba6fb1e4dbfbe9ca5ad",
	})
	if err != nil {
		t.Fatalf("ParseKeys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
	if keys[0].KID.String() != "e82f184c-3aaa-57b4-ace8-606b5e3febad" {
		t.Errorf("keys out of order: first kid %s", keys[0].KID)
	}
}

func TestParseKeysDuplicateKID(t *testing.T) {
	_, err := ParseKeys([]string{
		"e82f184c3aaa57b4ace8606b5e3febad:c2fa51137c2846f49d68e5d2a63a3a0b",
		"e82f184c3aaa57b4ace8606b5e3febad:0d6e5e491e1a6ba6fb1e4dbfbe9ca5ad",
	})
	if !errors.Is(err, ErrDuplicateKeyID) {
		t.Fatalf("err = %v, want ErrDuplicateKeyID", err)
	}
}

func TestParseKeysStopsAtFirstError(t *testing.T) {
	_, err := ParseKeys([]string{
		"bogus",
		"e82f184c3aaa57b4ace8606b5e3febad:c2fa51137c2846f49d68e5d2a63a3a0b",
	})
	if !errors.Is(err, ErrMalformedKeySpec) {
		t.Fatalf("err = %v, want ErrMalformedKeySpec", err)
	}
	if !strings.Contains(err.Error(), "key 0") {
		t.Errorf("error %q does not name the failing entry", err)
	}
}
