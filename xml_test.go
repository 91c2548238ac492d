package cpix

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDocumentBytes(t *testing.T) {
	keys := testKeySet(t)[:1]
	pssh := []byte{0x00, 0x00, 0x00, 0x20, 'p', 's', 's', 'h'}
	doc, err := Assemble(keys,
		[]DRMSystem{{
			KID:      keys[0].KID,
			SystemID: uuid.MustParse("edef8ba9-79d6-4ace-a3c8-27dcd51d21ed"),
			PSSH:     pssh,
		}},
		[]UsageRule{{
			KID: keys[0].KID,
			Filters: []Filter{
				VideoFilter{MinPixels: ptr[uint32](0), MaxPixels: ptr[uint32](442368)},
				BitrateFilter{MaxBitrate: ptr[uint32](500000)},
			},
		}},
	)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	want := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<CPIX xmlns="urn:dashif:org:cpix" xmlns:pskc="urn:ietf:params:xml:ns:keyprov:pskc">
  <ContentKeyList>
    <ContentKey kid="e82f184c-3aaa-57b4-ace8-606b5e3febad">
      <Data>
        <pskc:Secret>
          <pskc:PlainValue>%s</pskc:PlainValue>
        </pskc:Secret>
      </Data>
    </ContentKey>
  </ContentKeyList>
  <DRMSystemList>
    <DRMSystem kid="e82f184c-3aaa-57b4-ace8-606b5e3febad" systemId="edef8ba9-79d6-4ace-a3c8-27dcd51d21ed">
      <PSSH>%s</PSSH>
    </DRMSystem>
  </DRMSystemList>
  <ContentKeyUsageRuleList>
    <ContentKeyUsageRule kid="e82f184c-3aaa-57b4-ace8-606b5e3febad">
      <VideoFilter minPixels="0" maxPixels="442368"></VideoFilter>
      <BitrateFilter maxBitrate="500000"></BitrateFilter>
    </ContentKeyUsageRule>
  </ContentKeyUsageRuleList>
</CPIX>
`,
		base64.StdEncoding.EncodeToString(keys[0].Key),
		base64.StdEncoding.EncodeToString(pssh))
	if string(got) != want {
		t.Errorf("document mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDocumentBytesAudioFilter(t *testing.T) {
	keys := testKeySet(t)
	doc, err := Assemble(keys, nil, []UsageRule{{KID: keys[1].KID, Filters: []Filter{AudioFilter{}}}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !strings.Contains(string(got), "<AudioFilter></AudioFilter>") {
		t.Errorf("audio filter missing from output:\n%s", got)
	}
}

func TestDocumentBytesOmitsEmptySections(t *testing.T) {
	doc, err := Assemble(testKeySet(t), nil, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	got, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	for _, section := range []string{"DRMSystemList", "ContentKeyUsageRuleList"} {
		if strings.Contains(string(got), section) {
			t.Errorf("empty %s serialized:\n%s", section, got)
		}
	}
}
