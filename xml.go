package cpix

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
)

const (
	cpixNamespace = "urn:dashif:org:cpix"
	pskcNamespace = "urn:ietf:params:xml:ns:keyprov:pskc"
)

type xmlDocument struct {
	XMLName        xml.Name           `xml:"CPIX"`
	Xmlns          string             `xml:"xmlns,attr"`
	XmlnsPSKC      string             `xml:"xmlns:pskc,attr"`
	ContentKeyList *xmlContentKeyList `xml:"ContentKeyList"`
	DRMSystemList  *xmlDRMSystemList  `xml:"DRMSystemList"`
	UsageRuleList  *xmlUsageRuleList  `xml:"ContentKeyUsageRuleList"`
}

type xmlContentKeyList struct {
	ContentKeys []xmlContentKey `xml:"ContentKey"`
}

type xmlContentKey struct {
	KID  string     `xml:"kid,attr"`
	Data xmlKeyData `xml:"Data"`
}

// Key material travels in a PSKC secret container, base64 encoded.
type xmlKeyData struct {
	Secret xmlSecret `xml:"pskc:Secret"`
}

type xmlSecret struct {
	PlainValue string `xml:"pskc:PlainValue"`
}

type xmlDRMSystemList struct {
	DRMSystems []xmlDRMSystem `xml:"DRMSystem"`
}

type xmlDRMSystem struct {
	KID      string `xml:"kid,attr"`
	SystemID string `xml:"systemId,attr"`
	PSSH     string `xml:"PSSH"`
}

type xmlUsageRuleList struct {
	UsageRules []xmlUsageRule `xml:"ContentKeyUsageRule"`
}

type xmlUsageRule struct {
	KID     string `xml:"kid,attr"`
	Filters []Filter
}

// Bytes serializes the document as indented UTF-8 XML with a leading XML
// declaration. Sections keep their assembly order; empty sections are
// omitted.
func (d *Document) Bytes() ([]byte, error) {
	root := xmlDocument{
		Xmlns:     cpixNamespace,
		XmlnsPSKC: pskcNamespace,
	}
	if len(d.Keys) > 0 {
		list := &xmlContentKeyList{ContentKeys: make([]xmlContentKey, 0, len(d.Keys))}
		for _, k := range d.Keys {
			list.ContentKeys = append(list.ContentKeys, xmlContentKey{
				KID: k.KID.String(),
				Data: xmlKeyData{
					Secret: xmlSecret{PlainValue: base64.StdEncoding.EncodeToString(k.Key)},
				},
			})
		}
		root.ContentKeyList = list
	}
	if len(d.DRMSystems) > 0 {
		list := &xmlDRMSystemList{DRMSystems: make([]xmlDRMSystem, 0, len(d.DRMSystems))}
		for _, s := range d.DRMSystems {
			list.DRMSystems = append(list.DRMSystems, xmlDRMSystem{
				KID:      s.KID.String(),
				SystemID: s.SystemID.String(),
				PSSH:     base64.StdEncoding.EncodeToString(s.PSSH),
			})
		}
		root.DRMSystemList = list
	}
	if len(d.UsageRules) > 0 {
		list := &xmlUsageRuleList{UsageRules: make([]xmlUsageRule, 0, len(d.UsageRules))}
		for _, r := range d.UsageRules {
			list.UsageRules = append(list.UsageRules, xmlUsageRule{
				KID:     r.KID.String(),
				Filters: r.Filters,
			})
		}
		root.UsageRuleList = list
	}
	body, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
