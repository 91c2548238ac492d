package cpix

import "encoding/xml"

// Filter narrows a usage rule to a media class. A rule holds at most one
// filter of each type.
type Filter interface {
	filterType() string
}

// AudioFilter matches audio streams. It takes no parameters.
type AudioFilter struct {
	XMLName xml.Name `xml:"AudioFilter"`
}

// VideoFilter matches video streams whose picture size in pixels falls
// inside the given bounds. Nil bounds are open.
type VideoFilter struct {
	XMLName   xml.Name `xml:"VideoFilter"`
	MinPixels *uint32  `xml:"minPixels,attr,omitempty"`
	MaxPixels *uint32  `xml:"maxPixels,attr,omitempty"`
}

// BitrateFilter matches streams by bandwidth in bits per second. Nil
// bounds are open.
type BitrateFilter struct {
	XMLName    xml.Name `xml:"BitrateFilter"`
	MinBitrate *uint32  `xml:"minBitrate,attr,omitempty"`
	MaxBitrate *uint32  `xml:"maxBitrate,attr,omitempty"`
}

func (AudioFilter) filterType() string   { return "audio" }
func (VideoFilter) filterType() string   { return "video" }
func (BitrateFilter) filterType() string { return "bitrate" }

func ptr[T any](v T) *T { return &v }
