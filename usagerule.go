package cpix

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UsageRule maps a content key to the streams it protects. An empty filter
// list matches everything.
type UsageRule struct {
	KID     uuid.UUID
	Filters []Filter
}

// Preset names understood by PresetRule.
const (
	PresetAudio     = "audio"
	PresetVideo     = "video"
	PresetVideoSD   = "video_sd"
	PresetVideoHD   = "video_hd"
	PresetVideoUHD1 = "video_uhd1"
	PresetVideoUHD2 = "video_uhd2"
)

// PresetRule builds a usage rule from a named preset. The key ID may be
// dashed or bare hex and must belong to one of the given keys.
func PresetRule(keys []ContentKey, kid, preset string) (UsageRule, error) {
	id, err := ruleKID(keys, kid)
	if err != nil {
		return UsageRule{}, err
	}
	filters, ok := presetFilters(preset)
	if !ok {
		return UsageRule{}, fmt.Errorf("%w: %q (valid: %s, %s, %s, %s, %s, %s)", ErrUnknownPreset, preset,
			PresetAudio, PresetVideo, PresetVideoSD, PresetVideoHD, PresetVideoUHD1, PresetVideoUHD2)
	}
	return UsageRule{KID: id, Filters: filters}, nil
}

// Pixel bounds: SD tops out at 768x576, HD at 1920x1080, UHD1 at 4096x2160.
func presetFilters(name string) ([]Filter, bool) {
	switch name {
	case PresetAudio:
		return []Filter{AudioFilter{}}, true
	case PresetVideo:
		return []Filter{VideoFilter{}}, true
	case PresetVideoSD:
		return []Filter{VideoFilter{MaxPixels: ptr[uint32](442368)}}, true
	case PresetVideoHD:
		return []Filter{VideoFilter{MinPixels: ptr[uint32](442369), MaxPixels: ptr[uint32](2073600)}}, true
	case PresetVideoUHD1:
		return []Filter{VideoFilter{MinPixels: ptr[uint32](2073601), MaxPixels: ptr[uint32](8847360)}}, true
	case PresetVideoUHD2:
		return []Filter{VideoFilter{MinPixels: ptr[uint32](8847361)}}, true
	}
	return nil, false
}

// CustomRule builds a usage rule from a comma-separated filter spec such as
// "video:min_pixels=0,video:max_pixels=442368,bitrate:max_bitrate=500000".
// Tokens of one filter type accumulate onto a single filter; "audio" is the
// only token without parameters. Each filter field may be set once.
func CustomRule(keys []ContentKey, kid, spec string) (UsageRule, error) {
	id, err := ruleKID(keys, kid)
	if err != nil {
		return UsageRule{}, err
	}
	var (
		order   []string
		video   *VideoFilter
		bitrate *BitrateFilter
	)
	for _, token := range strings.Split(spec, ",") {
		if token == "audio" {
			if !slices.Contains(order, "audio") {
				order = append(order, "audio")
			}
			continue
		}
		name, arg, ok := strings.Cut(token, ":")
		if !ok {
			return UsageRule{}, fmt.Errorf("%w: %q, expected type:param=value", ErrMalformedFilterSpec, token)
		}
		param, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return UsageRule{}, fmt.Errorf("%w: %q, expected type:param=value", ErrMalformedFilterSpec, token)
		}
		switch name {
		case "audio":
			return UsageRule{}, fmt.Errorf("%w: audio filters take no parameters", ErrUnknownFilterField)
		case "video":
			v, err := filterValue(raw)
			if err != nil {
				return UsageRule{}, err
			}
			if video == nil {
				video = &VideoFilter{}
				order = append(order, "video")
			}
			switch param {
			case "min_pixels":
				if video.MinPixels != nil {
					return UsageRule{}, fmt.Errorf("%w: video min_pixels assigned twice", ErrDuplicateFilterType)
				}
				video.MinPixels = &v
			case "max_pixels":
				if video.MaxPixels != nil {
					return UsageRule{}, fmt.Errorf("%w: video max_pixels assigned twice", ErrDuplicateFilterType)
				}
				video.MaxPixels = &v
			default:
				return UsageRule{}, fmt.Errorf("%w: video has no parameter %q", ErrUnknownFilterField, param)
			}
		case "bitrate":
			v, err := filterValue(raw)
			if err != nil {
				return UsageRule{}, err
			}
			if bitrate == nil {
				bitrate = &BitrateFilter{}
				order = append(order, "bitrate")
			}
			switch param {
			case "min_bitrate":
				if bitrate.MinBitrate != nil {
					return UsageRule{}, fmt.Errorf("%w: bitrate min_bitrate assigned twice", ErrDuplicateFilterType)
				}
				bitrate.MinBitrate = &v
			case "max_bitrate":
				if bitrate.MaxBitrate != nil {
					return UsageRule{}, fmt.Errorf("%w: bitrate max_bitrate assigned twice", ErrDuplicateFilterType)
				}
				bitrate.MaxBitrate = &v
			default:
				return UsageRule{}, fmt.Errorf("%w: bitrate has no parameter %q", ErrUnknownFilterField, param)
			}
		default:
			return UsageRule{}, fmt.Errorf("%w: unknown filter type %q", ErrUnknownFilterField, name)
		}
	}
	filters := make([]Filter, 0, len(order))
	for _, name := range order {
		switch name {
		case "audio":
			filters = append(filters, AudioFilter{})
		case "video":
			filters = append(filters, *video)
		case "bitrate":
			filters = append(filters, *bitrate)
		}
	}
	return UsageRule{KID: id, Filters: filters}, nil
}

func filterValue(raw string) (uint32, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidFilterValue, raw)
	}
	return uint32(v), nil
}

func ruleKID(keys []ContentKey, kid string) (uuid.UUID, error) {
	id, err := uuid.Parse(kid)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: %q is not a key ID", ErrUnknownKeyReference, kid)
	}
	if !hasKey(keys, id) {
		return uuid.UUID{}, fmt.Errorf("%w: %s", ErrUnknownKeyReference, id)
	}
	return id, nil
}
