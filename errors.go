package cpix

import "errors"

var (
	ErrMalformedKeySpec    = errors.New("malformed key spec")
	ErrInvalidKeyLength    = errors.New("invalid key length")
	ErrDuplicateKeyID      = errors.New("duplicate key ID")
	ErrUnknownPreset       = errors.New("unknown usage rule preset")
	ErrMalformedFilterSpec = errors.New("malformed filter spec")
	ErrUnknownFilterField  = errors.New("unknown filter field")
	ErrInvalidFilterValue  = errors.New("invalid filter value")
	ErrDuplicateFilterType = errors.New("duplicate filter type")
	ErrUnknownKeyReference = errors.New("unknown key reference")
	ErrDuplicateUsageRule  = errors.New("duplicate usage rule")
)
