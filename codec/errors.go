package codec

import "errors"

var (
	// ErrDecode marks unreadable or unsupported source bytes,
	// including exhaustion of the HEIC fallback path.
	ErrDecode = errors.New("image decode failed")

	// ErrEncode marks a rejected format/quality/geometry combination.
	ErrEncode = errors.New("image encode failed")
)
