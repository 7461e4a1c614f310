// Package encoding provides fixed-width string fields for UCM model files.
//
// Names are stored as single-byte Windows-1252 text, NUL-padded to the field
// width. Plain ASCII is the common case.
package encoding

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Fixed string errors.
var (
	ErrFieldOverflow  = errors.New("string exceeds field width")
	ErrUnencodable    = errors.New("string has characters outside Windows-1252")
	ErrInvalidPadding = errors.New("invalid field width")
)

// DecodeFixedString reads a NUL-terminated string from a fixed-size field.
// A field with no NUL is used in full.
func DecodeFixedString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	if isASCII(field) {
		return string(field)
	}
	// Windows-1252 maps every byte, so this cannot fail.
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), field)
	if err != nil {
		return string(field)
	}
	return string(result)
}

// EncodeFixedString encodes s into a NUL-padded field of the given size.
// A string of exactly size bytes is stored without a terminator.
func EncodeFixedString(s string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPadding, size)
	}

	encoded := []byte(s)
	if !isASCII(encoded) {
		var err error
		encoded, _, err = transform.Bytes(charmap.Windows1252.NewEncoder(), encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnencodable, s)
		}
	}
	if bytes.IndexByte(encoded, 0) >= 0 {
		return nil, fmt.Errorf("%w: %q contains NUL", ErrUnencodable, s)
	}
	if len(encoded) > size {
		return nil, fmt.Errorf("%w: %q is %d bytes, field is %d", ErrFieldOverflow, s, len(encoded), size)
	}

	field := make([]byte, size)
	copy(field, encoded)
	return field, nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
