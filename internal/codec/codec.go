// Package codec implements the reversible byte-obfuscation transform applied
// to message bodies: UTF-8 bytes XORed with a single-byte key, framed as
// standard base64. It is interoperability glue, not cryptography.
package codec

import (
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

// DefaultKey is the key used when clients do not negotiate one.
const DefaultKey byte = 123

// Placeholder is shown in place of payloads that fail to decode.
const Placeholder = "**Encrypted Data**"

// ErrDecode reports a malformed obfuscated payload: either invalid base64 or
// an XOR result that is not valid UTF-8.
var ErrDecode = errors.New("codec: malformed obfuscated payload")

// Encode obfuscates text: each UTF-8 byte is XORed with key, and the result
// is base64-encoded with the standard alphabet and padding.
func Encode(text string, key byte) string {
	buf := []byte(text)
	for i := range buf {
		buf[i] ^= key
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// Decode reverses Encode. It fails with ErrDecode if cipher is not valid
// base64 or if the XORed bytes do not form valid UTF-8.
func Decode(cipher string, key byte) (string, error) {
	buf, err := base64.StdEncoding.DecodeString(cipher)
	if err != nil {
		return "", ErrDecode
	}
	for i := range buf {
		buf[i] ^= key
	}
	if !utf8.Valid(buf) {
		return "", ErrDecode
	}
	return string(buf), nil
}

// DecodeDisplay decodes for presentation. Malformed payloads yield the fixed
// Placeholder instead of an error so a bad frame never breaks rendering.
func DecodeDisplay(cipher string, key byte) string {
	text, err := Decode(cipher, key)
	if err != nil {
		return Placeholder
	}
	return text
}
