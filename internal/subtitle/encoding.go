package subtitle

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts raw subtitle bytes to UTF-8. An explicit hint wins; without
// one a UTF-8/UTF-16 byte order mark is honoured, valid UTF-8 is kept as is,
// and anything else is read with the fallback encoding.
func Decode(data []byte, hint, fallback string) (string, error) {
	if hint != "" {
		return decodeWith(data, hint)
	}

	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(data, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		out, _, err := transform.Bytes(
			unicode.BOMOverride(encoding.Nop.NewDecoder()),
			data,
		)
		if err != nil {
			return "", fmt.Errorf("failed to decode unicode text: %w", err)
		}
		return string(out), nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}
	if fallback != "" {
		return decodeWith(data, fallback)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func decodeWith(data []byte, name string) (string, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", name, err)
	}
	return string(out), nil
}
