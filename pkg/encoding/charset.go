// Package encoding decodes names stored in scene files with a legacy
// 8-bit or multi-byte charset into UTF-8.
package encoding

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Decoder converts text from one charset to UTF-8. The zero value passes
// text through unchanged.
type Decoder struct {
	name string
	enc  encoding.Encoding
}

// NewDecoder returns a decoder for the named charset. Names are matched
// against the WHATWG index ("windows-1252", "euc-kr", "shift_jis") and
// then against charmap names ("IBM Code Page 437"). An empty name or
// "utf-8" yields a pass-through decoder.
func NewDecoder(name string) (*Decoder, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return &Decoder{}, nil
	}

	if enc, err := htmlindex.Get(name); err == nil {
		return &Decoder{name: name, enc: enc}, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok && strings.EqualFold(cm.String(), name) {
			return &Decoder{name: name, enc: cm}, nil
		}
	}
	return nil, fmt.Errorf("unknown charset %q", name)
}

// Name returns the charset name, or "" for pass-through.
func (d *Decoder) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Bytes converts data to a UTF-8 string. Pure ASCII is returned as-is,
// and so is anything that fails to convert.
func (d *Decoder) Bytes(data []byte) string {
	if d == nil || d.enc == nil || isASCII(data) {
		return string(data)
	}
	result, _, err := transform.Bytes(d.enc.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// String converts s to UTF-8.
func (d *Decoder) String(s string) string {
	return d.Bytes([]byte(s))
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
