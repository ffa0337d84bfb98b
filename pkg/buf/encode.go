package buf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultIndent is the number of spaces per JSON nesting level.
const DefaultIndent = 2

// Marshal encodes doc as JSON. indent spaces are used per level; zero
// produces compact output.
func Marshal(doc *Document, indent int) ([]byte, error) {
	var b bytes.Buffer
	if err := Encode(&b, doc, indent); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Encode writes doc to w as JSON followed by a newline.
func Encode(w io.Writer, doc *Document, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding buf document: %w", err)
	}
	return nil
}

// WriteFile encodes doc and writes it to path, replacing any existing
// file. The write is not atomic.
func WriteFile(path string, doc *Document, indent int) error {
	data, err := Marshal(doc, indent)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
