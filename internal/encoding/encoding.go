// Package encoding normalizes uploaded import files to UTF-8. Exported
// recipient lists commonly arrive as Windows-1252 or UTF-16 with a BOM,
// so the charset is sniffed before the CSV layer ever sees the bytes.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// NewUTF8Reader wraps r so that its content reads as UTF-8. Detection
// order: BOM, valid UTF-8 as-is, chardet heuristics, Windows-1252
// fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peeking input: %w", err)
	}

	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
		return br, nil
	}

	if bytes.HasPrefix(head, []byte{0xFF, 0xFE}) || bytes.HasPrefix(head, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if enc := detect(head); enc != nil {
		return transform.NewReader(br, enc.NewDecoder()), nil
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// detect maps a chardet guess to a decoder. Only charsets that actually
// show up in the wild for spreadsheet exports are mapped; anything else
// falls through to the Windows-1252 default.
func detect(head []byte) encoding.Encoding {
	res, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil {
		return nil
	}

	switch res.Charset {
	case "ISO-8859-1", "windows-1252":
		return charmap.Windows1252
	case "ISO-8859-15":
		return charmap.ISO8859_15
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return nil
	}
}
