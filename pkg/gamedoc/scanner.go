// ABOUTME: Byte-offset scanners for the flat gamelist document grammar
// ABOUTME: Marker state machine plus a tag-pair combinator, no markup engine

package gamedoc

import (
	"fmt"
	"strings"
)

// Literal delimiters of the document format
const (
	Header      = `<?xml version="1.0"?>`
	ListOpen    = "<gameList>"
	ListClose   = "</gameList>"
	RecordOpen  = "<game>"
	RecordClose = "</game>"

	// DocumentFile is the catalog document's name inside a source directory
	DocumentFile = "gamelist.xml"
)

// normalize drops newline and tab characters; pretty-printing is optional
func normalize(s string) string {
	return strings.NewReplacer("\n", "", "\t", "").Replace(s)
}

// listBody returns the text between the first list open marker and the last
// list close marker. ok is false when the span does not exist.
func listBody(s string) (string, bool) {
	start := strings.Index(s, ListOpen)
	if start < 0 {
		return "", false
	}
	start += len(ListOpen)
	end := strings.LastIndex(s, ListClose)
	if end < start {
		return "", false
	}
	return s[start:end], true
}

type markerKind int

const (
	markerOpen markerKind = iota
	markerClose
)

// markerScanner walks the list body once and records the offset of every
// record marker. States: scanning for '<', then matching a marker literal.
type markerScanner struct {
	src    string
	pos    int
	opens  []int
	closes []int
}

func (m *markerScanner) run() {
	for m.pos < len(m.src) {
		lt := strings.IndexByte(m.src[m.pos:], '<')
		if lt < 0 {
			return
		}
		at := m.pos + lt
		kind, n, ok := matchMarker(m.src[at:])
		if !ok {
			m.pos = at + 1
			continue
		}
		switch kind {
		case markerOpen:
			m.opens = append(m.opens, at)
		case markerClose:
			m.closes = append(m.closes, at)
		}
		m.pos = at + n
	}
}

func matchMarker(s string) (markerKind, int, bool) {
	switch {
	case strings.HasPrefix(s, RecordOpen):
		return markerOpen, len(RecordOpen), true
	case strings.HasPrefix(s, RecordClose):
		return markerClose, len(RecordClose), true
	}
	return 0, 0, false
}

// span is one record fragment as [start, end) offsets into the list body
type span struct {
	start, end int
}

// fragments pairs the i-th open marker with the i-th close marker
func fragments(body string) ([]span, error) {
	m := &markerScanner{src: body}
	m.run()

	if len(m.opens) != len(m.closes) {
		return nil, fmt.Errorf("%w: %d %s markers but %d %s markers",
			ErrMalformedDocument, len(m.opens), RecordOpen, len(m.closes), RecordClose)
	}
	spans := make([]span, len(m.opens))
	for i := range m.opens {
		if m.closes[i] < m.opens[i] {
			return nil, fmt.Errorf("%w: %s #%d at offset %d precedes its %s at offset %d",
				ErrMalformedDocument, RecordClose, i+1, m.closes[i], RecordOpen, m.opens[i])
		}
		spans[i] = span{start: m.opens[i], end: m.closes[i]}
	}
	return spans, nil
}

// pair is one extracted <name>value</name> element
type pair struct {
	name, value string
}

// tagPairs extracts name/value pairs left to right. At every '<' it tries
// open-name, value, close-name in sequence; on failure it resumes one byte
// later, so unmatched tags are skipped. A pair whose close name differs
// from its open name, as in <desc>x</other>, is dropped.
func tagPairs(fragment string) []pair {
	var out []pair
	pos := 0
	for pos < len(fragment) {
		lt := strings.IndexByte(fragment[pos:], '<')
		if lt < 0 {
			break
		}
		at := pos + lt
		p, n, ok := matchPair(fragment[at:])
		if !ok {
			pos = at + 1
			continue
		}
		out = append(out, p)
		pos = at + n
	}
	return out
}

func matchPair(s string) (pair, int, bool) {
	i := 0
	name, n, ok := openTag(s)
	if !ok {
		return pair{}, 0, false
	}
	i += n

	valueLen := strings.IndexAny(s[i:], "<>")
	if valueLen < 0 {
		return pair{}, 0, false
	}
	value := s[i : i+valueLen]
	i += valueLen

	closeName, n, ok := closeTag(s[i:])
	if !ok || closeName != name {
		return pair{}, 0, false
	}
	i += n
	return pair{name: name, value: value}, i, true
}

// openTag matches "<name>"
func openTag(s string) (string, int, bool) {
	if !strings.HasPrefix(s, "<") {
		return "", 0, false
	}
	n := nameLen(s[1:])
	if n == 0 || 1+n >= len(s) || s[1+n] != '>' {
		return "", 0, false
	}
	return s[1 : 1+n], n + 2, true
}

// closeTag matches "</name>"
func closeTag(s string) (string, int, bool) {
	if !strings.HasPrefix(s, "</") {
		return "", 0, false
	}
	n := nameLen(s[2:])
	if n == 0 || 2+n >= len(s) || s[2+n] != '>' {
		return "", 0, false
	}
	return s[2 : 2+n], n + 3, true
}

func nameLen(s string) int {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return i
		}
	}
	return len(s)
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == ':' || c == '-'
}
