// ABOUTME: Document parser turning gamelist text into catalog games
// ABOUTME: Aborts the whole document on unbalanced game markers

package gamedoc

import (
	"github.com/nainya/gamelist/pkg/gamelist"
)

// Decode parses data and appends one game per record fragment to into, in
// document order. A document without a list span contributes no games and
// no error. On ErrMalformedDocument into is left unchanged.
func Decode(data []byte, into *gamelist.GameList) error {
	records, err := parseRecords(string(data))
	if err != nil {
		return err
	}
	for _, pairs := range records {
		g := into.AddGame()
		for _, p := range pairs {
			g.AddField(p.name, p.value)
		}
		// freshly parsed games match the document
		g.ConsumeDirty()
	}
	return nil
}

// Parse decodes data into a new catalog for directory
func Parse(data []byte, directory, emulator string, opts ...gamelist.Option) (*gamelist.GameList, error) {
	gl := gamelist.New(directory, emulator, opts...)
	if err := Decode(data, gl); err != nil {
		return nil, err
	}
	return gl, nil
}

// parseRecords extracts every record's pairs before any game is created,
// so a malformed document never yields a partial catalog.
func parseRecords(doc string) ([][]pair, error) {
	body, ok := listBody(normalize(doc))
	if !ok {
		return nil, nil
	}
	spans, err := fragments(body)
	if err != nil {
		return nil, err
	}
	records := make([][]pair, 0, len(spans))
	for _, sp := range spans {
		records = append(records, tagPairs(body[sp.start:sp.end]))
	}
	return records, nil
}
