package gamedoc

import "strings"

// Stats summarises a raw document without building a catalog
type Stats struct {
	Games    int // record open markers
	Elements int // field tag pairs, empty ones included, counted only when Games > 0
}

// Count gathers Stats from a raw document. It tolerates malformed input:
// the figures feed the completeness estimate, not the catalog.
func Count(data []byte) Stats {
	doc := normalize(string(data))

	var st Stats
	st.Games = strings.Count(doc, RecordOpen)
	if st.Games == 0 {
		return st
	}
	body, ok := listBody(doc)
	if !ok {
		body = doc
	}
	for _, p := range tagPairs(body) {
		if p.name == "game" || p.name == "gameList" {
			continue
		}
		st.Elements++
	}
	return st
}
