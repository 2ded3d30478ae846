// ABOUTME: Merges scanned game files into a parsed catalog
// ABOUTME: Document entries keep identity; unmatched files are appended

package gamelist

// Reconcile adds a game for every candidate file that the catalog does not
// already describe. A game matches when its path field equals the
// normalized candidate, or when an earlier reconciliation created it for
// that candidate. Matching games are never modified. New games are appended
// in candidate order with only their path set. Returns the number added.
func Reconcile(gl *GameList, candidates []string) int {
	known := make(map[string]struct{}, len(gl.games))
	for _, g := range gl.games {
		if g.origin != "" {
			known[g.origin] = struct{}{}
		}
	}

	added := 0
	for _, c := range candidates {
		path := NormalizePath(c)
		if path == "" {
			continue
		}
		if _, ok := known[path]; ok {
			continue
		}
		if _, ok := gl.Search(ByPath, path); ok {
			continue
		}

		g := gl.AddGame()
		g.origin = path
		g.AddField("path", path)
		known[path] = struct{}{}
		added++
	}
	return added
}
