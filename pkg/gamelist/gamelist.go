// ABOUTME: GameList catalog for one source directory
// ABOUTME: Ordered games with id assignment, lookup and search

package gamelist

import (
	"slices"
	"strings"

	"github.com/nainya/gamelist/pkg/field"
)

// SearchField selects the field searched by GameList.Search
type SearchField int

const (
	ByPath SearchField = iota
	ByName
)

func (s SearchField) fieldName() string {
	if s == ByName {
		return "name"
	}
	return "path"
}

// GameList is the catalog of games for one source directory
type GameList struct {
	Directory string // source directory holding the document and game files
	Emulator  string // owning emulator, the directory's base name

	games  []*Game
	nextID int
	policy *field.Policy
}

// Option configures a GameList
type Option func(*GameList)

// WithPolicy sets the field policy used for every game in the list
func WithPolicy(p *field.Policy) Option {
	return func(gl *GameList) {
		if p != nil {
			gl.policy = p
		}
	}
}

// New creates an empty catalog
func New(directory, emulator string, opts ...Option) *GameList {
	gl := &GameList{
		Directory: directory,
		Emulator:  emulator,
	}
	for _, opt := range opts {
		opt(gl)
	}
	if gl.policy == nil {
		gl.policy = field.DefaultPolicy()
	}
	return gl
}

// Policy returns the field policy shared by the catalog's games
func (gl *GameList) Policy() *field.Policy {
	return gl.policy
}

// AddGame appends an empty game. Ids are handed out in sequence and never
// reused, so they equal the game count until the first removal.
func (gl *GameList) AddGame() *Game {
	g := newGame(gl.nextID, gl.policy)
	gl.nextID++
	gl.games = append(gl.games, g)
	return g
}

func (gl *GameList) addGameWithID(id int) *Game {
	g := newGame(id, gl.policy)
	if id >= gl.nextID {
		gl.nextID = id + 1
	}
	gl.games = append(gl.games, g)
	return g
}

// Remove deletes the game with id. Remaining ids are left untouched.
func (gl *GameList) Remove(id int) bool {
	idx := gl.index(id)
	if idx < 0 {
		return false
	}
	gl.games = slices.Delete(gl.games, idx, idx+1)
	return true
}

// Get returns the game with id
func (gl *GameList) Get(id int) (*Game, bool) {
	idx := gl.index(id)
	if idx < 0 {
		return nil, false
	}
	return gl.games[idx], true
}

// At returns the game at position i in catalog order
func (gl *GameList) At(i int) *Game {
	return gl.games[i]
}

// Games returns the games in catalog order
func (gl *GameList) Games() []*Game {
	return slices.Clone(gl.games)
}

// Len returns the number of games
func (gl *GameList) Len() int {
	return len(gl.games)
}

// Search returns the id of the first game whose field equals term exactly
func (gl *GameList) Search(by SearchField, term string) (int, bool) {
	name := by.fieldName()
	for _, g := range gl.games {
		if found, err := g.FieldEquals(name, term); err == nil && found {
			return g.id, true
		}
	}
	return 0, false
}

// Filter returns games whose name or path contains query, ignoring case.
// An empty query matches every game.
func (gl *GameList) Filter(query string) []*Game {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return gl.Games()
	}
	var out []*Game
	for _, g := range gl.games {
		if strings.Contains(strings.ToLower(g.Value("name")), q) ||
			strings.Contains(strings.ToLower(g.Value("path")), q) {
			out = append(out, g)
		}
	}
	return out
}

// InvalidCount returns how many fields across the catalog failed validation
func (gl *GameList) InvalidCount() int {
	n := 0
	for _, g := range gl.games {
		n += len(g.Invalid())
	}
	return n
}

func (gl *GameList) index(id int) int {
	return slices.IndexFunc(gl.games, func(g *Game) bool { return g.id == id })
}
