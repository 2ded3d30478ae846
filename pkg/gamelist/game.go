// ABOUTME: Game record made of validated fields
// ABOUTME: Tracks edits through a read-once dirty state machine

package gamelist

import (
	"fmt"
	"slices"

	"github.com/nainya/gamelist/pkg/field"
)

// dirtyState is a two-state machine: mark moves to dirty, observe reports
// the current state and moves back to clean.
type dirtyState uint8

const (
	stateClean dirtyState = iota
	stateDirty
)

func (s *dirtyState) mark() {
	*s = stateDirty
}

func (s *dirtyState) observe() bool {
	was := *s == stateDirty
	*s = stateClean
	return was
}

// Game is one game's metadata. Fields keep insertion order, which is the
// document order for parsed games.
type Game struct {
	id     int
	fields []field.Field
	state  dirtyState
	policy *field.Policy

	// normalized filesystem path that created this game during
	// reconciliation; empty for document-sourced games
	origin string
}

func newGame(id int, policy *field.Policy) *Game {
	return &Game{id: id, policy: policy}
}

// ID returns the identifier assigned when the game joined its catalog
func (g *Game) ID() int {
	return g.id
}

// Origin returns the scanned path that created this game, if any
func (g *Game) Origin() string {
	return g.origin
}

// AddField validates raw under the catalog policy and appends the field
func (g *Game) AddField(name, raw string) {
	g.fields = append(g.fields, g.policy.Build(name, raw))
	g.state.mark()
}

// ReplaceField removes the first field called name and appends a freshly
// validated replacement. Unknown names are ignored; use AddField for those.
func (g *Game) ReplaceField(name, raw string) {
	idx := slices.IndexFunc(g.fields, func(f field.Field) bool { return f.Name() == name })
	if idx < 0 {
		return
	}
	g.fields = slices.Delete(g.fields, idx, idx+1)
	g.fields = append(g.fields, g.policy.Build(name, raw))
	g.state.mark()
}

// Field returns the most recently added field called name
func (g *Game) Field(name string) (field.Field, bool) {
	for i := len(g.fields) - 1; i >= 0; i-- {
		if g.fields[i].Name() == name {
			return g.fields[i], true
		}
	}
	return field.Field{}, false
}

// Value returns the value of the most recent field called name, or ""
func (g *Game) Value(name string) string {
	f, _ := g.Field(name)
	return f.Value()
}

// FieldEquals compares the named field's value with expected byte for byte
func (g *Game) FieldEquals(name, expected string) (bool, error) {
	f, ok := g.Field(name)
	if !ok {
		return false, fmt.Errorf("%w: field %q in game %d", ErrNotFound, name, g.id)
	}
	return f.Value() == expected, nil
}

// Fields returns a copy of the fields in insertion order
func (g *Game) Fields() []field.Field {
	return slices.Clone(g.fields)
}

// Len returns the number of fields
func (g *Game) Len() int {
	return len(g.fields)
}

// Invalid returns the fields whose raw value failed validation
func (g *Game) Invalid() []field.Field {
	var out []field.Field
	for _, f := range g.fields {
		if !f.Valid() {
			out = append(out, f)
		}
	}
	return out
}

// ConsumeDirty reports whether the game changed since the last call and
// resets the flag.
func (g *Game) ConsumeDirty() bool {
	return g.state.observe()
}
