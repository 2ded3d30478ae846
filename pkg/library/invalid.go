package library

import (
	"github.com/nainya/gamelist/pkg/field"
	"github.com/nainya/gamelist/pkg/gamelist"
)

// InvalidField is a field that failed validation, with the game it belongs to
type InvalidField struct {
	GameID int
	Path   string
	Field  field.Field
}

// Invalid lists every invalid field of gl in catalog order
func Invalid(gl *gamelist.GameList) []InvalidField {
	var out []InvalidField
	for _, g := range gl.Games() {
		for _, f := range g.Invalid() {
			out = append(out, InvalidField{GameID: g.ID(), Path: g.Value("path"), Field: f})
		}
	}
	return out
}
