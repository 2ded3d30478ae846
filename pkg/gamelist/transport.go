// ABOUTME: Transport form of a catalog for callers and UIs
// ABOUTME: Marshals to JSON and restores with full re-validation

package gamelist

import (
	"encoding/json"
	"fmt"

	"github.com/nainya/gamelist/pkg/field"
)

// Payload is the structured record exchanged with callers
type Payload struct {
	Directory string        `json:"directory"`
	Emulator  string        `json:"emulator"`
	Games     []GamePayload `json:"games"`
}

// GamePayload carries one game. Only name and value are read back on
// restore; kind, editability and errors are derived again from the policy.
type GamePayload struct {
	ID     int           `json:"id"`
	Fields []field.Field `json:"-"`
	Values []FieldValue  `json:"-"`
}

// FieldValue is a name/value pair received from a caller
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type gameJSON struct {
	ID     int               `json:"id"`
	Fields []json.RawMessage `json:"fields"`
}

// MarshalJSON writes the game with fully described fields
func (gp GamePayload) MarshalJSON() ([]byte, error) {
	out := gameJSON{ID: gp.ID, Fields: make([]json.RawMessage, 0, len(gp.Fields))}
	for _, f := range gp.Fields {
		b, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, b)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a game, keeping only field names and values
func (gp *GamePayload) UnmarshalJSON(b []byte) error {
	var in struct {
		ID     int          `json:"id"`
		Fields []FieldValue `json:"fields"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	gp.ID = in.ID
	gp.Values = in.Fields
	return nil
}

// Payload snapshots the catalog in transport form
func (gl *GameList) Payload() Payload {
	p := Payload{
		Directory: gl.Directory,
		Emulator:  gl.Emulator,
		Games:     make([]GamePayload, 0, len(gl.games)),
	}
	for _, g := range gl.games {
		p.Games = append(p.Games, GamePayload{ID: g.id, Fields: g.Fields()})
	}
	return p
}

// MarshalJSON implements json.Marshaler
func (gl *GameList) MarshalJSON() ([]byte, error) {
	return json.Marshal(gl.Payload())
}

// Restore rebuilds a catalog from a caller payload. Every field goes through
// the policy again, so a caller cannot smuggle in unvalidated values. Game
// ids are kept and must be unique and non-negative.
func Restore(p Payload, opts ...Option) (*GameList, error) {
	gl := New(p.Directory, p.Emulator, opts...)
	seen := make(map[int]struct{}, len(p.Games))
	for _, gp := range p.Games {
		if gp.ID < 0 {
			return nil, fmt.Errorf("%w: negative game id %d", ErrInvalidPayload, gp.ID)
		}
		if _, dup := seen[gp.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate game id %d", ErrInvalidPayload, gp.ID)
		}
		seen[gp.ID] = struct{}{}

		g := gl.addGameWithID(gp.ID)
		values := gp.Values
		if values == nil {
			for _, f := range gp.Fields {
				values = append(values, FieldValue{Name: f.Name(), Value: f.Value()})
			}
		}
		for _, v := range values {
			if v.Name == "" {
				return nil, fmt.Errorf("%w: unnamed field in game %d", ErrInvalidPayload, gp.ID)
			}
			g.AddField(v.Name, v.Value)
		}
		g.ConsumeDirty()
	}
	return gl, nil
}

// Unmarshal decodes a JSON catalog payload and restores it
func Unmarshal(data []byte, opts ...Option) (*GameList, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Restore(p, opts...)
}
