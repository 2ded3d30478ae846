// ABOUTME: Field policy table mapping names to kind and editability
// ABOUTME: Validation policy is data that callers can override

package field

import "sort"

// Rule is the policy applied to every field with a given name
type Rule struct {
	Kind     Kind `yaml:"kind" json:"kind"`
	Editable bool `yaml:"editable" json:"editable"`
}

// Policy maps field names to rules. Names missing from the table fall back
// to an editable LineText rule.
type Policy struct {
	rules    map[string]Rule
	fallback Rule
}

var defaultRules = map[string]Rule{
	"path":      {Kind: File, Editable: true},
	"image":     {Kind: File, Editable: true},
	"video":     {Kind: File, Editable: true},
	"marquee":   {Kind: File, Editable: true},
	"thumbnail": {Kind: File, Editable: true},

	"name":      {Kind: LineText, Editable: true},
	"developer": {Kind: LineText, Editable: true},
	"publisher": {Kind: LineText, Editable: true},
	"genre":     {Kind: LineText, Editable: true},
	"lang":      {Kind: LineText, Editable: true},

	"desc": {Kind: MultilineText, Editable: true},

	"lastplayed":  {Kind: Date, Editable: false},
	"releasedate": {Kind: Date, Editable: true},

	"players": {Kind: Range, Editable: true},

	"cheevosId": {Kind: Integer, Editable: false},
	"playcount": {Kind: Integer, Editable: false},

	"rating": {Kind: Float, Editable: true},

	"crc32":       {Kind: Alphanumeric, Editable: false},
	"md5":         {Kind: Alphanumeric, Editable: false},
	"cheevosHash": {Kind: Alphanumeric, Editable: false},

	// older scrapers wrote the underscored spelling
	"last_played": {Kind: LineText, Editable: false},
}

// DefaultPolicy returns the built-in table for gamelist documents
func DefaultPolicy() *Policy {
	rules := make(map[string]Rule, len(defaultRules))
	for name, r := range defaultRules {
		rules[name] = r
	}
	return &Policy{
		rules:    rules,
		fallback: Rule{Kind: LineText, Editable: true},
	}
}

// With returns a copy of the policy with overrides applied on top
func (p *Policy) With(overrides map[string]Rule) *Policy {
	base := p
	if base == nil {
		base = DefaultPolicy()
	}
	rules := make(map[string]Rule, len(base.rules)+len(overrides))
	for name, r := range base.rules {
		rules[name] = r
	}
	for name, r := range overrides {
		rules[name] = r
	}
	return &Policy{rules: rules, fallback: base.fallback}
}

// Rule returns the rule for name, or the fallback when name is unknown
func (p *Policy) Rule(name string) Rule {
	if p == nil {
		return DefaultPolicy().Rule(name)
	}
	if r, ok := p.rules[name]; ok {
		return r
	}
	return p.fallback
}

// Names lists the names with an explicit rule, sorted
func (p *Policy) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.rules))
	for name := range p.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build derives kind and editability from name and constructs the Field
func (p *Policy) Build(name, raw string) Field {
	r := p.Rule(name)
	return New(name, raw, r.Kind, r.Editable)
}
