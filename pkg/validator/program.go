package validator

import "regexp"

// enumSet is one cached permissible-value set: a hash set for membership
// checks plus the declaration-ordered values for diagnostics.
type enumSet struct {
	values  map[string]struct{}
	ordered []string
}

func newEnumSet(values []string) enumSet {
	set := enumSet{
		values:  make(map[string]struct{}, len(values)),
		ordered: values,
	}
	for _, v := range values {
		set.values[v] = struct{}{}
	}
	return set
}

func (s enumSet) contains(v string) bool {
	_, ok := s.values[v]
	return ok
}

// Program is a compiled, reusable validation program for one class or
// slot: an ordered instruction list plus the pattern and enum side tables
// the instructions reference by index. A Program is immutable after
// compilation and safe to share across any number of concurrent
// executions.
type Program struct {
	// Name identifies the program in issues it produces.
	Name string

	// SchemaID identifies the schema the program was compiled from.
	SchemaID string

	// Target is the class or slot the program validates.
	Target string

	// Instructions in declaration order. Issue ordering follows this
	// order.
	Instructions []Instruction

	patterns       []*regexp.Regexp
	patternStrings []string
	enums          []enumSet
}

// PatternCount returns the number of entries in the compiled-pattern
// table.
func (p *Program) PatternCount() int { return len(p.patterns) }

// PatternStrings returns the pattern table's source texts in table order.
func (p *Program) PatternStrings() []string {
	out := make([]string, len(p.patternStrings))
	copy(out, p.patternStrings)
	return out
}

// EnumCount returns the number of cached permissible-value sets.
func (p *Program) EnumCount() int { return len(p.enums) }

func (p *Program) pattern(id int) *regexp.Regexp {
	if id < 0 || id >= len(p.patterns) {
		return nil
	}
	return p.patterns[id]
}

func (p *Program) enum(id int) (enumSet, bool) {
	if id < 0 || id >= len(p.enums) {
		return enumSet{}, false
	}
	return p.enums[id], true
}
