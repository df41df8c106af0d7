package domain

// FilterFlag is a single library filter toggle.
type FilterFlag uint

const (
	FilterGame FilterFlag = 1 << iota
	FilterApplication
	FilterTool
	FilterDemo
	FilterShared
	FilterInstalled
)

// DefaultFilter is applied when nothing has been persisted yet.
const DefaultFilter = FilterSet(FilterGame | FilterShared)

var filterNames = []struct {
	flag FilterFlag
	name string
}{
	{FilterGame, "GAME"},
	{FilterApplication, "APPLICATION"},
	{FilterTool, "TOOL"},
	{FilterDemo, "DEMO"},
	{FilterShared, "SHARED"},
	{FilterInstalled, "INSTALLED"},
}

var typeFlags = map[FilterFlag]AppType{
	FilterGame:        AppTypeGame,
	FilterApplication: AppTypeApplication,
	FilterTool:        AppTypeTool,
	FilterDemo:        AppTypeDemo,
}

// FilterSet is a bitset of FilterFlag values.
type FilterSet uint

// Has reports whether every bit of f is set.
func (s FilterSet) Has(f FilterFlag) bool {
	return FilterFlag(s)&f == f
}

// Toggle flips f.
func (s FilterSet) Toggle(f FilterFlag) FilterSet {
	return FilterSet(FilterFlag(s) ^ f)
}

// With sets f.
func (s FilterSet) With(f FilterFlag) FilterSet {
	return FilterSet(FilterFlag(s) | f)
}

// MatchesType reports whether an entry of type t passes the type filter.
// No type flag set means every type matches.
func (s FilterSet) MatchesType(t AppType) bool {
	typed := false
	for flag, typ := range typeFlags {
		if s.Has(flag) {
			typed = true
			if typ == t {
				return true
			}
		}
	}
	return !typed
}

// Names returns the persisted names of the set flags in a stable order.
func (s FilterSet) Names() []string {
	var names []string
	for _, fn := range filterNames {
		if s.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

// ParseFilterFlag maps a persisted name back to its flag.
func ParseFilterFlag(name string) (FilterFlag, bool) {
	for _, fn := range filterNames {
		if fn.name == name {
			return fn.flag, true
		}
	}
	return 0, false
}

// FilterFromNames rebuilds a set from persisted names. Unknown names are
// reported through ok=false so the caller can fall back to a default.
func FilterFromNames(names []string) (FilterSet, bool) {
	var s FilterSet
	for _, n := range names {
		f, ok := ParseFilterFlag(n)
		if !ok {
			return 0, false
		}
		s = s.With(f)
	}
	return s, true
}

// ToFlags encodes the set as a plain integer.
func (s FilterSet) ToFlags() int { return int(s) }

// FilterFromFlags decodes an integer produced by ToFlags. Bits outside the
// known flags make the value invalid.
func FilterFromFlags(v int) (FilterSet, bool) {
	const all = FilterGame | FilterApplication | FilterTool | FilterDemo | FilterShared | FilterInstalled
	if v < 0 || FilterFlag(v)&^all != 0 {
		return 0, false
	}
	return FilterSet(v), true
}
