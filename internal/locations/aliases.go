package locations

import "strings"

// PostcodeRange is an inclusive range of Australian postcodes.
type PostcodeRange struct {
	From int
	To   int
}

// AreaAlias maps an informal region name to matching criteria. The state
// set is a gate: when non-empty, a centre must be in one of the states.
// Suburbs, cities and postcode ranges are alternatives: when any are
// specified, at least one must match. An alias with only a state gate and
// no other criteria matches every centre in that state; this permissive
// default is deliberate.
type AreaAlias struct {
	Name           string
	States         []string
	Suburbs        []string
	Cities         []string
	PostcodeRanges []PostcodeRange
}

// Static named-area configuration. Loaded once, never mutated at runtime.
var areaAliases = map[string]AreaAlias{
	"sydney": {
		Name:   "Sydney",
		States: []string{"NSW"},
		Cities: []string{"sydney"},
		PostcodeRanges: []PostcodeRange{
			{From: 2000, To: 2249},
			{From: 2555, To: 2574},
			{From: 2740, To: 2786},
		},
	},
	"western sydney": {
		Name:    "Western Sydney",
		States:  []string{"NSW"},
		Suburbs: []string{"parramatta", "blacktown", "penrith", "liverpool", "mount druitt", "castle hill"},
		PostcodeRanges: []PostcodeRange{
			{From: 2145, To: 2179},
			{From: 2740, To: 2770},
		},
	},
	"eastern suburbs": {
		Name:    "Eastern Suburbs",
		States:  []string{"NSW"},
		Suburbs: []string{"bondi", "bondi junction", "randwick", "maroubra", "double bay", "coogee"},
		PostcodeRanges: []PostcodeRange{
			{From: 2021, To: 2036},
		},
	},
	"melbourne": {
		Name:   "Melbourne",
		States: []string{"VIC"},
		Cities: []string{"melbourne"},
		PostcodeRanges: []PostcodeRange{
			{From: 3000, To: 3207},
		},
	},
	"brisbane": {
		Name:   "Brisbane",
		States: []string{"QLD"},
		Cities: []string{"brisbane"},
		PostcodeRanges: []PostcodeRange{
			{From: 4000, To: 4179},
		},
	},
	"gold coast": {
		Name:    "Gold Coast",
		States:  []string{"QLD"},
		Suburbs: []string{"surfers paradise", "broadbeach", "robina", "southport"},
		PostcodeRanges: []PostcodeRange{
			{From: 4207, To: 4230},
		},
	},
	"perth": {
		Name:   "Perth",
		States: []string{"WA"},
		Cities: []string{"perth"},
		PostcodeRanges: []PostcodeRange{
			{From: 6000, To: 6199},
		},
	},
	"adelaide": {
		Name:   "Adelaide",
		States: []string{"SA"},
		Cities: []string{"adelaide"},
		PostcodeRanges: []PostcodeRange{
			{From: 5000, To: 5199},
		},
	},
	// State-only aliases: every centre in the state matches.
	"queensland": {
		Name:   "Queensland",
		States: []string{"QLD"},
	},
	"new south wales": {
		Name:   "New South Wales",
		States: []string{"NSW"},
	},
	"victoria": {
		Name:   "Victoria",
		States: []string{"VIC"},
	},
	"tasmania": {
		Name:   "Tasmania",
		States: []string{"TAS"},
	},
}

// LookupAlias resolves a normalized area name to its alias configuration.
func LookupAlias(name string) (AreaAlias, bool) {
	alias, ok := areaAliases[strings.ToLower(strings.TrimSpace(name))]
	return alias, ok
}

// Matches reports whether a centre satisfies the alias criteria: the
// state gate first, then any one of the suburb/city/postcode criteria
// when at least one kind is specified.
func (a *AreaAlias) Matches(e *Entry) bool {
	if len(a.States) > 0 {
		state := e.stateUpper()
		found := false
		for _, s := range a.States {
			if strings.EqualFold(s, state) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(a.Suburbs) == 0 && len(a.Cities) == 0 && len(a.PostcodeRanges) == 0 {
		return true
	}

	suburb := e.suburbLower()
	for _, s := range a.Suburbs {
		if suburb != "" && suburb == strings.ToLower(s) {
			return true
		}
	}

	city := e.cityLower()
	for _, c := range a.Cities {
		if city != "" && city == strings.ToLower(c) {
			return true
		}
	}

	if pc, ok := e.postcodeInt(); ok {
		for _, r := range a.PostcodeRanges {
			if pc >= r.From && pc <= r.To {
				return true
			}
		}
	}

	return false
}
