package naming

import "strings"

// Override pins the last name of a player whose full name does not follow
// the usual surname structure.
type Override struct {
	Key            string
	LastName       string
	AlternateNames []string
}

// Overrides is matched in declaration order; the first key contained in the
// full name (case-insensitive) wins.
var Overrides = []Override{
	{Key: "Fred", LastName: "Fred"},
	{Key: "Fabinho", LastName: "Fabinho"},
	{Key: "Willian", LastName: "Willian"},
	{Key: "Fernandinho", LastName: "Fernandinho"},
	{Key: "Jorginho", LastName: "Jorginho"},
	{Key: "Richarlison", LastName: "Richarlison"},
	{Key: "Allan", LastName: "Allan"},
	{Key: "Alisson", LastName: "Alisson"},
	{Key: "Ederson", LastName: "Ederson"},
	{Key: "Nani", LastName: "Nani"},
	{Key: "Ramires", LastName: "Ramires"},
	{Key: "Oscar", LastName: "Oscar"},
	{Key: "Hulk", LastName: "Hulk"},
	{Key: "Paulinho", LastName: "Paulinho"},
	{Key: "Emerson", LastName: "Emerson"},
	{Key: "Douglas Luiz", LastName: "Douglas Luiz", AlternateNames: []string{"Douglas"}},
	{Key: "Bernardo Silva", LastName: "Silva", AlternateNames: []string{"Bernardo"}},
	{Key: "David Silva", LastName: "Silva", AlternateNames: []string{"David Silva"}},
}

var surnamePrefixes = map[string]struct{}{
	"van": {},
	"de":  {},
	"di":  {},
	"von": {},
	"el":  {},
	"al":  {},
	"le":  {},
	"la":  {},
	"dos": {},
	"da":  {},
}

// ExtractLastName returns the name a player is guessed by plus any other
// accepted spellings.
func ExtractLastName(fullName string) (string, []string) {
	if o, ok := findOverride(fullName); ok {
		return o.LastName, cloneStrings(o.AlternateNames)
	}

	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	}

	final := parts[len(parts)-1]
	last := final
	var alternates []string

	if idx := strings.LastIndex(final, "-"); idx >= 0 {
		if tail := final[idx+1:]; tail != "" {
			alternates = append(alternates, tail)
		}
	}

	if len(parts) >= 3 {
		prefix := parts[len(parts)-2]
		if _, ok := surnamePrefixes[strings.ToLower(prefix)]; ok {
			last = prefix + " " + final
		}
	}

	return last, alternates
}

// AmbiguousOverrides lists every override key contained in fullName when
// more than one key matches with a different outcome. The first entry is the
// one ExtractLastName applied.
func AmbiguousOverrides(fullName string) []string {
	lower := strings.ToLower(fullName)
	var hits []Override
	for _, o := range Overrides {
		if strings.Contains(lower, strings.ToLower(o.Key)) {
			hits = append(hits, o)
		}
	}
	if len(hits) < 2 {
		return nil
	}

	keys := make([]string, 0, len(hits))
	conflict := false
	for _, o := range hits {
		keys = append(keys, o.Key)
		if !sameOutcome(o, hits[0]) {
			conflict = true
		}
	}
	if !conflict {
		return nil
	}
	return keys
}

// Conflict is a pair of override keys where one contains the other and the
// two resolve differently, making the result depend on table order.
type Conflict struct {
	Outer string
	Inner string
}

// OverrideConflicts reports order-dependent pairs in Overrides.
func OverrideConflicts() []Conflict {
	var out []Conflict
	for i, a := range Overrides {
		for j, b := range Overrides {
			if i == j {
				continue
			}
			if strings.Contains(strings.ToLower(a.Key), strings.ToLower(b.Key)) && !sameOutcome(a, b) {
				out = append(out, Conflict{Outer: a.Key, Inner: b.Key})
			}
		}
	}
	return out
}

func findOverride(fullName string) (Override, bool) {
	lower := strings.ToLower(fullName)
	for _, o := range Overrides {
		if strings.Contains(lower, strings.ToLower(o.Key)) {
			return o, true
		}
	}
	return Override{}, false
}

func sameOutcome(a, b Override) bool {
	if a.LastName != b.LastName || len(a.AlternateNames) != len(b.AlternateNames) {
		return false
	}
	for i := range a.AlternateNames {
		if a.AlternateNames[i] != b.AlternateNames[i] {
			return false
		}
	}
	return true
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
