package scope

import (
	"strconv"

	"github.com/chazu/blockvars/graph"
)

// uniqueLetters is the candidate order for generated names. There is no
// 'l', which reads too much like '1'.
const uniqueLetters = "ijkmnopqrstuvwxyzabcdefgh"

// UniqueName returns the first candidate not case-insensitively present in
// existing: i, j, k, m, ... h, then i2, j2, ... h2, then i3 and so on. With
// nothing in use it returns "i".
func UniqueName(existing []string) string {
	if len(existing) == 0 {
		return "i"
	}
	used := make(map[string]bool, len(existing))
	for _, name := range existing {
		used[graph.Key(name)] = true
	}
	for suffix := 1; ; suffix++ {
		for i := 0; i < len(uniqueLetters); i++ {
			candidate := uniqueLetters[i : i+1]
			if suffix > 1 {
				candidate += strconv.Itoa(suffix)
			}
			if !used[candidate] {
				return candidate
			}
		}
	}
}

// GenerateUniqueName lists the variables under root with list (normally a
// Namespace's AllVariables) and returns a name none of them uses. The result
// is advisory: nothing is reserved.
func GenerateUniqueName(root any, list func(root any) ([]string, error)) (string, error) {
	existing, err := list(root)
	if err != nil {
		return "", err
	}
	return UniqueName(existing), nil
}
