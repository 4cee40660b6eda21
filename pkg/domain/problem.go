package domain

import (
	"fmt"
	"strings"
)

// Problem is one structural defect found while loading or validating assets.
// Path locates the failing node, e.g. "{loot_table:chest}.pools[0].entries[2]".
type Problem struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// Element returns the asset the path starts from.
func (p Problem) Element() (Identity, bool) {
	rest, ok := strings.CutPrefix(p.Path, "{")
	if !ok {
		return Identity{}, false
	}
	head, _, ok := strings.Cut(rest, "}")
	if !ok {
		return Identity{}, false
	}
	id, err := ParseIdentity(head)
	return id, err == nil
}
