package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/trove/pkg/domain"
	"github.com/aretw0/trove/pkg/loot"
)

// Source is the read side of a snapshot needed to draw it.
type Source interface {
	loot.Resolver
	Identities() []domain.Identity
}

// Overlay highlights assets on the graph.
type Overlay struct {
	// Problems marks assets whose validation reported something.
	Problems []domain.Identity
	// Focus marks the asset being inspected.
	Focus domain.Identity
}

// ProblemOverlay marks every asset named by problems.
func ProblemOverlay(problems []domain.Problem) *Overlay {
	overlay := &Overlay{}
	for _, p := range problems {
		if id, ok := p.Element(); ok && !slices.Contains(overlay.Problems, id) {
			overlay.Problems = append(overlay.Problems, id)
		}
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the references between
// published assets. It applies semantic styling:
// - Loot table: [Rectangle]
// - Predicate: {{Hexagon}}
// - Item modifier: [[Subroutine]]
// - Missing target: [/Parallelogram/], dashed edge
func GenerateMermaid(src Source, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	missing := make(map[domain.Identity]bool)
	for _, id := range src.Identities() {
		asset, _ := src.Element(id)
		safeID := sanitizeMermaidID(id)
		opener, closer := shape(id.Kind)
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, id, closer)

		for _, ref := range loot.References(asset) {
			arrow := "-->"
			if _, ok := src.Element(ref); !ok {
				arrow = "-.->"
				missing[ref] = true
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(ref))
		}
	}

	if len(missing) > 0 {
		sb.WriteString("\n    %% Missing targets\n")
		sb.WriteString("    classDef missing fill:#ffebee,stroke:#c62828,stroke-dasharray:4 2,color:#000;\n")
		for _, id := range sortedKeys(missing) {
			safeID := sanitizeMermaidID(id)
			fmt.Fprintf(&sb, "    %s[/\"%s\"/]\n", safeID, id)
			fmt.Fprintf(&sb, "    class %s missing;\n", safeID)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme
		sb.WriteString("    classDef problem fill:#fff3e0,stroke:#e65100,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Problems {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s problem;\n", safeID)
			}
		}
		if overlay.Focus.Name != "" {
			fmt.Fprintf(&sb, "    class %s focus;\n", sanitizeMermaidID(overlay.Focus))
		}
	}

	return sb.String()
}

func shape(kind domain.Kind) (string, string) {
	switch kind {
	case domain.KindPredicate:
		return "{{", "}}"
	case domain.KindItemModifier:
		return "[[", "]]"
	default:
		return "[", "]"
	}
}

func sortedKeys(m map[domain.Identity]bool) []domain.Identity {
	out := make([]domain.Identity, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b domain.Identity) int {
		return strings.Compare(a.String(), b.String())
	})
	return out
}

func sanitizeMermaidID(id domain.Identity) string {
	s := id.String()
	s = strings.ReplaceAll(s, ":", "__")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
