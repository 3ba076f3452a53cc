package scene

import (
	"fmt"
	"strings"
)

// Describe renders a textual summary of the model: one block per shape
// followed by every move, then every resize, then every color change.
func (m *Model) Describe() string {
	var sb strings.Builder
	sb.WriteString("Shapes:\n\n")
	for _, s := range m.shapes {
		fmt.Fprintf(&sb, "Name: %s\nType: %s\n%s\nAppears at %.2f\nDisappears at %.2f\n\n",
			s.name, s.kind, s, float64(s.appear), float64(s.disappear))
	}
	for _, s := range m.shapes {
		for _, c := range s.moves {
			fmt.Fprintf(&sb, "Shape %s moves from %s to %s from %.2f to %.2f\n",
				s.name, c.from, c.to, float64(c.start), float64(c.end))
		}
	}
	for _, s := range m.shapes {
		for _, c := range s.resizes {
			fmt.Fprintf(&sb, "Shape %s scales by %.2f from %.2f to %.2f\n",
				s.name, c.factor, float64(c.start), float64(c.end))
		}
	}
	for _, s := range m.shapes {
		for _, c := range s.recolors {
			fmt.Fprintf(&sb, "Shape %s changes color to %s at %.2f\n",
				s.name, ColorName(c.color), float64(c.at))
		}
	}
	return sb.String()
}
