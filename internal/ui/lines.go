package ui

import (
	"fmt"

	"flowgen/internal/core"
	"flowgen/internal/render"
)

type viewLister interface {
	Views() *render.Registry
}

// Lines builds the HUD text for alg: name, progress, views with the active
// one marked, then its parameters and the key bindings.
func Lines(alg core.Algorithm) []string {
	lines := []string{alg.Name(), alg.ProgressString(), ""}
	if v, ok := alg.(viewLister); ok {
		views := v.Views()
		active := views.Active()
		lines = append(lines, "Views")
		for i, name := range views.Names() {
			marker := " "
			if name == active {
				marker = ">"
			}
			lines = append(lines, fmt.Sprintf("%s %d %s", marker, i+1, name))
		}
		lines = append(lines, "")
	}
	if p, ok := alg.(core.ParameterProvider); ok {
		lines = append(lines, p.Parameters().Lines()...)
		lines = append(lines, "")
	}
	return append(lines, "Tab/1-9 view  H hud  Q quit")
}
