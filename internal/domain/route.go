package domain

import "strings"

// PathSeparator joins labels in a rendered route.
const PathSeparator = " -> "

// Route is the result of a shortest-path query.
type Route struct {
	Distance int    `json:"distance"`
	Path     string `json:"path"`
}

// Unreachable is returned when the target was never visited.
var Unreachable = Route{Distance: -1, Path: ""}

// Reachable reports whether the route describes a found path. A non-negative
// distance paired with an empty path is inconsistent and is not reachable.
func (r Route) Reachable() bool {
	return r.Distance >= 0 && r.Path != ""
}

// Labels splits the rendered path back into its labels.
func (r Route) Labels() []string {
	if r.Path == "" {
		return nil
	}
	return strings.Split(r.Path, PathSeparator)
}

// FormatPath renders labels as a directional route string.
func FormatPath(labels []string) string {
	return strings.Join(labels, PathSeparator)
}

// RoutePair is a (start, end) query.
type RoutePair struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultPoints are the waypoint labels accepted when none are configured.
var DefaultPoints = []string{"A", "B", "C", "D", "E", "F"}
