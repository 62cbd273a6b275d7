package generator

// Config drives the synthetic waypoint map generator.
type Config struct {
	NumWaypoints int
	// EdgeChance is the probability of a directed edge between any ordered pair.
	EdgeChance float64
	MinWeight  int
	MaxWeight  int
	// Chain adds an edge from every waypoint to the next so the first
	// waypoint reaches all others.
	Chain bool
	Seed  int64
}

// DefaultConfig returns baseline settings producing a map the size of the
// default A..F map.
func DefaultConfig() Config {
	return Config{
		NumWaypoints: 6,
		EdgeChance:   0.35,
		MinWeight:    1,
		MaxWeight:    20,
		Chain:        true,
		Seed:         42,
	}
}
