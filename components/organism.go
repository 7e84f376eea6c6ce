package components

// Observation is what a controller sees each tick:
// bird y, distance to the gap top, distance to the gap bottom.
type Observation [3]float64

// Controller turns an observation into a decision signal.
// Only the first output is read; nil or non-finite outputs mean "do not jump".
type Controller interface {
	Decide(obs Observation) []float64
}

// Pilot ties a bird entity to its controller and to the genome it is scored against.
// Handle indexes the genome list of the running evaluation.
type Pilot struct {
	Handle     int
	Controller Controller
}
