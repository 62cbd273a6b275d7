package pathfind

import "errors"

var (
	// ErrUnresolvedNode indicates a start or end label that is not part of the graph.
	ErrUnresolvedNode = errors.New("pathfind: unresolved node")

	// ErrInvalidNode indicates an empty or duplicated node label.
	ErrInvalidNode = errors.New("pathfind: invalid node")

	// ErrInvalidEdge indicates a negative weight, a self-loop or an empty neighbour label.
	ErrInvalidEdge = errors.New("pathfind: invalid edge")

	// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
	ErrUnknownStrategy = errors.New("pathfind: unknown strategy")
)
