package assign

import "errors"

// Sentinel kinds for assignment errors.
var (
	ErrNoFeasibleMatching = errors.New("no feasible matching")
)
