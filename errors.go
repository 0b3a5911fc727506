package rendezvous

import "errors"

// Sentinel errors. Planning never returns them, it degrades to a conservative
// default and reports which one caused the degradation.
var (
	// ErrPathNotFound indicates a travel-cost query failed
	ErrPathNotFound = errors.New("path not found")

	// ErrNoFeasibleBaseLink indicates no candidate has a resolved link into base range
	ErrNoFeasibleBaseLink = errors.New("no feasible base link")

	// ErrStaleTeammateData indicates contact data older than the freshness threshold
	ErrStaleTeammateData = errors.New("stale teammate data")

	// ErrInvalidConfig indicates the strategy configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")
)
