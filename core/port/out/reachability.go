package out

import "context"

// ReachabilityProbe reports whether a URL currently answers over HTTP.
// Implementations must enforce a short timeout and treat every failure
// (timeout, connection error, non-200 status) as unreachable; probing
// never returns an error to the pipeline.
type ReachabilityProbe interface {
	Reachable(ctx context.Context, rawURL string) bool
}
