package mockdata

import (
	"crmsynth/internal/config"
)

// FunnelStats summarises the supplier signup funnel by unique user
type FunnelStats struct {
	Started        int
	Completed      int
	Both           int
	CompletionRate float64 // Both / Started, 0 when nobody started
}

// ComputeFunnelStats counts users who started, completed, or did both
// steps of the supplier signup.
func ComputeFunnelStats(interactions []Interaction) FunnelStats {
	started := make(map[string]bool)
	completed := make(map[string]bool)
	for _, in := range interactions {
		switch in.EventName {
		case config.EventSupplierSignupStart:
			started[in.UserID] = true
		case config.EventSupplierSignupComplete:
			completed[in.UserID] = true
		}
	}

	stats := FunnelStats{Started: len(started), Completed: len(completed)}
	for user := range started {
		if completed[user] {
			stats.Both++
		}
	}
	if stats.Started > 0 {
		stats.CompletionRate = float64(stats.Both) / float64(stats.Started)
	}
	return stats
}
