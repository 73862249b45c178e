package mockdata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crmsynth/internal/config"
)

func TestComputeFunnelStats(t *testing.T) {
	interactions := []Interaction{
		{UserID: "USER00001", EventName: config.EventSupplierSignupStart},
		{UserID: "USER00001", EventName: config.EventSupplierSignupComplete},
		{UserID: "USER00002", EventName: config.EventSupplierSignupStart},
		{UserID: "USER00002", EventName: config.EventSupplierSignupStart},
		{UserID: "USER00003", EventName: "Site Visit"},
		{UserID: "USER00004", EventName: config.EventSupplierSignupComplete},
	}

	stats := ComputeFunnelStats(interactions)
	assert.Equal(t, 2, stats.Started)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Both)
	assert.InDelta(t, 0.5, stats.CompletionRate, 1e-9)

	assert.Zero(t, ComputeFunnelStats(nil).CompletionRate)
}
