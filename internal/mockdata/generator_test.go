package mockdata

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmsynth/internal/config"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

var testNow = time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		NumCampaigns:      20,
		NumUsers:          150,
		InteractionTarget: 1200,
		StartDate:         time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:               testNow,
		Seed:              42,
	}
}

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	g, err := NewGenerator(opts, infrastructure.NewLogger(&strings.Builder{}, "error"))
	require.NoError(t, err)
	return g
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"valid", func(o *Options) {}, false},
		{"no campaigns", func(o *Options) { o.NumCampaigns = 0 }, true},
		{"no users", func(o *Options) { o.NumUsers = 0 }, true},
		{"negative target", func(o *Options) { o.InteractionTarget = -1 }, true},
		{"zero target", func(o *Options) { o.InteractionTarget = 0 }, false},
		{"start too recent", func(o *Options) { o.StartDate = testNow.AddDate(0, 0, -10) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Generator
	opts, err := OptionsFromConfig(cfg, testNow)
	require.NoError(t, err)
	assert.Equal(t, cfg.NumUsers, opts.NumUsers)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), opts.StartDate)

	cfg.StartDate = "01/02/2022"
	_, err = OptionsFromConfig(cfg, testNow)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
}

func TestGenerate_Reproducible(t *testing.T) {
	a := newTestGenerator(t, testOptions()).Generate()
	b := newTestGenerator(t, testOptions()).Generate()

	assert.Equal(t, CampaignRecords(a.Campaigns), CampaignRecords(b.Campaigns))
	assert.Equal(t, UserRecords(a.Users), UserRecords(b.Users))
	assert.Equal(t, InteractionRecords(a.Interactions), InteractionRecords(b.Interactions))
}

func TestCampaigns(t *testing.T) {
	g := newTestGenerator(t, testOptions())
	campaigns := g.Campaigns()
	require.Len(t, campaigns, 20)

	latestStart := testNow.AddDate(0, -1, 0)
	for i, c := range campaigns {
		assert.Equal(t, fmt.Sprintf("CAMP%04d", i+1), c.ID)
		assert.False(t, c.StartDate.Before(testOptions().StartDate), c.ID)
		assert.False(t, c.StartDate.After(latestStart), c.ID)
		if c.HasEnd() {
			assert.True(t, c.EndDate.After(c.StartDate), c.ID)
		}
		assert.GreaterOrEqual(t, c.Budget, 1000.0)
		assert.LessOrEqual(t, c.Budget, 25000.0)
		assert.GreaterOrEqual(t, c.Spend, 0.0, c.ID)
		assert.LessOrEqual(t, c.Spend, c.Budget, c.ID)
		assert.True(t, strings.HasPrefix(c.Name, c.Type+" "), c.Name)
		assert.NotContains(t, c.TargetAudience, "(")
	}
}

func TestCampaign_IsActive(t *testing.T) {
	now := testNow
	assert.True(t, Campaign{}.IsActive(now))
	assert.True(t, Campaign{EndDate: dayOf(now)}.IsActive(now))
	assert.False(t, Campaign{EndDate: dayOf(now).AddDate(0, 0, -1)}.IsActive(now))
}

func TestUsers(t *testing.T) {
	g := newTestGenerator(t, testOptions())
	campaigns := g.Campaigns()
	users := g.Users(campaigns)
	require.Len(t, users, 150)

	byID := make(map[string]Campaign)
	for _, c := range campaigns {
		byID[c.ID] = c
	}

	for i, u := range users {
		assert.Equal(t, fmt.Sprintf("USER%05d", i+1), u.ID)
		assert.Contains(t, []string{config.UserTypeBuyer, config.UserTypeSupplier, config.UserTypeProspect}, u.Type)

		if u.FirstTouchCampaignID != "" {
			c, ok := byID[u.FirstTouchCampaignID]
			require.True(t, ok, "unknown campaign %s", u.FirstTouchCampaignID)
			assert.Equal(t, c.PrimaryChannel, u.FirstTouchChannel)
		}
		assert.NotEmpty(t, u.FirstTouchChannel)

		if u.Type == config.UserTypeProspect {
			assert.Empty(t, u.CompanyName)
			assert.False(t, u.IsPaying)
		}
		if u.Type != config.UserTypeSupplier {
			assert.Empty(t, u.SupplierCapabilities)
		}
		if !u.IsPaying {
			assert.Zero(t, u.LTV)
			assert.True(t, u.ChurnDate.IsZero())
		}
		if u.Type == config.UserTypeBuyer {
			assert.Zero(t, u.TotalDealsWonSupplier)
		}
		if !u.ChurnDate.IsZero() {
			assert.False(t, u.ChurnDate.Before(u.RegistrationDate))
		}
	}
}

func TestInteractions_Invariants(t *testing.T) {
	data := newTestGenerator(t, testOptions()).Generate()
	require.NotEmpty(t, data.Interactions)
	assert.LessOrEqual(t, len(data.Interactions), 1200)

	campaignIDs := make(map[string]bool)
	for _, c := range data.Campaigns {
		campaignIDs[c.ID] = true
	}
	userIDs := make(map[string]bool)
	for _, u := range data.Users {
		userIDs[u.ID] = true
	}

	lastByUser := make(map[string]time.Time)
	sessionStarted := make(map[string]bool)
	for i, in := range data.Interactions {
		assert.Equal(t, fmt.Sprintf("INT%07d", i+1), in.ID)
		assert.True(t, userIDs[in.UserID])
		if in.CampaignID != "" {
			assert.True(t, campaignIDs[in.CampaignID], "unknown campaign %s", in.CampaignID)
		}

		assert.False(t, in.Timestamp.After(testNow), "%s after now", in.ID)
		if last, ok := lastByUser[in.UserID]; ok {
			assert.True(t, in.Timestamp.After(last), "%s not after previous event of %s", in.ID, in.UserID)
		}
		lastByUser[in.UserID] = in.Timestamp

		switch in.EventName {
		case config.EventSupplierSignupStart:
			sessionStarted[in.SessionID] = true
		case config.EventSupplierSignupComplete:
			assert.True(t, sessionStarted[in.SessionID], "%s completes without a start", in.ID)
			sessionStarted[in.SessionID] = false
		}

		assert.Equal(t, IsConversion(in.EventName), in.IsConversion)
		if in.EventName == config.EventRFQSubmitted {
			assert.Contains(t, in.DetailsText, "(Priority: ")
			assert.GreaterOrEqual(t, in.Value, 50.0)
		}
		if in.UTMTerm != "" {
			assert.Equal(t, "cpc", in.UTMMedium)
		}
		assert.NotEmpty(t, in.UTMSource)
	}
}

func TestInteractions_ReachTarget(t *testing.T) {
	opts := testOptions()
	opts.InteractionTarget = 50
	data := newTestGenerator(t, opts).Generate()
	assert.Len(t, data.Interactions, 50)
}

func TestInteractions_ZeroTarget(t *testing.T) {
	opts := testOptions()
	opts.InteractionTarget = 0
	data := newTestGenerator(t, opts).Generate()
	assert.Empty(t, data.Interactions)
}

func TestSessionStart_SkipsWhenNoRoom(t *testing.T) {
	g := newTestGenerator(t, testOptions())

	_, ok := g.sessionStart(testNow.Add(-30 * time.Second))
	assert.False(t, ok)

	last := testNow.AddDate(0, 0, -3)
	start, ok := g.sessionStart(last)
	require.True(t, ok)
	assert.True(t, start.After(last))
	assert.True(t, start.Before(testNow))
}
