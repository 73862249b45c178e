package mockdata

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crmsynth/internal/config"
)

// Interactions walks users in order and emits sessions of events until
// InteractionTarget interactions exist. Per user, timestamps strictly
// increase and never pass the generator clock.
func (g *Generator) Interactions(users []User, campaigns []Campaign) []Interaction {
	target := g.opts.InteractionTarget
	s := &sessionState{
		gen:       g,
		campaigns: campaigns,
		channels:  interactionChannels(),
		out:       make([]Interaction, 0, target),
		target:    target,
	}
	for _, c := range campaigns {
		if c.IsActive(g.now) {
			s.active = append(s.active, c)
		}
	}

	for i, u := range users {
		if s.full() {
			break
		}
		if i%100 == 0 {
			g.logger.Debug("generating interactions",
				slog.Int("user", i+1), slog.Int("users", len(users)))
		}

		last := u.RegistrationDate
		sessions := g.fake.IntRange(1, 8)
		for n := 0; n < sessions && !s.full(); n++ {
			start, ok := g.sessionStart(last)
			if !ok {
				continue
			}
			s.sessionSeq++
			last = s.runSession(u, fmt.Sprintf("SESS%07d", s.sessionSeq), start, last)
		}
	}
	return s.out
}

// sessionStart picks a start strictly after last and before now. ok is
// false when no such time fits.
func (g *Generator) sessionStart(last time.Time) (time.Time, bool) {
	limit := g.now.Add(-time.Duration(g.fake.IntRange(1, 60)) * time.Second)
	lower := last.Add(time.Duration(g.fake.IntRange(1, 180)) * time.Minute)
	if !lower.Before(limit) {
		lower = last.Add(time.Minute)
		if !lower.Before(limit) {
			return time.Time{}, false
		}
	}
	return g.between(lower, limit).Truncate(time.Second), true
}

type sessionState struct {
	gen        *Generator
	campaigns  []Campaign
	active     []Campaign
	channels   []string
	out        []Interaction
	target     int
	sessionSeq int
}

func (s *sessionState) full() bool {
	return len(s.out) >= s.target
}

// runSession emits up to seven events starting at start and returns the
// timestamp of the user's latest event.
func (s *sessionState) runSession(u User, sessionID string, start, last time.Time) time.Time {
	g := s.gen
	ts := start
	signupStarted := false

	emit := func(event string) bool {
		if s.full() || ts.After(g.now) {
			return false
		}
		s.out = append(s.out, s.interaction(len(s.out)+1, u, sessionID, ts, event))
		last = ts
		ts = ts.Add(time.Duration(g.fake.IntRange(30, 300)) * time.Second)
		return true
	}

	events := g.fake.IntRange(1, 7)
	for e := 0; e < events; e++ {
		event := g.weighted(EventTypes)

		if u.Type == config.UserTypeSupplier || (u.Type == config.UserTypeProspect && g.chance(0.2)) {
			if !signupStarted && g.chance(0.25) {
				event = config.EventSupplierSignupStart
			} else if signupStarted && event != config.EventSupplierSignupStart && g.chance(0.5) {
				event = config.EventSupplierSignupComplete
			}
		}

		// a completion always follows a start within the session
		if event == config.EventSupplierSignupComplete && !signupStarted {
			if !emit(config.EventSupplierSignupStart) {
				break
			}
		}
		if !emit(event) {
			break
		}

		switch event {
		case config.EventSupplierSignupStart:
			signupStarted = true
		case config.EventSupplierSignupComplete:
			signupStarted = false
		}
	}
	return last
}

func (s *sessionState) interaction(seq int, u User, sessionID string, ts time.Time, event string) Interaction {
	g := s.gen
	in := Interaction{
		ID:             fmt.Sprintf("INT%07d", seq),
		UserID:         u.ID,
		SessionID:      sessionID,
		Timestamp:      ts,
		EventName:      event,
		Channel:        g.pick(s.channels),
		DeviceCategory: g.pick(deviceCategories),
	}

	campaign := s.attribute(in.Channel)
	if campaign != nil {
		in.CampaignID = campaign.ID
	}

	if strings.Contains(event, "Ad") || strings.Contains(in.Channel, "Ads") {
		in.AdGroupName = "AdGroup_" + capitalize(g.fake.Word())
		in.AdCreativeName = fmt.Sprintf("Creative_%d", g.fake.IntRange(1, 5))
	}
	if strings.Contains(event, "Search") || strings.Contains(in.Channel, "Search") {
		in.KeywordText = strings.ToLower(g.fake.Word())
		if g.chance(0.5) {
			in.KeywordText += " " + strings.ToLower(g.fake.Word())
		}
	}

	in.ContentCategory = contentCategories[event]
	if strings.Contains(event, "View") || event == "Site Visit" {
		category := in.ContentCategory
		if category == "" {
			category = "Generic Page"
		}
		in.ContentTitle = category + " - " + g.fake.Slogan()
	}
	in.PageURL = "https://example.com/" + s.pagePath(in.ContentCategory)
	if g.chance(0.6) {
		in.ReferrerURL = fmt.Sprintf("https://%s/%s", g.fake.DomainName(), slug(g.fake.Word()))
	}

	if IsConversion(event) {
		in.IsConversion = true
		in.ConversionType = event
	}

	switch {
	case event == config.EventRFQSubmitted:
		in.Value = g.money(50, 15000)
		in.DetailsText = fmt.Sprintf("%s (Priority: %s)", g.pick(rfqRequests), g.pick(rfqPriorities))
	case event == config.EventSupplierSignupComplete:
		in.Value = g.money(20, 200)
	case strings.Contains(event, "View"):
		in.DetailsText = fmt.Sprintf("Viewed: %s page", g.fake.BS())
		in.TimeOnPage = g.fake.IntRange(5, 300)
	}
	if eventGroups[event] != GroupAdsEmail {
		in.ScrollDepth = g.fake.IntRange(10, 100)
	}

	s.applyUTM(&in, campaign)
	return in
}

// attribute picks the campaign an interaction is credited to, if any.
// Paid channels prefer running campaigns.
func (s *sessionState) attribute(channel string) *Campaign {
	g := s.gen
	if len(s.campaigns) == 0 {
		return nil
	}
	if paidChannels[channel] && g.chance(0.6) {
		pool := s.active
		if len(pool) == 0 {
			pool = s.campaigns
		}
		return &pool[g.fake.IntRange(0, len(pool)-1)]
	}
	if g.chance(0.1) {
		return &s.campaigns[g.fake.IntRange(0, len(s.campaigns)-1)]
	}
	return nil
}

func (s *sessionState) applyUTM(in *Interaction, campaign *Campaign) {
	g := s.gen
	if campaign != nil {
		in.UTMCampaign = strings.ToLower(strings.ReplaceAll(campaign.Name, " ", "_"))
		in.UTMSource = utmSources[campaign.PrimaryChannel]
		in.UTMMedium = utmMediums[campaign.PrimaryChannel]
	}

	if in.UTMSource == "" {
		switch in.Channel {
		case ChannelOrganicSearch:
			in.UTMSource, in.UTMMedium = "google", "organic"
		case ChannelDirect:
			in.UTMSource, in.UTMMedium = "(direct)", "(none)"
		case ChannelSocialOrganic:
			in.UTMSource, in.UTMMedium = g.pick(socialSources), "social_organic"
		case ChannelReferral:
			in.UTMSource, in.UTMMedium = g.fake.DomainName(), "referral"
		default:
			in.UTMSource = strings.ToLower(strings.ReplaceAll(in.Channel, " ", "_"))
			in.UTMMedium = "platform_feature"
			if in.Channel == "SEO Blog" {
				in.UTMMedium = "earned"
			}
		}
	}

	switch in.UTMMedium {
	case "(none)", "organic", "referral":
	default:
		if in.UTMCampaign != "" {
			in.UTMContent = "content_variant_" + g.pick(contentVariants)
		}
	}
	if in.UTMMedium == "cpc" {
		in.UTMTerm = strings.ToLower(g.fake.Word())
	}
}

func (s *sessionState) pagePath(category string) string {
	g := s.gen
	if category == "" {
		return slug(g.fake.Word()) + "/" + slug(g.fake.Word())
	}
	path := slug(category) + "/"
	if !formPages[category] {
		path += slug(g.fake.Word())
	}
	return path
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
