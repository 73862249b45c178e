package mockdata

import (
	"fmt"

	"crmsynth/internal/config"
)

// Users generates NumUsers users with ids USER00001 upwards. First-touch
// campaigns are drawn from campaigns.
func (g *Generator) Users(campaigns []Campaign) []User {
	fallbackChannels := make([]string, 0, len(CampaignTypes)+2)
	for _, ct := range CampaignTypes {
		fallbackChannels = append(fallbackChannels, ct.PrimaryChannel)
	}
	fallbackChannels = append(fallbackChannels, ChannelOrganicSearch, ChannelDirect)

	users := make([]User, 0, g.opts.NumUsers)
	for i := 0; i < g.opts.NumUsers; i++ {
		u := User{
			ID:               fmt.Sprintf("USER%05d", i+1),
			RegistrationDate: g.dateBetween(g.opts.StartDate, g.now),
			Type:             g.userType(),
		}

		if u.Type != config.UserTypeProspect {
			u.CompanyName = g.fake.Company()
			u.CompanyIndustry = g.pick(industries)
			u.CompanySizeCategory = g.pick(companySizes)
			if u.Type == config.UserTypeBuyer {
				u.Role = g.pick(buyerRoles)
			} else {
				u.Role = g.pick(supplierRoles)
				if g.chance(0.85) {
					u.SupplierCapabilities = g.pick(supplierCapabilities)
				}
			}
		}

		u.IsPaying = u.Type != config.UserTypeProspect && g.chance(0.5)
		if u.IsPaying {
			u.LTV = g.money(200, 12000)
			switch u.Type {
			case config.UserTypeBuyer:
				u.TotalRFQValueBuyer = g.money(u.LTV*0.3, u.LTV*1.5)
			case config.UserTypeSupplier:
				u.TotalDealsWonSupplier = g.money(u.LTV*0.5, u.LTV*2.5)
			}
		}

		if g.chance(0.3) {
			u.FeedbackText = g.feedback()
		}

		if len(campaigns) > 0 && g.chance(0.7) {
			c := campaigns[g.fake.IntRange(0, len(campaigns)-1)]
			u.FirstTouchCampaignID = c.ID
			u.FirstTouchChannel = c.PrimaryChannel
		} else {
			u.FirstTouchChannel = g.pick(fallbackChannels)
		}

		if g.chance(0.2) {
			u.Country = g.fake.Country()
		} else {
			u.Country = g.pick(focusCountries)
		}
		if g.chance(0.7) {
			u.Region = g.fake.State()
		}

		if u.IsPaying && g.chance(0.1) {
			horizon := u.RegistrationDate.AddDate(0, 0, g.fake.IntRange(60, 730))
			u.ChurnDate = g.dateBetween(u.RegistrationDate, horizon)
		}

		users = append(users, u)
	}
	return users
}

func (g *Generator) userType() string {
	r := g.fake.Float64()
	switch {
	case r < 0.55:
		return config.UserTypeBuyer
	case r < 0.90:
		return config.UserTypeSupplier
	default:
		return config.UserTypeProspect
	}
}

// feedback picks positive 60%, negative 30%, neutral 10%
func (g *Generator) feedback() string {
	r := g.fake.Float64()
	switch {
	case r < 0.6:
		return g.pick(positiveFeedback)
	case r < 0.9:
		return g.pick(negativeFeedback)
	default:
		return g.pick(neutralFeedback)
	}
}
