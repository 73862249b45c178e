package mockdata

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Campaigns generates NumCampaigns campaigns with ids CAMP0001 upwards
func (g *Generator) Campaigns() []Campaign {
	today := dayOf(g.now)
	latestStart := g.now.AddDate(0, -1, 0)
	latestEnd := g.now.AddDate(0, 3, 0)

	campaigns := make([]Campaign, 0, g.opts.NumCampaigns)
	for i := 0; i < g.opts.NumCampaigns; i++ {
		start := g.dateBetween(g.opts.StartDate, latestStart)

		var end time.Time
		if g.chance(0.8) {
			earliest := start.AddDate(0, 0, g.fake.IntRange(30, 180))
			end = g.dateBetween(earliest, latestEnd)
		}

		ct := CampaignTypes[g.fake.IntRange(0, len(CampaignTypes)-1)]
		budget := g.money(1000, 25000)

		c := Campaign{
			ID:             fmt.Sprintf("CAMP%04d", i+1),
			Name:           fmt.Sprintf("%s %d %s", ct.Name, start.Year(), g.pick(campaignSuffixes)),
			StartDate:      start,
			EndDate:        end,
			Objective:      g.pick(campaignObjectives),
			Type:           ct.Name,
			PrimaryChannel: ct.PrimaryChannel,
			Budget:         budget,
			TargetAudience: fmt.Sprintf("%s - %s", g.pick(industries), sizeLabel(g.pick(companySizes))),
		}
		c.Spend = g.spend(c, today)
		campaigns = append(campaigns, c)
	}
	return campaigns
}

// spend models how much of the budget a campaign has used by today.
// The result is always within [0, budget].
func (g *Generator) spend(c Campaign, today time.Time) float64 {
	budget := c.Budget
	var spend float64

	switch {
	case !c.HasEnd():
		spend = g.money(0.6*budget, budget)
	case c.EndDate.Before(today):
		spend = g.money(0.8*budget, budget)
	default:
		total := daysBetween(c.StartDate, c.EndDate)
		elapsed := daysBetween(c.StartDate, today)
		switch {
		case total > 0 && elapsed > 0:
			spend = roundCents(budget * math.Min(1, float64(elapsed)/float64(total)) * g.uniform(0.7, 1.0))
		case elapsed <= 0:
			spend = 0
		default:
			spend = g.money(0.3*budget, 0.7*budget)
		}
	}
	return math.Max(0, math.Min(spend, budget))
}

// sizeLabel strips the employee-count suffix: "Startup (1-10 emp)" -> "Startup"
func sizeLabel(size string) string {
	if i := strings.Index(size, " ("); i >= 0 {
		return size[:i]
	}
	return size
}

// daysBetween counts whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	return int(math.Round(dayOf(b).Sub(dayOf(a)).Hours() / 24))
}
