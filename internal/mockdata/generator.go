package mockdata

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-playground/validator/v10"

	"crmsynth/internal/config"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

// Options control the size and time window of a generated dataset
type Options struct {
	NumCampaigns      int       `validate:"gte=1"`
	NumUsers          int       `validate:"gte=1"`
	InteractionTarget int       `validate:"gte=0"`
	StartDate         time.Time `validate:"required"`
	Now               time.Time `validate:"required"`
	Seed              int64
}

// OptionsFromConfig builds generator options from configuration. now is the
// clock the dataset is generated against.
func OptionsFromConfig(cfg config.GeneratorConfig, now time.Time) (Options, error) {
	start, err := cfg.Start()
	if err != nil {
		return Options{}, err
	}
	return Options{
		NumCampaigns:      cfg.NumCampaigns,
		NumUsers:          cfg.NumUsers,
		InteractionTarget: cfg.InteractionTarget,
		StartDate:         time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location()),
		Now:               now,
		Seed:              cfg.Seed,
	}, nil
}

// Validate checks the options
func (o Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid generator options", err)
	}
	if !o.StartDate.Before(o.Now.AddDate(0, -1, 0)) {
		return apperrors.NewValidationError(
			fmt.Sprintf("start date %s must be at least one month before now", o.StartDate.Format(config.DateLayout)))
	}
	return nil
}

// Generator produces a synthetic CRM dataset. A Generator is not safe for
// concurrent use.
type Generator struct {
	opts   Options
	now    time.Time
	fake   *gofakeit.Faker
	logger *slog.Logger
}

// NewGenerator validates opts and seeds the random source. A zero Seed
// draws a random one.
func NewGenerator(opts Options, logger *slog.Logger) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		opts:   opts,
		now:    opts.Now.Truncate(time.Second),
		fake:   gofakeit.New(uint64(opts.Seed)),
		logger: infrastructure.WithComponent(logger, "mockdata"),
	}, nil
}

// Generate builds campaigns, then users, then their interactions
func (g *Generator) Generate() *Dataset {
	campaigns := g.Campaigns()
	g.logger.Info("generated campaigns", slog.Int("count", len(campaigns)))

	users := g.Users(campaigns)
	g.logger.Info("generated users", slog.Int("count", len(users)))

	interactions := g.Interactions(users, campaigns)
	g.logger.Info("generated interactions",
		slog.Int("count", len(interactions)),
		slog.Int("target", g.opts.InteractionTarget))

	return &Dataset{Campaigns: campaigns, Users: users, Interactions: interactions}
}

// chance returns true with probability p
func (g *Generator) chance(p float64) bool {
	return g.fake.Float64() < p
}

func (g *Generator) pick(values []string) string {
	return values[g.fake.IntRange(0, len(values)-1)]
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.fake.Float64()*(hi-lo)
}

// money draws U(lo, hi) rounded to cents
func (g *Generator) money(lo, hi float64) float64 {
	return roundCents(g.uniform(lo, hi))
}

// between draws a time uniformly in [from, to]. It returns from when the
// range is empty.
func (g *Generator) between(from, to time.Time) time.Time {
	if !to.After(from) {
		return from
	}
	span := to.Sub(from)
	return from.Add(time.Duration(g.fake.Float64() * float64(span)))
}

// dateBetween draws a calendar date in [from, to]
func (g *Generator) dateBetween(from, to time.Time) time.Time {
	return dayOf(g.between(from, to))
}

func (g *Generator) weighted(events []EventType) string {
	total := 0.0
	for _, e := range events {
		total += e.Weight
	}
	r := g.fake.Float64() * total
	for _, e := range events {
		r -= e.Weight
		if r < 0 {
			return e.Name
		}
	}
	return events[len(events)-1].Name
}

func roundCents(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}
