package market

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

type fakeSource struct {
	mu      sync.Mutex
	active  int
	peak    int
	history map[string][]Quote
}

func (f *fakeSource) History(ctx context.Context, symbol string, from, to time.Time) ([]Quote, error) {
	f.mu.Lock()
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.active--
	f.mu.Unlock()

	quotes, ok := f.history[symbol]
	if !ok {
		return nil, apperrors.NewNotFoundError(symbol)
	}
	return quotes, nil
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestFetcher_FetchAll(t *testing.T) {
	source := &fakeSource{history: map[string][]Quote{
		"HG=F": {{Date: day(1), Close: 4}},
		"CL=F": {{Date: day(1), Close: 80}},
		"SLX":  {{Date: day(2), Close: 60}},
		"XLI":  {{Date: day(2), Close: 120}},
	}}
	fetcher := NewFetcher(source, 2, infrastructure.NewLogger(&strings.Builder{}, "error"))

	series, failures := fetcher.FetchAll(context.Background(), DefaultInstruments(), day(1), day(5))

	require.Len(t, series, 4)
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Instrument.Name
	}
	assert.Equal(t, []string{"Copper_Futures_HG", "Crude_Oil_Futures_WTI", "Steel_ETF_SLX", "Industrial_Sector_ETF_XLI"}, names)

	require.Len(t, failures, 2)
	assert.Equal(t, "HRC=F", failures[0].Instrument.Symbol)
	assert.Equal(t, "ALI=F", failures[1].Instrument.Symbol)
	assert.ErrorIs(t, failures[0].Err, apperrors.ErrNotFound)

	assert.LessOrEqual(t, source.peak, 2)
}

func TestFetcher_NothingFetched(t *testing.T) {
	fetcher := NewFetcher(&fakeSource{}, 0, infrastructure.NewLogger(&strings.Builder{}, "error"))
	series, failures := fetcher.FetchAll(context.Background(), DefaultInstruments()[:2], day(1), day(2))
	assert.Empty(t, series)
	assert.Len(t, failures, 2)
}
