package market

import (
	"time"
)

// Instrument maps a friendly commodity name to its ticker symbol
type Instrument struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// DefaultInstruments returns the industrial commodity set tracked by default
func DefaultInstruments() []Instrument {
	return []Instrument{
		{Name: "Steel_Futures_HRC", Symbol: "HRC=F"},
		{Name: "Aluminum_Futures_LME", Symbol: "ALI=F"},
		{Name: "Copper_Futures_HG", Symbol: "HG=F"},
		{Name: "Crude_Oil_Futures_WTI", Symbol: "CL=F"},
		{Name: "Steel_ETF_SLX", Symbol: "SLX"},
		{Name: "Industrial_Sector_ETF_XLI", Symbol: "XLI"},
	}
}

// Quote is one daily bar. Date is truncated to the day in UTC.
type Quote struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is the downloaded history of one instrument
type Series struct {
	Instrument Instrument
	Quotes     []Quote
}

// FetchFailure records an instrument that could not be downloaded
type FetchFailure struct {
	Instrument Instrument
	Err        error
}

// PriceRow is one line of the long-format output
type PriceRow struct {
	Date      time.Time
	Commodity string
	Price     float64
}

// OutputHeaders is the header row of the commodity prices CSV
var OutputHeaders = []string{"Date", "Commodity", "Price"}

// dayOf truncates t to midnight UTC
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
