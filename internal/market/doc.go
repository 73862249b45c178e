// Package market downloads daily commodity and ETF price history from the
// Yahoo Finance chart API and reshapes it into a long Date,Commodity,Price
// table.
//
// The flow is Fetcher.FetchAll -> Align -> Frame.FillForward ->
// Frame.FillBackward -> Frame.Melt. Instruments that fail to download are
// reported as FetchFailure values and never abort a run.
package market
