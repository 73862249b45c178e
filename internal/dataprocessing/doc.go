// Package dataprocessing provides the tabular building blocks shared by the
// tools.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Table: loads a CSV (BOM tolerated) and addresses cells by column name
// 2. Processor: forward and backward fill of gaps in aligned numeric series
// 3. Summarizer: value counts, top-N, percentage distributions and means
//
// # Usage
//
//	users, err := dataprocessing.ReadTable(paths.UsersCSV)
//	if err != nil {
//	    return err
//	}
//	users.AddColumn("vader_sentiment_analysis_json", "{}")
//	top := dataprocessing.TopN(users.Column("company_industry"), 3)
package dataprocessing
