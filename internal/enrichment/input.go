package enrichment

import (
	"errors"
	"fmt"

	"crmsynth/internal/config"
	"crmsynth/internal/dataprocessing"
	apperrors "crmsynth/internal/errors"
)

// Columns added by the enrichment run
const (
	ColumnVaderSentiment     = "vader_sentiment_analysis_json"
	ColumnSupplierCapability = "gemini_supplier_capability_json"
	ColumnRFQAnalysis        = "gemini_rfq_analysis_json"
)

// Input columns read by the enrichment run
const (
	colUserID               = "user_id"
	colUserType             = "user_type"
	colFeedback             = "user_feedback_text"
	colSupplierCapabilities = "supplier_capabilities_text"
	colInteractionID        = "interaction_id"
	colEventName            = "event_name"
	colDetails              = "interaction_details_text"
	colBudget               = "campaign_budget"
	colSpend                = "campaign_spend"
)

// Input holds the three generated tables
type Input struct {
	Users        *dataprocessing.Table
	Interactions *dataprocessing.Table
	Campaigns    *dataprocessing.Table
}

// LoadInput reads the generator's CSV files. A missing file is a config
// error pointing at the generator.
func LoadInput(paths *config.Paths) (*Input, error) {
	users, err := readInput(paths.UsersCSV)
	if err != nil {
		return nil, err
	}
	interactions, err := readInput(paths.InteractionsCSV)
	if err != nil {
		return nil, err
	}
	campaigns, err := readInput(paths.CampaignsCSV)
	if err != nil {
		return nil, err
	}
	return &Input{Users: users, Interactions: interactions, Campaigns: campaigns}, nil
}

func readInput(path string) (*dataprocessing.Table, error) {
	table, err := dataprocessing.ReadTable(path)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("input file %s not found, run mockdata first", path), err)
		}
		return nil, err
	}
	return table, nil
}
