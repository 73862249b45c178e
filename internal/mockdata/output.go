package mockdata

import (
	"fmt"

	"crmsynth/internal/config"
	"crmsynth/internal/exporter"
)

// Column layouts of the three CSV files
var (
	CampaignHeaders = []string{
		"campaign_id", "campaign_name", "campaign_start_date", "campaign_end_date",
		"campaign_objective", "campaign_type", "channel_source_primary",
		"campaign_budget", "campaign_spend", "target_audience_segment",
	}
	UserHeaders = []string{
		"user_id", "registration_date", "first_touch_channel", "first_touch_campaign_id",
		"user_type", "user_role", "company_name", "company_industry", "company_size_category",
		"country", "region", "supplier_capabilities_text", "user_feedback_text",
		"total_rfq_value_submitted_buyer", "total_deals_won_value_supplier",
		"ltv_actual_or_predicted", "is_paying_customer", "churn_date",
	}
	InteractionHeaders = []string{
		"interaction_id", "user_id", "session_id", "interaction_timestamp", "event_name",
		"channel_source_interaction", "campaign_id", "ad_group_name", "ad_creative_name",
		"keyword_text", "content_title", "content_category", "device_category",
		"page_url_interaction", "referrer_url_interaction", "is_conversion_event",
		"conversion_type", "interaction_value", "interaction_details_text",
		"utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term",
		"time_on_page_seconds", "scroll_depth_percent",
	}
)

// CampaignRecords renders campaigns as CSV records
func CampaignRecords(campaigns []Campaign) [][]string {
	records := make([][]string, len(campaigns))
	for i, c := range campaigns {
		records[i] = []string{
			c.ID, c.Name, exporter.FormatDate(c.StartDate), exporter.FormatDate(c.EndDate),
			c.Objective, c.Type, c.PrimaryChannel,
			exporter.FormatFloat(c.Budget), exporter.FormatFloat(c.Spend), c.TargetAudience,
		}
	}
	return records
}

// UserRecords renders users as CSV records
func UserRecords(users []User) [][]string {
	records := make([][]string, len(users))
	for i, u := range users {
		records[i] = []string{
			u.ID, exporter.FormatDate(u.RegistrationDate), u.FirstTouchChannel, u.FirstTouchCampaignID,
			u.Type, u.Role, u.CompanyName, u.CompanyIndustry, u.CompanySizeCategory,
			u.Country, u.Region, u.SupplierCapabilities, u.FeedbackText,
			exporter.FormatFloat(u.TotalRFQValueBuyer), exporter.FormatFloat(u.TotalDealsWonSupplier),
			exporter.FormatFloat(u.LTV), exporter.FormatBool(u.IsPaying), exporter.FormatDate(u.ChurnDate),
		}
	}
	return records
}

// InteractionRecord renders one interaction as a CSV record
func InteractionRecord(in Interaction) []string {
	return []string{
		in.ID, in.UserID, in.SessionID, exporter.FormatTimestamp(in.Timestamp), in.EventName,
		in.Channel, in.CampaignID, in.AdGroupName, in.AdCreativeName,
		in.KeywordText, in.ContentTitle, in.ContentCategory, in.DeviceCategory,
		in.PageURL, in.ReferrerURL, exporter.FormatBool(in.IsConversion),
		in.ConversionType, exporter.FormatFloat(in.Value), in.DetailsText,
		in.UTMSource, in.UTMMedium, in.UTMCampaign, in.UTMContent, in.UTMTerm,
		optionalInt(in.TimeOnPage), optionalInt(in.ScrollDepth),
	}
}

// InteractionRecords renders interactions as CSV records
func InteractionRecords(interactions []Interaction) [][]string {
	records := make([][]string, len(interactions))
	for i, in := range interactions {
		records[i] = InteractionRecord(in)
	}
	return records
}

func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return exporter.FormatInt(v)
}

// Datasets returns the three tables keyed by their output file names
func (d *Dataset) Datasets() []exporter.Dataset {
	return []exporter.Dataset{
		{Name: config.CampaignsFile, Headers: CampaignHeaders, Records: CampaignRecords(d.Campaigns)},
		{Name: config.UsersFile, Headers: UserHeaders, Records: UserRecords(d.Users)},
		{Name: config.InteractionsFile, Headers: InteractionHeaders, Records: InteractionRecords(d.Interactions)},
	}
}

// Save writes the three CSV files (UTF-8 with BOM) into the data directory.
// Interactions, by far the largest table, are streamed row by row.
func (d *Dataset) Save(w *exporter.CSVWriter) error {
	if err := w.WriteSimpleCSV(config.CampaignsFile, CampaignHeaders, CampaignRecords(d.Campaigns)); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.CampaignsFile, err)
	}
	if err := w.WriteSimpleCSV(config.UsersFile, UserHeaders, UserRecords(d.Users)); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.UsersFile, err)
	}
	if err := d.streamInteractions(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.InteractionsFile, err)
	}
	return nil
}

func (d *Dataset) streamInteractions(w *exporter.CSVWriter) error {
	sw, err := w.CreateStreamWriter(config.InteractionsFile, InteractionHeaders)
	if err != nil {
		return err
	}
	for _, in := range d.Interactions {
		if err := sw.WriteRecord(InteractionRecord(in)); err != nil {
			_ = sw.Close()
			return err
		}
	}
	return sw.Close()
}
