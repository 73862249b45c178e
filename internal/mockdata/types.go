package mockdata

import (
	"time"
)

// Campaign is one marketing campaign
type Campaign struct {
	ID             string
	Name           string
	StartDate      time.Time
	EndDate        time.Time // zero when open-ended
	Objective      string
	Type           string
	PrimaryChannel string
	Budget         float64
	Spend          float64
	TargetAudience string
}

// HasEnd reports whether the campaign has a scheduled end date
func (c Campaign) HasEnd() bool {
	return !c.EndDate.IsZero()
}

// IsActive reports whether the campaign is still running at now
func (c Campaign) IsActive(now time.Time) bool {
	return !c.HasEnd() || !c.EndDate.Before(dayOf(now))
}

// User is one registered platform user or prospect
type User struct {
	ID                    string
	RegistrationDate      time.Time
	FirstTouchChannel     string
	FirstTouchCampaignID  string
	Type                  string
	Role                  string
	CompanyName           string
	CompanyIndustry       string
	CompanySizeCategory   string
	Country               string
	Region                string
	SupplierCapabilities  string
	FeedbackText          string
	TotalRFQValueBuyer    float64
	TotalDealsWonSupplier float64
	LTV                   float64
	IsPaying              bool
	ChurnDate             time.Time // zero when not churned
}

// Interaction is one tracked event in a user session
type Interaction struct {
	ID              string
	UserID          string
	SessionID       string
	Timestamp       time.Time
	EventName       string
	Channel         string
	CampaignID      string
	AdGroupName     string
	AdCreativeName  string
	KeywordText     string
	ContentTitle    string
	ContentCategory string
	DeviceCategory  string
	PageURL         string
	ReferrerURL     string
	IsConversion    bool
	ConversionType  string
	Value           float64
	DetailsText     string
	UTMSource       string
	UTMMedium       string
	UTMCampaign     string
	UTMContent      string
	UTMTerm         string
	TimeOnPage      int // seconds, 0 when not measured
	ScrollDepth     int // percent, 0 when not measured
}

// Dataset holds the three generated tables
type Dataset struct {
	Campaigns    []Campaign
	Users        []User
	Interactions []Interaction
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
