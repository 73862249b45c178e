package mockdata

// Sample text and category lists the generator draws from.

var positiveFeedback = []string{
	"Excellent service and quick turnaround!",
	"The platform is very user-friendly and efficient.",
	"Loved the quality of suppliers I found.",
	"Resolved my issue promptly, great support.",
	"Highly recommend this for sourcing.",
	"A fantastic tool for procurement.",
	"Easy to navigate and find what I need.",
	"My go-to for industrial parts.",
	"The RFQ process was smooth and effective.",
	"Top-notch experience overall.",
}

var negativeFeedback = []string{
	"The user interface is a bit clunky and hard to navigate.",
	"Response times from support were too slow.",
	"I had difficulty finding relevant suppliers for my specific niche.",
	"The pricing information isn't always clear.",
	"Not enough options for smaller businesses.",
	"The search results could be more accurate.",
	"Encountered a few bugs while submitting my RFQ.",
	"It's not as intuitive as I hoped.",
	"The verification process for suppliers seems lengthy.",
	"Expected a wider range of services.",
}

var neutralFeedback = []string{
	"The platform works as expected.",
	"It's an okay tool for what it does.",
	"No major issues encountered during use.",
	"The service is standard, nothing exceptional.",
	"Met my basic requirements for sourcing.",
	"Average experience, did the job.",
	"The features are adequate for my needs.",
	"It's a functional platform.",
}

var rfqRequests = []string{
	"Requesting quote for 1,500 units of custom CNC machined aluminum (6061-T6) brackets, drawing #BRKT-003 attached. Need delivery by EOM.",
	"Seeking suppliers for ongoing fabrication of stainless steel (304L) enclosures, approx. 50 units/month. Detailed specs available.",
	"Urgent RFQ: 200 custom gears, material 4140 steel, hardened. Quote needed within 48 hours.",
	"Budgetary quote for injection molding of 10,000 ABS plastic casings, color black. Tooling to be discussed.",
	"Looking for sheet metal fabrication services: laser cutting and bending of 0.060\" mild steel. Qty: 500 pcs.",
	"Need a quote for 3D printing (SLA) of 10 prototype parts, material: durable resin. STL files provided.",
	"Sourcing for printed circuit board assembly (PCBA), 500 units, double-sided SMT. BOM and Gerbers attached.",
	"Inquiry for standard ball bearings, part number SKF-6205-2RS, quantity 1000. Best price and lead time.",
}

var rfqPriorities = []string{"High", "Medium", "Low"}

var supplierCapabilities = []string{
	"Precision CNC Machining (3, 4 & 5-axis); Turning; Milling; Grinding; ISO 9001 Certified",
	"Plastic Injection Molding; Tooling Design & Fabrication; Overmolding; Insert Molding; Cleanroom Assembly",
	"Sheet Metal Fabrication; Laser Cutting; Turret Punching; Press Brake Forming; Welding (TIG, MIG); Powder Coating",
	"3D Printing Services (FDM, SLA, SLS, DMLS); Rapid Prototyping; Additive Manufacturing; Material Variety",
	"Electronic Contract Manufacturing (ECM); PCB Assembly (SMT, PTH); Cable Harnesses; Box Builds; Functional Testing",
	"Metal Stamping; Progressive Die; Deep Drawing; Secondary Operations; High Volume Production",
	"Custom Gear Manufacturing; Spur, Helical, Bevel Gears; Heat Treatment; Gear Hobbing & Shaping",
	"Industrial Fasteners & Hardware Distribution; Standard & Custom Components; Global Sourcing",
}

var campaignObjectives = []string{"Lead Generation", "Brand Awareness", "Supplier Acquisition", "User Engagement", "Sales Conversion"}

// CampaignType pairs a campaign type with the channel it primarily runs on
type CampaignType struct {
	Name           string
	PrimaryChannel string
}

// CampaignTypes lists every campaign type in a stable order
var CampaignTypes = []CampaignType{
	{"Paid Search", "Google Ads"},
	{"Paid Social", "LinkedIn Ads"},
	{"Content Marketing", "SEO Blog"},
	{"Email Marketing", "Email Drip"},
	{"Webinar Series", "Webinar Platform"},
	{"Display Advertising", "Display Network"},
	{"Industry Partnership", "Partner Referral"},
}

var campaignSuffixes = []string{"Alpha", "Bravo", "Charlie", "Delta"}

var industries = []string{
	"Aerospace & Defense", "Automotive Manufacturing", "Medical Devices", "General Industrial",
	"Electronics & Semiconductors", "Construction Equipment", "Renewable Energy", "Robotics & Automation",
}

var companySizes = []string{
	"Startup (1-10 emp)", "Small Business (11-50 emp)", "Medium Business (51-200 emp)",
	"Large Company (201-1000 emp)", "Enterprise (1000+ emp)",
}

var focusCountries = []string{"USA", "Canada", "United Kingdom", "Germany", "Mexico", "Australia", "India"}

var buyerRoles = []string{"Procurement Manager", "Sourcing Specialist", "Design Engineer", "Operations Director", "R&D Lead"}

var supplierRoles = []string{"Sales Director", "Business Owner", "Account Manager", "Production Head"}

// Channel names outside the campaign primaries
const (
	ChannelDirect        = "Direct"
	ChannelOrganicSearch = "Organic Search"
	ChannelSocialOrganic = "Social Media Organic"
	ChannelReferral      = "Referral Site"
)

// paidChannels prefer an active campaign when attributing an interaction
var paidChannels = map[string]bool{
	"Google Ads":      true,
	"LinkedIn Ads":    true,
	"Email Drip":      true,
	"Display Network": true,
}

var utmSources = map[string]string{
	"Google Ads":       "google",
	"LinkedIn Ads":     "linkedin",
	"SEO Blog":         "google",
	"Email Drip":       "newsletter",
	"Webinar Platform": "webinar_platform",
	"Display Network":  "google_display",
	"Partner Referral": "partner_site",
}

var utmMediums = map[string]string{
	"Google Ads":       "cpc",
	"LinkedIn Ads":     "social_paid",
	"SEO Blog":         "organic",
	"Email Drip":       "email",
	"Webinar Platform": "webinar",
	"Display Network":  "display",
	"Partner Referral": "referral",
}

var socialSources = []string{"linkedin", "facebook_page", "twitter_profile"}

var contentVariants = []string{"A", "B", "C"}

var deviceCategories = []string{"Desktop", "Mobile", "Tablet"}

// Funnel event groups
const (
	GroupDiscovery          = "discovery"
	GroupConsideration      = "consideration"
	GroupConversionBuyer    = "conversion_buyer"
	GroupConversionSupplier = "conversion_supplier"
	GroupEngagement         = "engagement"
	GroupAdsEmail           = "ads_email"
)

// EventType is one event name with its funnel group and draw weight
type EventType struct {
	Name   string
	Group  string
	Weight float64
}

// EventTypes lists every event in funnel order
var EventTypes = []EventType{
	{"Site Visit", GroupDiscovery, 0.15},
	{"Blog Post View", GroupDiscovery, 0.10},
	{"Case Study View", GroupDiscovery, 0.05},
	{"Platform Search", GroupDiscovery, 0.08},
	{"Product Spec View", GroupConsideration, 0.10},
	{"Supplier Profile View", GroupConsideration, 0.07},
	{"Webinar Attended", GroupConsideration, 0.03},
	{"Pricing Page Visit", GroupConsideration, 0.04},
	{"General Inquiry Form", GroupConversionBuyer, 0.03},
	{"RFQ Submitted", GroupConversionBuyer, 0.04},
	{"Demo Request", GroupConversionBuyer, 0.02},
	{"Supplier Signup Start", GroupConversionSupplier, 0.03},
	{"Supplier Signup Complete", GroupConversionSupplier, 0.02},
	{"Paid Lead Purchase", GroupConversionSupplier, 0.01},
	{"Account Login", GroupEngagement, 0.05},
	{"Saved Search", GroupEngagement, 0.02},
	{"Favorite Item", GroupEngagement, 0.02},
	{"Ad Impression", GroupAdsEmail, 0.05},
	{"Ad Click", GroupAdsEmail, 0.03},
	{"Email Opened", GroupAdsEmail, 0.03},
	{"Email Clicked", GroupAdsEmail, 0.03},
}

var contentCategories = map[string]string{
	"Site Visit":               "Homepage",
	"Blog Post View":           "Blog Post",
	"Case Study View":          "Case Study",
	"Product Spec View":        "Product Specification",
	"Supplier Profile View":    "Supplier Profile",
	"RFQ Submitted":            "RFQ Form",
	"Supplier Signup Start":    "Supplier Signup Page",
	"Supplier Signup Complete": "Supplier Signup Confirmation",
}

// pages without a trailing slug
var formPages = map[string]bool{
	"RFQ Form":                     true,
	"Supplier Signup Page":         true,
	"Supplier Signup Confirmation": true,
}

var eventGroups = func() map[string]string {
	m := make(map[string]string, len(EventTypes))
	for _, e := range EventTypes {
		m[e.Name] = e.Group
	}
	return m
}()

// IsConversion reports whether an event belongs to a conversion group
func IsConversion(event string) bool {
	g := eventGroups[event]
	return g == GroupConversionBuyer || g == GroupConversionSupplier
}

// interactionChannels is every channel an interaction can arrive through
func interactionChannels() []string {
	channels := make([]string, 0, len(CampaignTypes)+4)
	for _, ct := range CampaignTypes {
		channels = append(channels, ct.PrimaryChannel)
	}
	return append(channels, ChannelDirect, ChannelOrganicSearch, ChannelSocialOrganic, ChannelReferral)
}
