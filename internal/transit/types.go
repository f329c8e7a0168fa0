package transit

// Station is a public directory entry for a CTrain station.
type Station struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Line      string `yaml:"line" json:"line"`
	Condition string `yaml:"condition" json:"condition"`
	CEI       int    `yaml:"cei" json:"cei"`
}

// MonitoringRecord is an admin-console row tracking a station's Customer
// Experience Index over time.
type MonitoringRecord struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	Line      string `yaml:"line" json:"line"`
	CEI       int    `yaml:"cei" json:"cei"`
	CEIStatus string `yaml:"ceiStatus" json:"ceiStatus"`
	Trend     []int  `yaml:"trend" json:"trend"`
}

// FlaggedStation is an admin-dashboard row for a station needing attention.
type FlaggedStation struct {
	Station     string `yaml:"station" json:"station"`
	Line        string `yaml:"line" json:"line"`
	AvgCEI      int    `yaml:"avgCei" json:"avgCei"`
	Issue       string `yaml:"issue" json:"issue"`
	LastUpdated string `yaml:"lastUpdated" json:"lastUpdated"`
	Action      string `yaml:"action" json:"action"`
}

// FeedbackItem is one rider comment attached to a station. CreatedAt is kept
// as the raw string the backend sent; window filtering parses it and treats
// malformed values as the zero time.
type FeedbackItem struct {
	ID         string `yaml:"id" json:"id"`
	StationID  string `yaml:"stationId" json:"stationId"`
	AuthorName string `yaml:"authorName" json:"authorName"`
	Comment    string `yaml:"comment" json:"comment"`
	CreatedAt  string `yaml:"createdAt" json:"createdAt"`
}
