package transit

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/yyc-track/trackctl/internal/derive"
)

// Selectable option values shared by the listing filter surfaces.
var (
	LineOptions      = []string{"Red", "Blue", "Dual"}
	ConditionOptions = []string{"good", "moderate", "poor"}
	CEIStatusOptions = []string{"stable", "moderate", "poor"}
)

// StationFilterSpec is the public station directory's filter surface:
// name search, condition, and line. The directory is unsorted.
func StationFilterSpec() derive.Spec {
	return derive.Spec{Fields: []derive.Field{
		{Kind: derive.KindSearch, Key: derive.SearchKey, Label: "Search by station name..."},
		{Kind: derive.KindSelect, Key: "condition", Label: "All Conditions", Options: ConditionOptions},
		{Kind: derive.KindSelect, Key: "line", Label: "All Lines", Options: LineOptions},
	}}
}

// StationBinding tells the derivation engine how to read a Station.
func StationBinding() derive.Binding[Station] {
	return derive.Binding[Station]{
		Text: func(s Station) string { return s.Name },
		Selects: map[string]func(Station) string{
			"condition": func(s Station) string { return s.Condition },
			"line":      func(s Station) string { return s.Line },
		},
	}
}

// MonitoringFilterSpec is the admin monitoring console's filter surface:
// name search, line, CEI status, and a sort selector.
func MonitoringFilterSpec() derive.Spec {
	return derive.Spec{Fields: []derive.Field{
		{Kind: derive.KindSearch, Key: derive.SearchKey, Label: "Search by station name..."},
		{Kind: derive.KindSelect, Key: "line", Label: "All Lines", Options: LineOptions},
		{Kind: derive.KindSelect, Key: "ceiStatus", Label: "All CEI Statuses", Options: CEIStatusOptions},
		{Kind: derive.KindSelect, Key: derive.SortKey, Label: "Default Order",
			Options: []string{"score_desc", "score_asc", "name_asc"}},
	}}
}

// MonitoringBinding tells the derivation engine how to read a
// MonitoringRecord. Name ordering is collated, not byte-wise.
func MonitoringBinding() derive.Binding[MonitoringRecord] {
	names := collate.New(language.English)
	return derive.Binding[MonitoringRecord]{
		Text: func(r MonitoringRecord) string { return r.Name },
		Selects: map[string]func(MonitoringRecord) string{
			"line":      func(r MonitoringRecord) string { return r.Line },
			"ceiStatus": func(r MonitoringRecord) string { return r.CEIStatus },
		},
		Sorts: map[string]derive.Less[MonitoringRecord]{
			"score_desc": func(a, b MonitoringRecord) bool { return a.CEI > b.CEI },
			"score_asc":  func(a, b MonitoringRecord) bool { return a.CEI < b.CEI },
			"name_asc":   func(a, b MonitoringRecord) bool { return names.CompareString(a.Name, b.Name) < 0 },
		},
	}
}

// FeedbackFilterSpec is the station-detail feedback surface: a time window
// and a recency sort. There is no neutral sort; recent-first is the default.
func FeedbackFilterSpec() derive.Spec {
	return derive.Spec{Fields: []derive.Field{
		{Kind: derive.KindSelect, Key: derive.WindowKey, Label: "All Time", Options: derive.WindowOptions},
		{Kind: derive.KindSelect, Key: derive.SortKey, Label: "Sort",
			Options: []string{"recent", "oldest"}, Default: "recent"},
	}}
}

// FeedbackBinding tells the derivation engine how to read a FeedbackItem.
func FeedbackBinding() derive.Binding[FeedbackItem] {
	createdAt := func(f FeedbackItem) time.Time {
		return derive.ParseTimestamp(f.CreatedAt)
	}
	return derive.Binding[FeedbackItem]{
		Timestamp: createdAt,
		Sorts: map[string]derive.Less[FeedbackItem]{
			"recent": func(a, b FeedbackItem) bool { return createdAt(a).After(createdAt(b)) },
			"oldest": func(a, b FeedbackItem) bool { return createdAt(a).Before(createdAt(b)) },
		},
	}
}
