// Package transit holds the YYC Track entity types and the seed catalog used
// until station and feedback data is served by the backend.
package transit

import (
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Catalog is a read-only snapshot of stations, monitoring records, flagged
// stations, and feedback. Listings derive filtered views from it; nothing
// mutates it.
type Catalog struct {
	Stations   []Station          `yaml:"stations"`
	Monitoring []MonitoringRecord `yaml:"monitoring"`
	Flagged    []FlaggedStation   `yaml:"flagged"`
	Feedback   []FeedbackItem     `yaml:"feedback"`
}

// LoadCatalog parses the embedded seed catalog.
func LoadCatalog() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(seedYAML, &c); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}
	return &c, nil
}

// StationByID finds a station in the catalog.
func (c *Catalog) StationByID(id string) (Station, bool) {
	for _, s := range c.Stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// FeedbackFor returns the feedback attached to one station, in catalog order.
func (c *Catalog) FeedbackFor(stationID string) []FeedbackItem {
	var out []FeedbackItem
	for _, f := range c.Feedback {
		if f.StationID == stationID {
			out = append(out, f)
		}
	}
	return out
}

// NewFeedbackItem builds a feedback entry with a fresh identifier, ready to
// submit once the feedback endpoint lands.
func NewFeedbackItem(stationID, authorName, comment, createdAt string) FeedbackItem {
	return FeedbackItem{
		ID:         uuid.NewString(),
		StationID:  stationID,
		AuthorName: authorName,
		Comment:    comment,
		CreatedAt:  createdAt,
	}
}
