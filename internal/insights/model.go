package insights

import (
	"strings"
	"time"
)

const (
	DemandHigh   = "HIGH"
	DemandMedium = "MEDIUM"
	DemandLow    = "LOW"

	OutlookPositive = "POSITIVE"
	OutlookNeutral  = "NEUTRAL"
	OutlookNegative = "NEGATIVE"
)

type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// Data is the generated part of an insight.
type Data struct {
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       string        `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     string        `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
}

// Insight is shared by every user in an industry.
type Insight struct {
	Industry string `json:"industry"`
	Data
	LastUpdated  time.Time `json:"lastUpdated"`
	NextUpdateAt time.Time `json:"nextUpdateAt"`
}

// Stale reports whether the insight should be regenerated at now.
func (i Insight) Stale(now time.Time) bool {
	return !now.Before(i.NextUpdateAt)
}

// normalize upper-cases the enum fields, falling back to the middle value,
// and drops blank list entries.
func (d Data) normalize() Data {
	d.DemandLevel = oneOf(d.DemandLevel, DemandMedium, DemandHigh, DemandMedium, DemandLow)
	d.MarketOutlook = oneOf(d.MarketOutlook, OutlookNeutral, OutlookPositive, OutlookNeutral, OutlookNegative)
	d.TopSkills = compact(d.TopSkills)
	d.KeyTrends = compact(d.KeyTrends)
	d.RecommendedSkills = compact(d.RecommendedSkills)
	if d.SalaryRanges == nil {
		d.SalaryRanges = []SalaryRange{}
	}
	return d
}

func oneOf(v, fallback string, allowed ...string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
