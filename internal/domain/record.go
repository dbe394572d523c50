package domain

import (
	"regexp"
	"strings"
	"time"
)

// MonthsPerYear is the number of monthly temperature slots in a record.
const MonthsPerYear = 12

// Continents lists the six continent labels in the order their tables appear
// on the source page. Table index 0..5 maps onto this slice.
var Continents = []string{
	"Africa",
	"Asia",
	"Europe",
	"North America",
	"Oceania",
	"South America",
}

// footnoteRe matches bracketed footnote references in country and city
// names, e.g. "Russia[note 1]" or "Bodø[2]".
var footnoteRe = regexp.MustCompile(`\[.*?\]`)

// TemperatureRecord holds one city's parsed temperature data.
// Monthly is indexed Jan..Dec; nil slots mean the source had no value.
type TemperatureRecord struct {
	Continent string
	Country   string
	City      string
	Monthly   [MonthsPerYear]*float64
	YearlyAvg *float64
}

// Valid reports whether the record carries both a country and a city name.
// Rows failing this check are dropped during extraction.
func (r TemperatureRecord) Valid() bool {
	return r.Country != "" && r.City != ""
}

// ScrapeRun records provenance for one completed scrape pass.
type ScrapeRun struct {
	SourceURL   string
	FetchedAt   time.Time
	RecordCount int
}

// StoreSummary holds row counts per dimension table after a load.
type StoreSummary struct {
	Continents int
	Countries  int
	Cities     int
}

// CityYearly is one row of the flattened city/yearly-average ranking.
// YearlyAvg is nil when the source had no monthly data at all.
type CityYearly struct {
	Continent string
	Country   string
	City      string
	YearlyAvg *float64
}

// CleanName strips bracketed footnote markers from a table cell and trims
// surrounding whitespace: " France[note 2] " → "France".
func CleanName(s string) string {
	return strings.TrimSpace(footnoteRe.ReplaceAllString(s, ""))
}

// MeanOfPresent returns the arithmetic mean of the non-nil monthly values,
// or nil when every slot is absent.
func MeanOfPresent(monthly [MonthsPerYear]*float64) *float64 {
	var sum float64
	var n int
	for _, v := range monthly {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
