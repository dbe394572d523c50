// Package report prints the human-readable console summary of a run.
package report

import (
	"context"
	"fmt"
	"io"

	"github.com/wikiclimate/city-temp-etl/internal/domain"
)

// topN is how many cities each ranking lists.
const topN = 10

// Summarizer is the store's read side used by the report.
type Summarizer interface {
	Summary(ctx context.Context) (domain.StoreSummary, error)
	HottestCities(ctx context.Context, n int) ([]domain.CityYearly, error)
	ColdestCities(ctx context.Context, n int) ([]domain.CityYearly, error)
}

// Write prints totals and the hottest/coldest rankings to w.
func Write(ctx context.Context, w io.Writer, dbPath string, store Summarizer) error {
	sum, err := store.Summary(ctx)
	if err != nil {
		return fmt.Errorf("summarize store: %w", err)
	}

	fmt.Fprintf(w, "\nDatabase created successfully: %s\n", dbPath)
	fmt.Fprintf(w, "  - %d continents\n", sum.Continents)
	fmt.Fprintf(w, "  - %d countries\n", sum.Countries)
	fmt.Fprintf(w, "  - %d cities\n", sum.Cities)

	hottest, err := store.HottestCities(ctx, topN)
	if err != nil {
		return fmt.Errorf("query hottest cities: %w", err)
	}
	fmt.Fprintf(w, "\nTop %d hottest cities:\n", topN)
	writeRanking(w, hottest)

	coldest, err := store.ColdestCities(ctx, topN)
	if err != nil {
		return fmt.Errorf("query coldest cities: %w", err)
	}
	fmt.Fprintf(w, "\nTop %d coldest cities:\n", topN)
	writeRanking(w, coldest)

	return nil
}

func writeRanking(w io.Writer, cities []domain.CityYearly) {
	for _, c := range cities {
		if c.YearlyAvg == nil {
			fmt.Fprintf(w, "  %s, %s (%s): N/A\n", c.City, c.Country, c.Continent)
			continue
		}
		fmt.Fprintf(w, "  %s, %s (%s): %.1f°C\n", c.City, c.Country, c.Continent, *c.YearlyAvg)
	}
}
