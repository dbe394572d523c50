package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiclimate/city-temp-etl/internal/domain"
)

type fakeStore struct {
	summary domain.StoreSummary
	hottest []domain.CityYearly
	coldest []domain.CityYearly
	err     error
}

func (s *fakeStore) Summary(context.Context) (domain.StoreSummary, error) {
	return s.summary, s.err
}

func (s *fakeStore) HottestCities(context.Context, int) ([]domain.CityYearly, error) {
	return s.hottest, s.err
}

func (s *fakeStore) ColdestCities(context.Context, int) ([]domain.CityYearly, error) {
	return s.coldest, s.err
}

func f(v float64) *float64 { return &v }

func TestWrite(t *testing.T) {
	store := &fakeStore{
		summary: domain.StoreSummary{Continents: 6, Countries: 140, Cities: 420},
		hottest: []domain.CityYearly{
			{Continent: "Africa", Country: "Mali", City: "Timbuktu", YearlyAvg: f(28.25)},
			{Continent: "Africa", Country: "Chad", City: "Faya"},
		},
		coldest: []domain.CityYearly{
			{Continent: "Asia", Country: "Russia", City: "Yakutsk", YearlyAvg: f(-8.83)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, "city_temperatures.db", store))
	out := buf.String()

	assert.Contains(t, out, "Database created successfully: city_temperatures.db")
	assert.Contains(t, out, "  - 6 continents")
	assert.Contains(t, out, "  - 140 countries")
	assert.Contains(t, out, "  - 420 cities")
	assert.Contains(t, out, "Top 10 hottest cities:")
	assert.Contains(t, out, "  Timbuktu, Mali (Africa): 28.2°C")
	assert.Contains(t, out, "  Faya, Chad (Africa): N/A")
	assert.Contains(t, out, "Top 10 coldest cities:")
	assert.Contains(t, out, "  Yakutsk, Russia (Asia): -8.8°C")
}

func TestWrite_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("db closed")}

	var buf bytes.Buffer
	err := Write(context.Background(), &buf, "x.db", store)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarize store")
}
