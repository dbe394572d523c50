package extract

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiclimate/city-temp-etl/internal/domain"
	"github.com/wikiclimate/city-temp-etl/internal/observability"
)

var parisMonths = []string{
	"5.0", "6.0", "9.0", "11.0", "15.0", "18.0",
	"20.0", "20.0", "17.0", "13.0", "8.0", "5.0",
}

func testExtractor() *Extractor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, observability.NewMetrics())
}

// buildTable renders a wikitable with a header row followed by the given
// data rows.
func buildTable(rows ...[]string) string {
	var b strings.Builder
	b.WriteString(`<table class="wikitable"><tr><th>Country</th><th>City</th></tr>`)
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

func page(tables ...string) string {
	return "<html><body>" + strings.Join(tables, "\n") + "</body></html>"
}

func dataRow(country, city string, temps ...string) []string {
	return append([]string{country, city}, temps...)
}

func TestExtract_SingleRowWithoutYearlyColumn(t *testing.T) {
	// 14 cells, no yearly column: the average is derived from the months.
	markup := page(buildTable(dataRow("France", "Paris", parisMonths...)))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	rec := records[0]
	// First table slot is Africa regardless of row content.
	assert.Equal(t, "Africa", rec.Continent)
	assert.Equal(t, "France", rec.Country)
	assert.Equal(t, "Paris", rec.City)
	for i, want := range []float64{5, 6, 9, 11, 15, 18, 20, 20, 17, 13, 8, 5} {
		require.NotNil(t, rec.Monthly[i], "month %d", i)
		assert.Equal(t, want, *rec.Monthly[i])
	}
	require.NotNil(t, rec.YearlyAvg)
	assert.InDelta(t, 12.25, *rec.YearlyAvg, 1e-9)
}

func TestExtract_YearlyColumnWins(t *testing.T) {
	row := dataRow("France", "Paris", parisMonths...)
	row = append(row, "12.3 (54.1)")
	markup := page(buildTable(row))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	require.NotNil(t, records[0].YearlyAvg)
	assert.InDelta(t, 12.3, *records[0].YearlyAvg, 1e-9)
}

func TestExtract_UnparsableYearlyFallsBackToMean(t *testing.T) {
	row := dataRow("France", "Paris", parisMonths...)
	row = append(row, "—")
	markup := page(buildTable(row))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	require.NotNil(t, records[0].YearlyAvg)
	assert.InDelta(t, 12.25, *records[0].YearlyAvg, 1e-9)
}

func TestExtract_AbsentCellsStayAbsent(t *testing.T) {
	temps := make([]string, 12)
	for i := range temps {
		temps[i] = "—"
	}
	temps[3] = "4.5"
	markup := page(buildTable(dataRow("Norway", "Bodø[2]", temps...)))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Bodø", rec.City)
	for i := 0; i < domain.MonthsPerYear; i++ {
		if i == 3 {
			require.NotNil(t, rec.Monthly[i])
			assert.Equal(t, 4.5, *rec.Monthly[i])
			continue
		}
		assert.Nil(t, rec.Monthly[i], "month %d", i)
	}
	// Mean of a single present value.
	require.NotNil(t, rec.YearlyAvg)
	assert.Equal(t, 4.5, *rec.YearlyAvg)
}

func TestExtract_AllCellsAbsent(t *testing.T) {
	temps := make([]string, 12)
	for i := range temps {
		temps[i] = "N/A"
	}
	markup := page(buildTable(dataRow("Nowhere", "Ghosttown", temps...)))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	assert.Nil(t, records[0].YearlyAvg)
}

func TestExtract_ShortRowSkipped(t *testing.T) {
	markup := page(buildTable(
		dataRow("France", "Paris", "5.0", "6.0"), // 4 cells
		dataRow("Spain", "Madrid", parisMonths...),
	))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	assert.Equal(t, "Madrid", records[0].City)
}

func TestExtract_EmptyNamesSkipped(t *testing.T) {
	markup := page(buildTable(
		dataRow("", "Paris", parisMonths...),
		dataRow("France", "  ", parisMonths...),
		dataRow("[1]", "Paris", parisMonths...), // footnote-only country
		dataRow("Spain", "Madrid", parisMonths...),
	))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	assert.Equal(t, "Madrid", records[0].City)
}

func TestExtract_ContinentSlotsAreOrdinal(t *testing.T) {
	tables := make([]string, 6)
	for i := range tables {
		tables[i] = buildTable(dataRow("Country", fmt.Sprintf("City%d", i), parisMonths...))
	}
	markup := page(tables...)

	records := testExtractor().Extract(markup)

	require.Len(t, records, 6)
	for i, rec := range records {
		assert.Equal(t, domain.Continents[i], rec.Continent)
	}
}

func TestExtract_SeventhTableIgnored(t *testing.T) {
	tables := make([]string, 7)
	for i := range tables {
		tables[i] = buildTable(dataRow("Country", fmt.Sprintf("City%d", i), parisMonths...))
	}
	markup := page(tables...)

	records := testExtractor().Extract(markup)

	require.Len(t, records, 6)
	for _, rec := range records {
		assert.NotEqual(t, "City6", rec.City)
	}
}

func TestExtract_NonWikitableIgnored(t *testing.T) {
	plain := strings.ReplaceAll(buildTable(dataRow("France", "Paris", parisMonths...)), ` class="wikitable"`, "")
	markup := page(plain)

	assert.Empty(t, testExtractor().Extract(markup))
}

func TestExtract_EmptyPage(t *testing.T) {
	assert.Empty(t, testExtractor().Extract("<html><body><p>nothing here</p></body></html>"))
	assert.Empty(t, testExtractor().Extract(""))
}

func TestExtract_Idempotent(t *testing.T) {
	markup := page(
		buildTable(dataRow("France", "Paris", parisMonths...)),
		buildTable(dataRow("Japan", "Tokyo[note 1]", parisMonths...)),
	)

	e := testExtractor()
	first := e.Extract(markup)
	second := e.Extract(markup)

	assert.Equal(t, first, second)
}

func TestExtract_UnicodeMinusAndFahrenheit(t *testing.T) {
	temps := []string{
		"−9.7 (14.5)", "−8.4 (16.9)", "−2.0", "5.0", "12.0", "17.0",
		"19.0", "17.0", "11.0", "5.0", "−2.0", "−7.0",
	}
	markup := page(buildTable(dataRow("Russia", "Yakutsk", temps...)))

	records := testExtractor().Extract(markup)

	require.Len(t, records, 1)
	require.NotNil(t, records[0].Monthly[0])
	assert.InDelta(t, -9.7, *records[0].Monthly[0], 1e-9)
	require.NotNil(t, records[0].Monthly[1])
	assert.InDelta(t, -8.4, *records[0].Monthly[1], 1e-9)
}
