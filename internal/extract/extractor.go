// Package extract turns the source page markup into temperature records.
package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wikiclimate/city-temp-etl/internal/domain"
	"github.com/wikiclimate/city-temp-etl/internal/observability"
)

const (
	// dataTableSelector identifies the page's data tables. Layout tables and
	// navboxes do not carry the wikitable class.
	dataTableSelector = "table.wikitable"

	// minRowCells is the smallest cell count a data row can have:
	// country, city, and twelve months. The yearly column is optional.
	minRowCells = 2 + domain.MonthsPerYear
)

// Extractor walks the page's continent tables and produces one
// TemperatureRecord per qualifying city row. It is pure with respect to its
// input: identical markup always yields identical record sequences.
//
// Continent assignment is positional: the Nth wikitable on the page belongs
// to domain.Continents[N], and tables past the sixth are ignored. This
// assumes the page keeps its six continent tables in a stable order; a
// heading-based lookup would survive reordering but couples extraction to
// heading markup instead.
type Extractor struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Extractor.
func New(logger *slog.Logger, metrics *observability.Metrics) *Extractor {
	return &Extractor{logger: logger, metrics: metrics}
}

// Extract parses the page markup and returns records in document order.
// Malformed cells degrade to absent values and malformed rows are skipped;
// a page with no qualifying tables yields an empty slice, never an error.
func (e *Extractor) Extract(markup string) []domain.TemperatureRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// html parsing is lenient; this only fires on reader failure.
		e.logger.Warn("markup unreadable", "error", err)
		return nil
	}

	var records []domain.TemperatureRecord

	doc.Find(dataTableSelector).EachWithBreak(func(idx int, table *goquery.Selection) bool {
		if idx >= len(domain.Continents) {
			return false
		}
		continent := domain.Continents[idx]
		e.metrics.TablesParsed.Inc()

		table.Find("tr").Each(func(rowIdx int, row *goquery.Selection) {
			if rowIdx == 0 {
				return // header row
			}
			rec, ok := e.extractRow(continent, row)
			if !ok {
				e.metrics.RowsSkipped.Inc()
				return
			}
			records = append(records, rec)
		})
		return true
	})

	e.logger.Debug("extraction complete", "records", len(records))
	return records
}

// extractRow maps one table row to a record using positional column
// assumptions: cells 0/1 are country/city, 2–13 the months, 14 the optional
// yearly average.
func (e *Extractor) extractRow(continent string, row *goquery.Selection) (domain.TemperatureRecord, bool) {
	cells := row.Find("td, th")
	if cells.Length() < minRowCells {
		return domain.TemperatureRecord{}, false
	}

	texts := make([]string, cells.Length())
	cells.Each(func(i int, cell *goquery.Selection) {
		texts[i] = cell.Text()
	})

	rec := domain.TemperatureRecord{
		Continent: continent,
		Country:   domain.CleanName(texts[0]),
		City:      domain.CleanName(texts[1]),
	}
	if !rec.Valid() {
		return domain.TemperatureRecord{}, false
	}

	for i := 0; i < domain.MonthsPerYear; i++ {
		rec.Monthly[i] = domain.ParseTemperature(texts[2+i])
	}

	if len(texts) > minRowCells {
		rec.YearlyAvg = domain.ParseTemperature(texts[minRowCells])
	}
	if rec.YearlyAvg == nil {
		rec.YearlyAvg = domain.MeanOfPresent(rec.Monthly)
	}

	return rec, true
}
