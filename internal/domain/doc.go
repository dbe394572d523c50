// Package domain models city temperature data extracted from the Wikipedia
// page "List of cities by average temperature".
//
// # Source Page Conventions
//
// The page lists average temperatures per city in six tables, one per
// continent, in a fixed order: Africa, Asia, Europe, North America, Oceania,
// South America. Each table carries the "wikitable" CSS class and starts with
// a header row. Data rows have at least 14 cells:
//
//	country | city | Jan | Feb | ... | Dec | [Year]
//
// The trailing Year cell is present in most tables but not all; when it is
// missing, the yearly average is derived as the mean of whichever monthly
// values are present.
//
// Cell text quirks handled during parsing:
//
//	Fahrenheit parentheticals:
//	  "15.2 (59.4)" → the parenthesized Fahrenheit conversion is stripped
//	  before numeric extraction, yielding 15.2.
//	Unicode minus:
//	  "−3.4" uses U+2212 rather than an ASCII hyphen; it is normalized to
//	  "-3.4" before float parsing.
//	No-data markers:
//	  "", "—" (em-dash), "-", and "N/A" all mean the value is absent.
//	Footnote markers:
//	  Country and city names may carry bracketed references ("Russia[note 1]");
//	  the bracketed portion is removed and the result trimmed.
//
// # Absent Values
//
// A missing temperature is represented as a nil *float64, never as zero.
// Zero is a legitimate Celsius reading; conflating the two would corrupt
// yearly averages for cold-climate cities.
//
// # Continent Assignment
//
// A row's continent comes from its enclosing table's position among the
// page's wikitable tables (index 0..5 onto [Continents]), not from page
// text. Tables beyond the sixth are ignored entirely. This is a structural
// assumption about the page layout, chosen over matching section headings;
// see the extract package.
package domain
