package naming

import (
	"strconv"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark/internal/book"
)

// placeholderValue resolves a template placeholder against a record. The
// bool reports whether the field carries a value at all; a resolvable but
// empty field is the caller's problem to handle per its missing policy.
func placeholderValue(rec *book.Record, name, format string) (string, bool, bool) {
	switch name {
	case "Title":
		return rec.Title, rec.Title != "", true
	case "Subtitle":
		return rec.Subtitle, rec.Subtitle != "", true
	case "Authors":
		return strings.Join(rec.Authors, ", "), len(rec.Authors) > 0, true
	case "SeriesName":
		return rec.Series, rec.Series != "", true
	case "SeriesNumber":
		if rec.SeriesIndex == 0 {
			return "", false, true
		}
		return strconv.Itoa(rec.SeriesIndex), true, true
	case "SeriesTotal":
		if rec.SeriesTotal == 0 {
			return "", false, true
		}
		return strconv.Itoa(rec.SeriesTotal), true, true
	case "Language":
		return rec.Language, rec.Language != "", true
	case "Publisher":
		return rec.Publisher, rec.Publisher != "", true
	case "ISBN10":
		return rec.ISBN10, rec.ISBN10 != "", true
	case "ISBN13":
		return rec.ISBN13, rec.ISBN13 != "", true
	case "ASIN":
		return rec.ASIN, rec.ASIN != "", true
	case "Year":
		year := rec.Year
		if year == 0 && !rec.Published.IsZero() {
			year = rec.Published.Year()
		}
		if year == 0 {
			return "", false, true
		}
		return strconv.Itoa(year), true, true
	case "Published":
		if rec.Published.IsZero() {
			return "", false, true
		}
		return formatDate(rec.Published, format), true, true
	default:
		return "", false, false
	}
}

// formatDate translates yyyy/MM/dd style date patterns into a concrete
// value. An empty pattern means the full ISO date.
func formatDate(t time.Time, pattern string) string {
	if pattern == "" {
		pattern = "yyyy-MM-dd"
	}
	layout := strings.NewReplacer(
		"yyyy", "2006",
		"MM", "01",
		"dd", "02",
	).Replace(pattern)
	return t.Format(layout)
}
