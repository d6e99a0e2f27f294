package fetcher

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Bikram Sambat month names as they appear in the feed's textual dates.
var bsMonths = map[string]string{
	"Baishakh": "01", "Jestha": "02", "Ashadh": "03", "Shrawan": "04",
	"Bhadra": "05", "Ashwin": "06", "Kartik": "07", "Mangsir": "08",
	"Poush": "09", "Magh": "10", "Falgun": "11", "Chaitra": "12",
}

var (
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	textualDatePattern = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`)
)

// normalizeDate canonicalises a feed date to YYYY-MM-DD. BS dates are opaque
// strings; there is no calendar arithmetic here, only format normalization.
// An empty or unparseable date falls back to the current calendar date.
func normalizeDate(raw string, now time.Time) string {
	if isoDatePattern.MatchString(raw) {
		return raw
	}

	if m := textualDatePattern.FindStringSubmatch(raw); m != nil {
		month, ok := bsMonths[m[2]]
		if ok {
			day, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%s-%s-%02d", m[3], month, day)
		}
	}

	return now.Format("2006-01-02")
}
