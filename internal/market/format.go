package market

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// FormatOdds converte odds escaladas (x1000) para decimal com 2 casas: 2500 -> "2.50"
func FormatOdds(scaled int64) string {
	return decimal.New(scaled, -3).StringFixed(2)
}

// FormatLine converte a linha escalada (x1000) para 1 casa: 3500 -> "3.5".
// nil vira string vazia.
func FormatLine(scaled *int64) string {
	if scaled == nil {
		return ""
	}
	return decimal.New(*scaled, -3).StringFixed(1)
}

// FormatDate usa a convenção DD/MM/YYYY
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(location(loc)).Format(dateLayout)
}

// FormatTime usa a convenção HH:MM (24h)
func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(location(loc)).Format(timeLayout)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
