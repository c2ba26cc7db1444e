package xlsx

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// number is a parsed numeric cell value. Values written without a decimal
// point or exponent are integers of arbitrary size.
type number struct {
	integer *big.Int
	value   float64
}

func parseNumber(raw string) (number, bool) {
	if strings.ContainsAny(raw, ".eE") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return number{}, false
		}
		return number{value: f}, true
	}

	i, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return number{}, false
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	return number{integer: i, value: f}, true
}

func (n number) float() float64 {
	return n.value
}

// String renders integers in decimal and floats in shortest round-trip
// form with a trailing ".0" when integral.
func (n number) String() string {
	if n.integer != nil {
		return n.integer.String()
	}
	return formatFloat(n.value)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var (
	windowsEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	macEpoch     = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
)

const (
	millisPerDay = 86400 * 1000
	maxSerialDay = 3_000_000
)

// formatSerial renders a date serial number. Serials in [0, 1) are times
// of day. The 1900 system reproduces the phantom 29 February 1900, so
// serials below 60 land one day later than plain arithmetic suggests.
// Times are rounded to the millisecond.
func formatSerial(serial float64, date1904 bool) (string, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return "", false
	}

	day := math.Floor(serial)
	fraction := serial - day
	if math.Abs(day) > maxSerialDay {
		return "", false
	}
	ms := int64(math.RoundToEven(fraction * 86400 * 1000))

	if serial >= 0 && serial < 1 && ms < millisPerDay {
		return formatClock(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(ms) * time.Millisecond)), true
	}

	epoch := macEpoch
	if !date1904 {
		epoch = windowsEpoch
		if serial > 0 && serial < 60 {
			day++
		}
	}

	t := epoch.AddDate(0, 0, int(day)).Add(time.Duration(ms) * time.Millisecond)
	if t.Year() < 1 || t.Year() > 9999 {
		return "", false
	}
	return t.Format("2006-01-02") + " " + formatClock(t), true
}

// formatClock renders HH:MM:SS with a microsecond suffix when non-zero.
func formatClock(t time.Time) string {
	s := t.Format("15:04:05")
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

// formatISODate renders a t="d" cell. Unparseable values are kept as is.
func formatISODate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02") + " " + formatClock(t)
		}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Format("2006-01-02")
	}
	if t, err := time.Parse("15:04:05.999999999", raw); err == nil {
		return formatClock(t)
	}
	return raw
}

// parseRef splits an A1-style reference into 1-based row and column.
func parseRef(ref string) (int, int, bool) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	col := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, false
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, false
	}
	return row, col, true
}

func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
