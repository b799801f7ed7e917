package volume

import (
	"strings"
)

// Method is how repeated entries of one routine/exercise pair are combined.
type Method string

const (
	// MethodTotal sums every entry.
	MethodTotal Method = "Total"
	// MethodAverage divides the total by the number of occurrences: plan
	// rows, or distinct sessions in the log.
	MethodAverage Method = "Average"
	// MethodMax keeps the largest single entry.
	MethodMax Method = "Max"
)

var Methods = []Method{MethodTotal, MethodAverage, MethodMax}

// ParseMethod is case-insensitive. An empty string selects Total. Any other
// unknown value also falls back to Total, with ok set to false so the caller
// can report the anomaly.
func ParseMethod(s string) (_ Method, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MethodTotal, true
	}
	for _, m := range Methods {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return MethodTotal, false
}
