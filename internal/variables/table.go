package variables

import (
	"sort"
	"strconv"
	"strings"
)

// Table maps placeholder names to rendered strings. Names are case-sensitive.
type Table map[string]string

// Clone returns an independent copy.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// SetDefault stores v under k unless k is already present.
func (t Table) SetDefault(k, v string) {
	if _, ok := t[k]; !ok {
		t[k] = v
	}
}

// Merge copies every entry of src that t does not already hold.
func (t Table) Merge(src Table) {
	for k, v := range src {
		t.SetDefault(k, v)
	}
}

// Keys returns the sorted names.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatNumber renders whole numbers without a decimal part: 12.0 is "12",
// 12.5 stays "12.5".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// NormalizeNumber applies FormatNumber to numeric strings and returns other
// strings unchanged.
func NormalizeNumber(s string) string {
	trimmed := strings.TrimSpace(s)
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return s
	}
	return FormatNumber(f)
}

// FormatCurrency renders a price with a dollar sign and two decimals.
func FormatCurrency(f float64) string {
	return "$" + strconv.FormatFloat(f, 'f', 2, 64)
}
