package market

import (
	"math"
	"strconv"
	"strings"
)

// zipWidth is the width of a five-digit US ZIP / ZCTA code.
const zipWidth = 5

// maxIntegralZIP bounds the values printed as integers; larger ones would not
// survive the int64 conversion and are kept as written.
const maxIntegralZIP = 1e15

// CanonicalZIP normalizes a ZIP identifier to the string form used as the join
// key between the dataset and the boundary file. Integral numeric values,
// including ones a spreadsheet exported as floats ("75001.0"), are printed as
// integers and left-padded to five digits. Anything else is only trimmed.
func CanonicalZIP(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f >= maxIntegralZIP || f != math.Trunc(f) {
		return s
	}
	digits := strconv.FormatInt(int64(f), 10)
	if len(digits) < zipWidth {
		digits = strings.Repeat("0", zipWidth-len(digits)) + digits
	}
	return digits
}
