package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount accepts both plain and European formats:
// "-4.50" -> -4.5, "1,234.56" -> 1234.56, "-1.234,56" -> -1234.56.
// The separator appearing last is taken as the decimal point.
func parseAmount(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.TrimPrefix(clean, "€")

	if strings.LastIndexByte(clean, ',') > strings.LastIndexByte(clean, '.') {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	f, _ := d.Float64()

	return f, nil
}
