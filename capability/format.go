package capability

import "fmt"

// Sentinels returned instead of failing when data is merely absent.
const (
	NotAvailable = "N/A"
	NoData       = "No data available"
)

// formatUSD renders a currency amount as "$x.xx".
func formatUSD(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("$%.2f", *v)
}

// formatPercent renders a percentage as "x.xx%".
func formatPercent(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// numberOrNA passes a plain number through, or the sentinel when absent.
func numberOrNA(v *float64) any {
	if v == nil {
		return NotAvailable
	}
	return *v
}

// stringOrNA passes a string through, or the sentinel when absent or
// empty.
func stringOrNA(v *string) string {
	if v == nil || *v == "" {
		return NotAvailable
	}
	return *v
}
