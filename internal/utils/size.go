package utils

import "fmt"

// FormatBytes renders a byte count with a binary unit, e.g. "1.50 MB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTP"[exp])
}

// Megabytes converts a byte count to MB (1024^2 bytes).
func Megabytes(n int64) float64 { return float64(n) / (1024 * 1024) }
