package report

import "fmt"

const (
	kb = 1024
	mb = kb * 1024
	gb = mb * 1024
)

// FormatBytes scales a byte count to the largest of GB, MB, KB or bytes it
// reaches. Scaled units use two decimals; plain bytes are an integer.
func FormatBytes(v uint64) string {
	switch {
	case v >= gb:
		return fmt.Sprintf("%.2fGB", float64(v)/gb)
	case v >= mb:
		return fmt.Sprintf("%.2fMB", float64(v)/mb)
	case v >= kb:
		return fmt.Sprintf("%.2fKB", float64(v)/kb)
	default:
		return fmt.Sprintf("%d bytes", v)
	}
}
