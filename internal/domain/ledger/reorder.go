package ledger

// EvaluateLowStock returns the subset of a stock snapshot that is at or
// below its reorder level. Pure function: no side effects, input order is
// preserved.
func EvaluateLowStock(lines []StockLine) []StockLine {
	low := make([]StockLine, 0)
	for _, line := range lines {
		if line.IsLowStock() {
			low = append(low, line)
		}
	}
	return low
}
