package riskLevels

const (
	Low      = "Low"
	Medium   = "Medium"
	High     = "High"
	Critical = "Critical"
)

// Score is used to sort assessed dependencies, highest risk first.
func Score(level string) int {
	switch level {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}

	return 0
}
