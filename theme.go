package distill

// Theme defines semantic color mappings for command-line output using ANSI
// color indices (0-15). The user's terminal theme determines the actual RGB
// values. A negative index means no color.
type Theme struct {
	Success  int // Result parsed as-is
	Repaired int // Result needed a repair strategy
	Error    int // Failures and diagnostics
	Muted    int // Progress lines, raw text excerpts
	Accent   int // Labels
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Success:  2,
		Repaired: 3,
		Error:    1,
		Muted:    8,
		Accent:   5,
	}
}
