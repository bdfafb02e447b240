package chips

import "fmt"

type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
)

// board thresholds
const (
	Min4x4 = 16
	Min5x5 = 24
)

type Status struct {
	Selected int
	Total    int
	Message  string
	Severity Severity
}

type tier struct {
	min      int
	suffix   string
	severity Severity
}

// checked in order, first match wins
var tiers = []tier{
	{Min5x5, "Enough for 4x4 or 5x5 boards.", Success},
	{Min4x4, "Enough for a 4x4 board. Need 24+ for 5x5.", Info},
	{0, "Need at least 16 words for a 4x4 board.", Warning},
}

// Status is recomputed from the chips every time, never cached
func (s *Selector) Status() Status {
	selected := 0
	for _, c := range s.chips {
		if c.IsSelected() {
			selected++
		}
	}
	return NewStatus(selected, len(s.chips))
}

func NewStatus(selected, total int) Status {
	t := tiers[len(tiers)-1]
	for _, candidate := range tiers {
		if selected >= candidate.min {
			t = candidate
			break
		}
	}
	return Status{
		Selected: selected,
		Total:    total,
		Message:  fmt.Sprintf("%d of %d words selected. %s", selected, total, t.suffix),
		Severity: t.severity,
	}
}
