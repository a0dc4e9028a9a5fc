package domain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PhaseWindow is the day-of-month window in which a production phase is
// expected to run. A window with EndDay < StartDay wraps into the next
// month (e.g. 28–1).
type PhaseWindow struct {
	Phase    ProductionPhase `yaml:"phase"`
	Label    string          `yaml:"label"`
	StartDay int             `yaml:"start_day"`
	EndDay   int             `yaml:"end_day"`
}

// PhaseCalendar is the configurable set of phase windows for a production
// cycle. The observed windows overlap ambiguously across month boundaries,
// so overlaps are surfaced as warnings rather than resolved one way.
type PhaseCalendar struct {
	Windows []PhaseWindow `yaml:"windows"`
}

// DefaultPhaseCalendar mirrors the production thresholds in use today.
func DefaultPhaseCalendar() PhaseCalendar {
	return PhaseCalendar{Windows: []PhaseWindow{
		{Phase: PhaseKickoff, Label: "Kickoff", StartDay: 15, EndDay: 15},
		{Phase: PhaseTextInputs, Label: "Text Inputs", StartDay: 15, EndDay: 25},
		{Phase: PhaseFinalData, Label: "Final Data", StartDay: 25, EndDay: 1},
		{Phase: PhaseBuild, Label: "Build", StartDay: 1, EndDay: 9},
		{Phase: PhaseValidation, Label: "Validation", StartDay: 6, EndDay: 9},
	}}
}

// LoadPhaseCalendar reads a phase calendar from a YAML file. An empty path
// returns the defaults.
func LoadPhaseCalendar(path string) (PhaseCalendar, error) {
	if path == "" {
		return DefaultPhaseCalendar(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PhaseCalendar{}, fmt.Errorf("reading phase calendar: %w", err)
	}
	var cal PhaseCalendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return PhaseCalendar{}, fmt.Errorf("parsing phase calendar: %w", err)
	}
	if err := cal.check(); err != nil {
		return PhaseCalendar{}, err
	}
	return cal, nil
}

func (c PhaseCalendar) check() error {
	for _, w := range c.Windows {
		if w.StartDay < 1 || w.StartDay > 31 || w.EndDay < 1 || w.EndDay > 31 {
			return fmt.Errorf("phase %s: window days must be in 1..31", w.Phase)
		}
	}
	return nil
}

// days expands a window into the set of covered day numbers, following the
// wrap rule for windows that cross a month boundary.
func (w PhaseWindow) days() map[int]bool {
	covered := make(map[int]bool)
	d := w.StartDay
	for {
		covered[d] = true
		if d == w.EndDay {
			break
		}
		d++
		if d > 31 {
			d = 1
		}
	}
	return covered
}

// Overlaps returns a human-readable warning per pair of windows that cover
// a common day. The observed calendar genuinely overlaps (validation runs
// inside the build window), so callers display warnings instead of failing.
func (c PhaseCalendar) Overlaps() []string {
	var warnings []string
	for i := 0; i < len(c.Windows); i++ {
		for j := i + 1; j < len(c.Windows); j++ {
			a, b := c.Windows[i], c.Windows[j]
			shared := 0
			bd := b.days()
			for d := range a.days() {
				if bd[d] {
					shared++
				}
			}
			if shared > 0 {
				warnings = append(warnings, fmt.Sprintf(
					"phase windows %s (%d–%d) and %s (%d–%d) overlap on %d day(s)",
					a.Phase, a.StartDay, a.EndDay, b.Phase, b.StartDay, b.EndDay, shared))
			}
		}
	}
	return warnings
}

// PhaseForDay returns the first configured window covering the given day of
// month, in declaration order. Overlapping windows resolve to the earlier
// declaration; Overlaps exists so that ambiguity stays visible.
func (c PhaseCalendar) PhaseForDay(day int) (ProductionPhase, bool) {
	for _, w := range c.Windows {
		if w.days()[day] {
			return w.Phase, true
		}
	}
	return "", false
}
