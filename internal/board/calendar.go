package board

import (
	"time"

	"github.com/teuprojeto/flowrev/internal/domain"
)

// MonthGrid returns every day cell of a month's calendar view: the month's
// days padded with leading and trailing days so that the grid starts on a
// Sunday and ends on a Saturday.
func MonthGrid(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ItemsByDay maps insumos onto their due-date day keys. A card with no due
// date never appears on the calendar.
func ItemsByDay(items []*domain.Insumo) map[string][]*domain.Insumo {
	grouped := make(map[string][]*domain.Insumo)
	for _, item := range items {
		if item.DueDate == nil {
			continue
		}
		key := domain.DayKey(*item.DueDate)
		grouped[key] = append(grouped[key], item)
	}
	return grouped
}
