package reminders

import (
	"fmt"
	"sort"
	"time"
)

// Horizon — горизонт напоминания: за сколько дней до срока напоминаем
// и какой текст срочности подставляем в уведомление.
type Horizon struct {
	Days int
	Copy string
}

func DefaultHorizons() []Horizon {
	return []Horizon{
		{Days: 0, Copy: "vence hoje"},
		{Days: 1, Copy: "vence amanhã"},
		{Days: 3, Copy: "vence em 3 dias"},
		{Days: 7, Copy: "vence em 7 dias"},
	}
}

// HorizonsFromOffsets строит горизонты из конфигурации (offsets в днях).
func HorizonsFromOffsets(offsets []int) []Horizon {
	if len(offsets) == 0 {
		return DefaultHorizons()
	}
	out := make([]Horizon, 0, len(offsets))
	for _, d := range offsets {
		if d < 0 {
			continue
		}
		out = append(out, Horizon{Days: d, Copy: horizonCopy(d)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Days < out[j].Days })
	return out
}

func horizonCopy(days int) string {
	switch days {
	case 0:
		return "vence hoje"
	case 1:
		return "vence amanhã"
	default:
		return fmt.Sprintf("vence em %d dias", days)
	}
}

// MatchHorizon возвращает горизонт, день в день совпавший с расстоянием
// до срока. Не больше одного совпадения на обязательство за запуск.
func MatchHorizon(horizons []Horizon, today, due time.Time) (Horizon, bool) {
	delta := DaysBetween(today, due)
	for _, h := range horizons {
		if delta == h.Days {
			return h, true
		}
	}
	return Horizon{}, false
}

// DaysBetween — расстояние в целых календарных днях (может быть отрицательным).
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)) / (24 * time.Hour))
}
