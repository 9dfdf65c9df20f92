package booking

import (
	"fmt"

	"github.com/example/quadras-reserva/internal/civil"
)

// SlotMinutes is the length of every bookable slot.
const SlotMinutes = 60

// SlotLabel renders a start time as its slot, "23:00" -> "23:00 - 00:00".
func SlotLabel(start string) string {
	h, m, err := civil.ParseClock(start)
	if err != nil {
		return start
	}
	end := (h*60 + m + SlotMinutes) % (24 * 60)
	return fmt.Sprintf("%s - %02d:%02d", start, end/60, end%60)
}

// PickerHint is the placeholder of the start time picker.
func PickerHint(selectionComplete, loading bool, slots int) string {
	switch {
	case !selectionComplete:
		return "Selecione data e quadra"
	case loading:
		return "Buscando horários..."
	case slots > 0:
		return "Selecione um horário"
	default:
		return "Nenhum horário disponível"
	}
}

func containsSlot(slots []string, s string) bool {
	for _, v := range slots {
		if v == s {
			return true
		}
	}
	return false
}

// ChooseSlot returns the first preferred start time that is free. With no
// preferences it returns the earliest free start time.
func ChooseSlot(preferred, free []string) (string, bool) {
	if len(free) == 0 {
		return "", false
	}
	if len(preferred) == 0 {
		best := free[0]
		for _, s := range free[1:] {
			if s < best {
				best = s
			}
		}
		return best, true
	}
	for _, p := range preferred {
		if containsSlot(free, p) {
			return p, true
		}
	}
	return "", false
}
