package domain

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/pkg/types"
)

// TimeSlot свободный интервал для записи
type TimeSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
}

// OperatingWindow окно приема на один день
type OperatingWindow struct {
	Start        types.TimeString
	End          types.TimeString
	SlotDuration time.Duration
	BreakStart   *types.TimeString
	BreakEnd     *types.TimeString
}

// DefaultOperatingWindow 08:00-17:00, слоты по 30 минут
func DefaultOperatingWindow() OperatingWindow {
	return OperatingWindow{
		Start:        types.TimeString(DefaultWindowStart),
		End:          types.TimeString(DefaultWindowEnd),
		SlotDuration: DefaultSlotDuration,
	}
}

// HasBreak returns true if the window has a complete break interval
func (w OperatingWindow) HasBreak() bool {
	return w.BreakStart != nil && w.BreakEnd != nil && w.BreakStart.IsBefore(*w.BreakEnd)
}

// GenerateSlots возвращает слоты на дату в окне [Start, End) с шагом SlotDuration.
// Время суток у date игнорируется, слоты считаются в date.Location().
// Неполный последний интервал слот не дает. Некорректное окно дает пустой результат.
func GenerateSlots(date time.Time, window OperatingWindow) []TimeSlot {
	if window.SlotDuration <= 0 {
		return []TimeSlot{}
	}

	start, err := window.Start.On(date)
	if err != nil {
		return []TimeSlot{}
	}
	end, err := window.End.On(date)
	if err != nil {
		return []TimeSlot{}
	}
	if !start.Before(end) {
		return []TimeSlot{}
	}

	durationMinutes := int(window.SlotDuration / time.Minute)
	slots := make([]TimeSlot, 0, int(end.Sub(start)/window.SlotDuration))

	// Интервал должен целиком поместиться в окно
	for current := start; !current.Add(window.SlotDuration).After(end); current = current.Add(window.SlotDuration) {
		slots = append(slots, TimeSlot{
			StartTime:       types.NewTimeString(current),
			DurationMinutes: durationMinutes,
		})
	}

	return slots
}

// ExcludeBreak убирает слоты, начало которых попадает в перерыв [BreakStart, BreakEnd)
func ExcludeBreak(slots []TimeSlot, window OperatingWindow) []TimeSlot {
	if !window.HasBreak() {
		return slots
	}

	result := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		inBreak := !slot.StartTime.IsBefore(*window.BreakStart) && slot.StartTime.IsBefore(*window.BreakEnd)
		if !inBreak {
			result = append(result, slot)
		}
	}
	return result
}

// FilterAvailable убирает слоты, занятые существующими записями.
// Время записи переводится в loc и форматируется тем же layout, что и слоты.
// Порядок слотов сохраняется.
func FilterAvailable(slots []TimeSlot, booked []time.Time, loc *time.Location) []TimeSlot {
	if len(booked) == 0 {
		return slots
	}

	taken := make(map[types.TimeString]struct{}, len(booked))
	for _, b := range booked {
		if loc != nil {
			b = b.In(loc)
		}
		taken[types.NewTimeString(b)] = struct{}{}
	}

	result := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if _, ok := taken[slot.StartTime]; !ok {
			result = append(result, slot)
		}
	}
	return result
}

// DropPast убирает слоты, которые уже начались (только для текущего дня)
func DropPast(slots []TimeSlot, date, now time.Time) []TimeSlot {
	if !StartOfDay(date).Equal(StartOfDay(now.In(date.Location()))) {
		return slots
	}

	result := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		at, err := slot.StartTime.On(date)
		if err != nil {
			continue
		}
		if at.After(now) {
			result = append(result, slot)
		}
	}
	return result
}

// ContainsSlot проверяет, что время есть среди слотов
func ContainsSlot(slots []TimeSlot, t types.TimeString) bool {
	for _, slot := range slots {
		if slot.StartTime == t {
			return true
		}
	}
	return false
}

// ResolveWindow выбирает окно приема на дату.
// honorOpeningHours=true и заданные часы работы: используется день недели даты,
// отсутствующий день означает выходной. Иначе окно defaults по будням.
// Второе значение false, если в этот день практика не принимает.
func ResolveWindow(practice *Practice, date time.Time, defaults OperatingWindow, honorOpeningHours bool) (OperatingWindow, bool) {
	if honorOpeningHours && practice != nil && len(practice.OpeningHours) > 0 {
		day, ok := practice.OpeningHours.ForDate(date)
		if !ok {
			return OperatingWindow{}, false
		}
		return OperatingWindow{
			Start:        day.Open,
			End:          day.Close,
			SlotDuration: defaults.SlotDuration,
			BreakStart:   day.BreakStart,
			BreakEnd:     day.BreakEnd,
		}, true
	}

	if IsWeekend(date) {
		return OperatingWindow{}, false
	}
	return defaults, true
}

// IsWeekend суббота или воскресенье
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SlotsForDate полный расчет слотов дня без учета записей
func SlotsForDate(practice *Practice, date time.Time, defaults OperatingWindow, honorOpeningHours bool) []TimeSlot {
	window, open := ResolveWindow(practice, date, defaults, honorOpeningHours)
	if !open {
		return []TimeSlot{}
	}
	return ExcludeBreak(GenerateSlots(date, window), window)
}

// SlotSettings настройки расчета слотов
type SlotSettings struct {
	Location          *time.Location // единая зона для слотов и сохраненных записей
	Defaults          OperatingWindow
	HonorOpeningHours bool
	MaxAdvanceDays    int // 0 - без ограничения
}

// DateIn возвращает календарную дату date в полночь зоны loc
func DateIn(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = date.Location()
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
