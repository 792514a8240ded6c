package get_available_slots

import (
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	PracticeID int64     // ID практики
	Date       time.Time // Календарная дата (время суток игнорируется)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	PracticeID int64
	Date       time.Time         // полночь даты в зоне практики
	Open       bool              // false - в этот день прием не ведется
	Slots      []domain.TimeSlot // свободные слоты по возрастанию
}
