package create_appointment

import "errors"

var (
	// ErrPracticeNotFound возвращается, когда практика не найдена
	ErrPracticeNotFound = errors.New("practice not found")

	// ErrSlotInPast возвращается, когда выбранное время уже прошло
	ErrSlotInPast = errors.New("appointment time is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение записи вперед
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrInvalidSlot возвращается, когда время не совпадает ни с одним слотом практики в этот день
	ErrInvalidSlot = errors.New("time is not a valid slot for this practice")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("slot not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
