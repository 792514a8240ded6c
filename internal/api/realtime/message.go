package realtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
)

// Действия клиента
const (
	ActionSubscribe    = "subscribe"
	ActionUnsubscribe  = "unsubscribe"
	ActionDateSelected = "date_selected"
)

// Типы сообщений сервера
const (
	TypeChange       = "change"
	TypeSlots        = "slots"
	TypeError        = "error"
	TypeSubscribed   = "subscribed"
	TypeSessionEnded = "session_ended"
)

// Топики
const (
	TopicWaitTimes = "wait_times"
	TopicPractices = "practices"

	waitTimesPrefix    = "wait_times:"
	appointmentsPrefix = "appointments:"
)

// WaitTimesTopic топик времени ожидания одной практики
func WaitTimesTopic(practiceID int64) string {
	return waitTimesPrefix + strconv.FormatInt(practiceID, 10)
}

// AppointmentsTopic топик записей практики (только владелец)
func AppointmentsTopic(practiceID int64) string {
	return appointmentsPrefix + strconv.FormatInt(practiceID, 10)
}

// parseTopic возвращает ID практики для топиков с суффиксом, ok=false для неизвестного топика
func parseTopic(topic string) (practiceID int64, private bool, ok bool) {
	switch topic {
	case TopicWaitTimes, TopicPractices:
		return 0, false, true
	}

	var prefix string
	switch {
	case strings.HasPrefix(topic, waitTimesPrefix):
		prefix = waitTimesPrefix
	case strings.HasPrefix(topic, appointmentsPrefix):
		prefix = appointmentsPrefix
		private = true
	default:
		return 0, false, false
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(topic, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false, false
	}
	return id, private, true
}

// ClientMessage входящее сообщение клиента
type ClientMessage struct {
	Action     string   `json:"action"`
	Topics     []string `json:"topics,omitempty"`
	PracticeID int64    `json:"practiceId,omitempty"`
	Date       string   `json:"date,omitempty"` // YYYY-MM-DD
}

// ServerMessage исходящее сообщение
type ServerMessage struct {
	Type         string            `json:"type"`
	Topic        string            `json:"topic,omitempty"`
	Topics       []string          `json:"topics,omitempty"`
	Event        *changefeed.Event `json:"event,omitempty"`
	Availability *Availability     `json:"availability,omitempty"`
	Error        *ErrorPayload     `json:"error,omitempty"`
}

// Availability свободные слоты выбранной даты
type Availability struct {
	PracticeID int64         `json:"practiceId"`
	Date       string        `json:"date"`
	Open       bool          `json:"open"`
	Generation uint64        `json:"generation"`
	Slots      []SlotPayload `json:"slots"`
	ComputedAt time.Time     `json:"computedAt"`
}

// SlotPayload слот в ответе
type SlotPayload struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// ErrorPayload ошибка для клиента
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(code, message string) ServerMessage {
	return ServerMessage{Type: TypeError, Error: &ErrorPayload{Code: code, Message: message}}
}

func toSlotPayloads(slots []domain.TimeSlot) []SlotPayload {
	result := make([]SlotPayload, 0, len(slots))
	for _, s := range slots {
		result = append(result, SlotPayload{StartTime: s.StartTime.String(), DurationMinutes: s.DurationMinutes})
	}
	return result
}

func (m ClientMessage) String() string {
	return fmt.Sprintf("%s topics=%v practice=%d date=%q", m.Action, m.Topics, m.PracticeID, m.Date)
}
