package changefeed

import (
	"encoding/json"
	"time"
)

// EventType тип изменения строки
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event изменение записи коллекции. Получатель считает Record полной заменой строки.
type Event struct {
	Collection string           `json:"collection"`
	Type       EventType        `json:"type"`
	RecordID   int64            `json:"record_id"`
	Keys       map[string]int64 `json:"keys,omitempty"` // ключи фильтрации, например practice_id
	Record     json.RawMessage  `json:"record,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
	Origin     string           `json:"origin,omitempty"` // инстанс, опубликовавший событие
}

// NewEvent создает событие, record сериализуется в JSON
func NewEvent(collection string, eventType EventType, recordID int64, keys map[string]int64, record interface{}) (Event, error) {
	ev := Event{
		Collection: collection,
		Type:       eventType,
		RecordID:   recordID,
		Keys:       keys,
		OccurredAt: time.Now().UTC(),
	}
	if record != nil {
		data, err := json.Marshal(record)
		if err != nil {
			return Event{}, err
		}
		ev.Record = data
	}
	return ev, nil
}

// Filter равенство по ключам события, пустой фильтр пропускает все события коллекции
type Filter map[string]int64

// Matches проверяет событие на соответствие фильтру
func (f Filter) Matches(ev Event) bool {
	for key, want := range f {
		got, ok := ev.Keys[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}
