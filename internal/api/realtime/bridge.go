package realtime

import (
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/infra/changefeed"
)

// Bridge пересылает события change feed в топики hub.
// Возвращает функцию отписки.
func Bridge(feed Feed, hub *Hub) func() {
	subs := []changefeed.Subscription{
		feed.Subscribe(domain.CollectionWaitTimes, nil, func(ev changefeed.Event) {
			hub.Broadcast(TopicWaitTimes, changeMessage(ev))
			if id, ok := ev.Keys[changefeed.KeyPracticeID]; ok {
				hub.Broadcast(WaitTimesTopic(id), changeMessage(ev))
			}
		}),
		feed.Subscribe(domain.CollectionPractices, nil, func(ev changefeed.Event) {
			hub.Broadcast(TopicPractices, changeMessage(ev))
		}),
		feed.Subscribe(domain.CollectionAppointments, nil, func(ev changefeed.Event) {
			if id, ok := ev.Keys[changefeed.KeyPracticeID]; ok {
				hub.Broadcast(AppointmentsTopic(id), changeMessage(ev))
			}
		}),
	}

	return func() {
		for _, sub := range subs {
			feed.Unsubscribe(sub)
		}
	}
}

func changeMessage(ev changefeed.Event) ServerMessage {
	return ServerMessage{Type: TypeChange, Event: &ev}
}
