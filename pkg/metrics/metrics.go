// Package metrics prometheus-метрики сервиса
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics коллекция метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  prometheus.Gauge
	DBInUseConnections prometheus.Gauge
	DBIdleConnections  prometheus.Gauge
	DBWaitCount        prometheus.Gauge

	AppointmentsBooked    prometheus.Counter
	AppointmentsCancelled *prometheus.CounterVec
	BookingConflicts      prometheus.Counter
	WaitTimeUpdates       prometheus.Counter
	ChangeFeedEvents      *prometheus.CounterVec
	RealtimeClients       prometheus.Gauge
}

// New регистрирует метрики в глобальном регистре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном регистре (в тестах - prometheus.NewRegistry())
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Количество HTTP запросов",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Время обработки HTTP запросов",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Время выполнения SQL запросов",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: labels,
		}, []string{"operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Количество ошибок SQL запросов",
			ConstLabels: labels,
		}, []string{"operation"}),
		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Открытые соединения пула",
			ConstLabels: labels,
		}),
		DBInUseConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Занятые соединения пула",
			ConstLabels: labels,
		}),
		DBIdleConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Свободные соединения пула",
			ConstLabels: labels,
		}),
		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Сколько раз пришлось ждать соединение",
			ConstLabels: labels,
		}),

		AppointmentsBooked: factory.NewCounter(prometheus.CounterOpts{
			Name:        "appointments_booked_total",
			Help:        "Количество созданных записей",
			ConstLabels: labels,
		}),
		AppointmentsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_cancelled_total",
			Help:        "Количество отмененных записей",
			ConstLabels: labels,
		}, []string{"by"}),
		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name:        "appointments_booking_conflicts_total",
			Help:        "Попытки записи на уже занятый слот",
			ConstLabels: labels,
		}),
		WaitTimeUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name:        "wait_time_updates_total",
			Help:        "Количество обновлений времени ожидания",
			ConstLabels: labels,
		}),
		ChangeFeedEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "changefeed_events_total",
			Help:        "События change feed по коллекциям",
			ConstLabels: labels,
		}, []string{"collection", "type"}),
		RealtimeClients: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "realtime_clients",
			Help:        "Подключенные WebSocket клиенты",
			ConstLabels: labels,
		}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (m *Metrics) ObserveDBQuery(operation string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(open))
	m.DBInUseConnections.Set(float64(inUse))
	m.DBIdleConnections.Set(float64(idle))
	m.DBWaitCount.Set(float64(waitCount))
}

func (m *Metrics) IncAppointmentsBooked() {
	if m == nil {
		return
	}
	m.AppointmentsBooked.Inc()
}

// IncAppointmentsCancelled by - "patient" или "practice"
func (m *Metrics) IncAppointmentsCancelled(by string) {
	if m == nil {
		return
	}
	m.AppointmentsCancelled.WithLabelValues(by).Inc()
}

func (m *Metrics) IncBookingConflicts() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

func (m *Metrics) IncWaitTimeUpdates() {
	if m == nil {
		return
	}
	m.WaitTimeUpdates.Inc()
}

func (m *Metrics) IncChangeFeedEvents(collection, eventType string) {
	if m == nil {
		return
	}
	m.ChangeFeedEvents.WithLabelValues(collection, eventType).Inc()
}

func (m *Metrics) AddRealtimeClients(delta float64) {
	if m == nil {
		return
	}
	m.RealtimeClients.Add(delta)
}
