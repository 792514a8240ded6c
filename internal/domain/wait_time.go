package domain

import "time"

// WaitTime текущее время ожидания в практике
type WaitTime struct {
	PracticeID         int64
	CurrentWaitMinutes int
	UpdatedAt          time.Time
}

// Tier классификация текущего ожидания
func (w *WaitTime) Tier() WaitTier {
	return ClassifyWaitTime(w.CurrentWaitMinutes)
}

// WaitTier категория времени ожидания
type WaitTier string

const (
	WaitTierShort  WaitTier = "short"
	WaitTierMedium WaitTier = "medium"
	WaitTierLong   WaitTier = "long"
)

// ClassifyWaitTime short (<=15), medium (16..30), long (>30)
func ClassifyWaitTime(minutes int) WaitTier {
	switch {
	case minutes <= ShortWaitMaxMinutes:
		return WaitTierShort
	case minutes <= MediumWaitMaxMinutes:
		return WaitTierMedium
	default:
		return WaitTierLong
	}
}

// Label подпись для интерфейса
func (t WaitTier) Label() string {
	switch t {
	case WaitTierShort:
		return "Kurze Wartezeit"
	case WaitTierMedium:
		return "Mittlere Wartezeit"
	default:
		return "Lange Wartezeit"
	}
}

// Color цвет маркера на карте
func (t WaitTier) Color() string {
	switch t {
	case WaitTierShort:
		return "#10b981"
	case WaitTierMedium:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}
