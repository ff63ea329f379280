package models

import "time"

// Статусы точек
const (
	StoreStatusActive            = "ACTIVE"
	StoreStatusTemporarilyClosed = "TEMPORARILY_CLOSED"
	StoreStatusPermanentlyClosed = "PERMANENTLY_CLOSED"
)

// DaySchedule - рабочее окно точки на один день недели
type DaySchedule struct {
	Open   string `json:"open"`  // "11:00"
	Close  string `json:"close"` // "23:00"
	Closed bool   `json:"closed"`
}

// OperatingHours - недельное расписание, ключ - time.Weekday.String()
type OperatingHours map[string]DaySchedule

type Store struct {
	ID                  string         `gorm:"primarykey;size:36" json:"id"`
	Name                string         `gorm:"not null" json:"name"`
	Status              string         `gorm:"type:varchar(30);not null;default:'ACTIVE';index" json:"status"`
	Latitude            *float64       `json:"latitude"`
	Longitude           *float64       `json:"longitude"`
	Address             string         `json:"address"`
	OperatingHours      OperatingHours `gorm:"serializer:json" json:"operating_hours"`
	AcceptsOnlineOrders bool           `gorm:"not null;default:true" json:"accepts_online_orders"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

// Location возвращает координаты точки, nil если они не заданы
func (s *Store) Location() *Location {
	if s.Latitude == nil || s.Longitude == nil {
		return nil
	}
	return &Location{Latitude: *s.Latitude, Longitude: *s.Longitude}
}

// IsOperationalAt проверяет, работает ли точка в указанный момент.
// Точка без расписания считается круглосуточной.
func (s *Store) IsOperationalAt(t time.Time) bool {
	if s.Status != StoreStatusActive {
		return false
	}

	if len(s.OperatingHours) == 0 {
		return true
	}

	day, ok := s.OperatingHours[t.Weekday().String()]
	if !ok || day.Closed {
		return false
	}

	open, err := parseClock(day.Open, t)
	if err != nil {
		return false
	}
	close, err := parseClock(day.Close, t)
	if err != nil {
		return false
	}

	return !t.Before(open) && t.Before(close)
}

func parseClock(value string, day time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}
