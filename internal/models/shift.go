package models

import (
	"time"
)

type Shift struct {
	ID             string     `gorm:"primarykey;size:36" json:"id"`
	StoreID        string     `gorm:"not null;index" json:"store_id"`
	EmployeeID     string     `gorm:"not null;index" json:"employee_id"`
	Type           string     `gorm:"type:varchar(20);not null;default:'REGULAR'" json:"type"`
	ScheduledStart time.Time  `gorm:"not null;index" json:"scheduled_start"`
	ScheduledEnd   time.Time  `gorm:"not null" json:"scheduled_end"`
	ActualStart    *time.Time `json:"actual_start"`
	ActualEnd      *time.Time `json:"actual_end"`
	Status         string     `gorm:"type:varchar(20);not null;default:'SCHEDULED';index" json:"status"`
	RoleRequired   string     `json:"role_required"`
	IsMandatory    bool       `gorm:"not null;default:true" json:"is_mandatory"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CreatedBy      string     `json:"created_by"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Shift) TableName() string {
	return "shifts"
}

// Статусы смен
const (
	ShiftStatusScheduled       = "SCHEDULED"
	ShiftStatusConfirmed       = "CONFIRMED"
	ShiftStatusInProgress      = "IN_PROGRESS"
	ShiftStatusCompleted       = "COMPLETED"
	ShiftStatusMissed          = "MISSED"
	ShiftStatusCancelled       = "CANCELLED"
	ShiftStatusPendingApproval = "PENDING_APPROVAL"
)

// Типы смен
const (
	ShiftTypeRegular  = "REGULAR"
	ShiftTypeOpening  = "OPENING"
	ShiftTypeClosing  = "CLOSING"
	ShiftTypeDelivery = "DELIVERY"
	ShiftTypeTraining = "TRAINING"
)

const (
	// Окно начала смены: не раньше 15 минут до и не позже 30 минут
	// после запланированного старта
	ShiftEarlyStartWindow = 15 * time.Minute
	ShiftLateStartWindow  = 30 * time.Minute

	// Максимальная длительность смены
	MaxShiftDuration = 12 * time.Hour

	// Буфер между сменами одного сотрудника
	ShiftOverlapBuffer = time.Hour
)

// ScheduledDuration возвращает запланированную длительность смены
func (s *Shift) ScheduledDuration() time.Duration {
	return s.ScheduledEnd.Sub(s.ScheduledStart)
}

// EarliestStart возвращает нижнюю границу окна начала смены
func (s *Shift) EarliestStart() time.Time {
	return s.ScheduledStart.Add(-ShiftEarlyStartWindow)
}

// LatestStart возвращает верхнюю границу окна начала смены
func (s *Shift) LatestStart() time.Time {
	return s.ScheduledStart.Add(ShiftLateStartWindow)
}

// CanStartAt проверяет, попадает ли время в окно начала смены
func (s *Shift) CanStartAt(t time.Time) bool {
	return !t.Before(s.EarliestStart()) && !t.After(s.LatestStart())
}

// ContainsTime проверяет, попадает ли время в запланированное окно смены
func (s *Shift) ContainsTime(t time.Time) bool {
	return !t.Before(s.ScheduledStart) && !t.After(s.ScheduledEnd)
}

// IsTerminal проверяет, находится ли смена в терминальном статусе
func (s *Shift) IsTerminal() bool {
	return s.Status == ShiftStatusCompleted ||
		s.Status == ShiftStatusCancelled ||
		s.Status == ShiftStatusMissed
}

// IsValid проверяет валидность данных
func (s *Shift) IsValid() bool {
	if s.StoreID == "" || s.EmployeeID == "" {
		return false
	}
	if s.ScheduledStart.IsZero() || s.ScheduledEnd.IsZero() {
		return false
	}
	if !s.ScheduledEnd.After(s.ScheduledStart) {
		return false
	}
	switch s.Status {
	case ShiftStatusScheduled, ShiftStatusConfirmed, ShiftStatusInProgress,
		ShiftStatusCompleted, ShiftStatusMissed, ShiftStatusCancelled,
		ShiftStatusPendingApproval:
		return true
	}
	return false
}
