package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type WorkingSession struct {
	ID         string     `gorm:"primarykey;size:36" json:"id"`
	EmployeeID string     `gorm:"not null;index;index:idx_sessions_one_active,unique,where:is_active = 1" json:"employee_id"`
	StoreID    string     `gorm:"not null;index" json:"store_id"`
	Date       time.Time  `gorm:"type:date;not null;index" json:"date"`
	LoginTime  time.Time  `gorm:"not null" json:"login_time"`
	LogoutTime *time.Time `json:"logout_time"`

	// Рассчитывается только после выхода
	TotalHours *float64 `json:"total_hours"`

	IsActive             bool  `gorm:"not null;default:true" json:"is_active"`
	BreakDurationMinutes int64 `gorm:"not null;default:0" json:"break_duration_minutes"`

	// Ссылка на смену, пустая строка - внеплановая сессия
	ShiftID string `gorm:"index" json:"shift_id,omitempty"`

	Status string `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`

	ClockInLocation  *Location `gorm:"serializer:json" json:"clock_in_location,omitempty"`
	ClockOutLocation *Location `gorm:"serializer:json" json:"clock_out_location,omitempty"`

	RequiresApproval bool       `gorm:"not null;default:false" json:"requires_approval"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovalTime     *time.Time `json:"approval_time,omitempty"`

	Violations []SessionViolation `gorm:"serializer:json" json:"violations"`

	MandatoryBreakTaken bool `gorm:"not null;default:false" json:"mandatory_break_taken"`
	OvertimeApproved    bool `gorm:"not null;default:false" json:"overtime_approved"`
	EmergencySession    bool `gorm:"not null;default:false" json:"emergency_session"`

	Notes        string    `json:"notes"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastModified time.Time `gorm:"autoUpdateTime" json:"last_modified"`
}

func (WorkingSession) TableName() string {
	return "working_sessions"
}

// Статусы рабочих сессий
const (
	SessionStatusActive          = "ACTIVE"
	SessionStatusCompleted       = "COMPLETED"
	SessionStatusPendingApproval = "PENDING_APPROVAL"
	SessionStatusApproved        = "APPROVED"
	SessionStatusRejected        = "REJECTED"
	SessionStatusAutoClosed      = "AUTO_CLOSED"
)

const (
	// Порог сверхурочной работы (стандартный рабочий день)
	OvertimeThreshold = 8 * time.Hour

	// Порог чрезмерной длительности при завершении
	ExcessiveHoursThreshold = 12 * time.Hour

	// Порог жёсткой отбраковки при самопроверке
	HardDurationLimit = 16 * time.Hour

	// Минимальная длительность завершённой сессии
	MinSessionDuration = 30 * time.Minute

	// Смены дольше 6 часов требуют минимум 30 минут перерыва
	LongSessionThreshold = 6 * time.Hour
	MinBreakMinutes      = 30
)

func NewWorkingSession(employeeID, storeID string, loginTime time.Time) *WorkingSession {
	// Дата берётся от календарного дня входа в его часовом поясе,
	// усечение по UTC сдвинуло бы ночные входы на предыдущий день
	y, m, d := loginTime.Date()

	return &WorkingSession{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		StoreID:    storeID,
		Date:       time.Date(y, m, d, 0, 0, 0, 0, loginTime.Location()),
		LoginTime:  loginTime,
		IsActive:   true,
		Status:     SessionStatusActive,
	}
}

// SameDate проверяет, приходится ли сессия на тот же календарный день
func (ws *WorkingSession) SameDate(t time.Time) bool {
	return ws.LoginTime.Year() == t.Year() &&
		ws.LoginTime.Month() == t.Month() &&
		ws.LoginTime.Day() == t.Day()
}

// IsComplete проверяет, проставлено ли время выхода
func (ws *WorkingSession) IsComplete() bool {
	return ws.LogoutTime != nil
}

// IsTerminal проверяет, находится ли сессия в терминальном статусе
func (ws *WorkingSession) IsTerminal() bool {
	switch ws.Status {
	case SessionStatusCompleted, SessionStatusApproved,
		SessionStatusRejected, SessionStatusAutoClosed:
		return true
	}
	return false
}

// WorkingDuration возвращает отработанное время за вычетом перерывов.
// Для активной сессии считает до переданного момента. Никогда не
// бывает отрицательным.
func (ws *WorkingSession) WorkingDuration(now time.Time) time.Duration {
	end := now
	if ws.LogoutTime != nil {
		end = *ws.LogoutTime
	}

	d := end.Sub(ws.LoginTime) - time.Duration(ws.BreakDurationMinutes)*time.Minute
	if d < 0 {
		return 0
	}
	return d
}

// CalculateTotalHours пересчитывает итоговые часы после выхода
func (ws *WorkingSession) CalculateTotalHours() {
	if ws.LogoutTime == nil {
		return
	}

	minutes := ws.LogoutTime.Sub(ws.LoginTime).Minutes() - float64(ws.BreakDurationMinutes)
	if minutes < 0 {
		minutes = 0
	}

	hours := minutes / 60.0
	ws.TotalHours = &hours
}

// Close проставляет выход, деактивирует сессию и пересчитывает часы
func (ws *WorkingSession) Close(logoutTime time.Time, status string) {
	ws.LogoutTime = &logoutTime
	ws.IsActive = false
	if status != "" {
		ws.Status = status
	}
	ws.CalculateTotalHours()
}

// AddViolation добавляет нарушение, если нарушения такого типа ещё
// нет, и помечает сессию требующей одобрения. Возвращает true, если
// нарушение было добавлено.
func (ws *WorkingSession) AddViolation(v SessionViolation) bool {
	if ws.HasViolation(v.ViolationType) {
		return false
	}

	ws.Violations = append(ws.Violations, v)
	ws.RequiresApproval = true
	return true
}

// HasViolation проверяет наличие нарушения данного типа
func (ws *WorkingSession) HasViolation(violationType string) bool {
	for _, v := range ws.Violations {
		if v.ViolationType == violationType {
			return true
		}
	}
	return false
}

// HasLocationViolation проверяет наличие гео-нарушений
func (ws *WorkingSession) HasLocationViolation() bool {
	for _, v := range ws.Violations {
		if strings.Contains(v.ViolationType, "LOCATION") ||
			strings.Contains(v.ViolationType, "REMOTE") {
			return true
		}
	}
	return false
}

// RequiresManagerApproval определяет, нужна ли проверка менеджером:
// выставленный флаг, любые нарушения, гео-аномалии или переработка
func (ws *WorkingSession) RequiresManagerApproval(now time.Time) bool {
	if ws.RequiresApproval {
		return true
	}
	if len(ws.Violations) > 0 {
		return true
	}

	duration := ws.WorkingDuration(now)
	if duration > ExcessiveHoursThreshold {
		return true
	}
	if ws.HasLocationViolation() {
		return true
	}

	return duration > OvertimeThreshold
}

// Validate - самопроверка сессии, независимая от завершения. Снимает
// прошлые VALIDATION_* нарушения и прогоняет проверки заново.
func (ws *WorkingSession) Validate(now time.Time) bool {
	ws.clearValidationViolations()

	valid := true
	duration := ws.WorkingDuration(now)

	if duration > HardDurationLimit {
		ws.AddViolation(NewSessionViolation(ViolationValidationExcessive,
			"Session duration exceeds 16 hours", now))
		valid = false
	}

	if ws.IsComplete() && duration < MinSessionDuration {
		ws.AddViolation(NewSessionViolation(ViolationValidationTooShort,
			"Completed session is shorter than 30 minutes", now))
		valid = false
	}

	if duration > LongSessionThreshold &&
		ws.BreakDurationMinutes < MinBreakMinutes &&
		!ws.MandatoryBreakTaken {
		ws.AddViolation(NewSessionViolation(ViolationValidationMissingBreak,
			"Long session without the mandatory break", now))
		valid = false
	}

	return valid
}

func (ws *WorkingSession) clearValidationViolations() {
	kept := ws.Violations[:0]
	for _, v := range ws.Violations {
		if !strings.HasPrefix(v.ViolationType, ValidationViolationPrefix) {
			kept = append(kept, v)
		}
	}
	ws.Violations = kept
}

// IsValid проверяет валидность данных
func (ws *WorkingSession) IsValid() bool {
	if ws.EmployeeID == "" || ws.StoreID == "" {
		return false
	}
	if ws.Date.IsZero() || ws.LoginTime.IsZero() {
		return false
	}
	switch ws.Status {
	case SessionStatusActive, SessionStatusCompleted, SessionStatusPendingApproval,
		SessionStatusApproved, SessionStatusRejected, SessionStatusAutoClosed:
		return true
	}
	return false
}
