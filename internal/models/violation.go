package models

import "time"

// Типы нарушений, фиксируемых на рабочих сессиях
const (
	ViolationUnscheduledShift    = "UNSCHEDULED_SHIFT"
	ViolationRemoteClockIn       = "REMOTE_CLOCKIN"
	ViolationAutoClosed          = "AUTO_CLOSED"
	ViolationMissingLogout       = "MISSING_LOGOUT"
	ViolationExcessiveHours      = "EXCESSIVE_HOURS"
	ViolationTooShort            = "TOO_SHORT"
	ViolationInsufficientBreaks  = "INSUFFICIENT_BREAKS"
	ViolationManagerRejection    = "MANAGER_REJECTION"
)

// Нарушения самопроверки несут префикс VALIDATION_, чтобы повторный
// прогон мог снять прошлый вердикт перед записью нового
const (
	ValidationViolationPrefix = "VALIDATION_"

	ViolationValidationExcessive    = "VALIDATION_EXCESSIVE_DURATION"
	ViolationValidationTooShort     = "VALIDATION_TOO_SHORT"
	ViolationValidationMissingBreak = "VALIDATION_MISSING_BREAK"
)

const (
	ViolationSeverityLow    = "LOW"
	ViolationSeverityMedium = "MEDIUM"
	ViolationSeverityHigh   = "HIGH"
)

// SessionViolation - зафиксированное отклонение от бизнес-правила,
// принадлежит одной рабочей сессии
type SessionViolation struct {
	ViolationType string    `json:"violation_type"`
	Description   string    `json:"description"`
	DetectedAt    time.Time `json:"detected_at"`
	Severity      string    `json:"severity"`
	Resolved      bool      `json:"resolved"`
}

func NewSessionViolation(violationType, description string, detectedAt time.Time) SessionViolation {
	return SessionViolation{
		ViolationType: violationType,
		Description:   description,
		DetectedAt:    detectedAt,
		Severity:      ViolationSeverityMedium,
	}
}
