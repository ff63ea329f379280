package service

import (
	"context"
	"time"

	"staff-shift-service/internal/apperrors"
	"staff-shift-service/internal/models"
	"staff-shift-service/internal/repository"

	"github.com/sirupsen/logrus"
)

// Минимальный период отдыха между завершением одной сессии и началом
// следующей
const MinRestPeriod = 8 * time.Hour

// Severity результата валидации
const (
	ValidationSuccess = "SUCCESS"
	ValidationWarning = "WARNING"
	ValidationError   = "ERROR"
)

// ShiftValidationResult - итог сверки запроса на начало сессии с
// графиком сотрудника. Shift равен nil для внеплановой сессии.
type ShiftValidationResult struct {
	Valid    bool
	Message  string
	Shift    *models.Shift
	Severity string
}

func validationSuccess(shift *models.Shift) *ShiftValidationResult {
	return &ShiftValidationResult{
		Valid:    true,
		Message:  "Shift validation successful",
		Shift:    shift,
		Severity: ValidationSuccess,
	}
}

func validationWarning(message string) *ShiftValidationResult {
	return &ShiftValidationResult{
		Valid:    true,
		Message:  message,
		Severity: ValidationWarning,
	}
}

// SessionValidator сверяет запросы начала/завершения сессии с текущей
// сменой сотрудника
type SessionValidator interface {
	ValidateSessionStart(ctx context.Context, employeeID, storeID string, startTime time.Time) (*ShiftValidationResult, error)
	ValidateSessionEnd(ctx context.Context, employeeID string, endTime time.Time) (string, error)
}

type ShiftValidationService struct {
	shiftRepo   repository.ShiftRepository
	sessionRepo repository.WorkingSessionRepository
	logger      *logrus.Logger
}

func NewShiftValidationService(
	shiftRepo repository.ShiftRepository,
	sessionRepo repository.WorkingSessionRepository,
) *ShiftValidationService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ShiftValidationService{
		shiftRepo:   shiftRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// ValidateSessionStart прогоняет запрос на начало сессии через
// проверки графика: назначение на точку, окно начала смены,
// конфликтующие сессии и период отдыха. Отсутствие смены - не ошибка,
// а предупреждение о внеплановой сессии.
func (s *ShiftValidationService) ValidateSessionStart(ctx context.Context, employeeID, storeID string, startTime time.Time) (*ShiftValidationResult, error) {
	shift, err := s.shiftRepo.FindCurrentForEmployee(ctx, employeeID, startTime)
	if err != nil {
		return nil, err
	}

	if shift == nil {
		s.logger.WithField("employee_id", employeeID).
			Warn("No scheduled shift found, proceeding with unscheduled session")
		return validationWarning("No scheduled shift found, proceeding with unscheduled session"), nil
	}

	if shift.StoreID != storeID {
		return nil, apperrors.BusinessRulef(
			"employee is scheduled for a different store: %s", shift.StoreID)
	}

	if startTime.Before(shift.EarliestStart()) {
		return nil, apperrors.BusinessRulef(
			"starting too early, shift start window opens at %s",
			shift.EarliestStart().Format("15:04"))
	}

	if startTime.After(shift.LatestStart()) {
		return nil, apperrors.BusinessRulef(
			"starting too late, shift start window closed at %s",
			shift.LatestStart().Format("15:04"))
	}

	conflicting, err := s.sessionRepo.FindConflicting(ctx, employeeID, startTime, shift.ScheduledEnd)
	if err != nil {
		return nil, err
	}

	if len(conflicting) > 0 {
		return nil, apperrors.Conflictf("conflicting work session detected")
	}

	if err := s.validateRestPeriod(ctx, employeeID, startTime); err != nil {
		return nil, err
	}

	return validationSuccess(shift), nil
}

// validateRestPeriod требует минимум 8 часов между выходом прошлого
// календарного дня и новым началом
func (s *ShiftValidationService) validateRestPeriod(ctx context.Context, employeeID string, startTime time.Time) error {
	previousDay := startTime.AddDate(0, 0, -1)

	last, err := s.sessionRepo.FindLastCompletedOnDate(ctx, employeeID, previousDay)
	if err != nil {
		return err
	}

	if last == nil || last.LogoutTime == nil {
		return nil
	}

	rest := startTime.Sub(*last.LogoutTime)
	if rest < MinRestPeriod {
		return apperrors.BusinessRulef(
			"insufficient rest period: %v since last logout at %s, minimum %v required",
			rest.Round(time.Minute),
			last.LogoutTime.Format("2006-01-02 15:04"),
			MinRestPeriod)
	}

	return nil
}

// ValidateSessionEnd фиксирует ранний уход, если до конца смены
// остаётся больше 30 минут. Мягкое предупреждение, завершение не
// блокируется.
func (s *ShiftValidationService) ValidateSessionEnd(ctx context.Context, employeeID string, endTime time.Time) (string, error) {
	shift, err := s.shiftRepo.FindCurrentForEmployee(ctx, employeeID, endTime)
	if err != nil {
		return "", err
	}

	if shift == nil {
		return "", nil
	}

	remaining := shift.ScheduledEnd.Sub(endTime)
	if remaining > 30*time.Minute {
		message := "Leaving early, " + remaining.Round(time.Minute).String() +
			" remaining until scheduled shift end"
		s.logger.WithFields(logrus.Fields{
			"employee_id": employeeID,
			"shift_id":    shift.ID,
			"remaining":   remaining.Round(time.Minute).String(),
		}).Warn("Early departure detected")
		return message, nil
	}

	return "", nil
}
