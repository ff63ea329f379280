package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"staff-shift-service/internal/apperrors"
	"staff-shift-service/internal/models"
	"staff-shift-service/internal/notification"
	"staff-shift-service/internal/repository"
	"staff-shift-service/pkg/clock"

	"github.com/sirupsen/logrus"
)

const (
	// Зазор до часа от входа - повторный логин с того же дня
	quickReloginGap = time.Hour

	// Зазор больше 12 часов - брошенная сессия, автозакрытие
	abandonedSessionGap = 12 * time.Hour

	// Автозакрытая сессия получает стандартный 8-часовой день
	assumedWorkDay = 8 * time.Hour

	// Минимум отработанного времени до первого перерыва
	minWorkBeforeBreak = 2 * time.Hour

	// Ограничение на проверку работоспособности точки
	storeCheckTimeout = 3 * time.Second

	// Радиус допустимой отметки прихода от точки, км
	maxClockInDistanceKm = 0.1
)

// HoursReport - сводка отработанных часов сотрудника за период
type HoursReport struct {
	EmployeeID         string             `json:"employee_id"`
	StartDate          time.Time          `json:"start_date"`
	EndDate            time.Time          `json:"end_date"`
	TotalHours         float64            `json:"total_hours"`
	TotalDays          int                `json:"total_days"`
	AverageHoursPerDay float64            `json:"average_hours_per_day"`
	DailyHours         map[string]float64 `json:"daily_hours"`
}

type WorkingSessionService struct {
	sessionRepo repository.WorkingSessionRepository
	validator   SessionValidator
	stores      StoreDirectory
	notifier    notification.Notifier
	clock       clock.Clock
	logger      *logrus.Logger

	// Мьютексы по сотрудникам: все мутации сессии одного сотрудника
	// выполняются последовательно
	locks sync.Map
}

func NewWorkingSessionService(
	sessionRepo repository.WorkingSessionRepository,
	validator SessionValidator,
	stores StoreDirectory,
	notifier notification.Notifier,
	clk clock.Clock,
) *WorkingSessionService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &WorkingSessionService{
		sessionRepo: sessionRepo,
		validator:   validator,
		stores:      stores,
		notifier:    notifier,
		clock:       clk,
		logger:      logger,
	}
}

func (s *WorkingSessionService) employeeLock(employeeID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(employeeID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// StartSession начинает рабочую сессию: разбирает брошенную активную
// сессию, сверяет запрос с графиком, проверяет работоспособность точки
// и создаёт новую сессию. Location необязателен.
func (s *WorkingSessionService) StartSession(ctx context.Context, employeeID, storeID string, location *models.Location) (*models.WorkingSession, error) {
	mu := s.employeeLock(employeeID)
	mu.Lock()
	defer mu.Unlock()

	now := s.clock.Now()

	s.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"store_id":    storeID,
		"time":        now.Format("15:04"),
	}).Info("Employee starting session")

	resumed, err := s.recoverExistingSession(ctx, employeeID, now)
	if err != nil {
		return nil, err
	}
	if resumed != nil {
		return resumed, nil
	}

	validation, err := s.validator.ValidateSessionStart(ctx, employeeID, storeID, now)
	if err != nil {
		return nil, err
	}

	checkCtx, cancel := context.WithTimeout(ctx, storeCheckTimeout)
	defer cancel()

	operational, err := s.stores.IsStoreOperational(checkCtx, storeID, now)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindBusinessRule, "store operational check failed", err)
	}
	if !operational {
		return nil, apperrors.BusinessRulef("store %s is not operational", storeID)
	}

	session := models.NewWorkingSession(employeeID, storeID, now)

	if validation.Shift != nil {
		session.ShiftID = validation.Shift.ID
	}

	if location != nil {
		if location.Timestamp.IsZero() {
			location.Timestamp = now
		}
		session.ClockInLocation = location
		s.checkClockInLocation(ctx, session, storeID, location, now)
	}

	if validation.Severity == ValidationWarning {
		session.AddViolation(models.NewSessionViolation(
			models.ViolationUnscheduledShift, validation.Message, now))
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":          session.ID,
		"employee_id": employeeID,
		"shift_id":    session.ShiftID,
	}).Info("Working session started")

	return session, nil
}

// recoverExistingSession разбирает уже активную сессию сотрудника.
// Короткий зазор в тот же день - повторный логин, сессия продолжается.
// Зазор больше 12 часов - автозакрытие с условным 8-часовым днём.
// Иначе сессия закрывается на одобрение менеджера.
func (s *WorkingSessionService) recoverExistingSession(ctx context.Context, employeeID string, now time.Time) (*models.WorkingSession, error) {
	existing, err := s.sessionRepo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	gap := now.Sub(existing.LoginTime)

	if gap < quickReloginGap && existing.SameDate(now) {
		s.logger.WithFields(logrus.Fields{
			"id":          existing.ID,
			"employee_id": employeeID,
		}).Info("Quick re-login, continuing existing session")
		return existing, nil
	}

	if gap > abandonedSessionGap {
		existing.Close(existing.LoginTime.Add(assumedWorkDay), models.SessionStatusAutoClosed)
		existing.AddViolation(models.NewSessionViolation(models.ViolationAutoClosed,
			"Session auto-closed due to extended duration", now))

		s.logger.WithFields(logrus.Fields{
			"id":  existing.ID,
			"gap": gap.Round(time.Minute).String(),
		}).Warn("Abandoned session auto-closed")
	} else {
		existing.Close(now.Add(-time.Minute), models.SessionStatusPendingApproval)
		existing.AddViolation(models.NewSessionViolation(models.ViolationMissingLogout,
			"Previous session not properly closed", now))

		s.notifier.NotifyManager(existing.StoreID,
			fmt.Sprintf("Employee %s session requires approval", employeeID))

		s.logger.WithField("id", existing.ID).Warn("Unclosed session sent for manager approval")
	}

	if err := s.sessionRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return nil, nil
}

// checkClockInLocation фиксирует нарушение при отметке дальше 100
// метров от точки. Не блокирует начало сессии.
func (s *WorkingSessionService) checkClockInLocation(ctx context.Context, session *models.WorkingSession, storeID string, location *models.Location, now time.Time) {
	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		s.logger.WithError(err).WithField("store_id", storeID).
			Warn("Failed to load store for location check")
		return
	}

	storeLocation := store.Location()
	if storeLocation == nil {
		return
	}

	distance := location.DistanceFrom(*storeLocation)
	if distance > maxClockInDistanceKm {
		session.AddViolation(models.NewSessionViolation(models.ViolationRemoteClockIn,
			fmt.Sprintf("Clock in location is %.2f km from store", distance), now))
	}
}

// EndSession завершает активную сессию: проставляет выход, считает
// часы, прогоняет финальные проверки и определяет итоговый статус
func (s *WorkingSessionService) EndSession(ctx context.Context, employeeID string, location *models.Location) (*models.WorkingSession, error) {
	mu := s.employeeLock(employeeID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.sessionRepo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NotFoundf("no active session found for employee %s", employeeID)
	}

	now := s.clock.Now()

	if _, err := s.validator.ValidateSessionEnd(ctx, employeeID, now); err != nil {
		return nil, err
	}

	session.Close(now, "")

	if location != nil {
		if location.Timestamp.IsZero() {
			location.Timestamp = now
		}
		session.ClockOutLocation = location
	}

	s.validateSessionCompletion(session, now)

	if session.RequiresManagerApproval(now) {
		session.Status = models.SessionStatusPendingApproval
		s.notifier.NotifyManager(session.StoreID,
			fmt.Sprintf("Session requires approval for employee: %s", employeeID))
	} else {
		session.Status = models.SessionStatusCompleted
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":          session.ID,
		"employee_id": employeeID,
		"status":      session.Status,
	}).Info("Working session ended")

	return session, nil
}

// validateSessionCompletion фиксирует нарушения завершения, не
// прерывая операцию
func (s *WorkingSessionService) validateSessionCompletion(session *models.WorkingSession, now time.Time) {
	duration := session.WorkingDuration(now)

	if duration > models.ExcessiveHoursThreshold {
		session.AddViolation(models.NewSessionViolation(models.ViolationExcessiveHours,
			fmt.Sprintf("Session exceeds 12 hours: %.1f", duration.Hours()), now))
	}

	if duration < models.MinSessionDuration {
		session.AddViolation(models.NewSessionViolation(models.ViolationTooShort,
			fmt.Sprintf("Session less than 30 minutes: %.0f", duration.Minutes()), now))
	}

	if duration > models.LongSessionThreshold && session.BreakDurationMinutes < models.MinBreakMinutes {
		session.AddViolation(models.NewSessionViolation(models.ViolationInsufficientBreaks,
			"Long shift requires minimum 30 minutes break", now))
	}
}

// AddBreakTime добавляет перерыв к активной сессии. Перерыв доступен
// после двух часов работы и ограничен четвертью отработанного времени.
func (s *WorkingSessionService) AddBreakTime(ctx context.Context, employeeID string, breakMinutes int64) (*models.WorkingSession, error) {
	mu := s.employeeLock(employeeID)
	mu.Lock()
	defer mu.Unlock()

	if breakMinutes <= 0 {
		return nil, apperrors.Validationf("break minutes must be positive")
	}

	session, err := s.sessionRepo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NotFoundf("no active session found for employee %s", employeeID)
	}

	now := s.clock.Now()
	worked := session.WorkingDuration(now)

	if worked < minWorkBeforeBreak {
		return nil, apperrors.Validationf("must work minimum 2 hours before taking break")
	}

	maxAllowed := int64(worked.Minutes()) / 4
	if session.BreakDurationMinutes+breakMinutes > maxAllowed {
		return nil, apperrors.Validationf("break time exceeds maximum allowed: %d minutes", maxAllowed)
	}

	session.BreakDurationMinutes += breakMinutes

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":            session.ID,
		"employee_id":   employeeID,
		"break_minutes": session.BreakDurationMinutes,
	}).Info("Break time added")

	return session, nil
}

// GetCurrentSession возвращает активную сессию сотрудника, nil если её нет
func (s *WorkingSessionService) GetCurrentSession(ctx context.Context, employeeID string) (*models.WorkingSession, error) {
	return s.sessionRepo.FindActiveByEmployee(ctx, employeeID)
}

// IsEmployeeCurrentlyWorking проверяет наличие активной сессии
func (s *WorkingSessionService) IsEmployeeCurrentlyWorking(ctx context.Context, employeeID string) (bool, error) {
	session, err := s.sessionRepo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

// GetCurrentWorkingDuration возвращает отработанное время активной
// сессии, ноль если её нет
func (s *WorkingSessionService) GetCurrentWorkingDuration(ctx context.Context, employeeID string) (time.Duration, error) {
	session, err := s.sessionRepo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, nil
	}
	return session.WorkingDuration(s.clock.Now()), nil
}

func (s *WorkingSessionService) GetEmployeeSessions(ctx context.Context, employeeID string, from, to time.Time) ([]*models.WorkingSession, error) {
	return s.sessionRepo.FindByEmployeeAndDateRange(ctx, employeeID, from, to)
}

func (s *WorkingSessionService) GetStoreSessions(ctx context.Context, storeID string, from, to time.Time) ([]*models.WorkingSession, error) {
	return s.sessionRepo.FindByStoreAndDateRange(ctx, storeID, from, to)
}

func (s *WorkingSessionService) GetActiveSessionsForStore(ctx context.Context, storeID string) ([]*models.WorkingSession, error) {
	return s.sessionRepo.FindActiveByStore(ctx, storeID)
}

func (s *WorkingSessionService) GetSessionsPendingApproval(ctx context.Context, storeID string) ([]*models.WorkingSession, error) {
	return s.sessionRepo.FindPendingApprovalByStore(ctx, storeID)
}

// ApproveSession одобряет сессию, ожидающую решения менеджера
func (s *WorkingSessionService) ApproveSession(ctx context.Context, sessionID, managerID string) (*models.WorkingSession, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mu := s.employeeLock(session.EmployeeID)
	mu.Lock()
	defer mu.Unlock()

	// Перечитываем под замком: параллельное решение менеджера могло
	// уже вывести сессию из PENDING_APPROVAL
	session, err = s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.SessionStatusPendingApproval {
		return nil, apperrors.Statef("can only approve sessions pending approval, current status: %s", session.Status)
	}

	now := s.clock.Now()
	session.Status = models.SessionStatusApproved
	session.ApprovedBy = managerID
	session.ApprovalTime = &now
	session.RequiresApproval = false

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":         sessionID,
		"manager_id": managerID,
	}).Info("Session approved")

	return session, nil
}

// RejectSession отклоняет сессию с указанием причины
func (s *WorkingSessionService) RejectSession(ctx context.Context, sessionID, managerID, reason string) (*models.WorkingSession, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	mu := s.employeeLock(session.EmployeeID)
	mu.Lock()
	defer mu.Unlock()

	// Перечитываем под замком: параллельное решение менеджера могло
	// уже вывести сессию из PENDING_APPROVAL
	session, err = s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != models.SessionStatusPendingApproval {
		return nil, apperrors.Statef("can only reject sessions pending approval, current status: %s", session.Status)
	}

	now := s.clock.Now()
	session.Status = models.SessionStatusRejected
	session.ApprovedBy = managerID
	session.ApprovalTime = &now
	session.AddViolation(models.NewSessionViolation(models.ViolationManagerRejection, reason, now))

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":         sessionID,
		"manager_id": managerID,
	}).Info("Session rejected")

	return session, nil
}

// GenerateHoursReport агрегирует отработанные часы за период,
// отклонённые сессии не учитываются
func (s *WorkingSessionService) GenerateHoursReport(ctx context.Context, employeeID string, from, to time.Time) (*HoursReport, error) {
	sessions, err := s.sessionRepo.FindByEmployeeAndDateRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	report := &HoursReport{
		EmployeeID: employeeID,
		StartDate:  from,
		EndDate:    to,
		DailyHours: make(map[string]float64),
	}

	for _, session := range sessions {
		if session.TotalHours == nil || session.Status == models.SessionStatusRejected {
			continue
		}

		report.TotalHours += *session.TotalHours
		report.TotalDays++
		report.DailyHours[session.Date.Format("2006-01-02")] += *session.TotalHours
	}

	if report.TotalDays > 0 {
		report.AverageHoursPerDay = report.TotalHours / float64(report.TotalDays)
	}

	return report, nil
}

func (s *WorkingSessionService) getSession(ctx context.Context, sessionID string) (*models.WorkingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NotFoundf("session not found: %s", sessionID)
	}
	return session, nil
}
