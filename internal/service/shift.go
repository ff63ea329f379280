package service

import (
	"context"
	"fmt"
	"time"

	"staff-shift-service/internal/apperrors"
	"staff-shift-service/internal/models"
	"staff-shift-service/internal/notification"
	"staff-shift-service/internal/repository"
	"staff-shift-service/pkg/clock"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ShiftCoverage - сводка покрытия смен точки за день
type ShiftCoverage struct {
	TotalShifts        int     `json:"total_shifts"`
	ConfirmedShifts    int     `json:"confirmed_shifts"`
	MissedShifts       int     `json:"missed_shifts"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

type ShiftService struct {
	shiftRepo repository.ShiftRepository
	notifier  notification.Notifier
	clock     clock.Clock
	logger    *logrus.Logger
}

func NewShiftService(
	shiftRepo repository.ShiftRepository,
	notifier notification.Notifier,
	clk clock.Clock,
) *ShiftService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ShiftService{
		shiftRepo: shiftRepo,
		notifier:  notifier,
		clock:     clk,
		logger:    logger,
	}
}

// CreateShift создаёт смену после проверки длительности и пересечений
func (s *ShiftService) CreateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	s.logger.WithFields(logrus.Fields{
		"employee_id": shift.EmployeeID,
		"store_id":    shift.StoreID,
		"start":       shift.ScheduledStart.Format("2006-01-02 15:04"),
	}).Info("Creating shift")

	if err := s.validateShiftPlacement(ctx, shift); err != nil {
		return nil, err
	}

	if shift.ID == "" {
		shift.ID = uuid.NewString()
	}
	if shift.Status == "" {
		shift.Status = models.ShiftStatusScheduled
	}
	if shift.Type == "" {
		shift.Type = models.ShiftTypeRegular
	}
	shift.CreatedAt = s.clock.Now()

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// UpdateShift обновляет смену; начатые и завершённые смены неизменяемы
func (s *ShiftService) UpdateShift(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	existing, err := s.getShift(ctx, shift.ID)
	if err != nil {
		return nil, err
	}

	if existing.Status == models.ShiftStatusInProgress || existing.Status == models.ShiftStatusCompleted {
		return nil, apperrors.Statef("cannot update shift in status %s", existing.Status)
	}

	if err := s.validateShiftPlacement(ctx, shift); err != nil {
		return nil, err
	}

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// CancelShift отменяет смену и оповещает сотрудника. Отмена - смена
// статуса, смены никогда не удаляются.
func (s *ShiftService) CancelShift(ctx context.Context, shiftID string) error {
	shift, err := s.getShift(ctx, shiftID)
	if err != nil {
		return err
	}

	if shift.Status == models.ShiftStatusInProgress {
		return apperrors.Statef("cannot cancel shift that is in progress")
	}

	shift.Status = models.ShiftStatusCancelled
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return err
	}

	s.notifier.NotifyEmployee(shift.EmployeeID,
		fmt.Sprintf("Your shift on %s has been cancelled",
			shift.ScheduledStart.Format("2006-01-02 15:04")))

	s.logger.WithField("id", shiftID).Info("Shift cancelled")
	return nil
}

// ConfirmShift подтверждает запланированную смену
func (s *ShiftService) ConfirmShift(ctx context.Context, shiftID string) (*models.Shift, error) {
	shift, err := s.getShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	if shift.Status != models.ShiftStatusScheduled {
		return nil, apperrors.Statef("can only confirm scheduled shifts, current status: %s", shift.Status)
	}

	shift.Status = models.ShiftStatusConfirmed
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}

	return shift, nil
}

// StartShift переводит смену в работу, если текущее время попадает в
// окно начала
func (s *ShiftService) StartShift(ctx context.Context, shiftID string) (*models.Shift, error) {
	shift, err := s.getShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !shift.CanStartAt(now) {
		return nil, apperrors.Statef("shift cannot be started at %s, start window is [%s, %s]",
			now.Format("15:04"),
			shift.EarliestStart().Format("15:04"),
			shift.LatestStart().Format("15:04"))
	}

	shift.Status = models.ShiftStatusInProgress
	shift.ActualStart = &now

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.WithField("id", shiftID).Info("Shift started")
	return shift, nil
}

// CompleteShift завершает смену, находящуюся в работе
func (s *ShiftService) CompleteShift(ctx context.Context, shiftID string) (*models.Shift, error) {
	shift, err := s.getShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	if shift.Status != models.ShiftStatusInProgress {
		return nil, apperrors.Statef("can only complete shifts that are in progress, current status: %s", shift.Status)
	}

	now := s.clock.Now()
	shift.Status = models.ShiftStatusCompleted
	shift.ActualEnd = &now

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}

	s.logger.WithField("id", shiftID).Info("Shift completed")
	return shift, nil
}

func (s *ShiftService) GetShift(ctx context.Context, shiftID string) (*models.Shift, error) {
	return s.getShift(ctx, shiftID)
}

func (s *ShiftService) GetEmployeeShifts(ctx context.Context, employeeID string, from, to time.Time) ([]*models.Shift, error) {
	return s.shiftRepo.FindByEmployeeAndStartBetween(ctx, employeeID, from, to)
}

// GetStoreShifts возвращает смены точки за календарный день
func (s *ShiftService) GetStoreShifts(ctx context.Context, storeID string, date time.Time) ([]*models.Shift, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return s.shiftRepo.FindByStoreAndStartBetween(ctx, storeID, start, end)
}

// GetShiftCoverage агрегирует покрытие смен точки за день
func (s *ShiftService) GetShiftCoverage(ctx context.Context, storeID string, date time.Time) (*ShiftCoverage, error) {
	shifts, err := s.GetStoreShifts(ctx, storeID, date)
	if err != nil {
		return nil, err
	}

	coverage := &ShiftCoverage{TotalShifts: len(shifts)}

	for _, shift := range shifts {
		switch shift.Status {
		case models.ShiftStatusConfirmed, models.ShiftStatusInProgress, models.ShiftStatusCompleted:
			coverage.ConfirmedShifts++
		case models.ShiftStatusMissed:
			coverage.MissedShifts++
		}
	}

	if coverage.TotalShifts > 0 {
		coverage.CoveragePercentage = float64(coverage.ConfirmedShifts) * 100.0 / float64(coverage.TotalShifts)
	}

	return coverage, nil
}

func (s *ShiftService) getShift(ctx context.Context, shiftID string) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	if shift == nil {
		return nil, apperrors.NotFoundf("shift not found: %s", shiftID)
	}

	return shift, nil
}

// validateShiftPlacement проверяет длительность и пересечения с
// другими сменами сотрудника с часовым буфером с обеих сторон
func (s *ShiftService) validateShiftPlacement(ctx context.Context, shift *models.Shift) error {
	if !shift.ScheduledEnd.After(shift.ScheduledStart) {
		return apperrors.Validationf("shift end time must be after start time")
	}

	if shift.ScheduledDuration() > models.MaxShiftDuration {
		return apperrors.Validationf("shift duration cannot exceed %v", models.MaxShiftDuration)
	}

	overlapping, err := s.shiftRepo.FindOverlappingForEmployee(ctx,
		shift.EmployeeID,
		shift.ScheduledStart.Add(-models.ShiftOverlapBuffer),
		shift.ScheduledEnd.Add(models.ShiftOverlapBuffer))
	if err != nil {
		return err
	}

	for _, other := range overlapping {
		if other.ID == shift.ID {
			continue
		}
		return apperrors.Conflictf("employee has overlapping shift %s at %s",
			other.ID, other.ScheduledStart.Format("2006-01-02 15:04"))
	}

	return nil
}
