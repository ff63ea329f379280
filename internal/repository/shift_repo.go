package repository

import (
	"context"
	"errors"
	"time"

	"staff-shift-service/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(ctx context.Context, shift *models.Shift) error
	Update(ctx context.Context, shift *models.Shift) error
	GetByID(ctx context.Context, id string) (*models.Shift, error)
	FindCurrentForEmployee(ctx context.Context, employeeID string, at time.Time) (*models.Shift, error)
	FindOverlappingForEmployee(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]*models.Shift, error)
	FindByEmployeeAndStartBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*models.Shift, error)
	FindByStoreAndStartBetween(ctx context.Context, storeID string, from, to time.Time) ([]*models.Shift, error)
}

type GormShiftRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormShiftRepository(db *gorm.DB) (*GormShiftRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Shift{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate shifts table")
		return nil, err
	}

	logger.Info("Shift repository initialized")

	return &GormShiftRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormShiftRepository) Create(ctx context.Context, shift *models.Shift) error {
	r.logger.WithFields(logrus.Fields{
		"employee_id": shift.EmployeeID,
		"store_id":    shift.StoreID,
		"start":       shift.ScheduledStart.Format("2006-01-02 15:04"),
	}).Info("Creating shift")

	result := r.db.WithContext(ctx).Create(shift)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create shift")
		return result.Error
	}

	return nil
}

func (r *GormShiftRepository) Update(ctx context.Context, shift *models.Shift) error {
	r.logger.WithFields(logrus.Fields{
		"id":     shift.ID,
		"status": shift.Status,
	}).Info("Updating shift")

	result := r.db.WithContext(ctx).Save(shift)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update shift")
		return result.Error
	}

	return nil
}

func (r *GormShiftRepository) GetByID(ctx context.Context, id string) (*models.Shift, error) {
	var shift models.Shift
	result := r.db.WithContext(ctx).First(&shift, "id = ?", id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Shift not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get shift by ID")
		return nil, result.Error
	}

	return &shift, nil
}

// FindCurrentForEmployee возвращает смену, чьё запланированное окно
// содержит указанный момент и чей статус допускает выход на работу
func (r *GormShiftRepository) FindCurrentForEmployee(ctx context.Context, employeeID string, at time.Time) (*models.Shift, error) {
	var shift models.Shift
	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND scheduled_start <= ? AND scheduled_end >= ? AND status IN ?",
			employeeID, at, at,
			[]string{models.ShiftStatusScheduled, models.ShiftStatusConfirmed, models.ShiftStatusInProgress}).
		Order("scheduled_start").
		First(&shift)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("employee_id", employeeID).Debug("No current shift found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to find current shift")
		return nil, result.Error
	}

	return &shift, nil
}

// FindOverlappingForEmployee возвращает неотменённые смены сотрудника,
// пересекающие окно [windowStart, windowEnd]
func (r *GormShiftRepository) FindOverlappingForEmployee(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]*models.Shift, error) {
	var shifts []*models.Shift

	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND scheduled_start < ? AND scheduled_end > ? AND status <> ?",
			employeeID, windowEnd, windowStart, models.ShiftStatusCancelled).
		Find(&shifts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to find overlapping shifts")
		return nil, result.Error
	}

	return shifts, nil
}

func (r *GormShiftRepository) FindByEmployeeAndStartBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*models.Shift, error) {
	var shifts []*models.Shift

	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND scheduled_start BETWEEN ? AND ?", employeeID, from, to).
		Order("scheduled_start").
		Find(&shifts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get shifts by employee")
		return nil, result.Error
	}

	return shifts, nil
}

func (r *GormShiftRepository) FindByStoreAndStartBetween(ctx context.Context, storeID string, from, to time.Time) ([]*models.Shift, error) {
	var shifts []*models.Shift

	result := r.db.WithContext(ctx).
		Where("store_id = ? AND scheduled_start BETWEEN ? AND ?", storeID, from, to).
		Order("scheduled_start").
		Find(&shifts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get shifts by store")
		return nil, result.Error
	}

	return shifts, nil
}
