package repository

import (
	"context"
	"errors"
	"time"

	"staff-shift-service/internal/apperrors"
	"staff-shift-service/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type WorkingSessionRepository interface {
	Create(ctx context.Context, session *models.WorkingSession) error
	Update(ctx context.Context, session *models.WorkingSession) error
	GetByID(ctx context.Context, id string) (*models.WorkingSession, error)
	FindActiveByEmployee(ctx context.Context, employeeID string) (*models.WorkingSession, error)
	FindActiveByStore(ctx context.Context, storeID string) ([]*models.WorkingSession, error)
	FindByEmployeeAndDateRange(ctx context.Context, employeeID string, from, to time.Time) ([]*models.WorkingSession, error)
	FindByStoreAndDateRange(ctx context.Context, storeID string, from, to time.Time) ([]*models.WorkingSession, error)
	FindConflicting(ctx context.Context, employeeID string, start, end time.Time) ([]*models.WorkingSession, error)
	FindLastCompletedOnDate(ctx context.Context, employeeID string, day time.Time) (*models.WorkingSession, error)
	FindPendingApprovalByStore(ctx context.Context, storeID string) ([]*models.WorkingSession, error)
}

type GormWorkingSessionRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormWorkingSessionRepository(db *gorm.DB) (*GormWorkingSessionRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	// Частичный уникальный индекс на (employee_id) WHERE is_active
	// обеспечивает не более одной активной сессии на сотрудника
	if err := db.AutoMigrate(&models.WorkingSession{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate working_sessions table")
		return nil, err
	}

	logger.Info("Working session repository initialized")

	return &GormWorkingSessionRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormWorkingSessionRepository) Create(ctx context.Context, session *models.WorkingSession) error {
	r.logger.WithFields(logrus.Fields{
		"employee_id": session.EmployeeID,
		"store_id":    session.StoreID,
		"date":        session.Date.Format("2006-01-02"),
	}).Info("Creating working session")

	if !session.IsValid() {
		r.logger.WithField("employee_id", session.EmployeeID).Warn("Invalid working session data")
		return apperrors.Validationf("invalid working session data")
	}

	result := r.db.WithContext(ctx).Create(session)
	if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
		r.logger.WithField("employee_id", session.EmployeeID).Warn("Active session already exists")
		return apperrors.Conflictf("employee %s already has an active session", session.EmployeeID)
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create working session")
		return result.Error
	}

	return nil
}

func (r *GormWorkingSessionRepository) Update(ctx context.Context, session *models.WorkingSession) error {
	r.logger.WithFields(logrus.Fields{
		"id":     session.ID,
		"status": session.Status,
	}).Info("Updating working session")

	result := r.db.WithContext(ctx).Save(session)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update working session")
		return result.Error
	}

	return nil
}

func (r *GormWorkingSessionRepository) GetByID(ctx context.Context, id string) (*models.WorkingSession, error) {
	var session models.WorkingSession
	result := r.db.WithContext(ctx).First(&session, "id = ?", id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Working session not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get working session by ID")
		return nil, result.Error
	}

	return &session, nil
}

func (r *GormWorkingSessionRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*models.WorkingSession, error) {
	var session models.WorkingSession
	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		First(&session)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("employee_id", employeeID).Debug("No active working session found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get active working session")
		return nil, result.Error
	}

	return &session, nil
}

func (r *GormWorkingSessionRepository) FindActiveByStore(ctx context.Context, storeID string) ([]*models.WorkingSession, error) {
	var sessions []*models.WorkingSession

	result := r.db.WithContext(ctx).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("login_time").
		Find(&sessions)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get active sessions by store")
		return nil, result.Error
	}

	return sessions, nil
}

// dayRange возвращает полуоткрытый интервал [полночь, полночь+24ч)
// календарного дня. Колонка date хранит полный timestamp, сравнение со
// строкой YYYY-MM-DD никогда не совпадает.
func dayRange(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *GormWorkingSessionRepository) FindByEmployeeAndDateRange(ctx context.Context, employeeID string, from, to time.Time) ([]*models.WorkingSession, error) {
	var sessions []*models.WorkingSession

	start, _ := dayRange(from)
	_, end := dayRange(to)

	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND date >= ? AND date < ?", employeeID, start, end).
		Order("date DESC").
		Find(&sessions)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get sessions by employee and date range")
		return nil, result.Error
	}

	return sessions, nil
}

func (r *GormWorkingSessionRepository) FindByStoreAndDateRange(ctx context.Context, storeID string, from, to time.Time) ([]*models.WorkingSession, error) {
	var sessions []*models.WorkingSession

	start, _ := dayRange(from)
	_, end := dayRange(to)

	result := r.db.WithContext(ctx).
		Where("store_id = ? AND date >= ? AND date < ?", storeID, start, end).
		Order("date DESC").
		Find(&sessions)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get sessions by store and date range")
		return nil, result.Error
	}

	return sessions, nil
}

// FindConflicting возвращает сессии сотрудника, пересекающие окно
// [start, end]. Активные сессии без выхода считаются открытыми.
func (r *GormWorkingSessionRepository) FindConflicting(ctx context.Context, employeeID string, start, end time.Time) ([]*models.WorkingSession, error) {
	var sessions []*models.WorkingSession

	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND login_time < ? AND (logout_time IS NULL OR logout_time > ?)",
			employeeID, end, start).
		Find(&sessions)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to find conflicting sessions")
		return nil, result.Error
	}

	return sessions, nil
}

// FindLastCompletedOnDate возвращает последнюю завершённую сессию
// сотрудника за указанный календарный день
func (r *GormWorkingSessionRepository) FindLastCompletedOnDate(ctx context.Context, employeeID string, day time.Time) (*models.WorkingSession, error) {
	var session models.WorkingSession

	start, end := dayRange(day)

	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND date >= ? AND date < ? AND logout_time IS NOT NULL",
			employeeID, start, end).
		Order("logout_time DESC").
		First(&session)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithFields(logrus.Fields{
			"employee_id": employeeID,
			"date":        day.Format("2006-01-02"),
		}).Debug("No completed session found for date")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to find last completed session")
		return nil, result.Error
	}

	return &session, nil
}

func (r *GormWorkingSessionRepository) FindPendingApprovalByStore(ctx context.Context, storeID string) ([]*models.WorkingSession, error) {
	var sessions []*models.WorkingSession

	result := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, models.SessionStatusPendingApproval).
		Order("login_time").
		Find(&sessions)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get sessions pending approval")
		return nil, result.Error
	}

	return sessions, nil
}
