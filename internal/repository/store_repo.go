package repository

import (
	"context"
	"errors"

	"staff-shift-service/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	Update(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id string) (*models.Store, error)
}

type GormStoreRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormStoreRepository(db *gorm.DB) (*GormStoreRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Store{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate stores table")
		return nil, err
	}

	logger.Info("Store repository initialized")

	return &GormStoreRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormStoreRepository) Create(ctx context.Context, store *models.Store) error {
	r.logger.WithFields(logrus.Fields{
		"id":   store.ID,
		"name": store.Name,
	}).Info("Creating store")

	result := r.db.WithContext(ctx).Create(store)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create store")
		return result.Error
	}

	return nil
}

func (r *GormStoreRepository) Update(ctx context.Context, store *models.Store) error {
	r.logger.WithField("id", store.ID).Info("Updating store")

	result := r.db.WithContext(ctx).Save(store)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update store")
		return result.Error
	}

	return nil
}

func (r *GormStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	result := r.db.WithContext(ctx).First(&store, "id = ?", id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Store not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get store by ID")
		return nil, result.Error
	}

	return &store, nil
}
