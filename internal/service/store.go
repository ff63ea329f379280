package service

import (
	"context"
	"time"

	"staff-shift-service/internal/apperrors"
	"staff-shift-service/internal/models"
	"staff-shift-service/internal/repository"

	"github.com/sirupsen/logrus"
)

// StoreDirectory - справочник точек, внешняя зависимость сессионного
// и сменного сервисов
type StoreDirectory interface {
	GetStore(ctx context.Context, storeID string) (*models.Store, error)
	IsStoreOperational(ctx context.Context, storeID string, at time.Time) (bool, error)
}

type StoreService struct {
	storeRepo repository.StoreRepository
	logger    *logrus.Logger
}

func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &StoreService{
		storeRepo: storeRepo,
		logger:    logger,
	}
}

func (s *StoreService) GetStore(ctx context.Context, storeID string) (*models.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if store == nil {
		return nil, apperrors.NotFoundf("store not found: %s", storeID)
	}

	return store, nil
}

func (s *StoreService) IsStoreOperational(ctx context.Context, storeID string, at time.Time) (bool, error) {
	store, err := s.GetStore(ctx, storeID)
	if err != nil {
		return false, err
	}

	return store.IsOperationalAt(at), nil
}
