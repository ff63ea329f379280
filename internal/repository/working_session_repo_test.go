package repository

import (
	"context"
	"testing"
	"time"

	"staff-shift-service/internal/apperrors"
	"staff-shift-service/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestSessionRepo(t *testing.T) *GormWorkingSessionRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Одно соединение, иначе каждый коннект пула получает свою
	// in-memory базу
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	repo, err := NewGormWorkingSessionRepository(db)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	return repo
}

func repoTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed.UTC()
}

func closedSession(t *testing.T, employeeID, login, logout string) *models.WorkingSession {
	t.Helper()
	session := models.NewWorkingSession(employeeID, "store-1", repoTime(t, login))
	session.Close(repoTime(t, logout), models.SessionStatusCompleted)
	return session
}

// Колонка date хранит полный timestamp: поиск последней завершённой
// сессии дня должен работать через границы дня, а не сравнение строк
func TestFindLastCompletedOnDate(t *testing.T) {
	repo := newTestSessionRepo(t)
	ctx := context.Background()

	early := closedSession(t, "emp-1", "2025-03-10 08:00", "2025-03-10 12:00")
	late := closedSession(t, "emp-1", "2025-03-10 14:00", "2025-03-10 22:00")
	for _, s := range []*models.WorkingSession{early, late} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	found, err := repo.FindLastCompletedOnDate(ctx, "emp-1", repoTime(t, "2025-03-10 14:00"))
	if err != nil {
		t.Fatalf("FindLastCompletedOnDate() error = %v", err)
	}
	if found == nil {
		t.Fatal("completed session on 2025-03-10 not found")
	}
	if found.ID != late.ID {
		t.Errorf("found session %s, want latest logout %s", found.ID, late.ID)
	}

	none, err := repo.FindLastCompletedOnDate(ctx, "emp-1", repoTime(t, "2025-03-11 05:00"))
	if err != nil {
		t.Fatalf("FindLastCompletedOnDate() error = %v", err)
	}
	if none != nil {
		t.Errorf("session found on empty day: %s", none.ID)
	}
}

func TestFindLastCompletedOnDateIgnoresActive(t *testing.T) {
	repo := newTestSessionRepo(t)
	ctx := context.Background()

	open := models.NewWorkingSession("emp-1", "store-1", repoTime(t, "2025-03-10 14:00"))
	if err := repo.Create(ctx, open); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindLastCompletedOnDate(ctx, "emp-1", repoTime(t, "2025-03-10 14:00"))
	if err != nil {
		t.Fatalf("FindLastCompletedOnDate() error = %v", err)
	}
	if found != nil {
		t.Error("active session without logout reported as completed")
	}
}

// Диапазон дат включает весь последний день
func TestFindByEmployeeAndDateRange(t *testing.T) {
	repo := newTestSessionRepo(t)
	ctx := context.Background()

	days := []struct{ login, logout string }{
		{"2025-03-10 09:00", "2025-03-10 17:00"},
		{"2025-03-11 09:00", "2025-03-11 17:00"},
		{"2025-03-12 09:00", "2025-03-12 17:00"},
	}
	for _, d := range days {
		if err := repo.Create(ctx, closedSession(t, "emp-1", d.login, d.logout)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	sessions, err := repo.FindByEmployeeAndDateRange(ctx, "emp-1",
		repoTime(t, "2025-03-10 00:00"), repoTime(t, "2025-03-11 00:00"))
	if err != nil {
		t.Fatalf("FindByEmployeeAndDateRange() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions in range = %d, want 2 including the end day", len(sessions))
	}
}

func TestCreateSecondActiveSessionConflicts(t *testing.T) {
	repo := newTestSessionRepo(t)
	ctx := context.Background()

	first := models.NewWorkingSession("emp-1", "store-1", repoTime(t, "2025-03-10 09:00"))
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := models.NewWorkingSession("emp-1", "store-1", repoTime(t, "2025-03-10 10:00"))
	err := repo.Create(ctx, second)
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Errorf("error = %v, want conflict error", err)
	}

	// Закрытая сессия индекс не держит
	first.Close(repoTime(t, "2025-03-10 17:00"), models.SessionStatusCompleted)
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Errorf("Create() after closing first session error = %v", err)
	}
}
