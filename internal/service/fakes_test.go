package service

import (
	"context"
	"sync"
	"time"

	"staff-shift-service/internal/apperrors"
	"staff-shift-service/internal/models"
)

type fakeShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*models.Shift
	err    error
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[string]*models.Shift)}
}

func (f *fakeShiftRepo) Create(ctx context.Context, shift *models.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) Update(ctx context.Context, shift *models.Shift) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.shifts[shift.ID] = shift
	return nil
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.shifts[id], nil
}

func (f *fakeShiftRepo) FindCurrentForEmployee(ctx context.Context, employeeID string, at time.Time) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, shift := range f.shifts {
		if shift.EmployeeID != employeeID || !shift.ContainsTime(at) {
			continue
		}
		switch shift.Status {
		case models.ShiftStatusScheduled, models.ShiftStatusConfirmed, models.ShiftStatusInProgress:
			return shift, nil
		}
	}
	return nil, nil
}

func (f *fakeShiftRepo) FindOverlappingForEmployee(ctx context.Context, employeeID string, windowStart, windowEnd time.Time) ([]*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Shift
	for _, shift := range f.shifts {
		if shift.EmployeeID != employeeID || shift.Status == models.ShiftStatusCancelled {
			continue
		}
		if shift.ScheduledStart.Before(windowEnd) && shift.ScheduledEnd.After(windowStart) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) FindByEmployeeAndStartBetween(ctx context.Context, employeeID string, from, to time.Time) ([]*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Shift
	for _, shift := range f.shifts {
		if shift.EmployeeID != employeeID {
			continue
		}
		if !shift.ScheduledStart.Before(from) && !shift.ScheduledStart.After(to) {
			out = append(out, shift)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) FindByStoreAndStartBetween(ctx context.Context, storeID string, from, to time.Time) ([]*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Shift
	for _, shift := range f.shifts {
		if shift.StoreID != storeID {
			continue
		}
		if !shift.ScheduledStart.Before(from) && !shift.ScheduledStart.After(to) {
			out = append(out, shift)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.WorkingSession
	err      error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.WorkingSession)}
}

// Чтения отдают независимые копии, как это делает gorm: мутации
// считанной сессии видны хранилищу только после Update
func cloneSession(s *models.WorkingSession) *models.WorkingSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Violations = append([]models.SessionViolation(nil), s.Violations...)
	return &c
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.WorkingSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	// Зеркалит частичный уникальный индекс gorm-репозитория
	for _, existing := range f.sessions {
		if existing.EmployeeID == session.EmployeeID && existing.IsActive && session.IsActive {
			return apperrors.Conflictf("employee %s already has an active session", session.EmployeeID)
		}
	}
	f.sessions[session.ID] = cloneSession(session)
	return nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, session *models.WorkingSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sessions[session.ID] = cloneSession(session)
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return cloneSession(f.sessions[id]), nil
}

func (f *fakeSessionRepo) FindActiveByEmployee(ctx context.Context, employeeID string) (*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, session := range f.sessions {
		if session.EmployeeID == employeeID && session.IsActive {
			return cloneSession(session), nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) FindActiveByStore(ctx context.Context, storeID string) ([]*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WorkingSession
	for _, session := range f.sessions {
		if session.StoreID == storeID && session.IsActive {
			out = append(out, session)
		}
	}
	return out, nil
}

// Диапазоны дат включают последний день целиком, как gorm-репозиторий
func withinDays(date, from, to time.Time) bool {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)
	return !date.Before(start) && date.Before(end)
}

func (f *fakeSessionRepo) FindByEmployeeAndDateRange(ctx context.Context, employeeID string, from, to time.Time) ([]*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WorkingSession
	for _, session := range f.sessions {
		if session.EmployeeID != employeeID {
			continue
		}
		if withinDays(session.Date, from, to) {
			out = append(out, cloneSession(session))
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) FindByStoreAndDateRange(ctx context.Context, storeID string, from, to time.Time) ([]*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WorkingSession
	for _, session := range f.sessions {
		if session.StoreID != storeID {
			continue
		}
		if withinDays(session.Date, from, to) {
			out = append(out, cloneSession(session))
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) FindConflicting(ctx context.Context, employeeID string, start, end time.Time) ([]*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WorkingSession
	for _, session := range f.sessions {
		if session.EmployeeID != employeeID {
			continue
		}
		if session.LoginTime.Before(end) &&
			(session.LogoutTime == nil || session.LogoutTime.After(start)) {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) FindLastCompletedOnDate(ctx context.Context, employeeID string, day time.Time) (*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var last *models.WorkingSession
	for _, session := range f.sessions {
		if session.EmployeeID != employeeID || session.LogoutTime == nil {
			continue
		}
		y1, m1, d1 := session.Date.Date()
		y2, m2, d2 := day.Date()
		if y1 != y2 || m1 != m2 || d1 != d2 {
			continue
		}
		if last == nil || session.LogoutTime.After(*last.LogoutTime) {
			last = session
		}
	}
	return cloneSession(last), nil
}

func (f *fakeSessionRepo) FindPendingApprovalByStore(ctx context.Context, storeID string) ([]*models.WorkingSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.WorkingSession
	for _, session := range f.sessions {
		if session.StoreID == storeID && session.Status == models.SessionStatusPendingApproval {
			out = append(out, session)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

type fakeNotifier struct {
	mu           sync.Mutex
	managerMsgs  []string
	employeeMsgs []string
}

func (f *fakeNotifier) NotifyManager(storeID, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.managerMsgs = append(f.managerMsgs, message)
}

func (f *fakeNotifier) NotifyEmployee(employeeID, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employeeMsgs = append(f.employeeMsgs, message)
}

func (f *fakeNotifier) managerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.managerMsgs)
}

type fakeStoreDirectory struct {
	stores      map[string]*models.Store
	operational bool
	err         error
}

func newFakeStoreDirectory() *fakeStoreDirectory {
	return &fakeStoreDirectory{
		stores:      make(map[string]*models.Store),
		operational: true,
	}
}

func (f *fakeStoreDirectory) GetStore(ctx context.Context, storeID string) (*models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	store, ok := f.stores[storeID]
	if !ok {
		return nil, apperrors.NotFoundf("store not found: %s", storeID)
	}
	return store, nil
}

func (f *fakeStoreDirectory) IsStoreOperational(ctx context.Context, storeID string, at time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.operational, nil
}
