package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/danilofortes/stackhabit/internal"
)

// FileStore keeps everything in memory behind a RWMutex and persists a
// JSON snapshot with a short debounce. It backs development setups and
// tests; the repository contracts match the postgres backend exactly,
// including the uniqueness conflicts.
type FileStore struct {
	mu sync.RWMutex

	users   map[string]*internal.User // id -> user
	byEmail map[string]string         // email -> user id
	habits  map[int64]*internal.Habit
	logs    map[internal.CompletionKey]*internal.DailyLog
	logIDs  map[int64]internal.CompletionKey
	metas   map[int64]*internal.MonthlyMeta
	reviews map[int64]*internal.MonthlyReview

	nextID int64

	path         string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	doneChan     chan struct{}
	saveDelay    time.Duration
	logger       internal.Logger
}

type snapshot struct {
	Users   []*internal.User          `json:"users"`
	Habits  []*internal.Habit         `json:"habits"`
	Logs    []*internal.DailyLog      `json:"logs"`
	Metas   []*internal.MonthlyMeta   `json:"metas"`
	Reviews []*internal.MonthlyReview `json:"reviews"`
	NextID  int64                     `json:"next_id"`
}

func NewFileStore(path string, logger internal.Logger) (*FileStore, error) {
	s := &FileStore{
		users:        make(map[string]*internal.User),
		byEmail:      make(map[string]string),
		habits:       make(map[int64]*internal.Habit),
		logs:         make(map[internal.CompletionKey]*internal.DailyLog),
		logIDs:       make(map[int64]internal.CompletionKey),
		metas:        make(map[int64]*internal.MonthlyMeta),
		reviews:      make(map[int64]*internal.MonthlyReview),
		nextID:       1,
		path:         path,
		saveChan:     make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		doneChan:     make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}
	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load data file: %v", err)
		return nil, err
	}
	go s.saveWorker()
	return s, nil
}

func (s *FileStore) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var snap snapshot
	if err := json.NewDecoder(file).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range snap.Users {
		s.users[u.ID] = u
		s.byEmail[u.Email] = u.ID
	}
	for _, h := range snap.Habits {
		s.habits[h.ID] = h
	}
	for _, l := range snap.Logs {
		key := internal.CompletionKey{HabitID: l.HabitID, Date: l.Date}
		s.logs[key] = l
		s.logIDs[l.ID] = key
	}
	for _, m := range snap.Metas {
		s.metas[m.ID] = m
	}
	for _, r := range snap.Reviews {
		s.reviews[r.ID] = r
	}
	if snap.NextID > 0 {
		s.nextID = snap.NextID
	}
	return nil
}

func (s *FileStore) saveWorker() {
	for {
		select {
		case <-s.saveChan:
			time.Sleep(s.saveDelay)
			// Drain a pending signal so bursts collapse into one write.
			select {
			case <-s.saveChan:
			default:
			}
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: failed to save data file: %v", err)
			}
		case <-s.shutdownChan:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: failed to save data file on shutdown: %v", err)
			}
			close(s.doneChan)
			return
		}
	}
}

func (s *FileStore) save() error {
	s.mu.RLock()
	snap := snapshot{NextID: s.nextID}
	for _, u := range s.users {
		snap.Users = append(snap.Users, u)
	}
	for _, h := range s.habits {
		snap.Habits = append(snap.Habits, h)
	}
	for _, l := range s.logs {
		snap.Logs = append(snap.Logs, l)
	}
	for _, m := range s.metas {
		snap.Metas = append(snap.Metas, m)
	}
	for _, r := range s.reviews {
		snap.Reviews = append(snap.Reviews, r)
	}
	s.mu.RUnlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(file).Encode(snap); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) scheduleSave() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

// Close flushes the snapshot and stops the save worker.
func (s *FileStore) Close() {
	close(s.shutdownChan)
	<-s.doneChan
}

func (s *FileStore) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// --- UserRepository ---

func (s *FileStore) CreateUser(_ context.Context, u *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[u.Email]; taken {
		return ErrConflict
	}
	cp := *u
	s.users[cp.ID] = &cp
	s.byEmail[cp.Email] = cp.ID
	s.scheduleSave()
	return nil
}

func (s *FileStore) GetUserByEmail(_ context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *FileStore) GetUserByID(_ context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- HabitRepository ---

func (s *FileStore) ListHabits(_ context.Context, userID string, includeArchived bool) ([]internal.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var habits []internal.Habit
	for _, h := range s.habits {
		if h.UserID != userID {
			continue
		}
		if h.IsArchived && !includeArchived {
			continue
		}
		habits = append(habits, *h)
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})
	return habits, nil
}

func (s *FileStore) GetHabit(_ context.Context, id int64) (*internal.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *FileStore) CreateHabit(_ context.Context, h *internal.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = s.allocID()
	cp := *h
	s.habits[cp.ID] = &cp
	s.scheduleSave()
	return nil
}

func (s *FileStore) UpdateHabit(_ context.Context, h *internal.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[h.ID]; !ok {
		return ErrNotFound
	}
	cp := *h
	s.habits[cp.ID] = &cp
	s.scheduleSave()
	return nil
}

func (s *FileStore) DeleteHabit(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.habits[id]; !ok {
		return ErrNotFound
	}
	delete(s.habits, id)
	// Cascade: logs die with their habit.
	for key, l := range s.logs {
		if key.HabitID == id {
			delete(s.logs, key)
			delete(s.logIDs, l.ID)
		}
	}
	s.scheduleSave()
	return nil
}

// --- DailyLogRepository ---

func (s *FileStore) GetLog(_ context.Context, habitID int64, date internal.Date) (*internal.DailyLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[internal.CompletionKey{HabitID: habitID, Date: date}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *FileStore) CreateLog(_ context.Context, l *internal.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := internal.CompletionKey{HabitID: l.HabitID, Date: l.Date}
	if _, taken := s.logs[key]; taken {
		return ErrConflict
	}
	l.ID = s.allocID()
	cp := *l
	s.logs[key] = &cp
	s.logIDs[cp.ID] = key
	s.scheduleSave()
	return nil
}

func (s *FileStore) UpdateLog(_ context.Context, l *internal.DailyLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.logIDs[l.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *l
	s.logs[key] = &cp
	s.scheduleSave()
	return nil
}

func (s *FileStore) DeleteLog(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.logIDs[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.logs, key)
	delete(s.logIDs, id)
	s.scheduleSave()
	return nil
}

func (s *FileStore) ListLogsByMonth(_ context.Context, userID string, month internal.YearMonth) ([]internal.DailyLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var logs []internal.DailyLog
	for key, l := range s.logs {
		if !month.Contains(key.Date) {
			continue
		}
		h, ok := s.habits[key.HabitID]
		if !ok || h.UserID != userID {
			continue
		}
		logs = append(logs, *l)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID < logs[j].ID })
	return logs, nil
}

// --- MonthlyMetaRepository ---

func (s *FileStore) ListMetasByMonth(_ context.Context, userID string, targetDate string) ([]internal.MonthlyMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var metas []internal.MonthlyMeta
	for _, m := range s.metas {
		if m.UserID == userID && m.TargetDate == targetDate {
			metas = append(metas, *m)
		}
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].CreatedAt.Equal(metas[j].CreatedAt) {
			return metas[i].ID < metas[j].ID
		}
		return metas[i].CreatedAt.Before(metas[j].CreatedAt)
	})
	return metas, nil
}

func (s *FileStore) GetMeta(_ context.Context, id int64) (*internal.MonthlyMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.metas[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *FileStore) CreateMeta(_ context.Context, m *internal.MonthlyMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.allocID()
	cp := *m
	s.metas[cp.ID] = &cp
	s.scheduleSave()
	return nil
}

func (s *FileStore) UpdateMeta(_ context.Context, m *internal.MonthlyMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.metas[m.ID]; !ok {
		return ErrNotFound
	}
	cp := *m
	s.metas[cp.ID] = &cp
	s.scheduleSave()
	return nil
}

func (s *FileStore) DeleteMeta(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.metas[id]; !ok {
		return ErrNotFound
	}
	delete(s.metas, id)
	s.scheduleSave()
	return nil
}

// --- MonthlyReviewRepository ---

func (s *FileStore) GetReviewByMonth(_ context.Context, userID string, targetDate string) (*internal.MonthlyReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reviews {
		if r.UserID == userID && r.TargetDate == targetDate {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) ListReviews(_ context.Context, userID string) ([]internal.MonthlyReview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var reviews []internal.MonthlyReview
	for _, r := range s.reviews {
		if r.UserID == userID {
			reviews = append(reviews, *r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].TargetDate > reviews[j].TargetDate })
	return reviews, nil
}

func (s *FileStore) CreateReview(_ context.Context, r *internal.MonthlyReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.TargetDate == r.TargetDate {
			return ErrConflict
		}
	}
	r.ID = s.allocID()
	cp := *r
	s.reviews[cp.ID] = &cp
	s.scheduleSave()
	return nil
}

func (s *FileStore) UpdateReview(_ context.Context, r *internal.MonthlyReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.ID]; !ok {
		return ErrNotFound
	}
	cp := *r
	s.reviews[cp.ID] = &cp
	s.scheduleSave()
	return nil
}

func (s *FileStore) DeleteReview(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(s.reviews, id)
	s.scheduleSave()
	return nil
}

var _ Store = (*FileStore)(nil)
