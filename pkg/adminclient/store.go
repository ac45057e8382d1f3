package adminclient

import (
	"context"
	"strings"
	"sync"

	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/util"
)

// Confirmer asks the operator before a destructive action. Returning false
// cancels the action without any request.
type Confirmer func(ctx context.Context, message string) bool

// Confirmation prompts shown before a delete.
const (
	ConfirmDeleteExercise = "Bạn có chắc chắn muốn xóa bài tập này?"
	ConfirmDeleteUser     = "Bạn có chắc chắn muốn xóa người dùng này?"
)

// keyedMutex serialises work per entity id; different ids run concurrently.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	waiters int
}

func (k *keyedMutex) lock(id uint) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[uint]*keyedLock)
	}
	l, ok := k.locks[id]
	if !ok {
		l = &keyedLock{}
		k.locks[id] = l
	}
	l.waiters++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}

// ExerciseStore is the local list behind the exercise screen. Every mutation
// reaches the server first; the list changes only when the server agreed.
type ExerciseStore struct {
	client *Client
	locks  keyedMutex

	mu    sync.RWMutex
	items []model.Exercise
}

func NewExerciseStore(c *Client) *ExerciseStore {
	return &ExerciseStore{client: c}
}

// Load replaces the local list with the server's.
func (s *ExerciseStore) Load(ctx context.Context, q ExerciseQuery) error {
	items, err := s.client.ListExercises(ctx, q)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the local list.
func (s *ExerciseStore) Items() []model.Exercise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Exercise(nil), s.items...)
}

func (s *ExerciseStore) find(id uint) (model.Exercise, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ex := range s.items {
		if ex.ID == id {
			return ex, true
		}
	}
	return model.Exercise{}, false
}

// Toggle flips the active flag of a listed exercise.
func (s *ExerciseStore) Toggle(ctx context.Context, id uint) (*model.Exercise, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	current, ok := s.find(id)
	if !ok {
		return nil, util.NewNotFoundError(util.MsgNotFound)
	}
	updated, err := s.client.SetExerciseActive(ctx, id, !current.IsActive)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].IsActive = updated.IsActive
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete asks confirm first and removes the exercise once the server did.
// It reports false when the operator declined.
func (s *ExerciseStore) Delete(ctx context.Context, id uint, confirm Confirmer) (bool, error) {
	if confirm != nil && !confirm(ctx, ConfirmDeleteExercise) {
		return false, nil
	}
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.client.DeleteExercise(ctx, id); err != nil {
		return false, err
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return true, nil
}

// Filter narrows the local list the way the screen's filter bar does:
// exact type and difficulty, and a case-insensitive search on title or
// description. Empty values and "all" match everything.
func (s *ExerciseStore) Filter(q ExerciseQuery) []model.Exercise {
	return FilterExercises(s.Items(), q)
}

func FilterExercises(items []model.Exercise, q ExerciseQuery) []model.Exercise {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]model.Exercise, 0, len(items))
	for _, ex := range items {
		if q.ExerciseType != "" && q.ExerciseType != "all" && string(ex.ExerciseType) != q.ExerciseType {
			continue
		}
		if q.DifficultyLevel != "" && q.DifficultyLevel != "all" && string(ex.DifficultyLevel) != q.DifficultyLevel {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(ex.Title), search) &&
			!strings.Contains(strings.ToLower(ex.Description), search) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// ProfileStore is the local page behind the user management screen.
type ProfileStore struct {
	client *Client
	locks  keyedMutex

	mu    sync.RWMutex
	page  UserPage
	query UserQuery
}

func NewProfileStore(c *Client) *ProfileStore {
	return &ProfileStore{client: c}
}

func (s *ProfileStore) Load(ctx context.Context, q UserQuery) error {
	page, err := s.client.ListUsers(ctx, q)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.page, s.query = *page, q
	s.mu.Unlock()
	return nil
}

func (s *ProfileStore) Items() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Profile(nil), s.page.List...)
}

func (s *ProfileStore) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page.Total
}

func (s *ProfileStore) Toggle(ctx context.Context, id uint) (*model.Profile, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	var current *model.Profile
	for _, p := range s.Items() {
		if p.ID == id {
			p := p
			current = &p
			break
		}
	}
	if current == nil {
		return nil, util.NewNotFoundError(util.MsgNotFound)
	}
	updated, err := s.client.SetUserActive(ctx, id, !current.IsActive)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.page.List {
		if s.page.List[i].ID == id {
			s.page.List[i].IsActive = updated.IsActive
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes a user after confirmation and reloads the current page so
// the totals and row window stay exact.
func (s *ProfileStore) Delete(ctx context.Context, id uint, confirm Confirmer) (bool, error) {
	if confirm != nil && !confirm(ctx, ConfirmDeleteUser) {
		return false, nil
	}
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.client.DeleteUser(ctx, id); err != nil {
		return false, err
	}
	s.mu.RLock()
	q := s.query
	s.mu.RUnlock()
	return true, s.Load(ctx, q)
}
