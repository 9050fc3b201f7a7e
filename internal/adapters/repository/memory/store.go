// Package memory is an in-process store with the same relational rules as
// the Postgres schema: foreign keys restrict or null out on delete, and user
// emails are unique.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

var (
	ErrForeignKey = entities.ErrForeignKeyViolation
	ErrUnique     = entities.ErrUniqueViolation
)

// Store holds every table behind one lock
type Store struct {
	mu         sync.RWMutex
	users      map[string]entities.User
	categories map[string]entities.Category
	statuses   map[string]entities.Reference
	priorities map[string]entities.Reference
	tasks      map[string]entities.Task
}

// New creates an empty store
func New() *Store {
	return &Store{
		users:      make(map[string]entities.User),
		categories: make(map[string]entities.Category),
		statuses:   make(map[string]entities.Reference),
		priorities: make(map[string]entities.Reference),
		tasks:      make(map[string]entities.Task),
	}
}

// Repositories returns repository views over s
func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Users:      &userRepository{s},
		Categories: &categoryRepository{s},
		Statuses:   &referenceRepository{store: s, kind: entities.ReferenceStatus},
		Priorities: &referenceRepository{store: s, kind: entities.ReferencePriority},
		Tasks:      &taskRepository{s},
		Health:     s,
	}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) refTable(kind entities.ReferenceKind) map[string]entities.Reference {
	if kind == entities.ReferencePriority {
		return s.priorities
	}
	return s.statuses
}

// taskCount counts tasks matching pred. Caller holds the lock.
func (s *Store) taskCount(pred func(t entities.Task) bool) int64 {
	var n int64
	for _, t := range s.tasks {
		if pred(t) {
			n++
		}
	}
	return n
}

// checkTaskKeys verifies every foreign key on t. Caller holds the lock.
func (s *Store) checkTaskKeys(t *entities.Task) error {
	if _, ok := s.statuses[t.StatusID]; !ok {
		return fmt.Errorf("%w: status %s", ErrForeignKey, t.StatusID)
	}
	if _, ok := s.priorities[t.PriorityID]; !ok {
		return fmt.Errorf("%w: priority %s", ErrForeignKey, t.PriorityID)
	}
	if _, ok := s.users[t.OwnerID]; !ok {
		return fmt.Errorf("%w: owner %s", ErrForeignKey, t.OwnerID)
	}
	if t.CategoryID != nil {
		if _, ok := s.categories[*t.CategoryID]; !ok {
			return fmt.Errorf("%w: category %s", ErrForeignKey, *t.CategoryID)
		}
	}
	if t.AssigneeID != nil {
		if _, ok := s.users[*t.AssigneeID]; !ok {
			return fmt.Errorf("%w: assignee %s", ErrForeignKey, *t.AssigneeID)
		}
	}
	return nil
}

// joinTask embeds relations into a copy of t. Caller holds the lock.
func (s *Store) joinTask(t entities.Task) *entities.Task {
	joined := t
	if st, ok := s.statuses[t.StatusID]; ok {
		joined.Status = &st
	}
	if pr, ok := s.priorities[t.PriorityID]; ok {
		joined.Priority = &pr
	}
	if t.CategoryID != nil {
		if c, ok := s.categories[*t.CategoryID]; ok {
			joined.Category = &c
		}
	}
	if u, ok := s.users[t.OwnerID]; ok {
		joined.Owner = &u
	}
	if t.AssigneeID != nil {
		if u, ok := s.users[*t.AssigneeID]; ok {
			joined.Assignee = &u
		}
	}
	return &joined
}

// matches applies a TaskFilter to t. Caller holds the lock.
func (s *Store) matches(t entities.Task, f ports.TaskFilter) bool {
	if f.StatusName != nil && s.statuses[t.StatusID].Name != *f.StatusName {
		return false
	}
	if f.PriorityName != nil && s.priorities[t.PriorityID].Name != *f.PriorityName {
		return false
	}
	if f.CategoryName != nil {
		if t.CategoryID == nil || s.categories[*t.CategoryID].Name != *f.CategoryName {
			return false
		}
	}
	if f.OwnerID != nil && t.OwnerID != *f.OwnerID {
		return false
	}
	if f.IsVital != nil && t.IsVital != *f.IsVital {
		return false
	}
	if f.StatusID != nil && t.StatusID != *f.StatusID {
		return false
	}
	if f.PriorityID != nil && t.PriorityID != *f.PriorityID {
		return false
	}
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *f.AssigneeID) {
		return false
	}
	return true
}

type userRepository struct{ *Store }

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return fmt.Errorf("%w: user id %s", ErrUnique, user.ID)
	}
	if err := r.checkEmail(user); err != nil {
		return err
	}
	r.users[user.ID] = stripUser(*user)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound(id)
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound(user.ID)
	}
	if err := r.checkEmail(user); err != nil {
		return err
	}
	r.users[user.ID] = stripUser(*user)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return entities.ErrUserNotFound(id)
	}
	if n := r.taskCount(func(t entities.Task) bool { return t.OwnerID == id }); n > 0 {
		return fmt.Errorf("%w: user %s owns %d tasks", ErrForeignKey, id, n)
	}
	for tid, t := range r.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == id {
			t.AssigneeID = nil
			r.tasks[tid] = t
		}
	}
	delete(r.users, id)
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entities.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (r *userRepository) checkEmail(user *entities.User) error {
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return fmt.Errorf("%w: email %s", ErrUnique, user.Email)
		}
	}
	return nil
}

func stripUser(u entities.User) entities.User {
	u.Tasks = nil
	u.AssignedTasks = nil
	return u
}

type categoryRepository struct{ *Store }

func (r *categoryRepository) Create(ctx context.Context, category *entities.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; ok {
		return fmt.Errorf("%w: category id %s", ErrUnique, category.ID)
	}
	r.categories[category.ID] = stripCategory(*category)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*entities.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, entities.ErrCategoryNotFound(id)
	}
	return &c, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entities.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return entities.ErrCategoryNotFound(category.ID)
	}
	r.categories[category.ID] = stripCategory(*category)
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return entities.ErrCategoryNotFound(id)
	}
	for tid, t := range r.tasks {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			r.tasks[tid] = t
		}
	}
	delete(r.categories, id)
	return nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*entities.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*entities.Category, 0, len(r.categories))
	for _, c := range r.categories {
		c := c
		id := c.ID
		c.Count = &entities.TaskCount{Tasks: r.taskCount(func(t entities.Task) bool {
			return t.CategoryID != nil && *t.CategoryID == id
		})}
		categories = append(categories, &c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Name != categories[j].Name {
			return categories[i].Name < categories[j].Name
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func stripCategory(c entities.Category) entities.Category {
	c.Count = nil
	c.Tasks = nil
	return c
}

type referenceRepository struct {
	store *Store
	kind  entities.ReferenceKind
}

func (r *referenceRepository) Kind() entities.ReferenceKind {
	return r.kind
}

func (r *referenceRepository) Create(ctx context.Context, ref *entities.Reference) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	table := r.store.refTable(r.kind)
	if _, ok := table[ref.ID]; ok {
		return fmt.Errorf("%w: %s id %s", ErrUnique, r.kind, ref.ID)
	}
	stored := *ref
	stored.Count = nil
	table[ref.ID] = stored
	return nil
}

func (r *referenceRepository) GetByID(ctx context.Context, id string) (*entities.Reference, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ref, ok := r.store.refTable(r.kind)[id]
	if !ok {
		return nil, entities.ErrReferenceNotFound(r.kind, id)
	}
	return &ref, nil
}

func (r *referenceRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.refTable(r.kind)[id]
	return ok, nil
}

func (r *referenceRepository) Update(ctx context.Context, ref *entities.Reference) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	table := r.store.refTable(r.kind)
	if _, ok := table[ref.ID]; !ok {
		return entities.ErrReferenceNotFound(r.kind, ref.ID)
	}
	stored := *ref
	stored.Count = nil
	table[ref.ID] = stored
	return nil
}

func (r *referenceRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	table := r.store.refTable(r.kind)
	if _, ok := table[id]; !ok {
		return entities.ErrReferenceNotFound(r.kind, id)
	}
	if n := r.store.taskCount(r.usedBy(id)); n > 0 {
		return fmt.Errorf("%w: %s %s used by %d tasks", ErrForeignKey, r.kind, id, n)
	}
	delete(table, id)
	return nil
}

func (r *referenceRepository) List(ctx context.Context) ([]*entities.Reference, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	table := r.store.refTable(r.kind)
	refs := make([]*entities.Reference, 0, len(table))
	for _, ref := range table {
		ref := ref
		ref.Count = &entities.TaskCount{Tasks: r.store.taskCount(r.usedBy(ref.ID))}
		refs = append(refs, &ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Order != refs[j].Order {
			return refs[i].Order < refs[j].Order
		}
		return refs[i].Name < refs[j].Name
	})
	return refs, nil
}

func (r *referenceRepository) usedBy(id string) func(t entities.Task) bool {
	if r.kind == entities.ReferencePriority {
		return func(t entities.Task) bool { return t.PriorityID == id }
	}
	return func(t entities.Task) bool { return t.StatusID == id }
}

type taskRepository struct{ *Store }

func (r *taskRepository) Create(ctx context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; ok {
		return fmt.Errorf("%w: task id %s", ErrUnique, task.ID)
	}
	if err := r.checkTaskKeys(task); err != nil {
		return err
	}
	r.tasks[task.ID] = stripTask(*task)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound(id)
	}
	return r.joinTask(t), nil
}

func (r *taskRepository) Update(ctx context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return entities.ErrTaskNotFound(task.ID)
	}
	if err := r.checkTaskKeys(task); err != nil {
		return err
	}
	r.tasks[task.ID] = stripTask(*task)
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return entities.ErrTaskNotFound(id)
	}
	delete(r.tasks, id)
	return nil
}

func (r *taskRepository) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*entities.Task, 0)
	for _, t := range r.tasks {
		if r.matches(t, filter) {
			tasks = append(tasks, r.joinTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
	return tasks, nil
}

func (r *taskRepository) Count(ctx context.Context, filter ports.TaskFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.taskCount(func(t entities.Task) bool { return r.matches(t, filter) }), nil
}

func (r *taskRepository) Counts(ctx context.Context) (entities.TaskCounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var c entities.TaskCounts
	for _, t := range r.tasks {
		c.Total++
		if t.IsVital {
			c.Vital++
		}
		switch r.statuses[t.StatusID].Name {
		case entities.StatusNameCompleted:
			c.Completed++
		case entities.StatusNameInProgress:
			c.InProgress++
		case entities.StatusNameNotStarted:
			c.NotStarted++
		}
	}
	return c, nil
}

func stripTask(t entities.Task) entities.Task {
	t.Status = nil
	t.Priority = nil
	t.Category = nil
	t.Owner = nil
	t.Assignee = nil
	return t
}
