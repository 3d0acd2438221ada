package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/andy/tasktimer/internal/domain"
	"github.com/andy/tasktimer/internal/repository"
)

// in-memory repositories that mimic the SQLite cascade rules

type memDB struct {
	projects map[int64]*domain.Project
	tasks    map[int64]*domain.Task
	sessions map[int64]*domain.TimeSession
	files    map[int64]*domain.TaskFile
	nextID   int64
	failSave error
}

func newMemDB() *memDB {
	return &memDB{
		projects: make(map[int64]*domain.Project),
		tasks:    make(map[int64]*domain.Task),
		sessions: make(map[int64]*domain.TimeSession),
		files:    make(map[int64]*domain.TaskFile),
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) cascadeTask(taskID int64) {
	for id, s := range m.sessions {
		if s.TaskID == taskID {
			delete(m.sessions, id)
		}
	}
	for id, f := range m.files {
		if f.TaskID == taskID {
			delete(m.files, id)
		}
	}
	delete(m.tasks, taskID)
}

func (m *memDB) Wipe(ctx context.Context) error {
	*m = *newMemDB()
	return nil
}

type memProjectRepo struct{ db *memDB }

func (r *memProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	p.ID = r.db.id()
	r.db.projects[p.ID] = p
	return nil
}
func (r *memProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	if p, ok := r.db.projects[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %d: %w", id, repository.ErrNotFound)
}
func (r *memProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	out := make([]*domain.Project, 0, len(r.db.projects))
	for _, p := range r.db.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *memProjectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.db.projects[id]; !ok {
		return fmt.Errorf("project %d: %w", id, repository.ErrNotFound)
	}
	for tid, t := range r.db.tasks {
		if t.ProjectID == id {
			r.db.cascadeTask(tid)
		}
	}
	delete(r.db.projects, id)
	return nil
}

type memTaskRepo struct{ db *memDB }

func (r *memTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	t.ID = r.db.id()
	r.db.tasks[t.ID] = t
	return nil
}
func (r *memTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if t, ok := r.db.tasks[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("task %d: %w", id, repository.ErrNotFound)
}
func (r *memTaskRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.Task, error) {
	out := make([]*domain.Task, 0)
	for _, t := range r.db.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *memTaskRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.db.tasks[id]; !ok {
		return fmt.Errorf("task %d: %w", id, repository.ErrNotFound)
	}
	r.db.cascadeTask(id)
	return nil
}

type memSessionRepo struct{ db *memDB }

func (r *memSessionRepo) Create(ctx context.Context, s *domain.TimeSession) error {
	if r.db.failSave != nil {
		return r.db.failSave
	}
	if err := s.Validate(); err != nil {
		return err
	}
	s.ID = r.db.id()
	r.db.sessions[s.ID] = s
	return nil
}
func (r *memSessionRepo) GetByID(ctx context.Context, id int64) (*domain.TimeSession, error) {
	if s, ok := r.db.sessions[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("time session %d: %w", id, repository.ErrNotFound)
}
func (r *memSessionRepo) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.TimeSession, error) {
	out := make([]*domain.TimeSession, 0)
	for _, s := range r.db.sessions {
		if filter.ProjectID != nil && s.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.TaskID != nil && s.TaskID != *filter.TaskID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}
func (r *memSessionRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.db.sessions[id]; !ok {
		return fmt.Errorf("time session %d: %w", id, repository.ErrNotFound)
	}
	delete(r.db.sessions, id)
	return nil
}

type memFileRepo struct{ db *memDB }

func (r *memFileRepo) Create(ctx context.Context, f *domain.TaskFile) error {
	if err := f.Validate(); err != nil {
		return err
	}
	f.ID = r.db.id()
	r.db.files[f.ID] = f
	return nil
}
func (r *memFileRepo) GetByID(ctx context.Context, id int64) (*domain.TaskFile, error) {
	if f, ok := r.db.files[id]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("task file %d: %w", id, repository.ErrNotFound)
}
func (r *memFileRepo) ListByTask(ctx context.Context, taskID int64) ([]*domain.TaskFile, error) {
	out := make([]*domain.TaskFile, 0)
	for _, f := range r.db.files {
		if f.TaskID == taskID {
			out = append(out, f)
		}
	}
	return out, nil
}
func (r *memFileRepo) ListByProject(ctx context.Context, projectID int64) ([]*domain.TaskFile, error) {
	out := make([]*domain.TaskFile, 0)
	for _, f := range r.db.files {
		if t, ok := r.db.tasks[f.TaskID]; ok && t.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out, nil
}
func (r *memFileRepo) ListAll(ctx context.Context) ([]*domain.TaskFile, error) {
	out := make([]*domain.TaskFile, 0, len(r.db.files))
	for _, f := range r.db.files {
		out = append(out, f)
	}
	return out, nil
}
func (r *memFileRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.db.files[id]; !ok {
		return fmt.Errorf("task file %d: %w", id, repository.ErrNotFound)
	}
	delete(r.db.files, id)
	return nil
}

// memStore is a FileStore that keeps blobs in a map
type memStore struct {
	blobs        map[string]string
	seq          int
	removeAllErr error
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string]string)}
}

func (s *memStore) Put(r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	s.seq++
	key := fmt.Sprintf("blob-%d", s.seq)
	s.blobs[key] = string(data)
	return key, int64(len(data)), nil
}
func (s *memStore) Open(key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, errors.New("no such blob")
	}
	return io.NopCloser(strings.NewReader(data)), nil
}
func (s *memStore) Remove(key string) error {
	delete(s.blobs, key)
	return nil
}
func (s *memStore) RemoveAll() error {
	if s.removeAllErr != nil {
		return s.removeAllErr
	}
	s.blobs = make(map[string]string)
	return nil
}

// fakeKeyring holds the database key in memory
type fakeKeyring struct {
	key     string
	deleted bool
}

func (k *fakeKeyring) GetKey() (string, error) {
	if k.key == "" {
		return "", errors.New("no key")
	}
	return k.key, nil
}
func (k *fakeKeyring) SetKey(password string) error { k.key = password; return nil }
func (k *fakeKeyring) DeleteKey() error             { k.key = ""; k.deleted = true; return nil }
func (k *fakeKeyring) IsAvailable() bool            { return true }
