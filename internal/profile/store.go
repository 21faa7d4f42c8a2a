// Package profile is the per-user saved-jobs store behind the header-based
// identity check. It is deliberately plain CRUD over a JSON file; the
// aggregation pipeline never touches it.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// User is one stored profile record.
type User struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Joined          time.Time `json:"joined"`
	SavedJobs       []string  `json:"saved_jobs"`
	Applications    []string  `json:"applications"`
	ProfileComplete bool      `json:"profile_complete"`
}

// Store reads and writes the user file. All operations load, mutate, and
// atomically rewrite the whole file under one lock; the store is small and
// contention-free in practice.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Get returns the user record for id.
func (s *Store) Get(id string) (User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return User{}, false, err
	}
	user, ok := users[id]
	return user, ok, nil
}

// Ensure creates the record on first touch, mirroring the signup-free flow:
// an authenticated identity is a user.
func (s *Store) Ensure(id string, name string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, fmt.Errorf("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return User{}, err
	}
	if user, ok := users[id]; ok {
		return user, nil
	}

	user := User{
		Name:         name,
		Joined:       s.now(),
		SavedJobs:    []string{},
		Applications: []string{},
	}
	users[id] = user
	if err := s.save(users); err != nil {
		return User{}, err
	}
	return user, nil
}

// Update applies fn to the user record and persists the result.
func (s *Store) Update(id string, fn func(*User)) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return User{}, err
	}
	user, ok := users[id]
	if !ok {
		return User{}, fmt.Errorf("unknown user: %s", id)
	}

	fn(&user)
	users[id] = user
	if err := s.save(users); err != nil {
		return User{}, err
	}
	return user, nil
}

// SaveJob appends jobID to the user's saved list, once.
func (s *Store) SaveJob(id string, jobID string) (User, error) {
	return s.Update(id, func(u *User) {
		if !slices.Contains(u.SavedJobs, jobID) {
			u.SavedJobs = append(u.SavedJobs, jobID)
		}
	})
}

// UnsaveJob removes jobID from the user's saved list.
func (s *Store) UnsaveJob(id string, jobID string) (User, error) {
	return s.Update(id, func(u *User) {
		u.SavedJobs = slices.DeleteFunc(u.SavedJobs, func(v string) bool {
			return v == jobID
		})
	})
}

func (s *Store) load() (map[string]User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]User{}, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]User{}, nil
	}

	var users map[string]User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = map[string]User{}
	}
	return users, nil
}

func (s *Store) save(users map[string]User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}
