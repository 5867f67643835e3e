// Package store keeps the friends in memory and persists them through a Repository.
package store

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no friend has the requested id.
var ErrNotFound = errors.New("friend not found")

// Repository loads and saves the complete, ordered list of friends.
type Repository interface {
	Load() ([]model.Friend, error)
	Save(friends []model.Friend) error
}

// Store is an ordered in-memory collection of friends. Ids are assigned by the store when a
// friend is loaded or appended; they are not persisted.
type Store struct {
	mu      sync.RWMutex
	repo    Repository
	logger  *zap.Logger
	friends []model.Friend
	nextID  int64
}

// New creates an empty store on top of the repository.
func New(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger, nextID: 1}
}

// Load replaces the friends in memory with the ones from the repository.
func (s *Store) Load() error {
	loaded, err := s.repo.Load()
	if err != nil {
		return fmt.Errorf("load friends: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends = make([]model.Friend, 0, len(loaded))
	s.nextID = 1
	for _, f := range loaded {
		f.Id = s.nextID
		s.nextID++
		s.friends = append(s.friends, f)
	}
	s.logger.Info("Friends loaded", zap.Int("count", len(s.friends)))
	return nil
}

// Save writes all friends to the repository.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.repo.Save(s.friends); err != nil {
		return fmt.Errorf("save friends: %w", err)
	}
	s.logger.Info("Friends saved", zap.Int("count", len(s.friends)))
	return nil
}

// All returns a copy of all friends in their stored order.
func (s *Store) All() []model.Friend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.friends)
}

// Len returns the number of friends.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.friends)
}

// Get returns the friend with the given id.
func (s *Store) Get(id int64) (model.Friend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Friend{}, ErrNotFound
	}
	return s.friends[i], nil
}

// Append adds a friend at the end of the list and returns it with its new id.
func (s *Store) Append(f model.Friend) model.Friend {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.Id = s.nextID
	s.nextID++
	s.friends = append(s.friends, f)
	return f
}

// Replace overwrites the friend with the given id in place. The id is kept.
func (s *Store) Replace(id int64, f model.Friend) (model.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Friend{}, ErrNotFound
	}
	f.Id = id
	s.friends[i] = f
	return f, nil
}

// Update applies fn to the friend with the given id and stores the result in place.
func (s *Store) Update(id int64, fn func(f *model.Friend)) (model.Friend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Friend{}, ErrNotFound
	}
	f := s.friends[i]
	fn(&f)
	f.Id = id
	s.friends[i] = f
	return f, nil
}

// Remove deletes the friend with the given id.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.friends = slices.Delete(s.friends, i, i+1)
	return nil
}

// Search returns all friends whose first or last name contains name, ignoring case. An empty
// name matches everybody.
func (s *Store) Search(name string) []model.Friend {
	name = strings.ToLower(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []model.Friend
	for _, f := range s.friends {
		if strings.Contains(strings.ToLower(f.FirstName), name) ||
			strings.Contains(strings.ToLower(f.LastName), name) {
			matches = append(matches, f)
		}
	}
	return matches
}

// indexOf returns the position of the friend with the given id, or -1. The caller must hold
// the lock.
func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.friends, func(f model.Friend) bool {
		return f.Id == id
	})
}

// Query describes a filtered, sorted and paged selection of friends.
type Query struct {
	// FirstName and LastName match the beginning of the respective name, ignoring case.
	FirstName string
	LastName  string
	// BirthdayMonth and BirthdayDay select friends born on this day. Zero means no filter.
	BirthdayMonth int
	BirthdayDay   int
	// OrderBy is one of the values in OrderByValues. Empty means "id".
	OrderBy    string
	Descending bool
	// Limit of zero means no limit.
	Limit  int
	Offset int
}

// OrderByValues are the allowed values for Query.OrderBy.
var OrderByValues = []string{"id", "firstname", "lastname", "city", "birthday"}

// Query returns the friends matching q.
func (s *Store) Query(q Query) []model.Friend {
	s.mu.RLock()
	var result []model.Friend
	for _, f := range s.friends {
		if matches(f, q) {
			result = append(result, f)
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(result, func(a, b model.Friend) int {
		c := compare(a, b, q.OrderBy)
		if q.Descending {
			return -c
		}
		return c
	})

	if q.Offset >= len(result) {
		return nil
	}
	result = result[q.Offset:]
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}
	return result
}

func matches(f model.Friend, q Query) bool {
	if !hasPrefixFold(f.FirstName, q.FirstName) || !hasPrefixFold(f.LastName, q.LastName) {
		return false
	}
	if q.BirthdayMonth != 0 || q.BirthdayDay != 0 {
		if f.Birthday == nil {
			return false
		}
		if f.Birthday.Month() != q.BirthdayMonth || f.Birthday.Day() != q.BirthdayDay {
			return false
		}
	}
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// compare orders two friends by the given property. Friends without birthday sort first.
func compare(a, b model.Friend, orderBy string) int {
	switch orderBy {
	case "firstname":
		return cmp.Compare(a.FirstName, b.FirstName)
	case "lastname":
		return cmp.Compare(a.LastName, b.LastName)
	case "city":
		return cmp.Compare(a.City, b.City)
	case "birthday":
		return cmp.Compare(dayInYear(a), dayInYear(b))
	default:
		return cmp.Compare(a.Id, b.Id)
	}
}

func dayInYear(f model.Friend) int {
	if f.Birthday == nil {
		return 0
	}
	return f.Birthday.DayInYear()
}
