// Package session holds the per-user, per-day container every stream
// aggregator writes into.
package session

import (
	"sort"
	"sync"

	"insider-features/internal/record"
)

// Day is one user's bucket for one calendar day.
type Day struct {
	OffHoursLogonCount int
	Entries            []Entry
}

// Sorted returns a copy of the entries ordered by time, then kind. Parallel
// stages append in no particular order; readers go through this.
func (d *Day) Sorted() []Entry {
	out := make([]Entry, len(d.Entries))
	copy(out, d.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].At(), out[j].At()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return out[i].Kind() < out[j].Kind()
	})
	return out
}

// Store maps user -> date -> Day. It is safe for concurrent use; there is no
// removal.
type Store struct {
	mu    sync.RWMutex
	users map[string]map[record.Date]*Day
}

func NewStore() *Store {
	return &Store{users: make(map[string]map[record.Date]*Day)}
}

// Ensure returns the bucket for (user, date), creating it when absent.
func (s *Store) Ensure(user string, date record.Date) *Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(user, date)
}

func (s *Store) ensureLocked(user string, date record.Date) *Day {
	days, ok := s.users[user]
	if !ok {
		days = make(map[record.Date]*Day)
		s.users[user] = days
	}
	day, ok := days[date]
	if !ok {
		day = &Day{}
		days[date] = day
	}
	return day
}

func (s *Store) Append(user string, date record.Date, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.ensureLocked(user, date)
	day.Entries = append(day.Entries, e)
}

func (s *Store) IncOffHours(user string, date record.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(user, date).OffHoursLogonCount++
}

// Day returns the bucket for (user, date) without creating it.
func (s *Store) Day(user string, date record.Date) (*Day, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day, ok := s.users[user][date]
	return day, ok
}

func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]string, 0, len(s.users))
	for u := range s.users {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

func (s *Store) Days(user string) []record.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := make([]record.Date, 0, len(s.users[user]))
	for d := range s.users[user] {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Each visits every bucket in user, then date order.
func (s *Store) Each(fn func(user string, date record.Date, day *Day)) {
	for _, u := range s.Users() {
		for _, d := range s.Days(u) {
			day, _ := s.Day(u, d)
			fn(u, d, day)
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, days := range s.users {
		n += len(days)
	}
	return n
}
