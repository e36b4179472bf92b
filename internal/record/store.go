package record

import (
	"fmt"
	"sync"

	"github.com/dyluth/punchcard/internal/clock"
)

// Store maps owner ids to their current DailyRecord.
// The store is thread-safe. Each owner has its own mutex; the map guard is
// held only for the duration of a single map read or write.
type Store struct {
	clock clock.Clock

	mu      sync.Mutex
	records map[string]DailyRecord
	owners  map[string]*sync.Mutex
}

// NewStore creates an empty store that computes day keys with c.
func NewStore(c clock.Clock) *Store {
	return &Store{
		clock:   c,
		records: make(map[string]DailyRecord),
		owners:  make(map[string]*sync.Mutex),
	}
}

// Clock returns the clock the store uses for day keys.
func (s *Store) Clock() clock.Clock {
	return s.clock
}

// Len returns the number of owners with a record.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// ownerLock returns the mutex for ownerID, creating it on first use.
func (s *Store) ownerLock(ownerID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.owners[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.owners[ownerID] = l
	}
	return l
}

// WithOwner runs fn inside ownerID's critical section.
// fn must only touch the record through tx, and must not call back into the
// Store for the same owner (the owner lock is not reentrant).
func (s *Store) WithOwner(ownerID string, fn func(tx *Tx) error) error {
	if ownerID == "" {
		return fmt.Errorf("owner id cannot be empty")
	}
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()
	return fn(&Tx{store: s, ownerID: ownerID})
}

// GetOrInit returns the owner's record for the current day, replacing a
// missing or stale record with an empty one first.
func (s *Store) GetOrInit(ownerID string) DailyRecord {
	var rec DailyRecord
	s.withOwner(ownerID, func(tx *Tx) { rec = tx.GetOrInit() })
	return rec
}

// SetField writes value into field f of the owner's current record.
// Ordering is not validated: Lunch before In is accepted.
func (s *Store) SetField(ownerID string, f Field, value string) (DailyRecord, error) {
	var rec DailyRecord
	var err error
	s.withOwner(ownerID, func(tx *Tx) { rec, err = tx.SetField(f, value) })
	return rec, err
}

// Lock writes the Out stamp and locks the owner's current record.
func (s *Store) Lock(ownerID string, value string) DailyRecord {
	var rec DailyRecord
	s.withOwner(ownerID, func(tx *Tx) { rec = tx.Lock(value) })
	return rec
}

// StartNewDay replaces the owner's record with an empty one dated tomorrow.
func (s *Store) StartNewDay(ownerID string) DailyRecord {
	var rec DailyRecord
	s.withOwner(ownerID, func(tx *Tx) { rec = tx.StartNewDay() })
	return rec
}

// StartToday replaces the owner's record with an empty one dated today.
func (s *Store) StartToday(ownerID string) DailyRecord {
	var rec DailyRecord
	s.withOwner(ownerID, func(tx *Tx) { rec = tx.StartToday() })
	return rec
}

func (s *Store) withOwner(ownerID string, fn func(tx *Tx)) {
	_ = s.WithOwner(ownerID, func(tx *Tx) error {
		fn(tx)
		return nil
	})
}

func (s *Store) load(ownerID string) (DailyRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[ownerID]
	return rec, ok
}

func (s *Store) save(rec DailyRecord) {
	s.mu.Lock()
	s.records[rec.OwnerID] = rec
	s.mu.Unlock()
}

// Tx is a handle on one owner's record, valid only inside WithOwner.
type Tx struct {
	store   *Store
	ownerID string
}

// OwnerID returns the owner this transaction is scoped to.
func (tx *Tx) OwnerID() string {
	return tx.ownerID
}

// GetOrInit returns the current record, rolling it over if it is missing or
// belongs to a day before today. A record dated after today was pre-created
// by StartNewDay and is kept.
func (tx *Tx) GetOrInit() DailyRecord {
	today := clock.DayKey(tx.store.clock)
	rec, ok := tx.store.load(tx.ownerID)
	if ok && !IsStale(rec, today) {
		return rec
	}
	return tx.replace(today)
}

// SetField overwrites field f of the current record.
func (tx *Tx) SetField(f Field, value string) (DailyRecord, error) {
	if err := f.Validate(); err != nil {
		return DailyRecord{}, err
	}
	rec := tx.GetOrInit()
	rec.set(f, value)
	tx.store.save(rec)
	return rec, nil
}

// Lock writes the Out stamp and marks the current record locked.
func (tx *Tx) Lock(value string) DailyRecord {
	rec := tx.GetOrInit()
	rec.Out = value
	rec.Locked = true
	tx.store.save(rec)
	return rec
}

// StartNewDay replaces the record with an empty one for tomorrow.
func (tx *Tx) StartNewDay() DailyRecord {
	return tx.replace(clock.NextDayKey(tx.store.clock))
}

// StartToday replaces the record with an empty one for today.
func (tx *Tx) StartToday() DailyRecord {
	return tx.replace(clock.DayKey(tx.store.clock))
}

func (tx *Tx) replace(dayKey string) DailyRecord {
	rec := DailyRecord{OwnerID: tx.ownerID, DayKey: dayKey}
	tx.store.save(rec)
	return rec
}

// IsStale reports whether rec belongs to a day before today.
// Day keys are YYYY-MM-DD, so lexical order is calendar order.
func IsStale(rec DailyRecord, today string) bool {
	return rec.DayKey < today
}
