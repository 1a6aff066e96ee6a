// Package store persists user state as a single JSON document: the DCA plan
// settings, the logged clean days, and the price cache. Access is snapshot in,
// mutate under lock, save to disk before returning.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// Store handles persisted state operations with concurrency safety.
type Store struct {
	mu       sync.Mutex
	state    *model.State
	filePath string
	subs     []func(model.State)
}

// Open loads state from disk, seeding a fresh install with the given default
// settings, and writes the file immediately so a bad path fails at startup.
func Open(filePath string, defaults model.Settings) (*Store, error) {
	state, err := load(filePath)
	if err != nil {
		return nil, err
	}
	if state.Settings.Symbol == "" {
		state.Settings = defaults
	}
	s := &Store{state: state, filePath: filePath}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the state file. Returns a zero state if the file doesn't exist.
func load(filePath string) (*model.State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.State{}, nil
		}
		return nil, err
	}
	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file %s: %w", filePath, err)
	}
	return &state, nil
}

// Subscribe registers fn to run with a fresh snapshot after every mutation
// that changed state. Callbacks run outside the store lock, on the mutating
// goroutine; they must not call back into mutators.
func (s *Store) Subscribe(fn func(model.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// mutate runs fn under the lock; when fn reports a change, the new state is
// saved and subscribers are notified after the lock is released.
func (s *Store) mutate(fn func(*model.State) bool) error {
	s.mu.Lock()
	changed := fn(s.state)
	var (
		err  error
		snap model.State
		subs []func(model.State)
	)
	if changed {
		err = s.save()
		snap = snapshot(s.state)
		subs = append(subs, s.subs...)
	}
	s.mu.Unlock()
	if err != nil || !changed {
		return err
	}
	for _, cb := range subs {
		cb(snap)
	}
	return nil
}

// snapshot copies the state for handing outside the lock. Cached price series
// share backing arrays; they are immutable by convention.
func snapshot(st *model.State) model.State {
	snap := *st
	snap.CleanDays = append([]string(nil), st.CleanDays...)
	if st.PriceCache != nil {
		snap.PriceCache = make(map[string]model.CachedSeries, len(st.PriceCache))
		for k, v := range st.PriceCache {
			snap.PriceCache[k] = v
		}
	}
	return snap
}

// State returns a copy of the full persisted state.
func (s *Store) State() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.state)
}

// Settings returns the current plan settings.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// UpdateSettings validates and persists new plan settings.
func (s *Store) UpdateSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return s.mutate(func(st *model.State) bool {
		st.Settings = settings
		return true
	})
}

// CleanDays returns the logged clean days, ascending.
func (s *Store) CleanDays() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.state.CleanDays...)
}

// IsClean reports whether the date is logged as clean.
func (s *Store) IsClean(date string) bool {
	iso, err := normalizeDay(date)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.state.CleanDays {
		if d == iso {
			return true
		}
	}
	return false
}

// MarkClean logs a clean day. Returns false without error when the day was
// already logged.
func (s *Store) MarkClean(date string) (bool, error) {
	iso, err := normalizeDay(date)
	if err != nil {
		return false, err
	}
	added := false
	err = s.mutate(func(st *model.State) bool {
		for _, d := range st.CleanDays {
			if d == iso {
				return false
			}
		}
		st.CleanDays = append(st.CleanDays, iso)
		sort.Strings(st.CleanDays)
		added = true
		return true
	})
	return added, err
}

// UnmarkClean removes a logged clean day. Returns false without error when
// the day was not logged.
func (s *Store) UnmarkClean(date string) (bool, error) {
	iso, err := normalizeDay(date)
	if err != nil {
		return false, err
	}
	removed := false
	err = s.mutate(func(st *model.State) bool {
		for i, d := range st.CleanDays {
			if d == iso {
				st.CleanDays = append(st.CleanDays[:i], st.CleanDays[i+1:]...)
				removed = true
				return true
			}
		}
		return false
	})
	return removed, err
}

func normalizeDay(date string) (string, error) {
	day, err := model.ParseDay(date)
	if err != nil {
		return "", fmt.Errorf("clean day: %w", err)
	}
	return model.FormatDay(day), nil
}

// PriceSeries returns the cached history for a symbol, if any.
func (s *Store) PriceSeries(symbol string) (model.CachedSeries, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, ok := s.state.PriceCache[symbol]
	return cs, ok
}

// SetPriceSeries caches a fetched history. Save failures are logged rather
// than returned; the in-memory cache is still updated.
func (s *Store) SetPriceSeries(symbol string, series model.CachedSeries) {
	err := s.mutate(func(st *model.State) bool {
		if st.PriceCache == nil {
			st.PriceCache = make(map[string]model.CachedSeries)
		}
		st.PriceCache[symbol] = series
		return true
	})
	if err != nil {
		log.Printf("[ERROR] failed to save price cache for %s: %v", symbol, err)
	}
}

// save writes the state file. Callers hold the lock (or are pre-concurrency,
// as in Open).
func (s *Store) save() error {
	s.state.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}
