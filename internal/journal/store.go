package journal

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"momentlog/internal/model"
)

// Store owns the four journal collections: events, moments, daily recaps and
// final reports. It is the only writer of durable state; consumers read
// through its query methods and mutate through its operations.
//
// Mutations apply in memory first, then persist the affected collection(s) as
// a trailing side effect, then notify subscribers. Readers always see a
// mutation's effect immediately, never only after storage completes. A failed
// persistence write is returned to the caller but the in-memory change is not
// rolled back: memory stays authoritative for the session and the divergence
// lasts until the next successful write of that collection.
//
// Collections keep insertion order. That order is observable: moment listings
// return it, and recap lookups resolve duplicate (event, day) pairs by first
// match.
type Store struct {
	storage Storage
	logger  Logger

	mu      sync.RWMutex
	ready   bool
	events  []model.Event
	moments []model.Moment
	recaps  []model.DailyRecap
	reports []model.FinalReport

	nextSubID int
	subs      map[int]func()
}

// NewStore creates a Store backed by the given storage. The store is not
// ready until Load has run; until then all collections read as empty.
func NewStore(storage Storage, logger Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger,
		subs:    make(map[int]func()),
	}
}

// Load reads every collection from durable storage. A namespace that has
// never been written loads as empty. A namespace that fails to read or parse
// also loads as empty, with a warning: the journal must stay usable even when
// a snapshot is corrupt or storage is unavailable. Load always leaves the
// store ready.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadCollection(s, NamespaceEvents, &s.events)
	loadCollection(s, NamespaceMoments, &s.moments)
	loadCollection(s, NamespaceRecaps, &s.recaps)
	loadCollection(s, NamespaceReports, &s.reports)
	s.ready = true
}

func loadCollection[T any](s *Store, namespace string, dst *[]T) {
	data, err := s.storage.Get(namespace)
	if err != nil {
		s.logger.Warn("failed to read collection, starting empty", "namespace", namespace, "error", err)
		*dst = nil
		return
	}
	if data == nil {
		*dst = nil
		return
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("corrupt collection snapshot, starting empty", "namespace", namespace, "error", err)
		*dst = nil
		return
	}
	*dst = items
}

// Ready reports whether the initial load has completed. Reads before that
// see empty collections, which callers must treat as "loading", not as an
// authoritative empty journal.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Subscribe registers fn to run after every committed mutation, before the
// mutating call returns. The returned func unregisters it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// AddEvent inserts a new event.
func (s *Store) AddEvent(e model.Event) error {
	s.mu.Lock()
	if e.ID == "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: event id is empty", ErrValidation)
	}
	if e.Name == "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: event name is empty", ErrValidation)
	}
	if e.StartDate.After(e.EndDate) {
		s.mu.Unlock()
		return fmt.Errorf("%w: event start date is after end date", ErrValidation)
	}
	if s.findEventLocked(e.ID) != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: event id %s already exists", ErrValidation, e.ID)
	}

	s.events = append(s.events, e)
	err := s.persistLocked(NamespaceEvents)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs)
	s.logger.Info("event added", "event_id", e.ID, "name", e.Name)
	return err
}

// DeleteEvent removes the event and cascades to every moment, recap and
// report it owns. Deleting a nonexistent event is a no-op, so the call is
// idempotent.
func (s *Store) DeleteEvent(id string) error {
	s.mu.Lock()
	if s.findEventLocked(id) == nil {
		s.mu.Unlock()
		return nil
	}

	s.events = deleteWhere(s.events, func(e model.Event) bool { return e.ID == id })
	s.moments = deleteWhere(s.moments, func(m model.Moment) bool { return m.EventID == id })
	s.recaps = deleteWhere(s.recaps, func(r model.DailyRecap) bool { return r.EventID == id })
	s.reports = deleteWhere(s.reports, func(r model.FinalReport) bool { return r.EventID == id })

	err := s.persistLocked(NamespaceEvents, NamespaceMoments, NamespaceRecaps, NamespaceReports)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs)
	s.logger.Info("event deleted", "event_id", id)
	return err
}

// AddMoment inserts a new moment owned by an existing event.
func (s *Store) AddMoment(m model.Moment) error {
	s.mu.Lock()
	if m.ID == "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: moment id is empty", ErrValidation)
	}
	if !m.Type.Valid() {
		s.mu.Unlock()
		return fmt.Errorf("%w: unknown moment type %q", ErrValidation, m.Type)
	}
	for _, tag := range m.Tags {
		if !tag.Valid() {
			s.mu.Unlock()
			return fmt.Errorf("%w: unknown tag %q", ErrValidation, tag)
		}
	}
	if s.findMomentLocked(m.ID) != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: moment id %s already exists", ErrValidation, m.ID)
	}
	if s.findEventLocked(m.EventID) == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: moment references event %s", ErrReference, m.EventID)
	}

	s.moments = append(s.moments, m)
	err := s.persistLocked(NamespaceMoments)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs)
	s.logger.Debug("moment added", "moment_id", m.ID, "event_id", m.EventID, "type", m.Type)
	return err
}

// MomentPatch describes an explicit edit of a moment. Nil fields are left
// untouched. The owning event cannot change.
type MomentPatch struct {
	Type      *model.MomentType
	Content   *string
	Tags      *[]model.Tag
	Timestamp *time.Time
	PhotoURI  *string
	VoiceURI  *string
}

// UpdateMoment applies a patch to an existing moment.
func (s *Store) UpdateMoment(id string, patch MomentPatch) error {
	s.mu.Lock()
	m := s.findMomentLocked(id)
	if m == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: moment %s", ErrNotFound, id)
	}
	if patch.Type != nil && !patch.Type.Valid() {
		s.mu.Unlock()
		return fmt.Errorf("%w: unknown moment type %q", ErrValidation, *patch.Type)
	}
	if patch.Tags != nil {
		for _, tag := range *patch.Tags {
			if !tag.Valid() {
				s.mu.Unlock()
				return fmt.Errorf("%w: unknown tag %q", ErrValidation, tag)
			}
		}
	}

	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.Tags != nil {
		m.Tags = append([]model.Tag(nil), (*patch.Tags)...)
	}
	if patch.Timestamp != nil {
		m.Timestamp = *patch.Timestamp
	}
	if patch.PhotoURI != nil {
		m.PhotoURI = *patch.PhotoURI
	}
	if patch.VoiceURI != nil {
		m.VoiceURI = *patch.VoiceURI
	}

	err := s.persistLocked(NamespaceMoments)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs)
	return err
}

// DeleteMoment removes a single moment. Deleting a nonexistent moment is a
// no-op, so the call is idempotent.
func (s *Store) DeleteMoment(id string) error {
	s.mu.Lock()
	if s.findMomentLocked(id) == nil {
		s.mu.Unlock()
		return nil
	}

	s.moments = deleteWhere(s.moments, func(m model.Moment) bool { return m.ID == id })
	err := s.persistLocked(NamespaceMoments)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs)
	s.logger.Debug("moment deleted", "moment_id", id)
	return err
}

// AddDailyRecap appends a recap owned by an existing event. A second recap
// for the same (event, day) pair is not rejected; lookups resolve the
// ambiguity by first match.
func (s *Store) AddDailyRecap(r model.DailyRecap) error {
	s.mu.Lock()
	if r.ID == "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: recap id is empty", ErrValidation)
	}
	if s.findEventLocked(r.EventID) == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: recap references event %s", ErrReference, r.EventID)
	}

	s.recaps = append(s.recaps, r)
	err := s.persistLocked(NamespaceRecaps)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs)
	s.logger.Info("daily recap saved", "recap_id", r.ID, "event_id", r.EventID, "date", r.Date.Format("2006-01-02"))
	return err
}

// AddFinalReport saves the final report for an existing event, replacing any
// previous report for that event. At most one report per event exists.
func (s *Store) AddFinalReport(r model.FinalReport) error {
	s.mu.Lock()
	if r.ID == "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: report id is empty", ErrValidation)
	}
	if s.findEventLocked(r.EventID) == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: report references event %s", ErrReference, r.EventID)
	}

	s.reports = deleteWhere(s.reports, func(existing model.FinalReport) bool { return existing.EventID == r.EventID })
	s.reports = append(s.reports, r)
	err := s.persistLocked(NamespaceReports)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs)
	s.logger.Info("final report saved", "report_id", r.ID, "event_id", r.EventID)
	return err
}

// Events returns all events in insertion order.
func (s *Store) Events() []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Event(nil), s.events...)
}

// GetEvent returns the event with the given id.
func (s *Store) GetEvent(id string) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e := s.findEventLocked(id); e != nil {
		return *e, true
	}
	return model.Event{}, false
}

// GetMoment returns the moment with the given id.
func (s *Store) GetMoment(id string) (model.Moment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m := s.findMomentLocked(id); m != nil {
		return *m, true
	}
	return model.Moment{}, false
}

// GetEventMoments returns all moments owned by the event, in insertion order.
func (s *Store) GetEventMoments(eventID string) []model.Moment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventMomentsLocked(eventID)
}

// FilterMoments returns the subset of the event's moments matching the
// filter, preserving the relative order of GetEventMoments.
func (s *Store) FilterMoments(eventID string, f MomentFilter) []model.Moment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Moment
	for _, m := range s.moments {
		if m.EventID == eventID && f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// GetEventRecaps returns all recaps owned by the event, in insertion order.
func (s *Store) GetEventRecaps(eventID string) []model.DailyRecap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.DailyRecap
	for _, r := range s.recaps {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}

// FindRecapForDate returns the first stored recap for the event whose date
// falls on the same UTC calendar day as day. The second return is false when
// no recap covers that day.
func (s *Store) FindRecapForDate(eventID string, day time.Time) (model.DailyRecap, bool) {
	key := DayKey(day)
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.recaps {
		if r.EventID == eventID && DayKey(r.Date) == key {
			return r, true
		}
	}
	return model.DailyRecap{}, false
}

// GetEventReport returns the event's final report, if one has been saved.
func (s *Store) GetEventReport(eventID string) (model.FinalReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.EventID == eventID {
			return r, true
		}
	}
	return model.FinalReport{}, false
}

// DayKey truncates an instant to its UTC calendar day, formatted YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (s *Store) findEventLocked(id string) *model.Event {
	for i := range s.events {
		if s.events[i].ID == id {
			return &s.events[i]
		}
	}
	return nil
}

func (s *Store) findMomentLocked(id string) *model.Moment {
	for i := range s.moments {
		if s.moments[i].ID == id {
			return &s.moments[i]
		}
	}
	return nil
}

func (s *Store) eventMomentsLocked(eventID string) []model.Moment {
	var out []model.Moment
	for _, m := range s.moments {
		if m.EventID == eventID {
			out = append(out, m)
		}
	}
	return out
}

// persistLocked serializes the named collections to durable storage. Called
// with the write lock held so snapshots cannot interleave out of order.
// Returns the first failure wrapped as ErrPersistence; the in-memory state
// is already committed and is not rolled back.
func (s *Store) persistLocked(namespaces ...string) error {
	var firstErr error
	for _, ns := range namespaces {
		var (
			data []byte
			err  error
		)
		switch ns {
		case NamespaceEvents:
			data, err = json.Marshal(s.events)
		case NamespaceMoments:
			data, err = json.Marshal(s.moments)
		case NamespaceRecaps:
			data, err = json.Marshal(s.recaps)
		case NamespaceReports:
			data, err = json.Marshal(s.reports)
		default:
			err = fmt.Errorf("unknown namespace %q", ns)
		}
		if err == nil {
			err = s.storage.Put(ns, data)
		}
		if err != nil {
			s.logger.Error("failed to persist collection", "namespace", ns, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: writing %s: %v", ErrPersistence, ns, err)
			}
		}
	}
	return firstErr
}

func (s *Store) subscribersLocked() []func() {
	out := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func (s *Store) notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}

func deleteWhere[T any](items []T, match func(T) bool) []T {
	out := items[:0]
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	// Zero the tail so removed entries do not linger in the backing array.
	for i := len(out); i < len(items); i++ {
		var zero T
		items[i] = zero
	}
	return out
}
