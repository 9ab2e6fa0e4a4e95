package journal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"momentlog/internal/model"
)

// Service is the orchestration layer between consumers and the store. It
// coordinates the collaborators the store deliberately knows nothing about:
// the media vault for photo and voice payloads, and the generator for
// recaps, reports and transcription. Generation results only reach the store
// through an explicit save.
type Service struct {
	store  *Store
	media  MediaVault
	gen    Generator
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(store *Store, media MediaVault, gen Generator, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:  store,
		media:  media,
		gen:    gen,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// Store exposes the underlying store for queries and subscriptions.
func (s *Service) Store() *Store { return s.store }

// CreateEvent validates input, stores an optional cover photo and inserts
// the event. coverPhoto may be nil.
func (s *Service) CreateEvent(name, location, purpose string, start, end time.Time, coverPhoto io.Reader) (model.Event, error) {
	if name == "" || location == "" {
		return model.Event{}, fmt.Errorf("%w: event name and location are required", ErrValidation)
	}

	e := model.Event{
		ID:        s.idgen.New(),
		Name:      name,
		Location:  location,
		Purpose:   purpose,
		StartDate: start,
		EndDate:   end,
		CreatedAt: s.clock.Now(),
	}

	if coverPhoto != nil {
		uri, err := s.media.PutPhoto(e.ID, coverPhoto)
		if err != nil {
			return model.Event{}, fmt.Errorf("storing cover photo: %w", err)
		}
		e.CoverPhotoURI = uri
	}

	if err := s.store.AddEvent(e); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

// DeleteEvent removes the event with its owned moments, recaps and report,
// then removes the media payloads those moments referenced. Media removal is
// best effort: the cascade has already committed and an orphaned file is
// harmless.
func (s *Service) DeleteEvent(id string) error {
	event, ok := s.store.GetEvent(id)
	if !ok {
		return nil
	}
	moments := s.store.GetEventMoments(id)

	if err := s.store.DeleteEvent(id); err != nil {
		return err
	}

	uris := []string{event.CoverPhotoURI}
	for _, m := range moments {
		uris = append(uris, m.PhotoURI, m.VoiceURI)
	}
	for _, uri := range uris {
		if uri == "" {
			continue
		}
		if err := s.media.Remove(uri); err != nil {
			s.logger.Warn("failed to remove media", "uri", uri, "error", err)
		}
	}
	return nil
}

// CaptureTextMoment adds a text moment. An at of zero means now.
func (s *Service) CaptureTextMoment(eventID, content string, tags []model.Tag, at time.Time) (model.Moment, error) {
	if content == "" {
		return model.Moment{}, fmt.Errorf("%w: text moment needs content", ErrValidation)
	}
	return s.addMoment(model.Moment{
		EventID: eventID,
		Type:    model.MomentText,
		Content: content,
		Tags:    tags,
	}, at)
}

// CapturePhotoMoment stores the image in the media vault and adds a photo
// moment carrying its URI. content is an optional description.
func (s *Service) CapturePhotoMoment(eventID string, photo io.Reader, content string, tags []model.Tag, at time.Time) (model.Moment, error) {
	id := s.idgen.New()
	uri, err := s.media.PutPhoto(id, photo)
	if err != nil {
		return model.Moment{}, fmt.Errorf("storing photo: %w", err)
	}

	m, err := s.addMomentWithID(model.Moment{
		ID:       id,
		EventID:  eventID,
		Type:     model.MomentPhoto,
		Content:  content,
		Tags:     tags,
		PhotoURI: uri,
	}, at)
	if err != nil {
		// The moment never existed; don't leave its payload behind.
		if rmErr := s.media.Remove(uri); rmErr != nil {
			s.logger.Warn("failed to remove media", "uri", uri, "error", rmErr)
		}
		return model.Moment{}, err
	}
	return m, nil
}

// CaptureVoiceMoment transcribes the recording, stores the audio in the
// media vault and adds a voice moment whose content is the transcript.
// format is the audio file extension without the dot (e.g. "m4a").
func (s *Service) CaptureVoiceMoment(ctx context.Context, eventID string, audio io.Reader, format string, tags []model.Tag, at time.Time) (model.Moment, error) {
	// The payload is read twice (transcription, then vault), so buffer it.
	data, err := io.ReadAll(audio)
	if err != nil {
		return model.Moment{}, fmt.Errorf("reading audio: %w", err)
	}

	transcript, err := s.gen.Transcribe(ctx, bytes.NewReader(data), format)
	if err != nil {
		return model.Moment{}, err
	}

	id := s.idgen.New()
	uri, err := s.media.PutVoice(id, format, bytes.NewReader(data))
	if err != nil {
		return model.Moment{}, fmt.Errorf("storing audio: %w", err)
	}

	m, err := s.addMomentWithID(model.Moment{
		ID:       id,
		EventID:  eventID,
		Type:     model.MomentVoice,
		Content:  transcript,
		Tags:     tags,
		VoiceURI: uri,
	}, at)
	if err != nil {
		if rmErr := s.media.Remove(uri); rmErr != nil {
			s.logger.Warn("failed to remove media", "uri", uri, "error", rmErr)
		}
		return model.Moment{}, err
	}
	return m, nil
}

// DeleteMoment removes a moment and its media payloads. Idempotent.
func (s *Service) DeleteMoment(id string) error {
	m, found := s.store.GetMoment(id)

	if err := s.store.DeleteMoment(id); err != nil {
		return err
	}
	if !found {
		return nil
	}

	for _, uri := range []string{m.PhotoURI, m.VoiceURI} {
		if uri == "" {
			continue
		}
		if err := s.media.Remove(uri); err != nil {
			s.logger.Warn("failed to remove media", "uri", uri, "error", err)
		}
	}
	return nil
}

// GenerateDailyRecap collects the event's moments for the given UTC calendar
// day, asks the generator for a recap and returns the candidate. The
// candidate is not stored; pass it to SaveDailyRecap to persist it.
func (s *Service) GenerateDailyRecap(ctx context.Context, eventID string, day time.Time) (*model.DailyRecap, error) {
	event, ok := s.store.GetEvent(eventID)
	if !ok {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}

	start, end := dayBounds(day)
	moments := s.store.FilterMoments(eventID, MomentFilter{From: &start, To: &end})
	if len(moments) == 0 {
		return nil, fmt.Errorf("%w: no moments on %s", ErrNotFound, DayKey(day))
	}

	recap, err := s.gen.GenerateRecap(ctx, event, moments)
	if err != nil {
		return nil, err
	}

	recap.ID = s.idgen.New()
	recap.EventID = eventID
	recap.Date = start
	recap.GeneratedAt = s.clock.Now()
	return recap, nil
}

// SaveDailyRecap persists a generated recap.
func (s *Service) SaveDailyRecap(recap model.DailyRecap) error {
	return s.store.AddDailyRecap(recap)
}

// GenerateFinalReport asks the generator for a report spanning the event's
// whole moment history and returns the candidate. Pass it to SaveFinalReport
// to persist it.
func (s *Service) GenerateFinalReport(ctx context.Context, eventID string) (*model.FinalReport, error) {
	event, ok := s.store.GetEvent(eventID)
	if !ok {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}

	moments := s.store.GetEventMoments(eventID)
	if len(moments) == 0 {
		return nil, fmt.Errorf("%w: event %s has no moments", ErrNotFound, eventID)
	}

	report, err := s.gen.GenerateReport(ctx, event, moments)
	if err != nil {
		return nil, err
	}

	report.ID = s.idgen.New()
	report.EventID = eventID
	report.GeneratedAt = s.clock.Now()
	return report, nil
}

// SaveFinalReport persists a generated report, replacing any previous one
// for the same event.
func (s *Service) SaveFinalReport(report model.FinalReport) error {
	return s.store.AddFinalReport(report)
}

func (s *Service) addMoment(m model.Moment, at time.Time) (model.Moment, error) {
	m.ID = s.idgen.New()
	return s.addMomentWithID(m, at)
}

func (s *Service) addMomentWithID(m model.Moment, at time.Time) (model.Moment, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	m.Timestamp = at
	if err := s.store.AddMoment(m); err != nil {
		return model.Moment{}, err
	}
	return m, nil
}

// dayBounds returns the inclusive UTC bounds of the calendar day containing t.
func dayBounds(t time.Time) (start, end time.Time) {
	u := t.UTC()
	start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}
