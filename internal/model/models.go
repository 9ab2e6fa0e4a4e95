package model

import "time"

// Tag classifies a moment. The set is fixed; filtering treats tags as a set
// but the order a user picked them in is preserved for display.
type Tag string

const (
	TagNetworking  Tag = "Networking"
	TagLearning    Tag = "Learning"
	TagInspiration Tag = "Inspiration"
	TagFun         Tag = "Fun"
)

// AllTags lists every valid tag value.
var AllTags = []Tag{TagNetworking, TagLearning, TagInspiration, TagFun}

// Valid reports whether t is one of the known tag values.
func (t Tag) Valid() bool {
	switch t {
	case TagNetworking, TagLearning, TagInspiration, TagFun:
		return true
	}
	return false
}

// MomentType determines which optional payload fields of a Moment are meaningful.
type MomentType string

const (
	MomentText  MomentType = "text"
	MomentPhoto MomentType = "photo"
	MomentVoice MomentType = "voice"
)

// Valid reports whether mt is one of the known moment types.
func (mt MomentType) Valid() bool {
	switch mt {
	case MomentText, MomentPhoto, MomentVoice:
		return true
	}
	return false
}

// Event is the aggregate root. Moments, recaps and the final report are
// exclusively owned by exactly one event and cannot outlive it.
type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Purpose       string    `json:"purpose,omitempty"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"` // invariant: StartDate <= EndDate, checked on insert
	CoverPhotoURI string    `json:"coverPhotoUri,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Moment is a single user-captured fragment tied to an event and a point in
// time. A voice moment stores its transcription in Content and its audio in
// VoiceURI; the URI fields are not strictly exclusive with Type.
type Moment struct {
	ID        string     `json:"id"`
	EventID   string     `json:"eventId"` // immutable after creation
	Type      MomentType `json:"type"`
	Content   string     `json:"content"`
	Tags      []Tag      `json:"tags"`
	Timestamp time.Time  `json:"timestamp"` // the instant the moment pertains to, not necessarily creation time
	PhotoURI  string     `json:"photoUri,omitempty"`
	VoiceURI  string     `json:"voiceUri,omitempty"`
}

// DailyRecap is an AI-generated narrative covering a single day of an event.
// Immutable once saved; regeneration produces a new candidate that must be
// explicitly saved.
type DailyRecap struct {
	ID            string    `json:"id"`
	EventID       string    `json:"eventId"`
	Date          time.Time `json:"date"` // start of the covered day
	Summary       string    `json:"summary"`
	KeyTakeaways  []string  `json:"keyTakeaways"`
	TopMoments    []string  `json:"topMoments"`
	PeopleMet     []string  `json:"peopleMet"`
	EmotionalTone string    `json:"emotionalTone"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// FinalReport is an AI-generated aggregate summary spanning an event's full
// moment history. At most one exists per event.
type FinalReport struct {
	ID                string    `json:"id"`
	EventID           string    `json:"eventId"`
	Summary           string    `json:"summary"`
	Highlights        []string  `json:"highlights"`
	KeyConnections    []string  `json:"keyConnections"`
	LessonsLearned    []string  `json:"lessonsLearned"`
	OverallExperience string    `json:"overallExperience"`
	GeneratedAt       time.Time `json:"generatedAt"`
}
