package journal

import (
	"context"
	"io"

	"momentlog/internal/model"
)

// Generator is the AI collaborator boundary. Implementations must reject
// malformed responses before returning: the store only ever persists
// fully-formed entities handed back from here.
type Generator interface {
	// GenerateRecap produces a recap candidate for the given event and the
	// moments of a single day. The candidate carries no ID and no
	// generation timestamp; the service fills those in.
	GenerateRecap(ctx context.Context, event model.Event, moments []model.Moment) (*model.DailyRecap, error)

	// GenerateReport produces a final report candidate spanning all of the
	// event's moments.
	GenerateReport(ctx context.Context, event model.Event, moments []model.Moment) (*model.FinalReport, error)

	// Transcribe converts a recorded audio payload into text.
	// format is the file extension without the dot (e.g. "m4a").
	Transcribe(ctx context.Context, audio io.Reader, format string) (string, error)
}
