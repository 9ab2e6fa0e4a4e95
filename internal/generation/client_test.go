package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"momentlog/internal/config"
	"momentlog/internal/journal"
	"momentlog/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.GenerationConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, journal.NewNopLogger())
}

func testRecapEvent() model.Event {
	return model.Event{
		ID:       "e1",
		Name:     "GopherCon",
		Location: "Berlin",
	}
}

func TestClient_GenerateRecap(t *testing.T) {
	moments := []model.Moment{
		{Type: model.MomentText, Content: "keynote", Timestamp: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)},
	}

	t.Run("posts the prompt and parses the completion", func(t *testing.T) {
		var gotPath, gotPrompt string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path

			var req textRequest
			if err := jsonDecode(r, &req); err != nil {
				t.Errorf("decoding request: %v", err)
			}
			if len(req.Messages) == 1 {
				gotPrompt = req.Messages[0].Content
			}

			w.Write([]byte(`{"completion": "{\"summary\": \"Day one.\", \"emotionalTone\": \"upbeat\"}"}`))
		})

		recap, err := c.GenerateRecap(context.Background(), testRecapEvent(), moments)
		if err != nil {
			t.Fatalf("GenerateRecap() error = %v", err)
		}

		if gotPath != "/text/llm/" {
			t.Errorf("path = %q, want /text/llm/", gotPath)
		}
		if !strings.Contains(gotPrompt, `"GopherCon"`) {
			t.Errorf("prompt does not name the event: %q", gotPrompt)
		}
		if !strings.Contains(gotPrompt, "keynote") {
			t.Errorf("prompt does not include the moment content")
		}
		if recap.Summary != "Day one." {
			t.Errorf("Summary = %q, want Day one.", recap.Summary)
		}
		if recap.ID != "" {
			t.Errorf("ID = %q, want empty on a candidate", recap.ID)
		}
	})

	t.Run("sends bearer token when an api key is set", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"completion": "{\"summary\": \"Day.\", \"emotionalTone\": \"calm\"}"}`))
		}))
		defer srv.Close()

		c := NewClient(config.GenerationConfig{BaseURL: srv.URL, APIKey: "secret", TimeoutSeconds: 5}, journal.NewNopLogger())
		if _, err := c.GenerateRecap(context.Background(), testRecapEvent(), moments); err != nil {
			t.Fatalf("GenerateRecap() error = %v", err)
		}
		if gotAuth != "Bearer secret" {
			t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
		}
	})

	t.Run("fails on non-200 status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.GenerateRecap(context.Background(), testRecapEvent(), moments)
		if !errors.Is(err, journal.ErrGeneration) {
			t.Errorf("GenerateRecap() error = %v, want ErrGeneration", err)
		}
	})

	t.Run("fails on empty completion", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"completion": ""}`))
		})

		_, err := c.GenerateRecap(context.Background(), testRecapEvent(), moments)
		if !errors.Is(err, journal.ErrGeneration) {
			t.Errorf("GenerateRecap() error = %v, want ErrGeneration", err)
		}
	})

	t.Run("fails on unparseable completion", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"completion": "no json here"}`))
		})

		_, err := c.GenerateRecap(context.Background(), testRecapEvent(), moments)
		if !errors.Is(err, journal.ErrGeneration) {
			t.Errorf("GenerateRecap() error = %v, want ErrGeneration", err)
		}
	})
}

func TestClient_GenerateReport(t *testing.T) {
	t.Run("parses a report completion", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"completion": "{\"summary\": \"A week.\", \"overallExperience\": \"great\"}"}`))
		})

		report, err := c.GenerateReport(context.Background(), testRecapEvent(), nil)
		if err != nil {
			t.Fatalf("GenerateReport() error = %v", err)
		}
		if report.OverallExperience != "great" {
			t.Errorf("OverallExperience = %q, want great", report.OverallExperience)
		}
	})
}

func TestClient_Transcribe(t *testing.T) {
	t.Run("uploads multipart audio and returns the text", func(t *testing.T) {
		var gotPath, gotFilename, gotPayload string
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path

			file, header, err := r.FormFile("audio")
			if err != nil {
				t.Errorf("FormFile() error = %v", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer file.Close()
			gotFilename = header.Filename

			buf := make([]byte, header.Size)
			n, _ := file.Read(buf)
			gotPayload = string(buf[:n])

			w.Write([]byte(`{"text": "note to self", "language": "en"}`))
		})

		text, err := c.Transcribe(context.Background(), strings.NewReader("audio bytes"), "m4a")
		if err != nil {
			t.Fatalf("Transcribe() error = %v", err)
		}

		if gotPath != "/stt/transcribe/" {
			t.Errorf("path = %q, want /stt/transcribe/", gotPath)
		}
		if gotFilename != "recording.m4a" {
			t.Errorf("filename = %q, want recording.m4a", gotFilename)
		}
		if gotPayload != "audio bytes" {
			t.Errorf("payload = %q, want audio bytes", gotPayload)
		}
		if text != "note to self" {
			t.Errorf("text = %q, want note to self", text)
		}
	})

	t.Run("fails on empty transcript", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"text": ""}`))
		})

		_, err := c.Transcribe(context.Background(), strings.NewReader("audio"), "m4a")
		if !errors.Is(err, journal.ErrGeneration) {
			t.Errorf("Transcribe() error = %v, want ErrGeneration", err)
		}
	})

	t.Run("fails on non-200 status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := c.Transcribe(context.Background(), strings.NewReader("audio"), "m4a")
		if !errors.Is(err, journal.ErrGeneration) {
			t.Errorf("Transcribe() error = %v, want ErrGeneration", err)
		}
	})
}

func jsonDecode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
