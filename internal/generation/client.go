package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"momentlog/internal/config"
	"momentlog/internal/journal"
	"momentlog/internal/model"
)

// Client talks to a toolkit-style generation API: a text completion endpoint
// for recaps and reports, and a speech-to-text endpoint for voice moments.
// Every response passes strict parsing before it leaves this package; a
// half-formed recap never reaches the store.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  journal.Logger
}

// NewClient creates a generation client from configuration.
func NewClient(cfg config.GenerationConfig, logger journal.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type textRequest struct {
	Messages []message `json:"messages"`
}

type textResponse struct {
	Completion string `json:"completion"`
}

type transcribeResponse struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// GenerateRecap produces a daily recap candidate from one day's moments.
func (c *Client) GenerateRecap(ctx context.Context, event model.Event, moments []model.Moment) (*model.DailyRecap, error) {
	completion, err := c.generateText(ctx, BuildRecapPrompt(event, moments))
	if err != nil {
		return nil, err
	}

	payload, err := parseRecapPayload(completion)
	if err != nil {
		return nil, err
	}

	return &model.DailyRecap{
		Summary:       payload.Summary,
		KeyTakeaways:  payload.KeyTakeaways,
		TopMoments:    payload.TopMoments,
		PeopleMet:     payload.PeopleMet,
		EmotionalTone: payload.EmotionalTone,
	}, nil
}

// GenerateReport produces a final report candidate from the event's full
// moment history.
func (c *Client) GenerateReport(ctx context.Context, event model.Event, moments []model.Moment) (*model.FinalReport, error) {
	completion, err := c.generateText(ctx, BuildReportPrompt(event, moments))
	if err != nil {
		return nil, err
	}

	payload, err := parseReportPayload(completion)
	if err != nil {
		return nil, err
	}

	return &model.FinalReport{
		Summary:           payload.Summary,
		Highlights:        payload.Highlights,
		KeyConnections:    payload.KeyConnections,
		LessonsLearned:    payload.LessonsLearned,
		OverallExperience: payload.OverallExperience,
	}, nil
}

// Transcribe converts a recorded audio payload into text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, format string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("audio", "recording."+format)
	if err != nil {
		return "", fmt.Errorf("%w: building transcription request: %v", journal.ErrGeneration, err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("%w: reading audio: %v", journal.ErrGeneration, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: finalizing transcription request: %v", journal.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stt/transcribe/", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", journal.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: transcription call: %v", journal.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: transcription API returned status %d", journal.ErrGeneration, resp.StatusCode)
	}

	var tr transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decoding transcription response: %v", journal.ErrGeneration, err)
	}
	if tr.Text == "" {
		return "", fmt.Errorf("%w: transcription response has no text", journal.ErrGeneration)
	}

	c.logger.Debug("audio transcribed", "chars", len(tr.Text), "language", tr.Language)
	return tr.Text, nil
}

// generateText sends a single-message completion request and returns the raw
// completion string.
func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(textRequest{
		Messages: []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", journal.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/text/llm/", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", journal.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: generation call: %v", journal.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: generation API returned status %d", journal.ErrGeneration, resp.StatusCode)
	}

	var tr textResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: decoding generation response: %v", journal.ErrGeneration, err)
	}
	if tr.Completion == "" {
		return "", fmt.Errorf("%w: generation response has no completion", journal.ErrGeneration)
	}

	return tr.Completion, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// Compile-time check that Client implements journal.Generator
var _ journal.Generator = (*Client)(nil)
