package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"roomrento-backend/internal/wizard"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultRedirectDelay lets the success message render before navigating.
	DefaultRedirectDelay = 2 * time.Second
	// DefaultRedirectPath is the owner's listings page.
	DefaultRedirectPath = "/my-listings"

	// TraceHeader lets server logs be matched to a submission.
	TraceHeader = "X-Trace-Id"

	successMessage  = "Listing created successfully!"
	fallbackMessage = "Failed to create listing. Please try again."
)

// ErrInFlight is returned when a submission is already running.
var ErrInFlight = errors.New("submission already in progress")

// StatusKind classifies a submission outcome.
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the user-visible outcome of a submission.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message"`
}

// RejectedError is returned when the server answers with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("listing rejected (%d): %s", e.StatusCode, e.Message)
}

// Navigator moves the user to another page.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Submitter posts a validated draft as one authenticated multipart request.
// At most one submission is in flight at a time.
type Submitter struct {
	BaseURL       string
	Token         string
	Client        *http.Client
	Navigator     Navigator
	RedirectDelay time.Duration
	RedirectPath  string

	submitting atomic.Bool
}

// Submitting reports whether a submission is in flight.
func (s *Submitter) Submitting() bool {
	return s.submitting.Load()
}

// Submit checks the draft, sends it and maps the response to a Status. The
// draft is never modified, so a failed submission can be retried as is.
// No request is made when the draft cannot be submitted or another
// submission is running.
func (s *Submitter) Submit(ctx context.Context, e *wizard.Engine) (Status, error) {
	if err := e.CanSubmit(); err != nil {
		return Status{}, err
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return Status{}, ErrInFlight
	}
	defer s.submitting.Store(false)

	schema := e.Schema()
	body, contentType, err := BuildPayload(schema, e.Snapshot())
	if err != nil {
		return Status{Kind: StatusError, Message: fallbackMessage}, err
	}

	url := strings.TrimRight(s.BaseURL, "/") + schema.Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return Status{Kind: StatusError, Message: fallbackMessage}, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	traceID := uuid.New().String()
	req.Header.Set(TraceHeader, traceID)
	logger := log.With().Str("type", schema.Type).Str("trace_id", traceID).Logger()
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("submit: request failed")
		return Status{Kind: StatusError, Message: fallbackMessage}, fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(respBody)
		if msg == "" {
			msg = fallbackMessage
		}
		logger.Warn().Int("status", resp.StatusCode).Str("message", msg).Msg("submit: listing rejected")
		return Status{Kind: StatusError, Message: msg}, &RejectedError{StatusCode: resp.StatusCode, Message: msg}
	}

	logger.Info().Msg("submit: listing created")
	s.scheduleRedirect()
	return Status{Kind: StatusSuccess, Message: successMessage}, nil
}

func (s *Submitter) scheduleRedirect() {
	if s.Navigator == nil {
		return
	}
	delay := s.RedirectDelay
	if delay <= 0 {
		delay = DefaultRedirectDelay
	}
	path := s.RedirectPath
	if path == "" {
		path = DefaultRedirectPath
	}
	nav := s.Navigator
	time.AfterFunc(delay, func() { nav.Navigate(path) })
}

// serverMessage reads a top-level "message" or the nested "error.message".
func serverMessage(body []byte) string {
	var data struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}
	if data.Message != "" {
		return data.Message
	}
	var nested struct {
		Message string `json:"message"`
	}
	if len(data.Error) > 0 && json.Unmarshal(data.Error, &nested) == nil {
		return nested.Message
	}
	var plain string
	if len(data.Error) > 0 && json.Unmarshal(data.Error, &plain) == nil {
		return plain
	}
	return ""
}
