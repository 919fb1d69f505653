package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultPositionTimeout bounds a device position request when Options.Timeout is unset.
const DefaultPositionTimeout = 15 * time.Second

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the pair is inside the WGS84 range.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Position is what the host platform reports for the device.
type Position struct {
	Coordinates
	Accuracy float64 `json:"accuracy"` // metres
}

// ErrorCode mirrors the browser geolocation error codes.
type ErrorCode int

const (
	Unknown ErrorCode = iota
	PermissionDenied
	PositionUnavailable
	Timeout
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "permission denied"
	case PositionUnavailable:
		return "position unavailable"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// PositionError is the typed failure of a position request.
type PositionError struct {
	Code ErrorCode
	Err  error
}

func (e *PositionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation: %s: %v", e.Code, e.Err)
	}
	return "geolocation: " + e.Code.String()
}

func (e *PositionError) Unwrap() error { return e.Err }

// CodeOf returns the ErrorCode carried by err, or Unknown.
func CodeOf(err error) ErrorCode {
	var pe *PositionError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return Unknown
}

// Options for a position request.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
}

// Locator asks the host platform for the device position.
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}

// FixedLocator reports a position supplied by the host (CLI flags, tests).
// A nil Position means the platform has nothing to report.
type FixedLocator struct {
	Position *Position
	Denied   bool
}

func (l *FixedLocator) CurrentPosition(ctx context.Context, _ Options) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	if l.Denied {
		return Position{}, &PositionError{Code: PermissionDenied}
	}
	if l.Position == nil {
		return Position{}, &PositionError{Code: PositionUnavailable}
	}
	return *l.Position, nil
}

// IPLocator resolves the position from an IP geolocation endpoint returning
// {"lat": .., "lon": .., "accuracy": ..}.
type IPLocator struct {
	URL    string
	Client *http.Client
}

func (l *IPLocator) CurrentPosition(ctx context.Context, _ Options) (Position, error) {
	if l.URL == "" {
		return Position{}, &PositionError{Code: PositionUnavailable, Err: errors.New("geolocation URL not configured")}
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Position{}, &PositionError{Code: Unknown, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Position{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return Position{}, &PositionError{Code: PermissionDenied}
	case resp.StatusCode != http.StatusOK:
		return Position{}, &PositionError{Code: PositionUnavailable, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var data struct {
		Lat      *float64 `json:"lat"`
		Lon      *float64 `json:"lon"`
		Accuracy float64  `json:"accuracy"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Position{}, &PositionError{Code: PositionUnavailable, Err: err}
	}
	if data.Lat == nil || data.Lon == nil {
		return Position{}, &PositionError{Code: PositionUnavailable}
	}
	return Position{Coordinates: Coordinates{Lat: *data.Lat, Lng: *data.Lon}, Accuracy: data.Accuracy}, nil
}
