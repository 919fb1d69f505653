package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultGeocodeTimeout bounds a reverse geocode call.
const DefaultGeocodeTimeout = 10 * time.Second

// MergePolicy decides whether geocoded values replace fields the user already filled.
type MergePolicy int

const (
	// PreserveExisting only fills fields that are still empty.
	PreserveExisting MergePolicy = iota
	// Overwrite replaces whatever is there (last write wins).
	Overwrite
)

// Adapter wraps the device locator and the reverse geocoder. Every failure
// degrades to manual address entry; nothing here blocks the wizard.
type Adapter struct {
	Locator        Locator
	Geocoder       Geocoder
	Options        Options
	GeocodeTimeout time.Duration
}

// RequestCurrentPosition asks the locator for the device position. Failures
// are always *PositionError.
func (a *Adapter) RequestCurrentPosition(ctx context.Context) (Position, error) {
	if a.Locator == nil {
		return Position{}, &PositionError{Code: PositionUnavailable, Err: errors.New("no locator")}
	}
	opts := a.Options
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPositionTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	pos, err := a.Locator.CurrentPosition(ctx, opts)
	if err == nil {
		return pos, nil
	}
	var pe *PositionError
	switch {
	case errors.As(err, &pe):
		return Position{}, pe
	case errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded:
		return Position{}, &PositionError{Code: Timeout, Err: err}
	default:
		return Position{}, &PositionError{Code: Unknown, Err: err}
	}
}

// ReverseGeocode resolves coordinates to an address. It reports false on any
// failure instead of returning an error.
func (a *Adapter) ReverseGeocode(ctx context.Context, lat, lng float64) (*Address, bool) {
	if a.Geocoder == nil {
		return nil, false
	}
	timeout := a.GeocodeTimeout
	if timeout <= 0 {
		timeout = DefaultGeocodeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr, err := a.safeReverse(ctx, lat, lng)
	if err != nil {
		log.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("geo: reverse geocode failed")
		return nil, false
	}
	if addr == nil {
		return nil, false
	}
	return addr, true
}

func (a *Adapter) safeReverse(ctx context.Context, lat, lng float64) (addr *Address, err error) {
	defer func() {
		if r := recover(); r != nil {
			addr, err = nil, fmt.Errorf("geocoder panic: %v", r)
		}
	}()
	return a.Geocoder.Reverse(ctx, lat, lng)
}

// FallbackLocation is the placeholder written to the location field when no
// address could be resolved.
func FallbackLocation(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}
