package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

var (
	ErrUnknownHandle      = errors.New("map picker: unknown handle")
	ErrInvalidCoordinates = errors.New("map picker: coordinates out of range")
)

// LoadFunc loads the external mapping library once.
type LoadFunc func(ctx context.Context) error

type loadState int

const (
	stateIdle loadState = iota
	stateLoading
	stateLoaded
)

type loadAttempt struct {
	done chan struct{}
	err  error
}

// Loader guards the mapping library load with a single idle/loading/loaded
// state. Concurrent callers wait for the in-flight attempt.
type Loader struct {
	Load LoadFunc

	mu      sync.Mutex
	state   loadState
	attempt *loadAttempt
}

// DefaultLoader is the process-wide loader shared by every picker.
var DefaultLoader = &Loader{}

// Ensure loads the library unless it is already loaded.
func (l *Loader) Ensure(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case stateLoaded:
		l.mu.Unlock()
		return nil
	case stateLoading:
		a := l.attempt
		l.mu.Unlock()
		select {
		case <-a.done:
			return a.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	a := &loadAttempt{done: make(chan struct{})}
	l.attempt = a
	l.state = stateLoading
	load := l.Load
	l.mu.Unlock()

	var err error
	if load != nil {
		err = load(ctx)
	}

	l.mu.Lock()
	if err != nil {
		l.state = stateIdle
	} else {
		l.state = stateLoaded
	}
	a.err = err
	close(a.done)
	l.mu.Unlock()
	return err
}

// Reload forgets a previous load and loads again. An in-flight load is awaited instead.
func (l *Loader) Reload(ctx context.Context) error {
	l.mu.Lock()
	if l.state == stateLoaded {
		l.state = stateIdle
	}
	l.mu.Unlock()
	return l.Ensure(ctx)
}

// Loaded reports whether the library is ready.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == stateLoaded
}

// ScriptLoader fetches the maps script URL and treats a 2xx as loaded.
func ScriptLoader(c *http.Client, scriptURL string) LoadFunc {
	return func(ctx context.Context) error {
		if scriptURL == "" {
			return nil
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, scriptURL, nil)
		if err != nil {
			return err
		}
		resp, err := client(c).Do(req)
		if err != nil {
			return fmt.Errorf("maps script: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("maps script: status %d", resp.StatusCode)
		}
		return nil
	}
}

// Handle identifies one initialized map.
type Handle int

type pickerMap struct {
	center    Coordinates
	picked    *Coordinates
	callbacks []func(Coordinates)
}

// Picker is the single map-picker adapter: initialize around a center, listen
// for picked locations, dispose.
type Picker struct {
	Loader *Loader

	mu   sync.Mutex
	next Handle
	maps map[Handle]*pickerMap
}

func (p *Picker) loader() *Loader {
	if p.Loader != nil {
		return p.Loader
	}
	return DefaultLoader
}

// Initialize loads the mapping library if needed and creates a map centered on center.
func (p *Picker) Initialize(ctx context.Context, center Coordinates) (Handle, error) {
	if !center.Valid() {
		return 0, ErrInvalidCoordinates
	}
	if err := p.loader().Ensure(ctx); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maps == nil {
		p.maps = make(map[Handle]*pickerMap)
	}
	p.next++
	p.maps[p.next] = &pickerMap{center: center}
	return p.next, nil
}

// OnLocationPicked registers a callback for picks on the map.
func (p *Picker) OnLocationPicked(h Handle, cb func(Coordinates)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.maps[h]
	if !ok {
		return ErrUnknownHandle
	}
	m.callbacks = append(m.callbacks, cb)
	return nil
}

// Pick records a location chosen on the map and notifies callbacks.
func (p *Picker) Pick(h Handle, c Coordinates) error {
	if !c.Valid() {
		return ErrInvalidCoordinates
	}
	p.mu.Lock()
	m, ok := p.maps[h]
	if !ok {
		p.mu.Unlock()
		return ErrUnknownHandle
	}
	picked := c
	m.picked = &picked
	cbs := append([]func(Coordinates){}, m.callbacks...)
	p.mu.Unlock()

	for _, cb := range cbs {
		cb(c)
	}
	return nil
}

// Center returns the map center, or the last picked location.
func (p *Picker) Center(h Handle) (Coordinates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.maps[h]
	if !ok {
		return Coordinates{}, ErrUnknownHandle
	}
	if m.picked != nil {
		return *m.picked, nil
	}
	return m.center, nil
}

// Dispose releases a map. Unknown handles are ignored.
func (p *Picker) Dispose(h Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.maps, h)
}
