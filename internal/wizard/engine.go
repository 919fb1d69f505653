package wizard

import (
	"context"
	"strings"
	"sync"

	"roomrento-backend/internal/geo"
	"roomrento-backend/internal/images"
)

// Draft is the in-progress state of a listing being composed.
type Draft struct {
	Fields      map[string]interface{}
	Coordinates *geo.Coordinates
	Images      *images.Selection
	Errors      Errors
	CurrentStep int
}

// NewDraft returns an empty draft on step 1.
func NewDraft(s *Schema) Draft {
	return Draft{
		Fields:      map[string]interface{}{},
		Images:      images.NewSelection(s.ImageLimit),
		Errors:      Errors{},
		CurrentStep: 1,
	}
}

func (d Draft) clone() Draft {
	out := Draft{
		Fields:      make(map[string]interface{}, len(d.Fields)),
		Images:      d.Images.Clone(),
		Errors:      make(Errors, len(d.Errors)),
		CurrentStep: d.CurrentStep,
	}
	for k, v := range d.Fields {
		out.Fields[k] = v
	}
	for k, v := range d.Errors {
		out.Errors[k] = v
	}
	if d.Coordinates != nil {
		c := *d.Coordinates
		out.Coordinates = &c
	}
	return out
}

// Engine drives one draft through the steps of its schema. Forward moves
// only happen through a validated GoNext; backward moves are free.
//
// Errors of earlier steps are recomputed only when GoNext runs on that step
// again, so stale messages can survive back-and-forth navigation.
type Engine struct {
	schema *Schema

	mu sync.Mutex
	d  Draft
}

// NewEngine returns an engine holding an empty draft.
func NewEngine(s *Schema) *Engine {
	return &Engine{schema: s, d: NewDraft(s)}
}

// Schema returns the listing schema.
func (e *Engine) Schema() *Schema { return e.schema }

// CurrentStep returns the 1-based step index.
func (e *Engine) CurrentStep() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.d.CurrentStep
}

// Errors returns a copy of the stored errors.
func (e *Engine) Errors() Errors {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(Errors, len(e.d.Errors))
	for k, v := range e.d.Errors {
		out[k] = v
	}
	return out
}

// Field returns one field value.
func (e *Engine) Field(name string) (interface{}, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.d.Fields[name]
	return v, ok
}

// Snapshot returns an independent copy of the draft.
func (e *Engine) Snapshot() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.d.clone()
}

// ValidateStep runs the validator of step n against the current draft.
func (e *Engine) ValidateStep(n int) Errors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateLocked(n)
}

func (e *Engine) validateLocked(n int) Errors {
	st, ok := e.schema.step(n)
	if !ok {
		return Errors{}
	}
	return st.Validate(&e.d)
}

// GoNext validates the current step. When valid it advances (clamped to the
// last step) and clears the errors; otherwise the step is unchanged and the
// validator output is stored. It reports whether the draft was valid.
func (e *Engine) GoNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := e.validateLocked(e.d.CurrentStep)
	e.d.Errors = errs
	if len(errs) > 0 {
		return false
	}
	if e.d.CurrentStep < e.schema.TotalSteps() {
		e.d.CurrentStep++
	}
	return true
}

// GoPrev moves one step back without validating.
func (e *Engine) GoPrev() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.d.CurrentStep > 1 {
		e.d.CurrentStep--
	}
}

// UpdateField sets one field and clears that field's error, if any.
func (e *Engine) UpdateField(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.d.Fields[name] = value
	delete(e.d.Errors, name)
}

// SetCoordinates records the listing position.
func (e *Engine) SetCoordinates(c geo.Coordinates) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.d.Coordinates = &c
	delete(e.d.Errors, FieldCoordinates)
}

// AddImage appends an image to the selection.
func (e *Engine) AddImage(img images.Image) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.d.Images.Add(img); err != nil {
		return err
	}
	delete(e.d.Errors, FieldImages)
	return nil
}

// RemoveImage drops the image at i.
func (e *Engine) RemoveImage(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.d.Images.Remove(i)
}

// MakePrimary moves the image at i to the front.
func (e *Engine) MakePrimary(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.d.Images.MakePrimary(i)
}

// Previews renders the selected images.
func (e *Engine) Previews() []images.Preview {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.d.Images.Previews()
}

// CanSubmit reports nil when the final step validates, at least one image is
// selected and, for schemas that need them, coordinates are set.
func (e *Engine) CanSubmit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	errs := e.validateLocked(e.schema.TotalSteps())
	if e.d.Images.Len() == 0 {
		errs[FieldImages] = msgImages
	}
	if e.schema.RequireCoordinates && e.d.Coordinates == nil {
		errs[FieldCoordinates] = msgCoordinates
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// ApplyAddress merges geocoded components using the schema merge policy.
func (e *Engine) ApplyAddress(addr geo.Address) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mergeLocked(FieldLocation, addr.Formatted)
	e.mergeLocked(FieldCity, addr.City)
	e.mergeLocked(FieldState, addr.State)
	e.mergeLocked(FieldPostalCode, addr.PostalCode)
}

func (e *Engine) mergeLocked(name, value string) {
	if value == "" {
		return
	}
	if e.schema.MergePolicy == geo.PreserveExisting && !isBlank(e.d.Fields[name]) {
		return
	}
	e.d.Fields[name] = value
	delete(e.d.Errors, name)
}

// LocateResult describes what Locate or ResolveAddress filled in.
type LocateResult struct {
	Position geo.Position
	Address  *geo.Address
	Fallback bool
}

// Locate asks the device for its position, then resolves the address. A
// position failure is returned as *geo.PositionError and leaves the draft
// untouched so the user can type the address.
func (e *Engine) Locate(ctx context.Context, a *geo.Adapter) (LocateResult, error) {
	pos, err := a.RequestCurrentPosition(ctx)
	if err != nil {
		return LocateResult{}, err
	}
	res := e.ResolveAddress(ctx, a, pos.Coordinates)
	res.Position = pos
	return res, nil
}

// ResolveAddress sets the coordinates and reverse geocodes them. When no
// address comes back the location field falls back to the coordinate string.
func (e *Engine) ResolveAddress(ctx context.Context, a *geo.Adapter, c geo.Coordinates) LocateResult {
	e.SetCoordinates(c)
	res := LocateResult{Position: geo.Position{Coordinates: c}}
	if addr, ok := a.ReverseGeocode(ctx, c.Lat, c.Lng); ok {
		e.ApplyAddress(*addr)
		res.Address = addr
		return res
	}
	e.mu.Lock()
	e.mergeLocked(FieldLocation, geo.FallbackLocation(c.Lat, c.Lng))
	e.mu.Unlock()
	res.Fallback = true
	return res
}

const msgCoordinates = "Please select the location on the map"

// ValidationError carries the field errors that block a submission.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors.Fields(), ", ")
}

// ValidateDraft runs every step against d plus the coordinate requirement.
// Server-side counterpart of walking the whole wizard.
func ValidateDraft(s *Schema, d *Draft) Errors {
	errs := Errors{}
	for _, st := range s.Steps {
		for k, v := range st.Validate(d) {
			if _, exists := errs[k]; !exists {
				errs[k] = v
			}
		}
	}
	if s.RequireCoordinates && d.Coordinates == nil {
		errs[FieldCoordinates] = msgCoordinates
	}
	return errs
}
