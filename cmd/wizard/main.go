// Command wizard walks a listing draft through the RoomRento wizard and submits it.
//
//	wizard -type room -answers room.json [-locate] [-lat 28.61 -lng 77.2]
//
// The answers file holds {"fields": {...}, "images": ["front.jpg"], "coordinates": {"lat": .., "lng": ..}}.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"roomrento-backend/internal/config"
	"roomrento-backend/internal/geo"
	"roomrento-backend/internal/images"
	"roomrento-backend/internal/submit"
	"roomrento-backend/internal/wizard"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Answers is the content of the -answers file.
type Answers struct {
	Fields      map[string]interface{} `json:"fields"`
	Images      []string               `json:"images"`
	Coordinates *geo.Coordinates       `json:"coordinates"`
}

type options struct {
	Type        string
	AnswersPath string
	Locate      bool
	Pick        *geo.Coordinates
	BaseURL     string
	Token       string
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	var opts options
	var lat, lng float64
	flag.StringVar(&opts.Type, "type", wizard.TypeRoom, "listing type: room, hotel or shop")
	flag.StringVar(&opts.AnswersPath, "answers", "", "JSON file with the wizard answers")
	flag.BoolVar(&opts.Locate, "locate", false, "use the current position for the address")
	flag.Float64Var(&lat, "lat", 0, "latitude picked on the map")
	flag.Float64Var(&lng, "lng", 0, "longitude picked on the map")
	flag.StringVar(&opts.BaseURL, "api", cfg.APIBaseURL, "API base URL")
	flag.StringVar(&opts.Token, "token", cfg.APIToken, "owner bearer token")
	flag.Parse()

	if lat != 0 || lng != 0 {
		opts.Pick = &geo.Coordinates{Lat: lat, Lng: lng}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	status, err := run(ctx, cfg, opts, newAdapter(cfg))
	if err != nil {
		var verr *wizard.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Errors.Fields() {
				log.Error().Str("field", f).Msg(verr.Errors[f])
			}
		}
		log.Fatal().Err(err).Str("status", status.Message).Msg("listing not submitted")
	}
	log.Info().Msg(status.Message)
}

func loadAnswers(path string) (*Answers, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Answers
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("answers %s: %w", path, err)
	}
	return &a, nil
}

func newAdapter(cfg *config.Config) *geo.Adapter {
	var g geo.Geocoder = &geo.NominatimGeocoder{UserAgent: cfg.NominatimUserAgent}
	if cfg.GoogleMapsAPIKey != "" {
		g = &geo.FallbackGeocoder{Primary: &geo.GoogleGeocoder{APIKey: cfg.GoogleMapsAPIKey}, Secondary: g}
	}
	return &geo.Adapter{
		Locator:  &geo.IPLocator{URL: cfg.GeolocationURL},
		Geocoder: g,
		Options:  geo.Options{HighAccuracy: true},
	}
}

// run fills the engine from the answers, walks every step and submits.
func run(ctx context.Context, cfg *config.Config, opts options, adapter *geo.Adapter) (submit.Status, error) {
	schema, ok := wizard.Lookup(opts.Type)
	if !ok {
		return submit.Status{}, fmt.Errorf("unknown listing type %q", opts.Type)
	}
	if opts.AnswersPath == "" {
		return submit.Status{}, errors.New("-answers is required")
	}
	answers, err := loadAnswers(opts.AnswersPath)
	if err != nil {
		return submit.Status{}, err
	}

	e := wizard.NewEngine(schema)
	for k, v := range answers.Fields {
		e.UpdateField(k, v)
	}
	dir := filepath.Dir(opts.AnswersPath)
	for _, p := range answers.Images {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		img, err := images.LoadFile(p)
		if err != nil {
			return submit.Status{}, err
		}
		if err := e.AddImage(img); err != nil {
			return submit.Status{}, fmt.Errorf("%s: %w", p, err)
		}
	}

	pick := opts.Pick
	if pick == nil {
		pick = answers.Coordinates
	}
	switch {
	case pick != nil:
		if err := pickOnMap(ctx, cfg, e, adapter, *pick); err != nil {
			return submit.Status{}, err
		}
	case opts.Locate:
		res, err := e.Locate(ctx, adapter)
		if err != nil {
			log.Warn().Str("code", geo.CodeOf(err).String()).Msg("position unavailable, keeping typed address")
		} else if res.Fallback {
			log.Warn().Msg("address lookup failed, using coordinates as location")
		}
	}

	for e.CurrentStep() < schema.TotalSteps() {
		step := e.CurrentStep()
		if !e.GoNext() {
			return submit.Status{}, &wizard.ValidationError{Errors: e.Errors()}
		}
		log.Info().Int("step", step).Str("label", schema.Steps[step-1].Label).Msg("step complete")
	}

	navigated := make(chan string, 1)
	s := &submit.Submitter{
		BaseURL:       opts.BaseURL,
		Token:         opts.Token,
		Navigator:     submit.NavigatorFunc(func(path string) { navigated <- path }),
		RedirectDelay: submit.DefaultRedirectDelay,
	}
	status, err := s.Submit(ctx, e)
	if err != nil {
		return status, err
	}
	select {
	case path := <-navigated:
		log.Info().Str("path", path).Msg("redirect")
	case <-time.After(submit.DefaultRedirectDelay + time.Second):
	}
	return status, nil
}

// pickOnMap centers a picker on c, picks c and resolves its address.
func pickOnMap(ctx context.Context, cfg *config.Config, e *wizard.Engine, a *geo.Adapter, c geo.Coordinates) error {
	picker := &geo.Picker{Loader: &geo.Loader{Load: geo.ScriptLoader(nil, cfg.MapsScriptURL)}}
	h, err := picker.Initialize(ctx, c)
	if err != nil {
		return err
	}
	defer picker.Dispose(h)

	if err := picker.OnLocationPicked(h, func(picked geo.Coordinates) {
		if res := e.ResolveAddress(ctx, a, picked); res.Fallback {
			log.Warn().Msg("address lookup failed, using coordinates as location")
		}
	}); err != nil {
		return err
	}
	return picker.Pick(h, c)
}
