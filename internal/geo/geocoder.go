package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Address is a reverse-geocoded location. Components the service did not
// return are left blank.
type Address struct {
	Formatted  string `json:"formatted"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Geocoder abstraction for address lookup.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (*Address, error)
}

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleGeocoder implements Geocoder using the Google Geocoding API.
type GoogleGeocoder struct {
	APIKey  string
	BaseURL string // defaults to the public endpoint
	Client  *http.Client
}

func (g *GoogleGeocoder) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	if g.APIKey == "" {
		return nil, errors.New("google maps api key missing")
	}
	base := g.BaseURL
	if base == "" {
		base = googleGeocodeURL
	}
	q := url.Values{}
	q.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client(g.Client).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google geocode error (%d): %s", resp.StatusCode, string(body))
	}

	var data struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress  string `json:"formatted_address"`
			AddressComponents []struct {
				LongName string   `json:"long_name"`
				Types    []string `json:"types"`
			} `json:"address_components"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Status != "OK" {
		return nil, fmt.Errorf("google geocode status: %s", data.Status)
	}
	if len(data.Results) == 0 {
		return nil, nil
	}

	res := data.Results[0]
	addr := &Address{Formatted: res.FormattedAddress}
	for _, comp := range res.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "postal_code":
				addr.PostalCode = comp.LongName
			case "locality":
				addr.City = comp.LongName
			case "administrative_area_level_1":
				addr.State = comp.LongName
			}
		}
	}
	return addr, nil
}

const nominatimURL = "https://nominatim.openstreetmap.org/reverse"

// NominatimGeocoder implements Geocoder using OSM Nominatim.
// CAUTION: Requires User-Agent and has strict rate limits (1 req/sec)
type NominatimGeocoder struct {
	UserAgent string
	BaseURL   string
	Client    *http.Client
	mu        sync.Mutex
	lastCall  time.Time
}

func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	g.mu.Lock()
	elapsed := time.Since(g.lastCall)
	if elapsed < time.Second {
		select {
		case <-time.After(time.Second - elapsed):
		case <-ctx.Done():
			g.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	g.lastCall = time.Now()
	g.mu.Unlock()

	base := g.BaseURL
	if base == "" {
		base = nominatimURL
	}
	u := fmt.Sprintf("%s?format=jsonv2&lat=%f&lon=%f&addressdetails=1", base, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := client(g.Client).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim error: %d", resp.StatusCode)
	}

	var data struct {
		DisplayName string `json:"display_name"`
		Address     struct {
			City     string `json:"city"`
			Town     string `json:"town"`
			Village  string `json:"village"`
			State    string `json:"state"`
			Postcode string `json:"postcode"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}

	city := data.Address.City
	if city == "" {
		city = data.Address.Town
	}
	if city == "" {
		city = data.Address.Village
	}
	if data.DisplayName == "" && city == "" {
		return nil, nil
	}
	return &Address{
		Formatted:  strings.TrimSpace(data.DisplayName),
		City:       city,
		State:      data.Address.State,
		PostalCode: data.Address.Postcode,
	}, nil
}

// FallbackGeocoder prioritizes first, falls back to second
type FallbackGeocoder struct {
	Primary   Geocoder
	Secondary Geocoder
}

func (g *FallbackGeocoder) Reverse(ctx context.Context, lat, lng float64) (*Address, error) {
	res, err := g.Primary.Reverse(ctx, lat, lng)
	if err != nil || res == nil {
		return g.Secondary.Reverse(ctx, lat, lng)
	}
	return res, nil
}

func client(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
