package geocoding

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hungryHub/domain"
)

type GeocodingConfig struct {
	BaseUrl   string
	UserAgent string
}

// GeocodingRepository resolves a street/ward/district/city tuple to
// coordinates through a Nominatim-compatible endpoint. Callers treat a
// failure here as non-fatal.
type GeocodingRepository struct {
	geocodingConfig GeocodingConfig
}

func NewGeocodingRepository(cfg GeocodingConfig) *GeocodingRepository {
	return &GeocodingRepository{
		cfg,
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (r GeocodingRepository) Geocode(street, ward, district, city string) (*domain.Coordinates, error) {
	parts := []string{}
	for _, p := range []string{street, ward, district, city} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty address")
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1",
		r.geocodingConfig.BaseUrl, url.QueryEscape(strings.Join(parts, ", ")))

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("User-Agent", r.geocodingConfig.UserAgent)

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("geocoding service return negative response %v", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no geocoding result for %q", strings.Join(parts, ", "))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in geocoding response: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in geocoding response: %w", err)
	}

	return &domain.Coordinates{Latitude: lat, Longitude: lng}, nil
}
