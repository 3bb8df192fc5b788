// Package spotify implements the catalog port against the Spotify Web API.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/replay/internal/core/domain"
	"github.com/ewilliams-labs/replay/internal/core/ports"
)

const (
	defaultBaseURL  = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"

	trackURIPrefix = "spotify:track:"
)

// Config holds the connection settings for the catalog client.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	// Pause is slept after every successful API call to stay clear of
	// rate limits.
	Pause  time.Duration
	Retry  RetryPolicy
	Logger *zap.Logger
}

// Client is an HTTP client for the Spotify Web API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pause      time.Duration
	retry      RetryPolicy
	logger     *zap.Logger
}

// compile-time interface assertion
var _ ports.Catalog = (*Client)(nil)

// NewClient constructs a catalog client. When client credentials are set the
// given HTTP client is wrapped with an OAuth2 client-credentials transport.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.ClientID != "" {
		tokenURL := cfg.TokenURL
		if tokenURL == "" {
			tokenURL = defaultTokenURL
		}
		creds := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		}
		authCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = creds.Client(authCtx)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pause:      cfg.Pause,
		retry:      cfg.Retry,
		logger:     logger,
	}
}

// Tracks retrieves full track objects for the given track URIs in one call.
// The result is positional; a nil entry means the catalog has no such track.
func (c *Client) Tracks(ctx context.Context, uris []string) ([]*domain.CatalogTrack, error) {
	ids, err := trackIDs(uris)
	if err != nil {
		return nil, err
	}

	var wire tracksResponse
	if err := c.get(ctx, "tracks", "/tracks?ids="+url.QueryEscape(strings.Join(ids, ",")), &wire); err != nil {
		return nil, err
	}

	out := make([]*domain.CatalogTrack, len(wire.Tracks))
	for i, tr := range wire.Tracks {
		if tr == nil {
			continue
		}
		out[i] = mapCatalogTrack(*tr)
	}
	return out, nil
}

// AudioFeatures retrieves audio features for the given track URIs in one
// call. The result is positional; a nil entry means no features exist.
func (c *Client) AudioFeatures(ctx context.Context, uris []string) ([]*domain.TrackFeatures, error) {
	ids, err := trackIDs(uris)
	if err != nil {
		return nil, err
	}

	var wire featuresResponse
	if err := c.get(ctx, "audio-features", "/audio-features?ids="+url.QueryEscape(strings.Join(ids, ",")), &wire); err != nil {
		return nil, err
	}

	out := make([]*domain.TrackFeatures, len(wire.AudioFeatures))
	for i, af := range wire.AudioFeatures {
		if af == nil {
			continue
		}
		out[i] = mapTrackFeatures(*af)
	}
	return out, nil
}

// Album retrieves one full album by ID.
func (c *Client) Album(ctx context.Context, id string) (domain.Album, error) {
	var wire apiAlbum
	if err := c.get(ctx, "albums", "/albums/"+url.PathEscape(id), &wire); err != nil {
		return domain.Album{}, err
	}
	return mapAlbum(wire)
}

// Artist retrieves one full artist by ID.
func (c *Client) Artist(ctx context.Context, id string) (domain.Artist, error) {
	var wire apiArtist
	if err := c.get(ctx, "artists", "/artists/"+url.PathEscape(id), &wire); err != nil {
		return domain.Artist{}, err
	}
	return mapArtist(wire), nil
}

// get runs one GET under the retry policy and pauses after success.
func (c *Client) get(ctx context.Context, name, path string, out any) error {
	err := c.retry.call(ctx, c.logger, name, func() error {
		return c.doGet(ctx, path, out)
	})
	if err != nil {
		return err
	}
	return sleepWithContext(ctx, c.pause)
}

func (c *Client) doGet(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify adapter: %s: status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}
	return nil
}

func trackIDs(uris []string) ([]string, error) {
	ids := make([]string, len(uris))
	for i, uri := range uris {
		id, ok := strings.CutPrefix(uri, trackURIPrefix)
		if !ok || id == "" {
			return nil, fmt.Errorf("spotify adapter: malformed track uri %q", uri)
		}
		ids[i] = id
	}
	return ids, nil
}
