// Package anki provides a client for the AnkiConnect HTTP API exposed
// by a locally running Anki with the AnkiConnect add-on. All actions
// share one JSON envelope: {action, version, params} in,
// {result, error} out.
package anki

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultURL is where AnkiConnect listens by default.
	DefaultURL = "http://127.0.0.1:8765"

	// DefaultDeck is the deck cards are filed under unless configured otherwise.
	DefaultDeck = "Exemplar::Vocabulary"

	// DefaultModel is the Anki note type used for exported cards.
	DefaultModel = "Basic"

	// apiVersion is the AnkiConnect protocol version this client speaks.
	apiVersion = 6

	requestTimeout = 15 * time.Second
)

// Client talks to the AnkiConnect HTTP API
type Client struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// Note represents one note to be added to a deck
type Note struct {
	DeckName  string
	ModelName string
	Front     string
	Back      string
	Tags      []string
}

// Error represents a non-nil error field in an AnkiConnect response
type Error struct {
	Action  string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ankiconnect %s: %s", e.Action, e.Message)
}

// request is the AnkiConnect envelope sent with every action
type request struct {
	Action  string      `json:"action"`
	Version int         `json:"version"`
	Params  interface{} `json:"params,omitempty"`
}

// response is the AnkiConnect envelope returned for every action
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// NewClient creates a new AnkiConnect client. An empty url selects
// the default local endpoint.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// Anki is frequently just not running; the breaker makes
		// repeated submissions fail fast instead of each waiting out
		// a connection timeout.
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "ankiconnect",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// invoke performs one AnkiConnect action and decodes its result into out.
// A nil out discards the result.
func (c *Client) invoke(ctx context.Context, action string, params, out interface{}) error {
	body, err := json.Marshal(request{
		Action:  action,
		Version: apiVersion,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		return fmt.Errorf("%s request failed: %w", action, err)
	}

	var envelope response
	if err := json.Unmarshal(raw.([]byte), &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	if envelope.Error != nil {
		return &Error{Action: action, Message: *envelope.Error}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", action, err)
		}
	}

	return nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Version returns the AnkiConnect API version of the running add-on
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// Healthy reports whether the bridge is reachable and speaks at least
// the API version this client expects
func (c *Client) Healthy(ctx context.Context) error {
	version, err := c.Version(ctx)
	if err != nil {
		return err
	}
	if version < apiVersion {
		return fmt.Errorf("ankiconnect version %d is older than required %d", version, apiVersion)
	}
	return nil
}

// DeckNames returns the names of all decks in the collection
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// CreateDeck creates a deck. Creating an existing deck is a no-op on
// the Anki side, so callers need not guard against races.
func (c *Client) CreateDeck(ctx context.Context, name string) error {
	params := map[string]string{"deck": name}
	return c.invoke(ctx, "createDeck", params, nil)
}

// AddNote adds a single note and returns the created note id
func (c *Client) AddNote(ctx context.Context, note Note) (int64, error) {
	params := map[string]interface{}{
		"note": map[string]interface{}{
			"deckName":  note.DeckName,
			"modelName": note.ModelName,
			"fields": map[string]string{
				"Front": note.Front,
				"Back":  note.Back,
			},
			"tags": note.Tags,
		},
	}

	var id int64
	if err := c.invoke(ctx, "addNote", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// StoreMediaFile stores a media file in the collection under filename
func (c *Client) StoreMediaFile(ctx context.Context, filename string, data []byte) error {
	params := map[string]string{
		"filename": filename,
		"data":     base64.StdEncoding.EncodeToString(data),
	}
	return c.invoke(ctx, "storeMediaFile", params, nil)
}

// ModelNames returns the names of all note types in the collection
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "modelNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// ModelFieldNames returns the field names of a note type
func (c *Client) ModelFieldNames(ctx context.Context, modelName string) ([]string, error) {
	params := map[string]string{"modelName": modelName}
	var fields []string
	if err := c.invoke(ctx, "modelFieldNames", params, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
