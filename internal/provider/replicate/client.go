package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"headshots/internal/domain"
)

// ErrMissingToken indicates that the client was configured without credentials.
var ErrMissingToken = errors.New("replicate: api token is required")

// Options configures the Replicate client.
type Options struct {
	APIToken       string
	BaseURL        string
	WebhookURL     string
	TrainerVersion string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Replicate predictions API. Every
// prediction it creates carries the webhook callback URL, so results come
// back through the reconciler rather than by polling.
type Client struct {
	apiToken       string
	baseURL        string
	webhookURL     string
	trainerVersion string
	httpClient     *http.Client
	logger         *zerolog.Logger
}

// Prediction is the subset of the provider's response this service cares
// about.
type Prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type predictionRequest struct {
	Version             string         `json:"version"`
	Input               map[string]any `json:"input"`
	Webhook             string         `json:"webhook,omitempty"`
	WebhookEventsFilter []string       `json:"webhook_events_filter,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	var logger *zerolog.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Client{
		apiToken:       strings.TrimSpace(opts.APIToken),
		baseURL:        baseURL,
		webhookURL:     strings.TrimSpace(opts.WebhookURL),
		trainerVersion: strings.TrimSpace(opts.TrainerVersion),
		httpClient:     httpClient,
		logger:         logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiToken != ""
}

// StartTraining submits a subject-model training prediction for the uploaded
// selfies and returns the provider-assigned identifier.
func (c *Client) StartTraining(ctx context.Context, inputImagesURL string) (string, error) {
	if strings.TrimSpace(inputImagesURL) == "" {
		return "", errors.New("replicate: input images url is required")
	}
	pred, err := c.createPrediction(ctx, predictionRequest{
		Version: c.trainerVersion,
		Input: map[string]any{
			"input_images": inputImagesURL,
		},
		Webhook:             c.webhookURL,
		WebhookEventsFilter: []string{"completed"},
	})
	if err != nil {
		return "", err
	}
	c.logger.Info().Str("prediction_id", pred.ID).Msg("replicate: training submitted")
	return pred.ID, nil
}

// StartGeneration submits one generation prediction producing count images of
// the given style from the trained model.
func (c *Client) StartGeneration(ctx context.Context, modelRef string, style domain.Style, count int) (string, error) {
	if strings.TrimSpace(modelRef) == "" {
		return "", errors.New("replicate: model ref is required")
	}
	if count <= 0 {
		return "", errors.New("replicate: count must be positive")
	}
	pred, err := c.createPrediction(ctx, predictionRequest{
		Version: modelRef,
		Input: map[string]any{
			"prompt":      stylePrompt(style),
			"num_outputs": count,
		},
		Webhook:             c.webhookURL,
		WebhookEventsFilter: []string{"completed"},
	})
	if err != nil {
		return "", err
	}
	c.logger.Info().
		Str("prediction_id", pred.ID).
		Str("style", string(style)).
		Int("count", count).
		Msg("replicate: generation submitted")
	return pred.ID, nil
}

func (c *Client) createPrediction(ctx context.Context, payload predictionRequest) (*Prediction, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingToken
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Detail != "" {
			return nil, fmt.Errorf("replicate: %s: %w", apiErr.Detail, domain.ErrProviderFailure)
		}
		return nil, fmt.Errorf("replicate: unexpected status %d: %w", resp.StatusCode, domain.ErrProviderFailure)
	}
	var pred Prediction
	if err := json.Unmarshal(data, &pred); err != nil {
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	if pred.ID == "" {
		return nil, fmt.Errorf("replicate: response missing prediction id: %w", domain.ErrProviderFailure)
	}
	return &pred, nil
}

// stylePrompt maps a style tag to the generation prompt for the trained
// subject token.
func stylePrompt(style domain.Style) string {
	base := "professional headshot photo of TOK person, sharp focus, studio lighting"
	switch style {
	case domain.StyleBusinessFormal:
		return base + ", dark suit, neutral office background"
	case domain.StyleBusinessCasual:
		return base + ", open collar shirt, soft bokeh office background"
	case domain.StyleCreative:
		return base + ", colorful backdrop, relaxed pose"
	case domain.StyleOutdoor:
		return base + ", golden hour, city park background"
	case domain.StyleStudioGray:
		return base + ", seamless gray backdrop"
	case domain.StyleLinkedIn:
		return base + ", business attire, plain light background, centered"
	case domain.StyleStartup:
		return base + ", t-shirt, modern loft office background"
	case domain.StyleAcademic:
		return base + ", blazer, bookshelf background"
	case domain.StyleEditorial:
		return base + ", dramatic side lighting, magazine style"
	case domain.StyleBlackWhite:
		return base + ", black and white, high contrast"
	}
	return base
}
