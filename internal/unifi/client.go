package unifi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/club-access-service/internal/config"
	"github.com/spec-kit/club-access-service/internal/domain"
	"github.com/spec-kit/club-access-service/internal/observability"
)

var (
	// ErrUnavailable marks transport failures, unexpected statuses and
	// unparseable payloads. Callers degrade instead of failing the request.
	ErrUnavailable = errors.New("unifi: directory unavailable")
	// ErrNotFound is returned when the directory does not know the resource.
	ErrNotFound = errors.New("unifi: not found")
)

const (
	pathDevices     = "/devices"
	pathDevice      = "/devices/{id}"
	pathUsers       = "/users"
	pathCardSession = "/credentials/nfc_cards/sessions"
	pathCardSessID  = "/credentials/nfc_cards/sessions/{id}"
)

// Client talks to the UniFi Access developer API.
type Client struct {
	http         *resty.Client
	logger       *zap.Logger
	metrics      *observability.Metrics
	readTimeout  time.Duration
	pollInterval time.Duration
}

// NewClient builds a client from cfg. TLS verification follows
// cfg.InsecureTLS; every request is bounded by cfg.RequestTimeout().
func NewClient(cfg config.UnifiConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL()).
		SetAuthToken(cfg.Token).
		SetTimeout(cfg.RequestTimeout()).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: cfg.InsecureTLS}). //nolint:gosec
		SetHeader("Accept", "application/json")

	return &Client{
		http:         httpClient,
		logger:       logger.Named("unifi"),
		metrics:      metrics,
		readTimeout:  cfg.ReadTimeout(),
		pollInterval: cfg.PollInterval(),
	}
}

// ListDevices returns every device the directory knows, flattened into one
// list. On failure it returns an empty list and an error wrapping
// ErrUnavailable.
func (c *Client) ListDevices(ctx context.Context) ([]domain.Device, error) {
	env, err := c.getEnvelope(ctx, "list_devices", pathDevices)
	if err != nil {
		return []domain.Device{}, err
	}

	devices, err := flattenDevices(env.Data)
	if err != nil {
		c.logger.Warn("unexpected device payload", zap.Error(err))
		return []domain.Device{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return devices, nil
}

// GetDevice returns the raw directory record of one device.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (map[string]any, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", deviceID).
		Get(pathDevice)
	if err != nil {
		c.transportFailure("get_device", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.metrics.RecordDirectoryCall("get_device", true)
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: device %s (status %d)", ErrNotFound, deviceID, resp.StatusCode())
	}

	var device map[string]any
	if err := json.Unmarshal(resp.Body(), &device); err != nil {
		return nil, fmt.Errorf("%w: decode device: %v", ErrUnavailable, err)
	}
	return device, nil
}

// FindUserByCardToken resolves an NFC card token to the directory user that
// owns the card. It returns nil, nil when no user holds the token.
func (c *Client) FindUserByCardToken(ctx context.Context, token string) (*domain.DirectoryUser, error) {
	env, err := c.getEnvelope(ctx, "list_users", pathUsers)
	if err != nil {
		return nil, err
	}

	var users []userPayload
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &users); err != nil {
			c.logger.Warn("unexpected user payload", zap.Error(err))
			return nil, fmt.Errorf("%w: decode users: %v", ErrUnavailable, err)
		}
	}
	return matchCardToken(users, token), nil
}

// StartCardSession opens an NFC enrollment session on the reader and
// returns its id.
func (c *Client) StartCardSession(ctx context.Context, deviceID string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"device_id": deviceID, "reset_ua_card": false}).
		Post(pathCardSession)
	if err != nil {
		c.transportFailure("start_card_session", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		c.logger.Warn("card session rejected", zap.String("device_id", deviceID), zap.Error(err))
		c.metrics.RecordDirectoryCall("start_card_session", false)
		return "", err
	}
	c.metrics.RecordDirectoryCall("start_card_session", true)

	var session sessionPayload
	if err := json.Unmarshal(env.Data, &session); err != nil || session.SessionID == "" {
		return "", fmt.Errorf("%w: card session without id", ErrUnavailable)
	}
	return session.SessionID, nil
}

// WaitForCardToken polls the enrollment session until a card is presented
// or the read timeout elapses. An empty token means no card was read.
func (c *Client) WaitForCardToken(ctx context.Context, sessionID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		token, err := c.pollCardSession(ctx, sessionID)
		if err != nil {
			c.logger.Debug("poll card session", zap.String("session_id", sessionID), zap.Error(err))
		}
		if token != "" {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", nil
		case <-ticker.C:
		}
	}
}

func (c *Client) pollCardSession(ctx context.Context, sessionID string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", sessionID).
		Get(pathCardSessID)
	if err != nil {
		return "", err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return "", err
	}
	var read cardReadPayload
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &read); err != nil {
			return "", err
		}
	}
	return read.Token, nil
}

// DeleteCardSession closes an enrollment session. Any failure, transport
// or status, is returned as an error.
func (c *Client) DeleteCardSession(ctx context.Context, sessionID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", sessionID).
		Delete(pathCardSessID)
	if err != nil {
		c.transportFailure("delete_card_session", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() != http.StatusOK {
		c.metrics.RecordDirectoryCall("delete_card_session", false)
		return fmt.Errorf("unifi: delete card session %s: status %d", sessionID, resp.StatusCode())
	}
	c.metrics.RecordDirectoryCall("delete_card_session", true)
	return nil
}

func (c *Client) getEnvelope(ctx context.Context, operation, path string) (envelope, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		c.transportFailure(operation, err)
		return envelope{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		c.logger.Warn("directory call failed", zap.String("operation", operation), zap.Error(err))
		c.metrics.RecordDirectoryCall(operation, false)
		return envelope{}, err
	}
	c.metrics.RecordDirectoryCall(operation, true)
	return env, nil
}

func (c *Client) transportFailure(operation string, err error) {
	c.logger.Warn("directory unreachable", zap.String("operation", operation), zap.Error(err))
	c.metrics.RecordDirectoryCall(operation, false)
}

func decodeEnvelope(resp *resty.Response) (envelope, error) {
	if resp.StatusCode() != http.StatusOK {
		return envelope{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return envelope{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if !env.ok() {
		return envelope{}, fmt.Errorf("%w: code %s: %s", ErrUnavailable, env.Code, env.Msg)
	}
	return env, nil
}
