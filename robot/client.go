package robot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the tunables for a device client. Zero durations fall back to
// the documented defaults.
type Config struct {
	BaseURL    string
	AuthSecret string
	Timeout    time.Duration

	MovePollInterval time.Duration
	MoveTimeout      time.Duration
	AlignTimeout     time.Duration
	JackTimeout      time.Duration
	JackSettleDelay  time.Duration
	ChargeVerifyWait time.Duration
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MovePollInterval == 0 {
		c.MovePollInterval = 1 * time.Second
	}
	if c.MoveTimeout == 0 {
		c.MoveTimeout = 180 * time.Second
	}
	if c.AlignTimeout == 0 {
		c.AlignTimeout = 120 * time.Second
	}
	if c.JackTimeout == 0 {
		c.JackTimeout = 20 * time.Second
	}
	if c.JackSettleDelay == 0 {
		c.JackSettleDelay = 3 * time.Second
	}
	if c.ChargeVerifyWait == 0 {
		c.ChargeVerifyWait = 3 * time.Minute
	}
}

// Client talks to the robot's device REST API. Every request carries the
// static shared secret header; poll loops block the caller until the device
// reports a terminal state or the bounded window elapses.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Reconfigure updates the client's base URL, secret and timeout for hot-reload.
func (c *Client) Reconfigure(cfg Config) {
	cfg.applyDefaults()
	c.cfg = cfg
	c.httpClient.Timeout = cfg.Timeout
}

func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest(http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("robot GET %s: %w", path, err)
	}
	return c.do(req, path, result)
}

func (c *Client) post(path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("robot marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(http.MethodPost, c.cfg.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("robot POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, result)
}

func (c *Client) do(req *http.Request, path string, result any) error {
	req.Header.Set("X-Auth-Token", c.cfg.AuthSecret)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure: refused, DNS, timeout. The mission queue treats
		// these as retryable, never as a device failure.
		return &OfflineError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &OfflineError{Op: path, Err: err}
	}
	if resp.StatusCode >= 400 {
		return &DeviceError{Op: path, Code: resp.StatusCode, Detail: string(data)}
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("robot decode %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) getRaw(path string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("robot GET %s: %w", path, err)
	}
	req.Header.Set("X-Auth-Token", c.cfg.AuthSecret)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &OfflineError{Op: path, Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &OfflineError{Op: path, Err: err}
	}
	if resp.StatusCode >= 400 {
		return nil, &DeviceError{Op: path, Code: resp.StatusCode, Detail: string(data)}
	}
	return data, nil
}

// GetMapOverlays downloads the raw overlay feature collection for a map.
func (c *Client) GetMapOverlays(mapID string) ([]byte, error) {
	return c.getRaw("/api/v1/maps/" + mapID + "/overlays")
}

// checkResponse validates the device response envelope code.
func checkResponse(op string, r *Response) error {
	if r.Code != 0 {
		return &DeviceError{Op: op, Code: r.Code, Detail: r.Msg}
	}
	return nil
}

// Ping checks device connectivity.
func (c *Client) Ping() error {
	var resp PoseResponse
	if err := c.get("/api/v1/state/pose", &resp); err != nil {
		return err
	}
	return checkResponse("ping", &resp.Response)
}
