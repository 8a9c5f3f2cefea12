// Package bookingapi talks to the consultation booking backend over its
// HTTP contract: booked-slot lookup and booking submission.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/julianstephens/consultbook/internal/constants"
)

// BookingRequest is the payload of POST /api/send-booking
type BookingRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// BookingResponse is the body returned by a successful submission
type BookingResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
}

// BookedSlots holds the reserved times for one date
type BookedSlots struct {
	Date  string
	Times []string
}

type bookedSlotsBody struct {
	BookedTimes []string `json:"booked_times"`
}

// StatusError is returned when the backend answers with a non-200 status
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client is a booking backend client
type Client struct {
	baseURL       string
	httpClient    *http.Client
	fetchTimeout  time.Duration
	submitTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithFetchTimeout bounds each booked-slots lookup
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.fetchTimeout = d
	}
}

// WithSubmitTimeout bounds each booking submission
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.submitTimeout = d
	}
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		fetchTimeout:  constants.DefaultFetchTimeout,
		submitTimeout: constants.DefaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchBookedSlots returns the times already reserved on date.
// Any failure is returned as an error; callers decide whether to fail open.
func (c *Client) FetchBookedSlots(ctx context.Context, date string) (BookedSlots, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	endpoint := c.baseURL + constants.BookedSlotsPath + url.PathEscape(date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return BookedSlots{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var body bookedSlotsBody
	if err := c.do(req, "booked slots", &body); err != nil {
		return BookedSlots{}, err
	}

	times := body.BookedTimes
	if times == nil {
		times = []string{}
	}
	return BookedSlots{Date: date, Times: times}, nil
}

// SendBooking posts a booking request
func (c *Client) SendBooking(ctx context.Context, booking BookingRequest) (BookingResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	payload, err := json.Marshal(booking)
	if err != nil {
		return BookingResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+constants.SendBookingPath, bytes.NewReader(payload))
	if err != nil {
		return BookingResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var resp BookingResponse
	if err := c.do(req, "send booking", &resp); err != nil {
		return BookingResponse{}, err
	}
	return resp, nil
}

// Ping checks the backend answers HTTP at all; any status counts as reachable
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(req *http.Request, op string, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: http request: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody[:min(200, len(respBody))])),
		}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}
