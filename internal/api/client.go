// Package api is the client for the municipal booking backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	hc   *http.Client
	base string
}

type Options struct {
	Timeout time.Duration
	// Tracing wraps the transport with X-Ray subsegments.
	Tracing bool
	// HTTPClient overrides the client built from Timeout and Tracing.
	HTTPClient *http.Client
}

func New(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
		if opts.Tracing {
			hc = xray.Client(hc)
		}
	}
	return &Client{
		hc:   hc,
		base: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) Courts(ctx context.Context) ([]Court, error) {
	var out []Court
	if err := c.getJSON(ctx, "/quadras", &out); err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	return out, nil
}

// FreeSlots returns the free start times ("HH:MM") of courtID on date
// (YYYY-MM-DD), in the order the backend lists them.
func (c *Client) FreeSlots(ctx context.Context, courtID, date string) ([]string, error) {
	var res freeSlotsResponse
	p := "/reserva/horarios/" + url.PathEscape(courtID) + "/" + url.PathEscape(date)
	if err := c.getJSON(ctx, p, &res); err != nil {
		return nil, fmt.Errorf("free slots %s/%s: %w", courtID, date, err)
	}
	out := make([]string, 0, len(res.Slots))
	for _, s := range res.Slots {
		if s = normalizeTime(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (c *Client) CreateReservation(ctx context.Context, r NewReservation) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	status, resp, err := c.do(ctx, http.MethodPost, "/reserva/nova", body)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	if status < 200 || status >= 300 {
		return responseError(status, resp)
	}
	return nil
}

// ReservationsByIdentifier lists the reservations filed under a CPF given as
// bare digits. A 404 comes back as an error matching ErrNotFound.
func (c *Client) ReservationsByIdentifier(ctx context.Context, digits string) ([]Reservation, error) {
	var out []Reservation
	if err := c.getJSON(ctx, "/reservas/cpf/"+url.PathEscape(digits), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Rules(ctx context.Context) ([]Rule, error) {
	var out []Rule
	if err := c.getJSON(ctx, "/configuracoes", &out); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return responseError(status, body)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return 0, nil, err
	}
	reqID := uuid.NewString()
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-request-id", reqID)
	if body != nil {
		req.Header.Set("content-type", "application/json")
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		log.Printf("api: %s %s failed id=%s: %v", method, path, reqID, err)
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	log.Printf("api: %s %s status=%d id=%s %s", method, redactPath(path), res.StatusCode, reqID, time.Since(start).Round(time.Millisecond))
	return res.StatusCode, b, nil
}

func responseError(status int, body []byte) error {
	var r struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &r)
	msg := r.Error
	if msg == "" {
		msg = r.Message
	}
	return &Error{Status: status, Message: strings.TrimSpace(msg)}
}

// redactPath keeps CPFs out of the access log.
func redactPath(p string) string {
	const prefix = "/reservas/cpf/"
	if strings.HasPrefix(p, prefix) {
		return prefix + "***"
	}
	return p
}

// normalizeTime turns "8:00" or "08:00:00" into "08:00".
func normalizeTime(t string) string {
	t = strings.TrimSpace(t)
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return ""
	}
	hour, minute := parts[0], parts[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	if len(minute) == 1 {
		minute = "0" + minute
	}
	if len(hour) != 2 || len(minute) != 2 {
		return ""
	}
	return hour + ":" + minute
}
