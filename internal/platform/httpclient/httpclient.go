package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-care-portal/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxBody limita lo que se lee de cada respuesta.
	maxBody = 1 << 20

	HeaderRequestID = "X-Request-ID"
)

// TokenSource entrega el bearer token vigente ("" = sin Authorization).
type TokenSource interface {
	Token() string
}

// TokenFunc adapta una función a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper

	Logger  logger.Logger
	Tokens  TokenSource
	Breaker *gobreaker.CircuitBreaker
	Metrics *Metrics
}

// Client envuelve *http.Client con los helpers JSON que usan los clientes de recursos.
type Client struct {
	HTTP    *http.Client
	BaseURL string

	log     logger.Logger
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
}

func New(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	tr := opts.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	if opts.Metrics != nil {
		tr = opts.Metrics.InstrumentRoundTripper(tr)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	c := &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		log:     log.With(map[string]any{"component": "httpclient"}),
		tokens:  opts.Tokens,
		breaker: opts.Breaker,
		now:     time.Now,
	}

	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		if _, err := url.ParseRequestURI(base); err != nil {
			return nil, fmt.Errorf("invalid base url: %w", err)
		}
		c.BaseURL = strings.TrimRight(base, "/")
	}
	return c, nil
}

// SetTokenSource permite enlazar la sesión después de construir el cliente
// (la sesión a su vez necesita el cliente para hacer login).
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// StatusCode devuelve el status HTTP si err viene de una respuesta del servidor.
// false = no hubo respuesta (red, timeout, breaker abierto).
func StatusCode(err error) (int, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode, true
	}
	return 0, false
}

// ServerMessage extrae el campo "message" del cuerpo de error, si existe.
func ServerMessage(err error) string {
	var he *HTTPError
	if !errors.As(err, &he) || he.Body == "" {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(he.Body), &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}

type result struct {
	status int
	raw    []byte
}

// DoJSON hace un request JSON.
// - pathOrURL: URL absoluta o path relativo a BaseURL
// - in: body (nil => sin body)
// - out: destino del JSON (nil => se ignora el body)
// Retorna *HTTPError si el status no es 2xx.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
	in any,
	out any,
) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	fullURL, err := c.resolveURL(pathOrURL)
	if err != nil {
		return err
	}

	var payload []byte
	if in != nil {
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
	}

	reqID := uuid.NewString()
	log := c.log.With(map[string]any{"method": method, "url": fullURL, "request_id": reqID})
	log.Debug("making request", nil)

	start := c.now()
	res, err := c.execute(func() (result, error) {
		return c.roundTrip(ctx, method, fullURL, reqID, headers, payload)
	})
	if err != nil {
		log.Warn("request failed", map[string]any{"error": err})
		return err
	}

	log.Debug("response received", map[string]any{
		"status":      res.status,
		"duration_ms": c.now().Sub(start).Milliseconds(),
	})

	if res.status < 200 || res.status >= 300 {
		return &HTTPError{
			StatusCode: res.status,
			Body:       strings.TrimSpace(string(res.raw)),
		}
	}

	if out == nil || len(res.raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

// execute pasa por el breaker si está configurado. Solo errores de red y 5xx
// cuentan como fallas: un 4xx (p.ej. 409) es una respuesta válida del backend.
func (c *Client) execute(fn func() (result, error)) (result, error) {
	if c.breaker == nil {
		return fn()
	}

	v, err := c.breaker.Execute(func() (interface{}, error) {
		res, err := fn()
		if err != nil {
			return nil, err
		}
		if res.status >= 500 {
			return res, &HTTPError{StatusCode: res.status, Body: strings.TrimSpace(string(res.raw))}
		}
		return res, nil
	})
	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) {
			return result{status: he.StatusCode, raw: []byte(he.Body)}, nil
		}
		return result{}, fmt.Errorf("httpclient: %w", err)
	}
	return v.(result), nil
}

func (c *Client) roundTrip(
	ctx context.Context,
	method, fullURL, reqID string,
	headers map[string]string,
	payload []byte,
) (result, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return result{}, fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := strings.TrimSpace(c.tokens.Token()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return result{}, fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return result{}, fmt.Errorf("httpclient: read response (status %d): %w", resp.StatusCode, err)
	}
	return result{status: resp.StatusCode, raw: raw}, nil
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	if c.BaseURL == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}
