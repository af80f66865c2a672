package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xela07ax/paulis-place/internal/infra"
	"github.com/xela07ax/paulis-place/internal/metrics"
)

const upstreamName = "meeting-server"

// Result — то, что bridge отдает своему клиенту: статус и JSON-тело.
type Result struct {
	Status int
	Body   json.RawMessage
}

// Client проксирует запросы на meeting-сервер и сводит любые сбои к JSON-ответу.
type Client struct {
	baseURL string
	http    *http.Client
	guard   *Guard
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewClient(cfg infra.BridgeConfig, m *metrics.Metrics, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger = logger.Named("bridge-client")
	return &Client{
		baseURL: cfg.UpstreamURL,
		http:    &http.Client{Timeout: timeout},
		guard:   NewGuard(upstreamName, cfg, m, logger),
		metrics: m,
		logger:  logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do выполняет запрос к upstream. Ошибок наружу не отдает:
// недоступность — 503 с url, прочее — 500 с текстом ошибки.
func (c *Client) Do(ctx context.Context, method Method, path string, payload json.RawMessage) Result {
	target := c.baseURL + path
	if _, err := ParseMethod(string(method)); err != nil {
		return c.toResult(method, target, 0, nil, err)
	}
	start := time.Now()

	var status int
	var body []byte
	err := c.guard.Execute(ctx, func() error {
		var callErr error
		status, body, callErr = c.roundTrip(ctx, method, target, payload)
		return callErr
	})
	if err == nil && !json.Valid(body) {
		err = fmt.Errorf("upstream returned non-JSON body (status %d)", status)
	}

	res := c.toResult(method, target, status, body, err)
	c.observe(method, err, time.Since(start))
	return res
}

func (c *Client) roundTrip(ctx context.Context, method Method, target string, payload json.RawMessage) (int, []byte, error) {
	var reqBody io.Reader
	switch method {
	case MethodPost:
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
	case MethodGet, MethodDelete:
	default:
		return 0, nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), target, reqBody)
	if err != nil {
		return 0, nil, err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, fmt.Errorf("%w: %w", ErrCallerCanceled, ctxErr)
		}
		return 0, nil, &UnreachableError{URL: target, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, fmt.Errorf("%w: %w", ErrCallerCanceled, ctxErr)
		}
		return 0, nil, fmt.Errorf("read upstream body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *Client) toResult(method Method, target string, status int, body []byte, err error) Result {
	if err == nil {
		return Result{Status: status, Body: body}
	}

	var unreachable *UnreachableError
	switch {
	case errors.As(err, &unreachable),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		c.logger.Warn("upstream unreachable", zap.String("url", target), zap.Error(err))
		return jsonResult(http.StatusServiceUnavailable, map[string]string{
			"error": "Cannot reach meeting server",
			"url":   target,
		})
	case errors.Is(err, ErrUnsupportedMethod):
		return jsonResult(http.StatusBadRequest, map[string]string{"error": "Unsupported method " + string(method)})
	case errors.Is(err, ErrCallerCanceled):
		c.logger.Debug("upstream call abandoned by caller", zap.String("url", target), zap.Error(err))
		return jsonResult(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		c.logger.Error("upstream call failed", zap.String("url", target), zap.Error(err))
		return jsonResult(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (c *Client) observe(method Method, err error, d time.Duration) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	var unreachable *UnreachableError
	switch {
	case err == nil:
	case errors.As(err, &unreachable), errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "unreachable"
	case errors.Is(err, ErrCallerCanceled):
		outcome = "canceled"
	default:
		outcome = "unexpected"
	}
	c.metrics.ForwardDuration.WithLabelValues(string(method), outcome).Observe(d.Seconds())
}

func jsonResult(status int, v any) Result {
	data, _ := json.Marshal(v)
	return Result{Status: status, Body: data}
}
