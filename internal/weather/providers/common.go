package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and the per-provider guards.
type HTTPClientConfig struct {
	Client  *resty.Client
	BaseURL string
	// Limiter throttles outbound calls; nil disables throttling.
	Limiter *rate.Limiter
	Logger  *zap.Logger
}

// NewRestyClient returns a client that never retries. Provider fetches are
// single-shot; the user decides when to try again.
func NewRestyClient(timeout time.Duration) *resty.Client {
	c := resty.New().
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// NewLimiter builds a token bucket limiter; rps <= 0 disables it.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// newCircuit trips only on transport failures. Any HTTP response, 5xx
// included, reaches the caller as a classified status and never opens the
// circuit.
func newCircuit(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			return err == nil || weather.ErrorKindOf(err) != weather.KindTransport
		},
	})
}

func (cfg HTTPClientConfig) logger() *zap.Logger {
	if cfg.Logger == nil {
		return zap.NewNop()
	}
	return cfg.Logger
}

// doRequest issues exactly one GET against endpoint and returns the body of a
// 2xx response. Every failure is a *weather.FetchError. maskParams names the
// query parameters that must not appear in logs.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	provider string,
	endpoint string,
	query url.Values,
	maskParams ...string,
) ([]byte, error) {
	if cfg.Client == nil {
		return nil, weather.NewFetchError(weather.KindTransport, errNoHTTPClient)
	}
	log := cfg.logger().With(zap.String("provider", provider))

	if cfg.Limiter != nil {
		if err := cfg.Limiter.Wait(weather.QueueContext(ctx)); err != nil {
			return nil, weather.NewFetchError(weather.KindTransport, fmt.Errorf("rate limit wait canceled: %w", err))
		}
	}

	reqURL := endpoint + "?" + query.Encode()
	safeURL := common.MaskQuery(reqURL, maskParams...)
	log.Debug("provider request", zap.String("url", safeURL))

	start := time.Now()
	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.R().SetContext(ctx).Get(reqURL)
		if execErr != nil {
			return nil, weather.NewFetchError(weather.KindTransport, scrubSecrets(execErr, query, maskParams))
		}
		return resp, nil
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Warn("provider circuit open", zap.String("url", safeURL), zap.Error(err))
			return nil, weather.NewFetchError(weather.KindTransport, fmt.Errorf("%w: %v", errCircuitOpen, err))
		}
		var fe *weather.FetchError
		if !errors.As(err, &fe) {
			fe = weather.NewFetchError(weather.KindTransport, err)
		}
		log.Warn("provider request failed",
			zap.String("url", safeURL),
			zap.Int("status", fe.Status),
			zap.Duration("elapsed", elapsed),
			zap.Error(fe),
		)
		return nil, fe
	}

	resp, ok := result.(*resty.Response)
	if !ok {
		return nil, weather.NewFetchError(weather.KindTransport, fmt.Errorf("unexpected result type from circuit breaker"))
	}

	status := resp.StatusCode()
	log.Info("provider response",
		zap.String("url", safeURL),
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed),
	)

	if fe := classifyStatus(status, resp.Body()); fe != nil {
		log.Warn("provider rejected request", zap.Int("status", status), zap.String("kind", string(fe.Kind)))
		return nil, fe
	}
	return resp.Body(), nil
}

// classifyStatus maps a non-2xx status to the fetch error taxonomy.
func classifyStatus(status int, body []byte) *weather.FetchError {
	if status >= 200 && status < 300 {
		return nil
	}
	fe := &weather.FetchError{Status: status}
	switch status {
	case http.StatusUnauthorized:
		fe.Kind = weather.KindInvalidCredential
	case http.StatusNotFound:
		fe.Kind = weather.KindLocationNotFound
	case http.StatusTooManyRequests:
		fe.Kind = weather.KindRateLimited
	default:
		fe.Kind = weather.KindProviderError
		fe.Body = strings.TrimSpace(string(body))
	}
	return fe
}

// scrubSecrets keeps credentials out of transport errors, which embed the
// request URL.
func scrubSecrets(err error, query url.Values, params []string) error {
	msg := err.Error()
	scrubbed := msg
	for _, p := range params {
		if v := query.Get(p); v != "" {
			scrubbed = strings.ReplaceAll(scrubbed, v, common.MaskSecret(v))
		}
	}
	if scrubbed == msg {
		return err
	}
	return errors.New(scrubbed)
}

func malformed(format string, args ...any) *weather.FetchError {
	return weather.NewFetchError(weather.KindMalformedResponse, fmt.Errorf(format, args...))
}
