package services

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "catalog-aggregator-backend/upstream"

// maxResponseBytes bounds how much of an upstream body is read into memory.
const maxResponseBytes = 8 << 20

type CatalogServiceConfig struct {
	BaseURL string
	// Token is sent as a bearer token on every call. When empty the caller's
	// Authorization header (see WithAuthorization) is forwarded instead.
	Token   string
	Timeout time.Duration
	// RequestsPerSecond <= 0 disables outbound rate limiting.
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
}

// CatalogService talks to the external product-catalog API.
type CatalogService struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	tracer      trace.Tracer
}

// UpstreamError describes a failed upstream call: either a transport error (Err set)
// or a non-2xx response (StatusCode set).
type UpstreamError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

type authorizationKey struct{}

// WithAuthorization attaches the caller's Authorization header to ctx so it can be
// forwarded upstream when no service token is configured.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if strings.TrimSpace(header) == "" {
		return ctx
	}
	return context.WithValue(ctx, authorizationKey{}, header)
}

func authorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authorizationKey{}).(string)
	return v
}

func NewCatalogService(cfg CatalogServiceConfig) (*CatalogService, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base URL %q", cfg.BaseURL)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &CatalogService{
		baseURL:     strings.TrimRight(base.String(), "/"),
		token:       cfg.Token,
		httpClient:  client,
		rateLimiter: limiter,
		tracer:      otel.Tracer(tracerName),
	}, nil
}

// Register forwards a registration payload and returns the upstream body unchanged.
func (s *CatalogService) Register(ctx context.Context, payload any) ([]byte, error) {
	return s.postJSON(ctx, "/register", payload)
}

// Authenticate forwards an auth payload and returns the upstream body unchanged.
func (s *CatalogService) Authenticate(ctx context.Context, payload any) ([]byte, error) {
	return s.postJSON(ctx, "/auth", payload)
}

// ListCompanyProducts fetches one company's listing for a category. Filters with
// empty values are not sent.
func (s *CatalogService) ListCompanyProducts(ctx context.Context, company, category string, filters map[string]string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/companies/%s/categories/%s/products",
		s.baseURL, url.PathEscape(company), url.PathEscape(category))

	query := url.Values{}
	for key, value := range filters {
		if value != "" {
			query.Set(key, value)
		}
	}
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	ctx, span := s.tracer.Start(ctx, "upstream.list_company_products",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("catalog.company", company),
			attribute.String("catalog.category", category),
		),
	)
	defer span.End()

	body, err := s.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return body, err
}

func (s *CatalogService) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "upstream.post "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := s.do(ctx, http.MethodPost, s.baseURL+path, jsonData)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return body, err
}

func (s *CatalogService) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Method: method, URL: endpoint, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	} else if auth := authorizationFrom(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
