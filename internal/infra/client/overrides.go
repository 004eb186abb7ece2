// Package client holds HTTP clients for external sources. The only one
// the tax engine needs is the remote rule-override document source.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/resilience"
)

var tracer = otel.Tracer("client")

// OverridesClient fetches rule override documents from a remote source.
// Fetches are bounded by a deadline and guarded by retry + circuit
// breaker so a flaky source can never wedge a refresh.
type OverridesClient struct {
	httpClient *http.Client
	url        string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewOverridesClient creates a new OverridesClient for the given URL.
func NewOverridesClient(httpClient *http.Client, url string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *OverridesClient {
	return &OverridesClient{
		httpClient: httpClient,
		url:        url,
		cb:         cb,
		cfg:        cfg,
	}
}

// FetchOverrides retrieves and decodes the override document.
func (c *OverridesClient) FetchOverrides(ctx context.Context) (*domain.OverrideDocument, error) {
	ctx, span := tracer.Start(ctx, "OverridesClient.FetchOverrides")
	defer span.End()
	span.SetAttributes(attribute.String("overrides.url", c.url))

	var doc domain.OverrideDocument

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return &domain.ErrNotFound{Resource: "override document", ID: c.url}
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("override source returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&doc)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &doc, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &domain.ErrCircuitOpen{Service: "rule-overrides"}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: "fetch rule overrides"}
		}
		return nil, &domain.ErrExternalService{Service: "rule-overrides", Err: err}
	}

	return result.(*domain.OverrideDocument), nil
}
