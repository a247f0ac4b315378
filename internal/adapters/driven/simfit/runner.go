package simfit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spindraft-labs/spindraft-cli/internal/core/domain"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

const runnerTimeout = 5 * time.Minute

// HTTPRunner executes fits against a remote simulation service speaking
// the fitter wire protocol: POST the document and parameter set, receive
// the fitted set and a report.
type HTTPRunner struct {
	baseURL string
	client  *http.Client
}

var _ driven.FitRunner = (*HTTPRunner)(nil)

// NewHTTPRunner creates a runner for the fit service at baseURL.
func NewHTTPRunner(baseURL string) *HTTPRunner {
	return &HTTPRunner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: runnerTimeout},
	}
}

// fitRequest is the fit endpoint's request body. Sigma carries one
// noise estimate per method, zero when no experiment is attached, so
// the service can weight residuals.
type fitRequest struct {
	Document *domain.Document        `json:"document"`
	Params   *domain.FitParameterSet `json:"params"`
	Sigma    []float64               `json:"sigma,omitempty"`
}

// noiseSigmas estimates per-method measurement noise from the attached
// experiment traces.
func noiseSigmas(doc *domain.Document) []float64 {
	if doc == nil {
		return nil
	}
	var found bool
	sigmas := make([]float64, len(doc.Methods))
	for i, m := range doc.Methods {
		if s, ok := m.NoiseSigma(); ok {
			sigmas[i] = s
			found = true
		}
	}
	if !found {
		return nil
	}
	return sigmas
}

// fitResponse is the fit endpoint's response body.
type fitResponse struct {
	Params *domain.FitParameterSet `json:"params"`
	Report string                  `json:"report"`
	Error  string                  `json:"error,omitempty"`
}

// Run posts one fit job and waits for the result.
func (r *HTTPRunner) Run(
	ctx context.Context, doc *domain.Document, params *domain.FitParameterSet,
) (*domain.FitParameterSet, string, error) {
	body, err := json.Marshal(fitRequest{Document: doc, Params: params, Sigma: noiseSigmas(doc)})
	if err != nil {
		return nil, "", fmt.Errorf("encoding fit request: %w", err)
	}

	url := r.baseURL + "/fit"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("creating fit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.Debug("fit: POST %s (%d bytes)", url, len(body))
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading fit response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: fit service returned %d", domain.ErrNetwork, resp.StatusCode)
	}

	var out fitResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if out.Error != "" {
		return nil, "", fmt.Errorf("fit failed: %s", out.Error)
	}
	if out.Params == nil {
		return nil, "", fmt.Errorf("%w: fit response missing params", domain.ErrParse)
	}
	return out.Params, out.Report, nil
}
