package recognition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
)

// maxResponseSize bounds the recognition service response body.
const maxResponseSize = 1 << 20 // 1 MB

// ServiceRecognizer calls an external HTTP face recognition service.
//
// The service owns the camera: a POST to /recognize makes it capture a
// frame, run recognition, and answer with the match result. The gateway
// never handles image data itself.
type ServiceRecognizer struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// serviceResponse is the wire format of a /recognize answer.
type serviceResponse struct {
	Matched    bool   `json:"matched"`
	Name       string `json:"name"`
	Authorized bool   `json:"authorized"`
	ImageURL   string `json:"image_url"`
	Error      string `json:"error"`
}

// NewServiceRecognizer creates a recognizer backed by the HTTP service at url.
//
// Parameters:
//   - url: Base URL of the recognition service, e.g. "http://camera-pi:8090"
//   - timeout: Per-request timeout, normally the configured recognition timeout
//   - logger: Logger for request outcomes (nil uses default)
//
// Returns:
//   - *ServiceRecognizer: Configured recognizer
func NewServiceRecognizer(url string, timeout time.Duration, logger *logging.Logger) *ServiceRecognizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &ServiceRecognizer{
		url: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Recognize asks the service to capture a frame and identify the person.
//
// Returns:
//   - Decision: The match outcome. An unmatched face yields a zero Name
//     and Authorized false rather than an error.
//   - error: ErrServiceUnavailable on transport or server failures,
//     ErrInvalidResponse on undecodable payloads, ErrNoFace when the
//     service saw nobody
func (r *ServiceRecognizer) Recognize(ctx context.Context) (Decision, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/recognize", nil)
	if err != nil {
		return Decision{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Decision{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return Decision{}, fmt.Errorf("%w: HTTP %d", ErrServiceUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return Decision{}, fmt.Errorf("%w: HTTP %d", ErrInvalidResponse, resp.StatusCode)
	}

	var sr serviceResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if sr.Error == "no_face" {
		return Decision{}, ErrNoFace
	}
	if sr.Error != "" {
		return Decision{}, fmt.Errorf("%w: %s", ErrServiceUnavailable, sr.Error)
	}

	decision := Decision{
		ImageURL: sr.ImageURL,
	}
	if sr.Matched {
		decision.Name = sr.Name
		decision.Authorized = sr.Authorized
	}

	r.logger.Debug("recognition complete",
		"matched", sr.Matched,
		"authorized", decision.Authorized,
		"duration_ms", time.Since(start).Milliseconds())

	return decision, nil
}
