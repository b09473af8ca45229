// Package places is a thin client for the Google Places nearby-search and
// photo endpoints.
package places

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "restaurant-api/internal/common/errors"
	commonhttp "restaurant-api/internal/common/http"
	"restaurant-api/internal/common/logger"
	"restaurant-api/internal/common/metrics"
)

const (
	ServiceName = "google-places"

	endpointNearbySearch = "nearbysearch"
)

// Upstream call outcomes, used as metric labels.
const (
	OutcomeSuccess         = "success"
	OutcomeTimeout         = "timeout"
	OutcomeUnavailable     = "unavailable"
	OutcomeBadStatus       = "bad_status"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeRejected        = "rejected"
)

// rejectedStatuses are envelope statuses that mean the request as a whole
// was refused. The value says whether a retry may succeed.
var rejectedStatuses = map[string]bool{
	"REQUEST_DENIED":   false,
	"OVER_QUERY_LIMIT": true,
	"OVER_DAILY_LIMIT": true,
	"UNKNOWN_ERROR":    true,
}

type Config struct {
	BaseURL      string
	PhotoBaseURL string
	APIKey       string
	Timeout      time.Duration
}

// Recorder receives one event per upstream call.
type Recorder interface {
	RecordUpstreamCall(ctx context.Context, endpoint, outcome string)
}

type Client struct {
	config   *Config
	http     *commonhttp.Client
	logger   logger.Logger
	recorder Recorder
}

func NewClient(config *Config, log logger.Logger, recorder Recorder) *Client {
	return &Client{
		config:   config,
		http:     commonhttp.NewClient(config.Timeout),
		logger:   log.WithFields(map[string]interface{}{"upstream": ServiceName}),
		recorder: recorder,
	}
}

// NearbySearch performs one nearby-search call. Failures are returned as
// *errors.StandardError.
func (c *Client) NearbySearch(ctx context.Context, req NearbySearchRequest) (*NearbySearchResponse, error) {
	searchURL, err := c.buildNearbySearchURL(req)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("build nearby search url: %w", err))
	}

	fields := map[string]interface{}{
		"lat":    req.Lat,
		"lng":    req.Lng,
		"radius": req.Radius,
		"type":   req.Type,
	}

	start := time.Now()
	resp, err := c.http.Get(ctx, searchURL, http.Header{"Accept": {"application/json"}})
	metrics.UpstreamRequestDuration.WithLabelValues(endpointNearbySearch).Observe(time.Since(start).Seconds())
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, c.fail(ctx, OutcomeTimeout, fields, apperrors.NewUpstreamTimeoutError(ServiceName, redact(err, c.config.APIKey)))
		}
		return nil, c.fail(ctx, OutcomeUnavailable, fields, apperrors.NewUpstreamUnavailableError(ServiceName, redact(err, c.config.APIKey)))
	}

	fields["httpStatus"] = resp.StatusCode
	fields["durationMs"] = resp.Duration.Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(ctx, OutcomeBadStatus, fields, apperrors.NewUpstreamBadStatusError(ServiceName, resp.StatusCode))
	}

	result, err := nearbySearchValidator.ValidateBytes(resp.Body)
	if err != nil {
		return nil, c.fail(ctx, OutcomeInvalidResponse, fields, apperrors.NewUpstreamInvalidResponseError(ServiceName, err))
	}
	if !result.Valid {
		return nil, c.fail(ctx, OutcomeInvalidResponse, fields,
			apperrors.NewUpstreamInvalidResponseError(ServiceName, fmt.Errorf("unexpected envelope: %s", result.Error())))
	}

	var out NearbySearchResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, c.fail(ctx, OutcomeInvalidResponse, fields, apperrors.NewUpstreamInvalidResponseError(ServiceName, err))
	}

	fields["status"] = out.Status
	if retryable, rejected := rejectedStatuses[out.Status]; rejected {
		return nil, c.fail(ctx, OutcomeRejected, fields,
			apperrors.NewUpstreamRejectedError(ServiceName, out.Status, out.ErrorMessage, retryable))
	}

	fields["resultCount"] = len(out.Results)
	c.record(ctx, OutcomeSuccess)
	c.logger.Info("nearby search completed", fields)

	return &out, nil
}

// PhotoURL builds a fetchable image URL for a photo reference. Parameter
// order is fixed: maxwidth, photoreference, key.
func (c *Client) PhotoURL(ref string, maxWidth int) string {
	sep := "?"
	if strings.Contains(c.config.PhotoBaseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%smaxwidth=%d&photoreference=%s&key=%s",
		c.config.PhotoBaseURL, sep, maxWidth, url.QueryEscape(ref), url.QueryEscape(c.config.APIKey))
}

func (c *Client) buildNearbySearchURL(req NearbySearchRequest) (string, error) {
	baseURL, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", err
	}
	params := baseURL.Query()
	params.Set("location", req.Lat+","+req.Lng)
	params.Set("radius", req.Radius)
	params.Set("type", req.Type)
	params.Set("key", c.config.APIKey)
	baseURL.RawQuery = params.Encode()
	return baseURL.String(), nil
}

func (c *Client) fail(ctx context.Context, outcome string, fields map[string]interface{}, stdErr *apperrors.StandardError) error {
	c.record(ctx, outcome)

	logFields := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		logFields[k] = v
	}
	logFields["outcome"] = outcome
	logFields["errorCode"] = string(stdErr.Code)
	logFields["details"] = stdErr.Details
	c.logger.Warn("nearby search failed", logFields)

	return stdErr
}

func (c *Client) record(ctx context.Context, outcome string) {
	metrics.UpstreamRequestsTotal.WithLabelValues(endpointNearbySearch, outcome).Inc()
	if c.recorder != nil {
		c.recorder.RecordUpstreamCall(ctx, endpointNearbySearch, outcome)
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// redact strips the API key from transport errors, which embed the full URL.
func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, secret) && !strings.Contains(msg, url.QueryEscape(secret)) {
		return err
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(secret), "REDACTED")
	msg = strings.ReplaceAll(msg, secret, "REDACTED")
	return &redactedError{msg: msg, cause: err}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }
