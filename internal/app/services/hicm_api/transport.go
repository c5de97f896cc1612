package hicmapi

import (
	"context"
	"errors"
	"hicm-service/internal/app/drivers/monitoring"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const tracerName = "hicm-service/hicm_api"

// Options configures one backend base URL. Limiter is shared between
// clients so the whole service stays under one outbound rate.
type Options struct {
	BaseUrl    string
	Timeout    time.Duration
	Limiter    *rate.Limiter
	HTTPClient *http.Client
}

type rawResponse struct {
	StatusCode int
	Body       []byte
}

type transport struct {
	baseUrl    string
	timeout    time.Duration
	limiter    *rate.Limiter
	httpClient *http.Client
	tracer     trace.Tracer
	Log        *zap.Logger
}

func newTransport(opts Options, logger *zap.Logger) *transport {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &transport{
		baseUrl:    strings.TrimRight(opts.BaseUrl, "/"),
		timeout:    opts.Timeout,
		limiter:    opts.Limiter,
		httpClient: httpClient,
		tracer:     otel.Tracer(tracerName),
		Log:        logger,
	}
}

type outboundRequest struct {
	operation   string
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

// do sends the request and returns the response whatever its status. Only
// transport failures are returned as errors.
func (t *transport) do(ctx context.Context, in outboundRequest) (*rawResponse, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	ctx, span := t.tracer.Start(ctx, "hicm."+in.operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", in.method),
			attribute.String("hicm.path", in.path),
		),
	)
	defer span.End()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, t.contextError(ctx, err, exceptions.ErrRateLimitWait)
		}
	}

	endpoint := t.baseUrl + in.path
	if len(in.query) > 0 {
		endpoint += "?" + in.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, in.method, endpoint, in.body)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if in.contentType != "" {
		req.Header.Set(constvars.HeaderContentType, in.contentType)
	}
	if requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}
	if in.token != "" {
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+in.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	startTime := time.Now()
	resp, err := t.httpClient.Do(req)
	monitoring.BackendRequestDuration.WithLabelValues(in.operation).Observe(time.Since(startTime).Seconds())
	if err != nil {
		monitoring.BackendRequestCounter.WithLabelValues(in.operation, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.Log.Error("hicmapi.transport error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEndpointKey, in.path),
			zap.Error(err),
		)
		return nil, t.contextError(ctx, err, exceptions.ErrSendHTTPRequest)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		monitoring.BackendRequestCounter.WithLabelValues(in.operation, "error").Inc()
		span.RecordError(err)
		return nil, t.contextError(ctx, err, exceptions.ErrSendHTTPRequest)
	}

	monitoring.BackendRequestCounter.WithLabelValues(in.operation, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= constvars.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	t.Log.Debug("hicmapi.transport response received",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, in.method),
		zap.String(constvars.LoggingEndpointKey, in.path),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(startTime)),
	)

	return &rawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

func (t *transport) contextError(ctx context.Context, err error, fallback func(error) *exceptions.CustomError) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return exceptions.ErrServerDeadlineExceeded(err)
	}
	return fallback(err)
}

// decode maps a non-2xx response to an error and decodes a 2xx body into out.
func decode(resp *rawResponse, resource string, out interface{}) error {
	if resp.StatusCode == constvars.StatusNotFound {
		return exceptions.ErrHICMNotFound(nil, resource)
	}
	if !isSuccessStatus(resp.StatusCode) {
		return exceptions.ErrHICMRequest(nil, resp.StatusCode, errorDetail(resp.Body))
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return exceptions.ErrDecodeResponse(err)
	}
	return nil
}

func isSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// errorDetail pulls the human text out of a backend error body.
func errorDetail(body []byte) string {
	var backendErr responses.HICMError
	if err := json.Unmarshal(body, &backendErr); err == nil {
		if backendErr.Detail != "" {
			return backendErr.Detail
		}
		if backendErr.Message != "" {
			return backendErr.Message
		}
	}
	return strings.TrimSpace(string(body))
}

func userIDQuery(respondentID string) url.Values {
	query := url.Values{}
	if respondentID != "" && respondentID != constvars.AnonymousRespondent {
		query.Set("user_id", respondentID)
	}
	return query
}
