package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/callctx"
	"github.com/effective-security/tendem-mcp/model"
	"github.com/effective-security/tendem-mcp/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tendem-mcp", "client")

const (
	// DefaultBaseURL is the production Tendem API
	DefaultBaseURL = "https://api.tendem.ai/api/v0"
	// DefaultTimeout is the per-attempt request timeout
	DefaultTimeout = 60 * time.Second
	// DefaultMaxRetries is the number of retries for idempotent reads
	DefaultMaxRetries = 3
	// DefaultRetryInterval is the initial backoff between retries
	DefaultRetryInterval = 250 * time.Millisecond
	// DefaultMaxArtifactSize limits downloaded artifacts
	DefaultMaxArtifactSize int64 = 100 << 20

	// HeaderRequestID carries the tool call ID
	HeaderRequestID = "X-Request-ID"

	maxResponseSize int64 = 32 << 20
	maxDebugBody          = 4096
	tracerName            = "github.com/effective-security/tendem-mcp/client"
)

// Version is reported in the User-Agent header
var Version = "dev"

// ErrMissingAPIKey is returned when no API key is configured
var ErrMissingAPIKey = errors.New("TENDEM_API_KEY is required")

// HTTPClient implements Client over the Tendem REST API.
// It holds no mutable state after construction.
type HTTPClient struct {
	apiKey          string
	baseURL         string
	httpClient      *http.Client
	timeout         time.Duration
	maxRetries      int
	retryInterval   time.Duration
	maxArtifactSize int64
	debug           bool
	tracer          trace.Tracer
}

var _ Client = (*HTTPClient)(nil)

// New returns a client authenticated with apiKey
func New(apiKey string, opts ...Option) (*HTTPClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.WithStack(ErrMissingAPIKey)
	}

	c := &HTTPClient{
		apiKey:          apiKey,
		baseURL:         DefaultBaseURL,
		timeout:         DefaultTimeout,
		maxRetries:      DefaultMaxRetries,
		retryInterval:   DefaultRetryInterval,
		maxArtifactSize: DefaultMaxArtifactSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.Newf("invalid base URL: %q", c.baseURL)
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.tracer == nil {
		c.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	if c.maxArtifactSize <= 0 {
		c.maxArtifactSize = DefaultMaxArtifactSize
	}
	return c, nil
}

// BaseURL returns the API endpoint used by the client
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// ListTasks implements Client
func (c *HTTPClient) ListTasks(ctx context.Context, pageNumber, pageSize int) (*model.TaskList, error) {
	if err := Validate(&PageRequest{PageNumber: pageNumber, PageSize: pageSize}); err != nil {
		return nil, err
	}
	data, err := c.do(ctx, &request{
		op:     "list_tasks",
		method: http.MethodGet,
		path:   "/tasks",
		query:  pageQuery(pageNumber, pageSize),
	})
	if err != nil {
		return nil, err
	}
	res, err := decode[model.TaskList]("list_tasks", data)
	if err != nil {
		return nil, err
	}
	if res.Tasks == nil {
		res.Tasks = []*model.Task{}
	}
	for _, t := range res.Tasks {
		if err = checkTask("list_tasks", t); err != nil {
			return nil, err
		}
	}
	normalizePagination(ctx, "list_tasks", &res.Pagination)
	return res, nil
}

// CreateTask implements Client
func (c *HTTPClient) CreateTask(ctx context.Context, text string) (*model.Task, error) {
	req := &CreateTaskRequest{Text: text}
	if err := Validate(req); err != nil {
		return nil, err
	}
	data, err := c.do(ctx, &request{
		op:     "create_task",
		method: http.MethodPost,
		path:   "/tasks",
		body:   req,
	})
	if err != nil {
		return nil, err
	}
	return decodeTask("create_task", data)
}

// GetTask implements Client
func (c *HTTPClient) GetTask(ctx context.Context, taskID uuid.UUID) (*model.Task, error) {
	if err := ValidateID("task_id", taskID); err != nil {
		return nil, err
	}
	data, err := c.do(ctx, &request{
		op:     "get_task",
		method: http.MethodGet,
		path:   taskPath(taskID),
	})
	if err != nil {
		return nil, err
	}
	return decodeTask("get_task", data)
}

// ApproveTask implements Client
func (c *HTTPClient) ApproveTask(ctx context.Context, taskID uuid.UUID) error {
	if err := ValidateID("task_id", taskID); err != nil {
		return err
	}
	_, err := c.do(ctx, &request{
		op:     "approve_task",
		method: http.MethodPost,
		path:   taskPath(taskID) + "/approve",
	})
	return err
}

// CancelTask implements Client
func (c *HTTPClient) CancelTask(ctx context.Context, taskID uuid.UUID) error {
	if err := ValidateID("task_id", taskID); err != nil {
		return err
	}
	_, err := c.do(ctx, &request{
		op:     "cancel_task",
		method: http.MethodPost,
		path:   taskPath(taskID) + "/cancel",
	})
	return err
}

// GetTaskResults implements Client
func (c *HTTPClient) GetTaskResults(ctx context.Context, taskID uuid.UUID, pageNumber, pageSize int) (*model.TaskResults, error) {
	if err := ValidateID("task_id", taskID); err != nil {
		return nil, err
	}
	if err := Validate(&PageRequest{PageNumber: pageNumber, PageSize: pageSize}); err != nil {
		return nil, err
	}
	data, err := c.do(ctx, &request{
		op:     "get_task_results",
		method: http.MethodGet,
		path:   taskPath(taskID) + "/results",
		query:  pageQuery(pageNumber, pageSize),
	})
	if err != nil {
		return nil, err
	}
	res, err := decode[model.TaskResults]("get_task_results", data)
	if err != nil {
		return nil, err
	}
	if res.Canvases == nil {
		res.Canvases = []*model.Canvas{}
	}
	for _, cv := range res.Canvases {
		if cv == nil {
			return nil, errors.Mark(errors.New("get_task_results: null canvas in response"), ErrInvalidResponse)
		}
	}
	normalizePagination(ctx, "get_task_results", &res.Pagination)
	return res, nil
}

// GetArtifact implements Client
func (c *HTTPClient) GetArtifact(ctx context.Context, taskID, artifactID uuid.UUID) ([]byte, error) {
	if err := ValidateID("task_id", taskID); err != nil {
		return nil, err
	}
	if err := ValidateID("artifact_id", artifactID); err != nil {
		return nil, err
	}
	data, err := c.do(ctx, &request{
		op:      "get_artifact",
		method:  http.MethodGet,
		path:    taskPath(taskID) + "/artifacts/" + artifactID.String(),
		accept:  "*/*",
		maxSize: c.maxArtifactSize,
	})
	if err != nil {
		return nil, err
	}
	metricskey.StatsArtifactBytesDownloaded.IncrCounter(float64(len(data)), "get_artifact")
	return data, nil
}

type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	accept  string
	maxSize int64
}

// do performs the request, retrying idempotent reads,
// and returns the body of a successful response.
func (c *HTTPClient) do(ctx context.Context, req *request) (data []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "tendem."+req.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", req.path),
		),
	)
	started := time.Now()
	defer func() {
		metricskey.PerfRemoteRequest.MeasureSince(started, req.op)
		if err != nil {
			metricskey.StatsRemoteRequestsFailed.IncrCounter(1, req.op, ErrorKind(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var payload []byte
	if req.body != nil {
		payload, err = json.Marshal(req.body)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: failed to encode request", req.op)
		}
	}

	if req.method != http.MethodGet || c.maxRetries == 0 {
		return c.roundTrip(ctx, req, payload)
	}

	attempt := 0
	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxRetries)), ctx)
	err = backoff.Retry(func() error {
		if attempt > 0 {
			metricskey.StatsRemoteRequestsRetried.IncrCounter(1, req.op)
			logger.ContextKV(ctx, xlog.DEBUG, "op", req.op, "retry", attempt)
		}
		attempt++

		res, rerr := c.roundTrip(ctx, req, payload)
		if rerr != nil {
			if IsRetriable(rerr) {
				return rerr
			}
			return backoff.Permanent(rerr)
		}
		data = res
		return nil
	}, b)
	if err != nil {
		if ErrorKind(err) == "unknown" {
			// the context ended while waiting for the next attempt
			err = errors.Mark(errors.Wrapf(err, "%s", req.op), ErrTransport)
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("tendem.attempts", attempt))
	return data, nil
}

func (c *HTTPClient) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.retryInterval > 0 {
		b.InitialInterval = c.retryInterval
	}
	b.MaxInterval = 10 * c.retryInterval
	b.MaxElapsedTime = 0
	return b
}

func (c *HTTPClient) roundTrip(ctx context.Context, req *request, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s: failed to create request", req.op), ErrTransport)
	}
	hreq.Header.Set("Authorization", "Bearer "+c.apiKey)
	hreq.Header.Set("User-Agent", "tendem-mcp/"+Version)
	if req.accept != "" {
		hreq.Header.Set("Accept", req.accept)
	} else {
		hreq.Header.Set("Accept", "application/json")
	}
	if payload != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if callID := callctx.GetCallID(ctx); callID != "" {
		hreq.Header.Set(HeaderRequestID, callID)
	}

	if c.debug {
		logger.ContextKV(ctx, xlog.DEBUG,
			"op", req.op,
			"method", req.method,
			"url", u,
			"body", debugBody(payload),
		)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s: %s %s", req.op, req.method, req.path), ErrTransport)
	}
	defer resp.Body.Close()

	limit := req.maxSize
	if limit <= 0 {
		limit = maxResponseSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s: failed to read response", req.op), ErrTransport)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"op", req.op,
		"status", resp.StatusCode,
		"size", len(data),
		"duration", time.Since(started).String(),
	)
	if c.debug && req.accept == "" {
		logger.ContextKV(ctx, xlog.DEBUG, "op", req.op, "response", debugBody(data))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(req.op, req.method, req.path, resp.StatusCode, data)
	}
	if int64(len(data)) > limit {
		return nil, errors.Mark(errors.Newf("%s: response exceeds %d bytes", req.op, limit), ErrInvalidResponse)
	}
	return data, nil
}

// ErrorKind returns the name of the error kind, for metrics and logs
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrServer):
		return "server"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "unknown"
	}
}

func decode[T any](op string, data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "%s: failed to decode response", op), ErrInvalidResponse)
	}
	return &v, nil
}

func decodeTask(op string, data []byte) (*model.Task, error) {
	t, err := decode[model.Task](op, data)
	if err != nil {
		return nil, err
	}
	if err = checkTask(op, t); err != nil {
		return nil, err
	}
	return t, nil
}

// checkTask rejects tasks missing required fields
func checkTask(op string, t *model.Task) error {
	switch {
	case t == nil:
		return errors.Mark(errors.Newf("%s: null task in response", op), ErrInvalidResponse)
	case t.TaskID == uuid.Nil:
		return errors.Mark(errors.Newf("%s: task_id is missing", op), ErrInvalidResponse)
	case !t.Status.IsValid():
		return errors.Mark(errors.Newf("%s: task %s has no status", op, t.TaskID), ErrInvalidResponse)
	case t.CreatedAt.IsZero():
		return errors.Mark(errors.Newf("%s: task %s has no created_at", op, t.TaskID), ErrInvalidResponse)
	}
	return nil
}

func normalizePagination(ctx context.Context, op string, p *model.Pagination) {
	reported := p.Pages
	if p.Normalize() {
		logger.ContextKV(ctx, xlog.WARNING,
			"op", op,
			"reason", "pages_mismatch",
			"reported", reported,
			"computed", p.Pages,
		)
	}
	if p.Total > 0 && p.IsPastEnd() {
		logger.ContextKV(ctx, xlog.DEBUG,
			"op", op,
			"reason", "past_end",
			"page_number", p.PageNumber,
			"pages", p.Pages,
		)
	}
}

func taskPath(taskID uuid.UUID) string {
	return "/tasks/" + taskID.String()
}

func pageQuery(pageNumber, pageSize int) url.Values {
	return url.Values{
		"page_number": []string{strconv.Itoa(pageNumber)},
		"page_size":   []string{strconv.Itoa(pageSize)},
	}
}

func debugBody(b []byte) string {
	if len(b) > maxDebugBody {
		return string(b[:maxDebugBody]) + "..."
	}
	return string(b)
}
