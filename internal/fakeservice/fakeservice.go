// Package fakeservice provides an in-memory Tendem API for tests.
package fakeservice

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// naiveLayout is the timestamp format of the service, without a zone
const naiveLayout = "2006-01-02T15:04:05.000000"

const defaultPageSize = 20

// Service is a thread-safe in-memory Tendem API.
type Service struct {
	apiKey string
	mux    *http.ServeMux

	// Now is the clock for new tasks and canvases
	Now func() time.Time

	lock     sync.Mutex
	tasks    []*task // newest first
	byID     map[uuid.UUID]*task
	hits     int
	failures []int
}

type task struct {
	id        uuid.UUID
	name      string
	text      string
	status    model.TaskStatus
	createdAt time.Time
	price     *decimal.Decimal
	quotedAt  time.Time
	canvases  []*canvas // newest first
	artifacts map[uuid.UUID][]byte
}

type canvas struct {
	id        uuid.UUID
	versionID uuid.UUID
	createdAt time.Time
	content   string
}

// New returns a service accepting apiKey as the bearer token
func New(apiKey string) *Service {
	s := &Service{
		apiKey: apiKey,
		Now:    time.Now,
		byID:   map[uuid.UUID]*task{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", s.listTasks)
	mux.HandleFunc("POST /tasks", s.createTask)
	mux.HandleFunc("GET /tasks/{id}", s.getTask)
	mux.HandleFunc("POST /tasks/{id}/approve", s.approveTask)
	mux.HandleFunc("POST /tasks/{id}/cancel", s.cancelTask)
	mux.HandleFunc("GET /tasks/{id}/results", s.taskResults)
	mux.HandleFunc("GET /tasks/{id}/artifacts/{aid}", s.artifact)
	s.mux = mux
	return s
}

// ServeHTTP implements http.Handler
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	s.hits++
	var fail int
	if len(s.failures) > 0 {
		fail = s.failures[0]
		s.failures = s.failures[1:]
	}
	s.lock.Unlock()

	if fail != 0 {
		writeError(w, fail, http.StatusText(fail))
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+s.apiKey {
		writeError(w, http.StatusUnauthorized, "Invalid API key")
		return
	}
	s.mux.ServeHTTP(w, r)
}

// FailNext makes the next requests fail with the given status codes, in order
func (s *Service) FailNext(codes ...int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failures = append(s.failures, codes...)
}

// Hits returns the number of requests received
func (s *Service) Hits() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.hits
}

// AddTask creates a DRAFT task, as POST /tasks does
func (s *Service) AddTask(text string) uuid.UUID {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.addTask(text).id
}

// Quote attaches a price and moves the task to AWAITING_APPROVAL
func (s *Service) Quote(id uuid.UUID, price decimal.Decimal) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	t, err := s.transition(id, model.StatusAwaitingApproval)
	if err != nil {
		return err
	}
	t.price = &price
	t.quotedAt = s.Now().UTC()
	return nil
}

// Advance moves the task to the status, if the lifecycle allows it
func (s *Service) Advance(id uuid.UUID, to model.TaskStatus) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, err := s.transition(id, to)
	return err
}

// AddCanvas appends a canvas version to the task and returns its id
func (s *Service) AddCanvas(id uuid.UUID, content string) (uuid.UUID, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return uuid.Nil, errors.Newf("task %s not found", id)
	}
	c := &canvas{
		id:        uuid.New(),
		versionID: uuid.New(),
		createdAt: s.Now().UTC(),
		content:   content,
	}
	t.canvases = append([]*canvas{c}, t.canvases...)
	return c.id, nil
}

// Complete adds the canvases and moves a PROCESSING task to COMPLETED
func (s *Service) Complete(id uuid.UUID, contents ...string) error {
	for _, content := range contents {
		if _, err := s.AddCanvas(id, content); err != nil {
			return err
		}
	}
	return s.Advance(id, model.StatusCompleted)
}

// AddArtifact stores content for the task and returns the artifact id
func (s *Service) AddArtifact(id uuid.UUID, content []byte) (uuid.UUID, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return uuid.Nil, errors.Newf("task %s not found", id)
	}
	aid := uuid.New()
	t.artifacts[aid] = content
	return aid, nil
}

// Status returns the current status of the task
func (s *Service) Status(id uuid.UUID) model.TaskStatus {
	s.lock.Lock()
	defer s.lock.Unlock()
	if t, ok := s.byID[id]; ok {
		return t.status
	}
	return model.StatusUnknown
}

func (s *Service) addTask(text string) *task {
	name := strings.TrimSpace(text)
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = name[:i]
	}
	if len(name) > 50 {
		name = name[:50]
	}
	t := &task{
		id:        uuid.New(),
		name:      name,
		text:      text,
		status:    model.StatusDraft,
		createdAt: s.Now().UTC(),
		artifacts: map[uuid.UUID][]byte{},
	}
	s.tasks = append([]*task{t}, s.tasks...)
	s.byID[t.id] = t
	return t
}

func (s *Service) transition(id uuid.UUID, to model.TaskStatus) (*task, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, errors.Newf("task %s not found", id)
	}
	if !model.CanTransition(t.status, to) {
		return nil, errors.Wrapf(model.ErrInvalidTransition, "%s -> %s", t.status, to)
	}
	t.status = to
	return t, nil
}

func (s *Service) listTasks(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize, ok := pageParams(w, r)
	if !ok {
		return
	}
	s.lock.Lock()
	page, p := model.Paginate(s.tasks, pageNumber, pageSize)
	res := taskList{
		Tasks:      make([]*wireTask, 0, len(page)),
		Pagination: p,
	}
	for _, t := range page {
		res.Tasks = append(res.Tasks, t.wire())
	}
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) createTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusUnprocessableEntity, "text must not be empty")
		return
	}
	s.lock.Lock()
	res := s.addTask(req.Text).wire()
	s.lock.Unlock()
	writeJSON(w, http.StatusCreated, res)
}

func (s *Service) getTask(w http.ResponseWriter, r *http.Request) {
	s.withTask(w, r, func(t *task) {
		writeJSON(w, http.StatusOK, t.wire())
	})
}

func (s *Service) approveTask(w http.ResponseWriter, r *http.Request) {
	s.withTask(w, r, func(t *task) {
		if !t.status.CanApprove() {
			writeError(w, http.StatusConflict, "Task is not awaiting approval (status: "+t.status.String()+")")
			return
		}
		t.status = model.StatusProcessing
		writeJSON(w, http.StatusOK, t.wire())
	})
}

func (s *Service) cancelTask(w http.ResponseWriter, r *http.Request) {
	s.withTask(w, r, func(t *task) {
		if !t.status.CanCancel() {
			writeError(w, http.StatusConflict, "Task can not be cancelled (status: "+t.status.String()+")")
			return
		}
		t.status = model.StatusCancelled
		writeJSON(w, http.StatusOK, t.wire())
	})
}

func (s *Service) taskResults(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize, ok := pageParams(w, r)
	if !ok {
		return
	}
	s.withTask(w, r, func(t *task) {
		page, p := model.Paginate(t.canvases, pageNumber, pageSize)
		res := canvasList{
			Canvases:   make([]*wireCanvas, 0, len(page)),
			Pagination: p,
		}
		for _, c := range page {
			res.Canvases = append(res.Canvases, &wireCanvas{
				CanvasID:  c.id.String(),
				VersionID: c.versionID.String(),
				CreatedAt: c.createdAt.Format(naiveLayout),
				Content:   c.content,
			})
		}
		writeJSON(w, http.StatusOK, res)
	})
}

func (s *Service) artifact(w http.ResponseWriter, r *http.Request) {
	aid, err := uuid.Parse(r.PathValue("aid"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid artifact id")
		return
	}
	s.withTask(w, r, func(t *task) {
		content, ok := t.artifacts[aid]
		if !ok {
			writeError(w, http.StatusNotFound, "Artifact not found")
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", strconv.Itoa(len(content)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	})
}

// withTask calls fn with the task of the request path, under the lock
func (s *Service) withTask(w http.ResponseWriter, r *http.Request, fn func(t *task)) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid task id")
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	t, ok := s.byID[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	fn(t)
}

func pageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	pageNumber, pageSize := 0, defaultPageSize
	var err error
	if v := q.Get("page_number"); v != "" {
		if pageNumber, err = strconv.Atoi(v); err != nil || pageNumber < 0 {
			writeError(w, http.StatusUnprocessableEntity, "page_number must be a non-negative integer")
			return 0, 0, false
		}
	}
	if v := q.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil || pageSize < model.MinPageSize || pageSize > model.MaxPageSize {
			writeError(w, http.StatusUnprocessableEntity, "page_size must be between 1 and 100")
			return 0, 0, false
		}
	}
	return pageNumber, pageSize, true
}

type wireApproval struct {
	PriceUSD  json.Number `json:"price_usd"`
	CreatedAt string      `json:"created_at"`
}

type wireTask struct {
	TaskID              string        `json:"task_id"`
	Name                string        `json:"name"`
	Status              string        `json:"status"`
	CreatedAt           string        `json:"created_at"`
	ApprovalRequestInfo *wireApproval `json:"approval_request_info,omitempty"`
}

type wireCanvas struct {
	CanvasID  string `json:"canvas_id"`
	VersionID string `json:"version_id"`
	CreatedAt string `json:"created_at"`
	Content   string `json:"content"`
}

type taskList struct {
	Tasks []*wireTask `json:"tasks"`
	model.Pagination
}

type canvasList struct {
	Canvases []*wireCanvas `json:"canvases"`
	model.Pagination
}

func (t *task) wire() *wireTask {
	w := &wireTask{
		TaskID:    t.id.String(),
		Name:      t.name,
		Status:    t.status.String(),
		CreatedAt: t.createdAt.Format(naiveLayout),
	}
	if t.price != nil {
		w.ApprovalRequestInfo = &wireApproval{
			PriceUSD:  json.Number(model.NewPrice(*t.price).String()),
			CreatedAt: t.quotedAt.Format(naiveLayout),
		}
	}
	return w
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
