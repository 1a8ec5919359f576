package fakeservice_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/effective-security/tendem-mcp/internal/fakeservice"
	"github.com/effective-security/tendem-mcp/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, srv *httptest.Server, method, path, key, body string) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+key)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var res map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&res)
	return resp.StatusCode, res
}

func TestService(t *testing.T) {
	svc := fakeservice.New("k")
	svc.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 600000000, time.UTC) }
	srv := httptest.NewServer(svc)
	defer srv.Close()

	code, res := do(t, srv, http.MethodGet, "/tasks", "wrong", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid API key", res["detail"])

	code, res = do(t, srv, http.MethodPost, "/tasks", "k", `{"text":"`+strings.Repeat("a", 60)+`\nmore"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "DRAFT", res["status"])
	assert.Equal(t, strings.Repeat("a", 50), res["name"])
	assert.Equal(t, "2026-01-02T03:04:05.600000", res["created_at"])
	id := uuid.MustParse(res["task_id"].(string))

	code, _ = do(t, srv, http.MethodPost, "/tasks", "k", `{"text":" "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, res = do(t, srv, http.MethodPost, "/tasks/"+id.String()+"/approve", "k", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Task is not awaiting approval (status: DRAFT)", res["detail"])

	require.NoError(t, svc.Quote(id, decimal.RequireFromString("12.5")))
	code, res = do(t, srv, http.MethodGet, "/tasks/"+id.String(), "k", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AWAITING_APPROVAL", res["status"])
	assert.Equal(t, 12.5, res["approval_request_info"].(map[string]any)["price_usd"])

	code, _ = do(t, srv, http.MethodPost, "/tasks/"+id.String()+"/approve", "k", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.StatusProcessing, svc.Status(id))

	require.NoError(t, svc.Complete(id, "one", "two"))
	code, res = do(t, srv, http.MethodGet, "/tasks/"+id.String()+"/results?page_number=0&page_size=1", "k", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, res["total"])
	assert.EqualValues(t, 2, res["pages"])
	canvases := res["canvases"].([]any)
	require.Len(t, canvases, 1)
	assert.Equal(t, "two", canvases[0].(map[string]any)["content"])

	code, res = do(t, srv, http.MethodPost, "/tasks/"+id.String()+"/cancel", "k", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Task can not be cancelled (status: COMPLETED)", res["detail"])

	code, _ = do(t, srv, http.MethodGet, "/tasks?page_size=101", "k", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, res = do(t, srv, http.MethodGet, "/tasks/"+uuid.NewString(), "k", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Task not found", res["detail"])

	assert.Error(t, svc.Advance(id, model.StatusProcessing))
	assert.Equal(t, model.StatusUnknown, svc.Status(uuid.New()))
}

func TestService_FailNext(t *testing.T) {
	svc := fakeservice.New("k")
	srv := httptest.NewServer(svc)
	defer srv.Close()

	svc.FailNext(http.StatusServiceUnavailable, http.StatusTooManyRequests)
	code, _ := do(t, srv, http.MethodGet, "/tasks", "k", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = do(t, srv, http.MethodGet, "/tasks", "k", "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	code, _ = do(t, srv, http.MethodGet, "/tasks", "k", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, svc.Hits())
}

func TestService_Artifact(t *testing.T) {
	svc := fakeservice.New("k")
	srv := httptest.NewServer(svc)
	defer srv.Close()

	id := svc.AddTask("make a chart")
	aid, err := svc.AddArtifact(id, []byte("chart"))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/tasks/"+id.String()+"/artifacts/"+aid.String(), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer k")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "chart", string(body))

	code, res := do(t, srv, http.MethodGet, "/tasks/"+id.String()+"/artifacts/"+uuid.NewString(), "k", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Artifact not found", res["detail"])

	_, err = svc.AddArtifact(uuid.New(), nil)
	assert.Error(t, err)
}
