package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/effective-security/tendem-mcp/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskJSON = `{
	"task_id": "0b5c2a8e-6a43-4d4f-9a57-1f3c6c8a9d10",
	"name": "collect competitor pricing",
	"status": "AWAITING_APPROVAL",
	"created_at": "2025-03-01T10:20:30.123456",
	"approval_request_info": {
		"price_usd": 12.10,
		"created_at": "2025-03-01T10:25:00"
	}
}`

func Test_Task_Decode(t *testing.T) {
	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(taskJSON), &task))

	assert.Equal(t, uuid.MustParse("0b5c2a8e-6a43-4d4f-9a57-1f3c6c8a9d10"), task.TaskID)
	assert.Equal(t, "collect competitor pricing", task.Name)
	assert.Equal(t, model.StatusAwaitingApproval, task.Status)
	assert.Equal(t, time.UTC, task.CreatedAt.Location())
	require.NotNil(t, task.ApprovalRequestInfo)
	assert.True(t, decimal.RequireFromString("12.1").Equal(task.ApprovalRequestInfo.PriceUSD.Decimal))
	assert.Equal(t, "12.10", task.ApprovalRequestInfo.PriceUSD.String())
	assert.Equal(t, time.UTC, task.ApprovalRequestInfo.CreatedAt.Location())

	b, err := json.Marshal(&task)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"task_id": "0b5c2a8e-6a43-4d4f-9a57-1f3c6c8a9d10",
		"name": "collect competitor pricing",
		"status": "AWAITING_APPROVAL",
		"created_at": "2025-03-01T10:20:30.123456Z",
		"approval_request_info": {
			"price_usd": "12.10",
			"created_at": "2025-03-01T10:25:00Z"
		}
	}`, string(b))
}

func Test_Task_DecodeErrors(t *testing.T) {
	var task model.Task
	assert.Error(t, json.Unmarshal([]byte(`{"task_id":"nope","name":"x","status":"DRAFT","created_at":"2025-03-01T10:20:30"}`), &task))
	assert.Error(t, json.Unmarshal([]byte(`{"task_id":"0b5c2a8e-6a43-4d4f-9a57-1f3c6c8a9d10","name":"x","status":"WAITING","created_at":"2025-03-01T10:20:30"}`), &task))
	assert.Error(t, json.Unmarshal([]byte(`{"task_id":"0b5c2a8e-6a43-4d4f-9a57-1f3c6c8a9d10","name":"x","status":"DRAFT","created_at":"soon"}`), &task))
}

func Test_Price_NoFloatDrift(t *testing.T) {
	var info model.ApprovalRequestInfo
	require.NoError(t, json.Unmarshal([]byte(`{"price_usd":"0.1","created_at":"2025-03-01T10:25:00"}`), &info))

	sum := decimal.Zero
	for range 10 {
		sum = sum.Add(info.PriceUSD.Decimal)
	}
	assert.Equal(t, "1", sum.String())
}

func Test_TaskList_Decode(t *testing.T) {
	var list model.TaskList
	require.NoError(t, json.Unmarshal([]byte(`{"tasks":[`+taskJSON+`],"total":11,"page_number":1,"page_size":5,"pages":3}`), &list))
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, model.NewPagination(11, 1, 5), list.Pagination)

	b, err := json.Marshal(&model.TaskList{Tasks: []*model.Task{}, Pagination: model.NewPagination(0, 0, 10)})
	require.NoError(t, err)
	assert.Equal(t, `{"tasks":[],"total":0,"page_number":0,"page_size":10,"pages":0}`, string(b))
}

func Test_AllTaskResults(t *testing.T) {
	artifact := uuid.MustParse("7d1f5f56-8a8e-4b55-9d0e-3c2b1a0f9e8d")
	results := &model.TaskResults{
		Canvases: []*model.Canvas{
			{
				CanvasID:  uuid.New(),
				VersionID: uuid.New(),
				CreatedAt: model.Time{Time: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
				Content:   "final\n```agents-reference\n" + model.ArtifactScheme + artifact.String() + "\n```",
			},
			{
				CanvasID:  uuid.New(),
				VersionID: uuid.New(),
				CreatedAt: model.Time{Time: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
				Content:   "draft",
			},
		},
		Pagination: model.NewPagination(2, 0, 10),
	}
	assert.Equal(t, "final\n```agents-reference\naba://7d1f5f56-8a8e-4b55-9d0e-3c2b1a0f9e8d\n```", results.Latest().Content)

	all := model.NewAllTaskResults(results)
	b, err := json.Marshal(all)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"results": [
			{
				"created_at": "2025-03-02T00:00:00Z",
				"content": "final\n`+"```"+`agents-reference\naba://7d1f5f56-8a8e-4b55-9d0e-3c2b1a0f9e8d\n`+"```"+`",
				"artifact_ids": ["7d1f5f56-8a8e-4b55-9d0e-3c2b1a0f9e8d"]
			},
			{
				"created_at": "2025-03-01T00:00:00Z",
				"content": "draft"
			}
		],
		"total": 2,
		"page_number": 0,
		"page_size": 10,
		"pages": 1
	}`, string(b))

	var empty *model.TaskResults
	assert.Nil(t, empty.Latest())
	assert.Nil(t, (&model.TaskResults{}).Latest())
}

func Test_ArtifactRefs(t *testing.T) {
	a := "7d1f5f56-8a8e-4b55-9d0e-3c2b1a0f9e8d"
	b := "0b5c2a8e-6a43-4d4f-9a57-1f3c6c8a9d10"
	content := "see aba://" + a + " and aba://" + b + ", again aba://" + a + " and aba://not-an-id"

	ids := model.ArtifactRefs(content)
	assert.Equal(t, []uuid.UUID{uuid.MustParse(a), uuid.MustParse(b)}, ids)
	assert.Nil(t, model.ArtifactRefs("no references"))
}

func Test_Price_KeepsScale(t *testing.T) {
	tcases := []struct {
		in  string
		exp string
	}{
		{`"12.50"`, `"12.50"`},
		{`12.50`, `"12.50"`},
		{`"25"`, `"25"`},
		{`"0.1"`, `"0.1"`},
		{`"1e3"`, `"1000"`},
	}
	for _, tc := range tcases {
		var p model.Price
		require.NoError(t, json.Unmarshal([]byte(tc.in), &p), tc.in)
		b, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Equal(t, tc.exp, string(b), tc.in)
	}

	p := model.NewPrice(decimal.RequireFromString("9.90"))
	txt, err := p.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "9.90", string(txt))
	assert.True(t, p.Equal(decimal.RequireFromString("9.9")))
}
