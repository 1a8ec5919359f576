package client

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tcases := []struct {
		name string
		v    any
		err  string
	}{
		{"page ok", &PageRequest{PageNumber: 0, PageSize: 1}, ""},
		{"page max", &PageRequest{PageNumber: 1000, PageSize: 100}, ""},
		{"negative page", &PageRequest{PageNumber: -1, PageSize: 20}, "page_number must be greater than or equal to 0"},
		{"zero size", &PageRequest{PageNumber: 0, PageSize: 0}, "page_size must be greater than or equal to 1"},
		{"both", &PageRequest{PageNumber: -1, PageSize: 101}, "page_number must be greater than or equal to 0; page_size must be less than or equal to 100"},
		{"text", &CreateTaskRequest{Text: "hi"}, ""},
		{"blank text", &CreateTaskRequest{Text: " \t\n"}, "text is required"},
		{"empty text", &CreateTaskRequest{}, "text is required"},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.v)
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.EqualError(t, err, tc.err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := ParseID("task_id", " "+id.String()+" ")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseID("task_id", "")
	assert.EqualError(t, err, "task_id is required")
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = ParseID("artifact_id", "abc")
	assert.EqualError(t, err, `artifact_id must be a valid UUID: "abc"`)

	_, err = ParseID("task_id", uuid.Nil.String())
	assert.EqualError(t, err, "task_id is required")

	assert.NoError(t, ValidateID("task_id", id))
	assert.EqualError(t, ValidateID("task_id", uuid.Nil), "task_id is required")
}
