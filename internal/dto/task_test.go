package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoudsallem/Backend/internal/domain"
)

func TestDecodeCreateTask_Full(t *testing.T) {
	req, verr := DecodeCreateTask([]byte(`{"title":"Buy milk","description":"2 liters","completed":true}`))
	require.Nil(t, verr)
	assert.Equal(t, "Buy milk", req.Title)
	require.NotNil(t, req.Description)
	assert.Equal(t, "2 liters", *req.Description)
	assert.True(t, req.Completed)
}

func TestDecodeCreateTask_TitleOnly(t *testing.T) {
	req, verr := DecodeCreateTask([]byte(`{"title":"Buy milk"}`))
	require.Nil(t, verr)
	assert.Equal(t, "Buy milk", req.Title)
	assert.Nil(t, req.Description)
	assert.False(t, req.Completed)
}

func TestDecodeCreateTask_TitleTrimmed(t *testing.T) {
	req, verr := DecodeCreateTask([]byte(`{"title":"  Buy milk  "}`))
	require.Nil(t, verr)
	assert.Equal(t, "Buy milk", req.Title)
}

func TestDecodeCreateTask_MissingTitle(t *testing.T) {
	for name, body := range map[string]string{
		"no field":   `{"description":"x"}`,
		"empty body": ``,
		"whitespace": `   `,
		"json null":  `null`,
	} {
		t.Run(name, func(t *testing.T) {
			_, verr := DecodeCreateTask([]byte(body))
			require.NotNil(t, verr)
			assert.Equal(t, "title", verr.Field)
			assert.Equal(t, "title is required", verr.Message)
		})
	}
}

func TestDecodeCreateTask_TitleWrongType(t *testing.T) {
	for name, body := range map[string]string{
		"null":   `{"title":null}`,
		"number": `{"title":42}`,
		"array":  `{"title":["x"]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, verr := DecodeCreateTask([]byte(body))
			require.NotNil(t, verr)
			assert.Equal(t, "title", verr.Field)
			assert.Equal(t, "title must be a string", verr.Message)
		})
	}
}

func TestDecodeCreateTask_TitleEmpty(t *testing.T) {
	for _, body := range []string{`{"title":""}`, `{"title":"   "}`} {
		_, verr := DecodeCreateTask([]byte(body))
		require.NotNil(t, verr)
		assert.Equal(t, "title must not be empty", verr.Message)
	}
}

func TestDecodeCreateTask_TitleLength(t *testing.T) {
	max := strings.Repeat("x", MaxTitleLen)
	req, verr := DecodeCreateTask([]byte(`{"title":"` + max + `"}`))
	require.Nil(t, verr)
	assert.Equal(t, max, req.Title)

	_, verr = DecodeCreateTask([]byte(`{"title":"` + max + `x"}`))
	require.NotNil(t, verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "title must be at most 100 characters", verr.Message)
}

func TestDecodeCreateTask_DescriptionNullIsAbsent(t *testing.T) {
	req, verr := DecodeCreateTask([]byte(`{"title":"x","description":null}`))
	require.Nil(t, verr)
	assert.Nil(t, req.Description)
}

func TestDecodeCreateTask_DescriptionWrongType(t *testing.T) {
	_, verr := DecodeCreateTask([]byte(`{"title":"x","description":7}`))
	require.NotNil(t, verr)
	assert.Equal(t, "description must be a string", verr.Message)
}

func TestDecodeCreateTask_CompletedWrongType(t *testing.T) {
	for name, body := range map[string]string{
		"string": `{"title":"x","completed":"true"}`,
		"number": `{"title":"x","completed":1}`,
		"null":   `{"title":"x","completed":null}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, verr := DecodeCreateTask([]byte(body))
			require.NotNil(t, verr)
			assert.Equal(t, "completed", verr.Field)
			assert.Equal(t, "completed must be a boolean", verr.Message)
		})
	}
}

func TestDecodeCreateTask_UnknownFieldsIgnored(t *testing.T) {
	req, verr := DecodeCreateTask([]byte(`{"title":"x","priority":"high","owner":null}`))
	require.Nil(t, verr)
	assert.Equal(t, "x", req.Title)
}

func TestDecodeCreateTask_NotAnObject(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"title"`, `42`, `{broken`} {
		_, verr := DecodeCreateTask([]byte(body))
		require.NotNil(t, verr)
		assert.Equal(t, "request body must be a JSON object", verr.Message)
	}
}

func TestDecodeUpdateTask_NoData(t *testing.T) {
	for name, body := range map[string]string{
		"empty body":   ``,
		"whitespace":   `  `,
		"json null":    `null`,
		"empty object": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, verr := DecodeUpdateTask([]byte(body))
			require.NotNil(t, verr)
			assert.Equal(t, "no data provided", verr.Message)
			assert.Empty(t, verr.Field)
		})
	}
}

func TestDecodeUpdateTask_UnknownOnlyIsEmptyNotError(t *testing.T) {
	req, verr := DecodeUpdateTask([]byte(`{"priority":"high"}`))
	require.Nil(t, verr)
	assert.True(t, req.Empty())
}

func TestDecodeUpdateTask_Partial(t *testing.T) {
	req, verr := DecodeUpdateTask([]byte(`{"completed":true}`))
	require.Nil(t, verr)
	assert.Nil(t, req.Title)
	assert.Nil(t, req.Description)
	require.NotNil(t, req.Completed)
	assert.True(t, *req.Completed)
	assert.False(t, req.Empty())
}

func TestDecodeUpdateTask_TitleRules(t *testing.T) {
	req, verr := DecodeUpdateTask([]byte(`{"title":"  New title  "}`))
	require.Nil(t, verr)
	require.NotNil(t, req.Title)
	assert.Equal(t, "New title", *req.Title)

	_, verr = DecodeUpdateTask([]byte(`{"title":null}`))
	require.NotNil(t, verr)
	assert.Equal(t, "title must be a string", verr.Message)

	_, verr = DecodeUpdateTask([]byte(`{"title":""}`))
	require.NotNil(t, verr)
	assert.Equal(t, "title must not be empty", verr.Message)
}

func TestDecodeUpdateTask_DescriptionNullIsAbsent(t *testing.T) {
	req, verr := DecodeUpdateTask([]byte(`{"description":null}`))
	require.Nil(t, verr)
	assert.Nil(t, req.Description)
	// null carried the only recognized field, so nothing changes
	assert.True(t, req.Empty())
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "title: title is required", (&ValidationError{Field: "title", Message: "title is required"}).Error())
	assert.Equal(t, "no data provided", (&ValidationError{Message: "no data provided"}).Error())
}

func TestNewTaskResponse_NullDescription(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	resp := NewTaskResponse(domain.Task{ID: 1, Title: "x", CreatedAt: now, UpdatedAt: now})

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"description":null`)
	assert.Contains(t, string(b), `"completed":false`)
}

func TestNewTaskListResponse_EmptyRendersAsArray(t *testing.T) {
	b, err := json.Marshal(NewTaskListResponse(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}
