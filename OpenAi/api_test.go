package OpenAi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModelTokenLimit(t *testing.T) {
	assert.Equal(t, 8000, GetModelTokenLimit(ModelChat))
	assert.Equal(t, 32000, GetModelTokenLimit(ModelChatExtendedContext))
	assert.Equal(t, 3000, GetModelTokenLimit(ModelText))
	assert.Equal(t, 2000, GetModelTokenLimit(ModelCode))
	assert.Equal(t, 2000, GetModelTokenLimit("some-unknown-model"))
}

func TestGetEstimateTokenCount(t *testing.T) {
	assert.Equal(t, 1, GetEstimateTokenCount("word", true))
	assert.Equal(t, 3, GetEstimateTokenCount("ten chars.", true))
	assert.Equal(t, 6, GetEstimateTokenCount("слово", false))
	assert.Equal(t, 0, GetEstimateTokenCount("", true))
	assert.Equal(t, 0, GetEstimateTokenCount("", false))
}

func TestChatCompletion_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, ModelChat, payload["model"])
		assert.Equal(t, float64(1), payload["temperature"])

		messages := payload["messages"].([]interface{})
		require.Len(t, messages, 1)
		first := messages[0].(map[string]interface{})
		assert.Equal(t, "user", first["role"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  ответ  "}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "", "")
	answer, err := client.ChatCompletion(ModelChat, []ChatMessage{NewUserMessage("вопрос")})

	require.NoError(t, err)
	assert.Equal(t, "ответ", answer)
}

func TestChatCompletion_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "", "")
	_, err := client.ChatCompletion(ModelChat, []ChatMessage{NewUserMessage("вопрос")})

	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no choices provided", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestChatCompletion_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "", "")
	_, err := client.ChatCompletion(ModelChat, []ChatMessage{NewUserMessage("вопрос")})

	var apiErr *ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Rate limit reached", apiErr.Message)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestCompletion_CodeModelTemperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 0.3, payload["temperature"])
		assert.Equal(t, "fix this", payload["prompt"])
		assert.Equal(t, float64(500), payload["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"text":"fixed"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "", "")
	text, err := client.Completion(ModelCode, "fix this", 500)

	require.NoError(t, err)
	assert.Equal(t, "fixed", text)
}

func TestGetAssistantAnswer_StripsCitations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/thread_1/messages", r.URL.Path)
		assert.Equal(t, "assistants=v1", r.Header.Get("OpenAI-Beta"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"content":[{"text":{"value":"См. договор【4†source】 и приложение【12†file】."}}]}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "", "")
	answer, err := client.GetAssistantAnswer("thread_1")

	require.NoError(t, err)
	assert.Equal(t, "См. договор и приложение.", answer)
}

func TestRetrieveRun_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/thread_1/runs/run_1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"run_1","thread_id":"thread_1","status":"completed"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token", "", "")
	run, err := client.RetrieveRun("thread_1", "run_1")

	require.NoError(t, err)
	assert.Equal(t, "run_1", run.ID)
	assert.True(t, run.IsCompleted())
	assert.False(t, run.IsFailed())
}
