package Trello

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(serverURL string) *Api {
	api := NewApi("test-key", "test-token")
	api.BaseURL = serverURL
	return api
}

func TestGetCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cards/card-1", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"card-1","name":"Вакансия","desc":"Нужен PHP разработчик"}`))
	}))
	defer srv.Close()

	card, err := newTestApi(srv.URL).GetCard("card-1")

	require.NoError(t, err)
	assert.Equal(t, "card-1", card.ID)
	assert.Equal(t, "Вакансия", card.Name)
	assert.Equal(t, "Нужен PHP разработчик", card.Desc)
}

func TestGetCard_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("The requested resource was not found."))
	}))
	defer srv.Close()

	_, err := newTestApi(srv.URL).GetCard("missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestCreateCardComment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cards/card-1/actions/comments", r.URL.Path)
		assert.Equal(t, "Найдены кандидаты", r.URL.Query().Get("text"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"action-1"}`))
	}))
	defer srv.Close()

	err := newTestApi(srv.URL).CreateCardComment("card-1", "Найдены кандидаты")

	require.NoError(t, err)
}

func TestCreateCardComment_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid token"))
	}))
	defer srv.Close()

	err := newTestApi(srv.URL).CreateCardComment("card-1", "Найдены кандидаты")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
