package Bitrix

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCall_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm.deal.list", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var params map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		filter := params["filter"].(map[string]interface{})
		assert.Equal(t, "LOSE", filter["STAGE_ID"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":[{"ID":"5","TITLE":"Петров, PHP"}],"total":1}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Call("crm.deal.list", map[string]interface{}{
		"filter": map[string]interface{}{"STAGE_ID": "LOSE"},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"ID":"5","TITLE":"Петров, PHP"}]`, string(result))
}

func TestClientCall_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"INVALID_REQUEST","error_description":"Wrong entity id"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Call("crm.timeline.comment.add", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST")
	assert.Contains(t, err.Error(), "Wrong entity id")
}

func TestDealApiList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, []interface{}{"ID", "TITLE"}, params["select"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":[{"ID":"5","TITLE":"Петров, PHP","STAGE_ID":"LOSE"}]}`))
	}))
	defer srv.Close()

	api := NewDealApi(NewClient(srv.URL))
	deals, err := api.List(map[string]interface{}{"STAGE_ID": "LOSE"}, []string{"ID", "TITLE"})

	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "5", deals[0].ID)
	assert.Equal(t, "Петров, PHP", deals[0].Title)
	assert.Equal(t, "LOSE", deals[0].StageID)
}

func TestTimelineCommentApiAdd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/crm.timeline.comment.add", r.URL.Path)

		var params map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		fields := params["fields"].(map[string]interface{})
		assert.Equal(t, float64(77), fields["ENTITY_ID"])
		assert.Equal(t, float64(2), fields["ENTITY_TYPE_ID"])
		assert.Equal(t, "Комментарий", fields["COMMENT"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":123}`))
	}))
	defer srv.Close()

	api := NewTimelineCommentApi(NewClient(srv.URL))
	err := api.Add(77, 2, "Комментарий")

	require.NoError(t, err)
}

func TestUserApiGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":[{"ID":"9","NAME":"Мария","LAST_NAME":"Иванова"}]}`))
	}))
	defer srv.Close()

	api := NewUserApi(NewClient(srv.URL))
	user, err := api.Get("9")

	require.NoError(t, err)
	assert.Equal(t, "Мария", user.Name)
	assert.Equal(t, "Иванова", user.LastName)
}

func TestClientFactory(t *testing.T) {
	factory := NewClientFactory(map[string]string{
		ScopeHR: "https://portal.example.com/rest/1/hrhook",
	})

	first, err := factory.ClientFor(ScopeHR)
	require.NoError(t, err)

	second, err := factory.ClientFor(ScopeHR)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = factory.ClientFor(ScopeMyCRM)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "my_crm")
}
