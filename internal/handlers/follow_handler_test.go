package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amandajiang259/Yapp/internal/services"
	"github.com/amandajiang259/Yapp/pkg/docstore"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFollowHandlerTest(t *testing.T) (*FollowHandler, *docstore.MemoryStore) {
	t.Helper()
	store := docstore.NewMemoryStore()
	svc := services.NewFollowGraphService(store, zap.NewNop())
	return NewFollowHandler(svc, zap.NewNop()), store
}

func seedUser(t *testing.T, store *docstore.MemoryStore, id, username string) {
	t.Helper()
	err := store.Set(context.Background(), services.UsersCollection, id, map[string]interface{}{
		"username":  username,
		"followers": []string{},
		"following": []string{},
	})
	require.NoError(t, err)
}

// followContext builds an echo context for a follow route with the path user
// id bound and the given authenticated uid (empty means unauthenticated).
func followContext(method, targetID, actorID string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:id/follow")
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	if actorID != "" {
		c.Set("firebaseUID", actorID)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFollowUserCreatesEdge(t *testing.T) {
	h, store := newFollowHandlerTest(t)
	seedUser(t, store, "alice", "alice")
	seedUser(t, store, "bob", "bob")

	c, rec := followContext(http.MethodPost, "bob", "alice")
	require.NoError(t, h.FollowUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	doc, err := store.Get(context.Background(), services.UsersCollection, "bob")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"alice"}, doc.Fields["followers"])
}

func TestFollowUserRequiresAuth(t *testing.T) {
	h, store := newFollowHandlerTest(t)
	seedUser(t, store, "bob", "bob")

	c, _ := followContext(http.MethodPost, "bob", "")
	err := h.FollowUser(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestFollowSelfIsRejected(t *testing.T) {
	h, store := newFollowHandlerTest(t)
	seedUser(t, store, "alice", "alice")

	c, _ := followContext(http.MethodPost, "alice", "alice")
	err := h.FollowUser(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestFollowUnknownUserIs404(t *testing.T) {
	h, store := newFollowHandlerTest(t)
	seedUser(t, store, "alice", "alice")

	c, _ := followContext(http.MethodPost, "ghost", "alice")
	err := h.FollowUser(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestUnfollowUserRemovesEdge(t *testing.T) {
	h, store := newFollowHandlerTest(t)
	seedUser(t, store, "alice", "alice")
	seedUser(t, store, "bob", "bob")

	c, rec := followContext(http.MethodPost, "bob", "alice")
	require.NoError(t, h.FollowUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = followContext(http.MethodDelete, "bob", "alice")
	require.NoError(t, h.UnfollowUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	doc, err := store.Get(context.Background(), services.UsersCollection, "bob")
	require.NoError(t, err)
	assert.Empty(t, doc.Fields["followers"])
}

func TestIsFollowingEndpoint(t *testing.T) {
	h, store := newFollowHandlerTest(t)
	seedUser(t, store, "alice", "alice")
	seedUser(t, store, "bob", "bob")

	c, rec := followContext(http.MethodGet, "bob", "alice")
	require.NoError(t, h.IsFollowing(c))
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, false, data["following"])

	c, _ = followContext(http.MethodPost, "bob", "alice")
	require.NoError(t, h.FollowUser(c))

	c, rec = followContext(http.MethodGet, "bob", "alice")
	require.NoError(t, h.IsFollowing(c))
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, true, data["following"])
}

func TestListFollowersReturnsSummaries(t *testing.T) {
	h, store := newFollowHandlerTest(t)
	seedUser(t, store, "alice", "alice")
	seedUser(t, store, "bob", "bob")
	seedUser(t, store, "carol", "carol")

	for _, actor := range []string{"alice", "carol"} {
		c, _ := followContext(http.MethodPost, "bob", actor)
		require.NoError(t, h.FollowUser(c))
	}

	c, rec := followContext(http.MethodGet, "bob", "alice")
	require.NoError(t, h.ListFollowers(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 2)
	usernames := make([]string, 0, 2)
	for _, item := range data {
		usernames = append(usernames, item.(map[string]interface{})["username"].(string))
	}
	assert.ElementsMatch(t, []string{"alice", "carol"}, usernames)
}

func TestListFollowersUnknownUserIs404(t *testing.T) {
	h, _ := newFollowHandlerTest(t)

	c, _ := followContext(http.MethodGet, "ghost", "alice")
	err := h.ListFollowers(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
