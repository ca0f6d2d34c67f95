package server

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createComment(t *testing.T, app *fiber.App, token string, postID uint, text string) uint {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/posts/comment/create", token, map[string]any{
		"text":    text,
		"post_id": postID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id, ok := body["id"].(float64)
	require.True(t, ok, "comment create response missing id")
	return uint(id)
}

func TestCreateComment(t *testing.T) {
	app := setupTestApp(t)
	token := registerUser(t, app, "alice")
	postID := createPost(t, app, token, "commented")

	resp, body := doJSON(t, app, "POST", "/api/posts/comment/create", token, map[string]any{
		"text":    "well said",
		"post_id": postID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "well said", body["text"])
	assert.Equal(t, false, body["is_blocked"])
	assert.Equal(t, float64(postID), body["post_id"])

	t.Run("missing post is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/posts/comment/create", token, map[string]any{
			"text":    "orphan",
			"post_id": 9999,
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("empty text is 400", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/posts/comment/create", token, map[string]any{
			"post_id": postID,
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("profane comment is created blocked", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/posts/comment/create", token, map[string]any{
			"text":    "heck off",
			"post_id": postID,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, true, body["is_blocked"])
	})
}

func TestCommentDetailAndList(t *testing.T) {
	app := setupTestApp(t)
	token := registerUser(t, app, "alice")
	postID := createPost(t, app, token, "commented")

	visible := createComment(t, app, token, postID, "visible")
	blocked := createComment(t, app, token, postID, "heck")

	resp, body := doJSON(t, app, "GET", fmt.Sprintf("/api/posts/comment/detail/%d", visible), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "visible", body["text"])

	resp, body = doJSON(t, app, "GET", fmt.Sprintf("/api/posts/comment/detail/%d", blocked), token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BLOCKED", body["code"])

	resp, _ = doJSON(t, app, "GET", "/api/posts/comment/detail/9999", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	req := httptest.NewRequest("GET", "/api/posts/comment/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, listResp.StatusCode)

	var comments []map[string]any
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&comments))
	require.Len(t, comments, 1)
	assert.Equal(t, "visible", comments[0]["text"])
}

func TestUpdateComment(t *testing.T) {
	app := setupTestApp(t)
	token := registerUser(t, app, "alice")
	postID := createPost(t, app, token, "commented")
	id := createComment(t, app, token, postID, "original")

	resp, body := doJSON(t, app, "PUT", fmt.Sprintf("/api/posts/comment/update/%d", id), token, map[string]any{
		"text":    "edited",
		"post_id": postID,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "edited", body["text"])

	t.Run("missing comment is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, "PUT", "/api/posts/comment/update/9999", token, map[string]any{
			"text":    "x",
			"post_id": postID,
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing post is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/api/posts/comment/update/%d", id), token, map[string]any{
			"text":    "x",
			"post_id": 9999,
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteCommentCascadesReplies(t *testing.T) {
	app := setupTestApp(t)
	token := registerUser(t, app, "alice")
	postID := createPost(t, app, token, "threaded")

	root := createComment(t, app, token, postID, "root")
	resp, body := doJSON(t, app, "POST", "/api/posts/comment/create", token, map[string]any{
		"text":      "reply",
		"post_id":   postID,
		"parent_id": root,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	reply := uint(body["id"].(float64))

	resp, body = doJSON(t, app, "DELETE", fmt.Sprintf("/api/posts/comment/delete/%d", root), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Comment was successfully deleted", body["message"])

	for _, id := range []uint{root, reply} {
		resp, _ := doJSON(t, app, "GET", fmt.Sprintf("/api/posts/comment/detail/%d", id), token, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}
}
