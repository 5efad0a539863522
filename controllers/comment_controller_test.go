package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinsyah/goblog/models"
)

func seedPost(t *testing.T, env *testEnv, user *models.User, title string) *models.Post {
	t.Helper()

	category := models.Category{Name: "Cat " + title, Slug: "cat-" + strings.ToLower(title)}
	require.NoError(t, env.db.Create(&category).Error)

	post := models.Post{
		Title:      title,
		Slug:       strings.ToLower(title),
		Content:    "content long enough here",
		Image:      "missing.png",
		UserID:     user.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, env.db.Create(&post).Error)
	return &post
}

func TestCommentStore(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice", models.RoleUser)
	post := seedPost(t, env, user, "commented")

	w := env.doJSON(http.MethodPost, "/api/v1/comments/posts/commented", token, map[string]string{
		"content": "great write-up",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var comment models.Comment
	require.NoError(t, env.db.Where("post_id = ?", post.ID).First(&comment).Error)
	assert.Equal(t, "great write-up", comment.Content)
	assert.Equal(t, user.ID, comment.UserID)
}

func TestCommentStoreSanitizesHTML(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice", models.RoleUser)
	post := seedPost(t, env, user, "scripted")

	w := env.doJSON(http.MethodPost, "/api/v1/comments/posts/scripted", token, map[string]string{
		"content": `nice <script>alert("x")</script> post`,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var comment models.Comment
	require.NoError(t, env.db.Where("post_id = ?", post.ID).First(&comment).Error)
	assert.NotContains(t, comment.Content, "<script>")
	assert.Contains(t, comment.Content, "nice")
}

func TestCommentStoreUnknownPost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)

	w := env.doJSON(http.MethodPost, "/api/v1/comments/posts/missing", token, map[string]string{
		"content": "hello",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentStoreTooLong(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice", models.RoleUser)
	seedPost(t, env, user, "longform")

	w := env.doJSON(http.MethodPost, "/api/v1/comments/posts/longform", token, map[string]string{
		"content": strings.Repeat("a", 501),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentIndexByPost(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.createUser(t, "alice", models.RoleUser)
	first := seedPost(t, env, user, "first")
	second := seedPost(t, env, user, "second")

	for i := 0; i < 3; i++ {
		require.NoError(t, env.db.Create(&models.Comment{Content: fmt.Sprintf("on first %d", i), PostID: first.ID, UserID: user.ID}).Error)
	}
	require.NoError(t, env.db.Create(&models.Comment{Content: "on second", PostID: second.ID, UserID: user.ID}).Error)

	w := env.doJSON(http.MethodGet, "/api/v1/comments/posts/first", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["total"])
}

func TestCommentUpdateByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice", models.RoleUser)
	_, bobToken := env.createUser(t, "bob", models.RoleUser)
	post := seedPost(t, env, alice, "disputed")

	comment := models.Comment{Content: "mine", PostID: post.ID, UserID: alice.ID}
	require.NoError(t, env.db.Create(&comment).Error)

	w := env.doJSON(http.MethodPut, fmt.Sprintf("/api/v1/comments/%d", comment.ID), bobToken, map[string]string{
		"content": "hijacked",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "your own comments")
}

func TestCommentUpdateByOwner(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	post := seedPost(t, env, alice, "editable")

	comment := models.Comment{Content: "first draft", PostID: post.ID, UserID: alice.ID}
	require.NoError(t, env.db.Create(&comment).Error)

	w := env.doJSON(http.MethodPut, fmt.Sprintf("/api/v1/comments/%d", comment.ID), token, map[string]string{
		"content": "second draft",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Comment
	require.NoError(t, env.db.First(&reloaded, comment.ID).Error)
	assert.Equal(t, "second draft", reloaded.Content)
}

func TestCommentDestroyByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice", models.RoleUser)
	_, bobToken := env.createUser(t, "bob", models.RoleUser)
	post := seedPost(t, env, alice, "keepme")

	comment := models.Comment{Content: "mine", PostID: post.ID, UserID: alice.ID}
	require.NoError(t, env.db.Create(&comment).Error)

	w := env.doJSON(http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", comment.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommentDestroyByOwner(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	post := seedPost(t, env, alice, "dropme")

	comment := models.Comment{Content: "mine", PostID: post.ID, UserID: alice.ID}
	require.NoError(t, env.db.Create(&comment).Error)

	w := env.doJSON(http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", comment.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Zero(t, count)
}

func TestCommentShow(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	post := seedPost(t, env, alice, "showme")

	comment := models.Comment{Content: "visible", PostID: post.ID, UserID: alice.ID}
	require.NoError(t, env.db.Create(&comment).Error)

	w := env.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/comments/%d", comment.ID), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "visible")
}
