package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvinsyah/goblog/config"
	"github.com/alvinsyah/goblog/models"
)

func TestPostStore(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	w := env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "My First Post",
		"content":    "this is some real content",
		"categoryId": fmt.Sprint(category.ID),
	}, true)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.Post
	require.NoError(t, env.db.Where("title = ?", "My First Post").First(&post).Error)
	assert.Equal(t, "my-first-post", post.Slug)
	assert.Equal(t, user.ID, post.UserID)
	assert.Equal(t, category.ID, post.CategoryID)

	_, err := os.Stat(filepath.Join(config.Get().UploadDir, post.Image))
	assert.NoError(t, err)

	env.db.Delete(&post)
	os.Remove(filepath.Join(config.Get().UploadDir, post.Image))
}

func TestPostStoreRequiresImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	w := env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "Imageless",
		"content":    "this is some real content",
		"categoryId": fmt.Sprint(category.ID),
	}, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "post image is required")
}

func TestPostStoreDuplicateTitleRemovesUpload(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	w := env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "Taken Title",
		"content":    "this is some real content",
		"categoryId": fmt.Sprint(category.ID),
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	before := countUploads(t)

	w = env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "Taken Title",
		"content":    "another piece of content",
		"categoryId": fmt.Sprint(category.ID),
	}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "post title already exists")
	assert.Equal(t, before, countUploads(t), "rejected upload must be removed")
}

func TestPostStoreUnknownCategoryRemovesUpload(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)

	before := countUploads(t)

	w := env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "No Category Here",
		"content":    "this is some real content",
		"categoryId": "9999",
	}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "category not found")
	assert.Equal(t, before, countUploads(t))
}

func TestPostStoreShortContentRemovesUpload(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	before := countUploads(t)

	w := env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "Short Content",
		"content":    "too short",
		"categoryId": fmt.Sprint(category.ID),
	}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before, countUploads(t))
}

func TestPostStoreContentLengthCountsRunes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	before := countUploads(t)

	// nine runes but eighteen bytes, still below the ten character minimum
	w := env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "Accents Post",
		"content":    strings.Repeat("é", 9),
		"categoryId": fmt.Sprint(category.ID),
	}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 10 characters")
	assert.Equal(t, before, countUploads(t))
}

func TestPostStoreInvalidTitleRemovesUpload(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	before := countUploads(t)

	w := env.doMultipart(t, http.MethodPost, "/api/v1/posts", token, map[string]string{
		"title":      "Bad <Title>",
		"content":    "this is some real content",
		"categoryId": fmt.Sprint(category.ID),
	}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid characters")
	assert.Equal(t, before, countUploads(t))
}

func TestPostShowBySlug(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	post := models.Post{
		Title:      "Readable Post",
		Slug:       "readable-post",
		Content:    "content long enough here",
		Image:      "missing.png",
		UserID:     user.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, env.db.Create(&post).Error)

	w := env.doJSON(http.MethodGet, "/api/v1/posts/readable-post", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Readable Post")
	assert.Contains(t, w.Body.String(), "alice")
}

func TestPostShowNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", models.RoleUser)

	w := env.doJSON(http.MethodGet, "/api/v1/posts/nope", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostIndexPaginates(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	for i := 1; i <= 12; i++ {
		post := models.Post{
			Title:      fmt.Sprintf("Post Number %d", i),
			Slug:       fmt.Sprintf("post-number-%d", i),
			Content:    "content long enough here",
			Image:      "missing.png",
			UserID:     user.ID,
			CategoryID: category.ID,
		}
		require.NoError(t, env.db.Create(&post).Error)
	}

	w := env.doJSON(http.MethodGet, "/api/v1/posts?page=2&limit=5", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(12), body["total"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(3), body["totalPages"])
	assert.Len(t, body["data"].([]interface{}), 5)
}

func TestMyPostsFiltersByOwner(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice", models.RoleUser)
	bob, _ := env.createUser(t, "bob", models.RoleUser)
	category := env.createCategory(t, "Tech")

	for i, owner := range []*models.User{alice, alice, bob} {
		post := models.Post{
			Title:      fmt.Sprintf("Owner Post %d", i),
			Slug:       fmt.Sprintf("owner-post-%d", i),
			Content:    "content long enough here",
			Image:      "missing.png",
			UserID:     owner.ID,
			CategoryID: category.ID,
		}
		require.NoError(t, env.db.Create(&post).Error)
	}

	w := env.doJSON(http.MethodGet, "/api/v1/posts/my-posts", aliceToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["total"])
}

func TestPostUpdateByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice", models.RoleUser)
	_, bobToken := env.createUser(t, "bob", models.RoleUser)
	category := env.createCategory(t, "Tech")

	post := models.Post{
		Title:      "Alice Post",
		Slug:       "alice-post",
		Content:    "content long enough here",
		Image:      "missing.png",
		UserID:     alice.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, env.db.Create(&post).Error)

	w := env.doMultipart(t, http.MethodPut, "/api/v1/posts/alice-post", bobToken, map[string]string{
		"title": "Hijacked Title",
	}, false)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "your own posts")
}

func TestPostUpdateTitleRegeneratesSlug(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	post := models.Post{
		Title:      "Original Title",
		Slug:       "original-title",
		Content:    "content long enough here",
		Image:      "missing.png",
		UserID:     alice.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, env.db.Create(&post).Error)

	w := env.doMultipart(t, http.MethodPut, "/api/v1/posts/original-title", token, map[string]string{
		"title": "Brand New Title",
	}, false)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Post
	require.NoError(t, env.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "Brand New Title", reloaded.Title)
	assert.Equal(t, "brand-new-title", reloaded.Slug)
}

func TestPostUpdateDuplicateTitle(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	for _, title := range []string{"First Title", "Second Title"} {
		post := models.Post{
			Title:      title,
			Slug:       "slug-" + title[:5],
			Content:    "content long enough here",
			Image:      "missing.png",
			UserID:     alice.ID,
			CategoryID: category.ID,
		}
		require.NoError(t, env.db.Create(&post).Error)
	}

	w := env.doMultipart(t, http.MethodPut, "/api/v1/posts/slug-Secon", token, map[string]string{
		"title": "First Title",
	}, false)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "post title already exists")
}

func TestPostUpdateReplacesImage(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	oldImage := "post-replace-me-11111111.png"
	require.NoError(t, os.MkdirAll(config.Get().UploadDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(config.Get().UploadDir, oldImage), []byte("old"), 0o644))

	post := models.Post{
		Title:      "Replace Me",
		Slug:       "replace-me",
		Content:    "content long enough here",
		Image:      oldImage,
		UserID:     alice.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, env.db.Create(&post).Error)

	w := env.doMultipart(t, http.MethodPut, "/api/v1/posts/replace-me", token, nil, true)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded models.Post
	require.NoError(t, env.db.First(&reloaded, post.ID).Error)
	assert.NotEqual(t, oldImage, reloaded.Image)

	_, err := os.Stat(filepath.Join(config.Get().UploadDir, oldImage))
	assert.True(t, os.IsNotExist(err), "prior image must be removed after a successful replacement")
	_, err = os.Stat(filepath.Join(config.Get().UploadDir, reloaded.Image))
	assert.NoError(t, err, "replacement image must be on disk")

	os.Remove(filepath.Join(config.Get().UploadDir, reloaded.Image))
}

func TestPostUpdateRejectionRemovesStagedImage(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	oldImage := "post-keep-me-22222222.png"
	require.NoError(t, os.MkdirAll(config.Get().UploadDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(config.Get().UploadDir, oldImage), []byte("old"), 0o644))

	for _, p := range []models.Post{
		{Title: "Existing Title", Slug: "existing-title", Content: "content long enough here", Image: "missing.png", UserID: alice.ID, CategoryID: category.ID},
		{Title: "Keep Me", Slug: "keep-me", Content: "content long enough here", Image: oldImage, UserID: alice.ID, CategoryID: category.ID},
	} {
		require.NoError(t, env.db.Create(&p).Error)
	}

	before := countUploads(t)

	w := env.doMultipart(t, http.MethodPut, "/api/v1/posts/keep-me", token, map[string]string{
		"title": "Existing Title",
	}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "post title already exists")
	assert.Equal(t, before, countUploads(t), "staged replacement must be removed on rejection")

	var reloaded models.Post
	require.NoError(t, env.db.Where("slug = ?", "keep-me").First(&reloaded).Error)
	assert.Equal(t, oldImage, reloaded.Image)
	_, err := os.Stat(filepath.Join(config.Get().UploadDir, oldImage))
	assert.NoError(t, err, "prior image must survive a rejected update")
}

func TestPostDestroyByNonOwner(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.createUser(t, "alice", models.RoleUser)
	_, bobToken := env.createUser(t, "bob", models.RoleUser)
	category := env.createCategory(t, "Tech")

	post := models.Post{
		Title:      "Protected Post",
		Slug:       "protected-post",
		Content:    "content long enough here",
		Image:      "missing.png",
		UserID:     alice.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, env.db.Create(&post).Error)

	w := env.doJSON(http.MethodDelete, "/api/v1/posts/protected-post", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostDestroyRemovesImageAndComments(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.createUser(t, "alice", models.RoleUser)
	category := env.createCategory(t, "Tech")

	image := "post-doomed-abc123.png"
	require.NoError(t, os.MkdirAll(config.Get().UploadDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(config.Get().UploadDir, image), []byte("x"), 0o644))

	post := models.Post{
		Title:      "Doomed",
		Slug:       "doomed",
		Content:    "content long enough here",
		Image:      image,
		UserID:     alice.ID,
		CategoryID: category.ID,
	}
	require.NoError(t, env.db.Create(&post).Error)
	require.NoError(t, env.db.Create(&models.Comment{Content: "bye", PostID: post.ID, UserID: alice.ID}).Error)

	w := env.doJSON(http.MethodDelete, "/api/v1/posts/doomed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var postCount, commentCount int64
	env.db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&postCount)
	env.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	assert.Zero(t, postCount)
	assert.Zero(t, commentCount)

	_, err := os.Stat(filepath.Join(config.Get().UploadDir, image))
	assert.True(t, os.IsNotExist(err))
}
