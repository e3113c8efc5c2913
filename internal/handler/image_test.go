package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (e *testEnv) upload(t *testing.T, cookie string, fields map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, data := range fields {
		fw, err := mw.CreateFormFile(field, field+".webp")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Cookie", cookie)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func stagedNames(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Items []struct {
				Field string `json:"field"`
				Name  string `json:"name"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	names := make([]string, 0, len(resp.Data.Items))
	for _, item := range resp.Data.Items {
		names = append(names, item.Name)
	}
	return names
}

func commitImage(t *testing.T, env *testEnv, cookie, staged string) models.Image {
	t.Helper()

	w := env.do(http.MethodPost, "/api/admin/images", cookie,
		strings.NewReader(fmt.Sprintf(`{"name":%q}`, staged)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Item models.Image `json:"item"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.Item
}

func adminEnv(t *testing.T) (*testEnv, string) {
	env := newTestEnv(t)
	env.createUser(t, "admin@x.com", "AdminPass1", models.RoleAdmin)
	return env, env.login(t, "admin@x.com", "AdminPass1")
}

func TestUploadCommitShowRoundTrip(t *testing.T) {
	env, cookie := adminEnv(t)
	payload := []byte("not really webp but the pipeline does not care")

	w := env.upload(t, cookie, map[string][]byte{"header": payload})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	names := stagedNames(t, w)
	require.Len(t, names, 1)
	assert.True(t, strings.HasPrefix(names[0], "staged-"))

	image := commitImage(t, env, cookie, names[0])
	assert.Equal(t, image.ID.String()+".webp", image.Name)

	// staged file was renamed away
	_, err := os.Stat(filepath.Join(env.dir, names[0]))
	assert.True(t, os.IsNotExist(err))

	// visitors read the committed bytes back unchanged
	show := env.do(http.MethodGet, "/images/"+image.Name, "", nil)
	require.Equal(t, http.StatusOK, show.Code)
	assert.Equal(t, payload, show.Body.Bytes())
}

func TestUploadProcessesAllFields(t *testing.T) {
	env, cookie := adminEnv(t)

	w := env.upload(t, cookie, map[string][]byte{
		"first":  []byte("aaa"),
		"second": []byte("bbb"),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	names := stagedNames(t, w)
	assert.Len(t, names, 2)
	assert.NotEqual(t, names[0], names[1])
}

func TestUploadWithoutFiles(t *testing.T) {
	env, cookie := adminEnv(t)

	w := env.upload(t, cookie, map[string][]byte{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommitUnknownStagedFile(t *testing.T) {
	env, cookie := adminEnv(t)

	w := env.do(http.MethodPost, "/api/admin/images", cookie,
		strings.NewReader(`{"name":"staged-missing.webp"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommitRejectsTraversal(t *testing.T) {
	env, cookie := adminEnv(t)

	w := env.do(http.MethodPost, "/api/admin/images", cookie,
		strings.NewReader(`{"name":"../outside.webp"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommitRowNeverOutlivesFailedNameUpdate(t *testing.T) {
	env, cookie := adminEnv(t)

	failUpdate := false
	require.NoError(t, env.db.Callback().Update().Before("gorm:update").
		Register("reject_updates", func(tx *gorm.DB) {
			if failUpdate {
				_ = tx.AddError(errors.New("update rejected"))
			}
		}))

	w := env.upload(t, cookie, map[string][]byte{"pic": []byte("data")})
	require.Equal(t, http.StatusCreated, w.Code)
	staged := stagedNames(t, w)[0]

	failUpdate = true
	w = env.do(http.MethodPost, "/api/admin/images", cookie,
		strings.NewReader(fmt.Sprintf(`{"name":%q}`, staged)))
	failUpdate = false
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Image{}).Count(&count).Error)
	assert.Zero(t, count, "no row survives a failed commit")

	// the staged file is back where upload left it
	_, err := os.Stat(filepath.Join(env.dir, staged))
	assert.NoError(t, err)

	// so retrying the commit works
	image := commitImage(t, env, cookie, staged)
	assert.Equal(t, image.ID.String()+".webp", image.Name)
}

func TestEditNameConflictLeavesFilesAlone(t *testing.T) {
	env, cookie := adminEnv(t)

	w := env.upload(t, cookie, map[string][]byte{"a": []byte("first")})
	require.Equal(t, http.StatusCreated, w.Code)
	first := commitImage(t, env, cookie, stagedNames(t, w)[0])

	w = env.upload(t, cookie, map[string][]byte{"b": []byte("second")})
	require.Equal(t, http.StatusCreated, w.Code)
	second := commitImage(t, env, cookie, stagedNames(t, w)[0])

	w = env.do(http.MethodPatch, "/api/admin/images/"+first.ID.String(), cookie,
		strings.NewReader(fmt.Sprintf(`{"name":%q}`, second.Name)))
	assert.Equal(t, http.StatusConflict, w.Code)

	// both files keep their names and contents
	data, err := os.ReadFile(filepath.Join(env.dir, first.Name))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), data)
	data, err = os.ReadFile(filepath.Join(env.dir, second.Name))
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	// and the row still carries its old name
	var stored models.Image
	require.NoError(t, env.db.First(&stored, "id = ?", first.ID).Error)
	assert.Equal(t, first.Name, stored.Name)
}

func TestDeleteIdempotentEffect(t *testing.T) {
	env, cookie := adminEnv(t)

	w := env.upload(t, cookie, map[string][]byte{"pic": []byte("data")})
	require.Equal(t, http.StatusCreated, w.Code)
	image := commitImage(t, env, cookie, stagedNames(t, w)[0])

	del := env.do(http.MethodDelete, "/api/admin/images/"+image.ID.String(), cookie, nil)
	assert.Equal(t, http.StatusNoContent, del.Code)
	_, err := os.Stat(filepath.Join(env.dir, image.Name))
	assert.True(t, os.IsNotExist(err))

	// second delete on the same id
	del = env.do(http.MethodDelete, "/api/admin/images/"+image.ID.String(), cookie, nil)
	assert.Equal(t, http.StatusNotFound, del.Code)
}

func TestDeleteWithMissingFile(t *testing.T) {
	env, cookie := adminEnv(t)

	// row without a file (dangling)
	image := models.Image{Name: "gone.webp"}
	require.NoError(t, env.db.Create(&image).Error)

	del := env.do(http.MethodDelete, "/api/admin/images/"+image.ID.String(), cookie, nil)
	assert.Equal(t, http.StatusNoContent, del.Code)
}

func TestReconcileAdoptsOrphansOnce(t *testing.T) {
	env, cookie := adminEnv(t)

	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "orphan.webp"), []byte("x"), 0o644))
	// staged files must not be adopted
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "staged-abc.webp"), []byte("y"), 0o644))
	// dangling row: present in the table, absent on disk
	dangling := models.Image{Name: "dangling.webp"}
	require.NoError(t, env.db.Create(&dangling).Error)

	w := env.do(http.MethodGet, "/api/admin/update/all_images", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Adopted  []string `json:"adopted"`
		Dangling []string `json:"dangling"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"orphan.webp"}, resp.Adopted)
	assert.Equal(t, []string{"dangling.webp"}, resp.Dangling)

	// second run against the unchanged directory adopts nothing
	w = env.do(http.MethodGet, "/api/admin/update/all_images", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Adopted)

	var count int64
	require.NoError(t, env.db.Model(&models.Image{}).
		Where("name = ?", "orphan.webp").Count(&count).Error)
	assert.Equal(t, int64(1), count, "no duplicate rows for the orphan")

	// dangling row survives reconciliation
	require.NoError(t, env.db.Model(&models.Image{}).
		Where("name = ?", "dangling.webp").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestShowRejectsTraversal(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/images/"+"..%2Fconfig.yaml", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShowUnknownFile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/images/nope.webp", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
