package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"portfolio-api/internal/models"
	"portfolio-api/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateHashesPassword(t *testing.T) {
	env, cookie := adminEnv(t)

	w := env.do(http.MethodPost, "/api/admin/users", cookie,
		strings.NewReader(`{"email":"new@x.com","password":"Secret123","username":"new","role":1,"active":1}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// response never carries the hash
	assert.Contains(t, w.Body.String(), `"password":""`)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "email = ?", "new@x.com").Error)
	assert.NotEqual(t, "Secret123", stored.Password)
	assert.True(t, util.CheckPassword("Secret123", stored.Password))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	env, cookie := adminEnv(t)
	env.createUser(t, "taken@x.com", "Whatever1", models.RoleEditor)

	w := env.do(http.MethodPost, "/api/admin/users", cookie,
		strings.NewReader(`{"email":"taken@x.com","password":"Other123"}`))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"fail"`)
}

func TestUserUpdatePartial(t *testing.T) {
	env, cookie := adminEnv(t)
	user := env.createUser(t, "edit@x.com", "Original1", models.RoleEditor)

	w := env.do(http.MethodPatch, "/api/admin/users/"+user.ID.String(), cookie,
		strings.NewReader(`{"fullname":"New Name"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, "New Name", stored.Fullname)
	assert.Equal(t, "edit@x.com", stored.Email)
	// password untouched by a partial update
	assert.True(t, util.CheckPassword("Original1", stored.Password))
}

func TestTranslationDump(t *testing.T) {
	env, cookie := adminEnv(t)
	require.NoError(t, env.db.Create(&models.Job{Company: "Acme", Title: "Dev"}).Error)
	require.NoError(t, env.db.Create(&models.Testimonial{Name: "Jo", Comment: "great"}).Error)

	w := env.do(http.MethodGet, "/api/admin/update/translation_files", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dump map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dump))

	require.Len(t, dump["jobs"], 1)
	assert.Equal(t, "Acme", dump["jobs"][0]["company"])
	require.Len(t, dump["testimonials"], 1)
	assert.Equal(t, "Jo", dump["testimonials"][0]["name"])
	assert.Empty(t, dump["projects"])
	assert.Empty(t, dump["details"])

	// public columns only
	_, hasID := dump["jobs"][0]["id"]
	assert.False(t, hasID)
}
