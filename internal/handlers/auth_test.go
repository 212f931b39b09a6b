// internal/handlers/auth_test.go
package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texthunter-back/internal/models"
)

func TestRegisterCreatesUser(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/api/register", RegisterRequest{
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
		Password: "cobol4ever",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "grace@example.com").First(&user).Error)
	assert.Equal(t, "Grace Hopper", user.FullName)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "cobol4ever", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegisterBlankFields(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, newFakeStore())

	w := doJSON(t, r, http.MethodPost, "/api/register", RegisterRequest{
		FullName: "  ",
		Email:    "",
		Password: "",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", errObj["code"])

	fields := errObj["fields"].(map[string]any)
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, newFakeStore())

	first := RegisterRequest{FullName: "First", Email: "dup@example.com", Password: "pw-one"}
	w := doJSON(t, r, http.MethodPost, "/api/register", first, "")
	require.Equal(t, http.StatusCreated, w.Code)

	second := RegisterRequest{FullName: "Second", Email: "dup@example.com", Password: "pw-two"}
	w = doJSON(t, r, http.MethodPost, "/api/register", second, "")
	require.Equal(t, http.StatusConflict, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "duplicate_email", body["error"].(map[string]any)["code"])

	// The first registration is untouched.
	var user models.User
	require.NoError(t, db.Where("email = ?", "dup@example.com").First(&user).Error)
	assert.Equal(t, "First", user.FullName)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	cookie := registerAndLogin(t, r, store, "login@example.com")
	assert.NotEmpty(t, cookie)
	assert.Equal(t, 1, store.count())

	data, err := store.Get(t.Context(), cookie)
	require.NoError(t, err)
	assert.Equal(t, "Test User", data.FullName)
	assert.Equal(t, "login@example.com", data.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	w := doJSON(t, r, http.MethodPost, "/api/register", RegisterRequest{
		FullName: "User", Email: "u@example.com", Password: "right-password",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", LoginRequest{
		Email: "u@example.com", Password: "wrong-password",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "invalid_credentials", body["error"].(map[string]any)["code"])
	assert.Equal(t, 0, store.count(), "no session on failed login")
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	w := doJSON(t, r, http.MethodPost, "/api/login", LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Same code as a wrong password, so account existence does not leak.
	body := decodeBody(t, w)
	assert.Equal(t, "invalid_credentials", body["error"].(map[string]any)["code"])
}

func TestLogoutDestroysSession(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	cookie := registerAndLogin(t, r, store, "out@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.count())

	// The old cookie no longer opens protected routes.
	w = doJSON(t, r, http.MethodGet, "/api/profile", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteWithoutSession(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, newFakeStore())

	w := doJSON(t, r, http.MethodGet, "/api/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "unauthenticated", body["error"].(map[string]any)["code"])
}

func TestUpdateProfileChangesUserAndSession(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	cookie := registerAndLogin(t, r, store, "old@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/profile", UpdateProfileRequest{
		FullName: "New Name",
		Email:    "new@example.com",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&user).Error)
	assert.Equal(t, "New Name", user.FullName)

	data, err := store.Get(t.Context(), cookie)
	require.NoError(t, err)
	assert.Equal(t, "New Name", data.FullName)
	assert.Equal(t, "new@example.com", data.Email)
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	w := doJSON(t, r, http.MethodPost, "/api/register", RegisterRequest{
		FullName: "Other", Email: "taken@example.com", Password: "pw",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	cookie := registerAndLogin(t, r, store, "mine@example.com")

	w = doJSON(t, r, http.MethodPut, "/api/profile", UpdateProfileRequest{
		FullName: "Mine",
		Email:    "taken@example.com",
	}, cookie)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "duplicate_email", body["error"].(map[string]any)["code"])
}

func TestUpdateSettingsStoredInSession(t *testing.T) {
	db := testDB(t)
	store := newFakeStore()
	r := testRouter(db, store)

	cookie := registerAndLogin(t, r, store, "flags@example.com")

	w := doJSON(t, r, http.MethodPut, "/api/settings", UpdateSettingsRequest{
		DarkMode:           true,
		EmailNotifications: true,
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	data, err := store.Get(t.Context(), cookie)
	require.NoError(t, err)
	assert.True(t, data.DarkMode)
	assert.True(t, data.EmailNotifications)

	w = doJSON(t, r, http.MethodGet, "/api/settings", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["dark_mode"])
	assert.Equal(t, true, body["email_notifications"])
}
