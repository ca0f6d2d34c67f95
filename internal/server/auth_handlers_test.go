package server

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])

	tests := []struct {
		name           string
		requestBody    map[string]string
		expectedStatus int
	}{
		{
			name: "duplicate username",
			requestBody: map[string]string{
				"username": "alice",
				"email":    "other@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name: "duplicate email",
			requestBody: map[string]string{
				"username": "bob",
				"email":    "alice@example.com",
				"password": "password123",
			},
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name: "missing password",
			requestBody: map[string]string{
				"username": "carol",
				"email":    "carol@example.com",
			},
			expectedStatus: fiber.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/api/auth/register", "", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestLogin(t *testing.T) {
	app := setupTestApp(t)
	registered := registerUser(t, app, "alice")

	t.Run("valid login returns the registration token", func(t *testing.T) {
		resp, body := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "password123",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, registered, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "wrong",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, _ := doJSON(t, app, "POST", "/api/auth/login", "", map[string]string{
			"username": "nobody",
			"password": "password123",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestTokenFromRegisterAuthenticates(t *testing.T) {
	app := setupTestApp(t)
	token := registerUser(t, app, "alice")

	resp, _ := doJSON(t, app, "GET", "/api/posts/list", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
