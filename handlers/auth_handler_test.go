package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aietlabs/faceattend/models"
)

func TestLogin(t *testing.T) {
	db := setupDB(t)
	seedFaculty(t, db, "prof.nair", "s3cret-pass", models.RoleFaculty)
	h := NewAuthHandler("test-secret")

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "valid credentials",
			body:     `{"username":"prof.nair","password":"s3cret-pass"}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong password",
			body:     `{"username":"prof.nair","password":"nope"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown user",
			body:     `{"username":"ghost","password":"s3cret-pass"}`,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "missing fields",
			body:     `{"username":"prof.nair"}`,
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, "/auth/login", tt.body)
			err := h.Login(c)

			if tt.wantCode == http.StatusOK {
				require.NoError(t, err)
				var resp struct {
					Token string `json:"token"`
					User  struct {
						Username string `json:"username"`
						Role     string `json:"role"`
					} `json:"user"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
				assert.Equal(t, "prof.nair", resp.User.Username)
				assert.Equal(t, models.RoleFaculty, resp.User.Role)
				return
			}

			require.Error(t, err)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, he.Code)
		})
	}
}
