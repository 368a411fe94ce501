package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/validator"
)

type issueResponse struct {
	Code    string `json:"code"`
	Details []struct {
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"details"`
}

func decodeRequest(t *testing.T, body string, obj interface{}) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(validator.New())

	var ok bool
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		ok = h.DecodeJSON(c, obj)
		if ok {
			c.Status(http.StatusNoContent)
		}
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return w, ok
}

func issuePathsOf(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp issueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	paths := make([]string, 0, len(resp.Details))
	for _, d := range resp.Details {
		paths = append(paths, d.Path)
	}
	return paths
}

func TestDecodeJSON_UnknownFieldPaths(t *testing.T) {
	tests := []struct {
		name string
		body string
		path string
	}{
		{
			name: "top level",
			body: `{"profile":{"firstName":"Ada","lastName":"L"},"roles":{"professional":true},"password":"x"}`,
			path: "password",
		},
		{
			name: "nested in profile",
			body: `{"profile":{"firstName":"Ada","lastName":"L","middleName":"B"},"roles":{"professional":true}}`,
			path: "profile.middleName",
		},
		{
			name: "key matched case-insensitively is still known",
			body: `{"Profile":{"FirstName":"Ada","extra":1},"roles":{"professional":true}}`,
			path: "Profile.extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.CompleteRegistrationRequest
			w, ok := decodeRequest(t, tt.body, &req)
			require.False(t, ok)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, []string{tt.path}, issuePathsOf(t, w))
		})
	}
}

func TestDecodeJSON_Valid(t *testing.T) {
	var req dto.CompleteRegistrationRequest
	w, ok := decodeRequest(t, `{"profile":{"firstName":"Ada","lastName":"L"},"roles":{"isEmployer":true}}`, &req)
	require.True(t, ok, w.Body.String())
	assert.Equal(t, "Ada", req.Profile.FirstName)
	assert.True(t, req.Roles.Employer)
}

func TestUnknownFieldPath_Slices(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	type payload struct {
		Items []item `json:"items"`
	}
	path := unknownFieldPath([]byte(`{"items":[{"name":"a"},{"name":"b","color":"red"}]}`), &payload{}, "color")
	assert.Equal(t, "items[1].color", path)

	assert.Equal(t, "color", unknownFieldPath([]byte(`not json`), &payload{}, "color"))
}
