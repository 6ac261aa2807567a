package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/types"
	"github.com/shram-daan/shramdaan/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{log: zerolog.Nop()}

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", types.NewValidationError("title", "is required"), http.StatusBadRequest, "Validation error"},
		{"unauthenticated", utils.ErrNotAuthenticated, http.StatusUnauthorized, "User not authenticated"},
		{"forbidden", types.ErrForbidden, http.StatusForbidden, "Only the organizer can change this project"},
		{"not found", &types.StoreError{Op: "get project", Kind: types.StoreNotFound, Err: errors.New("record not found")}, http.StatusNotFound, "Project not found"},
		{"conflict", fmt.Errorf("join: %w", types.ErrConflict), http.StatusConflict, "Already registered for this project"},
		{"duplicate key", &types.StoreError{Op: "create rsvp", Kind: types.StoreConstraint, Err: errors.New("duplicated key")}, http.StatusConflict, "Already registered for this project"},
		{"capacity", types.ErrCapacityExceeded, http.StatusConflict, "Project is at full capacity"},
		{"unavailable", &types.StoreError{Op: "list projects", Kind: types.StoreUnavailable, Err: errors.New("dial tcp: connection refused")}, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.respondError(ctx, tc.err, "Project")

			assert.Equal(t, tc.status, w.Code)

			var body struct {
				Message string             `json:"message"`
				Errors  []types.FieldError `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body.Message)
			assert.NotContains(t, w.Body.String(), "connection refused")

			if tc.status == http.StatusBadRequest {
				assert.Equal(t, []types.FieldError{{Field: "title", Message: "is required"}}, body.Errors)
			}
		})
	}
}

func TestTimeField(t *testing.T) {
	var single struct {
		Title string     `json:"title"`
		When  *time.Time `json:"dateTime"`
	}
	var several struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
	}

	assert.Equal(t, "dateTime", timeField(&single))
	assert.Equal(t, "body", timeField(&several))
	assert.Equal(t, "body", timeField(nil))
}
