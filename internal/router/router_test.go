package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shram-daan/shramdaan/internal/auth"
	"github.com/shram-daan/shramdaan/internal/handlers"
	"github.com/shram-daan/shramdaan/internal/middleware"
	"github.com/shram-daan/shramdaan/internal/realtime"
	"github.com/shram-daan/shramdaan/internal/router"
	"github.com/shram-daan/shramdaan/internal/services"
	"github.com/shram-daan/shramdaan/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
	tokens *auth.Manager
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zerolog.Nop()
	store := storagetest.New(t)
	hub := realtime.NewHub([]string{"http://localhost:5173"}, log)

	users := services.NewUserService(store, log)
	h := handlers.New(
		store,
		services.NewProjectService(store, log),
		services.NewMessageService(store, hub, log),
		services.NewNotificationService(store),
		users,
		hub,
		log,
	)

	tokens, err := auth.NewManager("test-secret")
	require.NoError(t, err)

	engine := router.NewRouter(router.Dependencies{
		Handler:        h,
		Tokens:         tokens,
		Users:          users,
		MessageLimiter: middleware.NewRateLimiter(100, 100, log),
		AllowedOrigins: []string{"http://localhost:5173"},
		Log:            log,
	})

	return &api{t: t, engine: engine, tokens: tokens}
}

func (a *api) token(userID string) string {
	a.t.Helper()

	token, err := a.tokens.GenerateJWT(userID, auth.Claims{
		Email:     userID + "@example.org",
		FirstName: "User",
		LastName:  userID,
	})
	require.NoError(a.t, err)

	return token
}

// do sends a request as userID (anonymous when empty) and decodes the JSON
// response into out when out is non-nil.
func (a *api) do(method, path, userID string, body interface{}, out interface{}) int {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(userID))
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	if out != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}

	return w.Code
}

type projectBody struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	OrganizerID   string `json:"organizerId"`
	IsActive      bool   `json:"isActive"`
	MaxVolunteers *int   `json:"maxVolunteers"`
	Organizer     struct {
		ID string `json:"id"`
	} `json:"organizer"`
	Rsvps []struct {
		UserID string `json:"userId"`
		User   struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"rsvps"`
	Count struct {
		Rsvps int `json:"rsvps"`
	} `json:"_count"`
}

type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func newProject(title string, capacity int) map[string]interface{} {
	return map[string]interface{}{
		"title":         title,
		"description":   "Bags and gloves provided",
		"category":      "cleanup",
		"location":      "Marine Drive",
		"dateTime":      time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"maxVolunteers": capacity,
		"organizerId":   "someone-else",
	}
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	var health map[string]string
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	a := newAPI(t)

	var body errorBody
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/projects", "", newProject("x", 1), &body))
	assert.Equal(t, "Authorization token is required", body.Message)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/notifications", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/user/profile", "", nil, nil))
}

func TestProjectLifecycle(t *testing.T) {
	a := newAPI(t)

	var created projectBody
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/projects", "u1", newProject("Beach Cleanup", 1), &created))
	assert.Equal(t, "u1", created.OrganizerID, "organizer comes from the token")
	assert.True(t, created.IsActive)

	var invalid errorBody
	require.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/projects", "u1", map[string]interface{}{"title": "No details"}, &invalid))
	assert.Equal(t, "Validation error", invalid.Message)
	assert.NotEmpty(t, invalid.Errors)

	path := "/api/projects/" + created.ID

	var joined map[string]interface{}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, path+"/rsvp", "u2", nil, &joined))
	assert.Equal(t, "confirmed", joined["status"])

	var conflict errorBody
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, path+"/rsvp", "u2", nil, &conflict))
	assert.Equal(t, "Already registered for this project", conflict.Message)

	var full errorBody
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, path+"/rsvp", "u3", nil, &full))
	assert.Equal(t, "Project is at full capacity", full.Message)

	var details projectBody
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, path, "", nil, &details))
	assert.Equal(t, 1, details.Count.Rsvps)
	assert.Equal(t, "u1", details.Organizer.ID)
	require.Len(t, details.Rsvps, 1)
	assert.Equal(t, "u2", details.Rsvps[0].User.ID)

	var forbidden errorBody
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPatch, path, "u2", map[string]interface{}{"title": "Mine now"}, &forbidden))

	var updated projectBody
	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, path, "u1", map[string]interface{}{"maxVolunteers": 2}, &updated))
	assert.Equal(t, "Beach Cleanup", updated.Title)
	require.NotNil(t, updated.MaxVolunteers)
	assert.Equal(t, 2, *updated.MaxVolunteers)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, path+"/rsvp", "u3", nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, path+"/rsvp", "u3", nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, path+"/rsvp", "u3", nil, nil), "cancel is idempotent")

	var attendees []map[string]interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, path+"/rsvps", "", nil, &attendees))
	assert.Len(t, attendees, 1)

	var mine []map[string]interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/user/rsvps", "u2", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Beach Cleanup", mine[0]["project"].(map[string]interface{})["title"])

	var list []projectBody
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/projects?category=all&search=BEACH", "", nil, &list))
	require.Len(t, list, 1)

	require.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, path, "u2", nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, path, "u1", nil, nil))

	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/projects", "", nil, &list))
	assert.Empty(t, list)

	require.Equal(t, http.StatusOK, a.do(http.MethodGet, path, "", nil, &details))
	assert.False(t, details.IsActive)

	var gone errorBody
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, path+"/rsvp", "u4", nil, &gone))
	assert.Equal(t, "Project not found", gone.Message)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/projects/missing", "", nil, nil))
}

func TestMistypedFieldsAreValidationErrors(t *testing.T) {
	a := newAPI(t)

	cases := []struct {
		name    string
		field   string
		value   interface{}
		message string
	}{
		{"unparseable date", "dateTime", "next saturday", "must be an RFC 3339 date-time"},
		{"text capacity", "maxVolunteers", "ten", "must be an integer"},
		{"numeric title", "title", 42, "must be a string"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := newProject("Typed", 3)
			body[tc.field] = tc.value

			var res errorBody
			require.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/projects", "u1", body, &res))
			assert.Equal(t, "Validation error", res.Message)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tc.field, res.Errors[0].Field)
			assert.Equal(t, tc.message, res.Errors[0].Message)
		})
	}

	var created projectBody
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/projects", "u1", newProject("Typed", 3), &created))

	var res errorBody
	require.Equal(t, http.StatusBadRequest, a.do(http.MethodPatch, "/api/projects/"+created.ID, "u1", map[string]interface{}{"dateTime": "soon"}, &res))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "dateTime", res.Errors[0].Field)
}

func TestMessagesAndNotifications(t *testing.T) {
	a := newAPI(t)

	var project projectBody
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/projects", "org", newProject("Shelter Meal", 5), &project))
	path := "/api/projects/" + project.ID

	var invalid errorBody
	require.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, path+"/messages", "vol", map[string]string{"content": "   "}, &invalid))
	require.Len(t, invalid.Errors, 1)
	assert.Equal(t, "content", invalid.Errors[0].Field)

	var posted map[string]interface{}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, path+"/messages", "vol", map[string]string{"content": "On my way"}, &posted))
	assert.Equal(t, "On my way", posted["content"])
	assert.Equal(t, "vol", posted["sender"].(map[string]interface{})["id"])

	var history []map[string]interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, path+"/messages", "", nil, &history))
	require.Len(t, history, 1)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, path+"/rsvp", "vol", nil, nil))

	var notifications []struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		IsRead bool   `json:"isRead"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/notifications", "org", nil, &notifications))
	require.Len(t, notifications, 1)
	assert.Equal(t, "rsvp_confirmation", notifications[0].Type)

	readPath := "/api/notifications/" + notifications[0].ID + "/read"
	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, readPath, "vol", nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/notifications", "org", nil, &notifications))
	assert.False(t, notifications[0].IsRead, "only the addressee can mark it read")

	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, readPath, "org", nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/notifications", "org", nil, &notifications))
	assert.True(t, notifications[0].IsRead)
}

func TestProfile(t *testing.T) {
	a := newAPI(t)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/projects", "u1", newProject("Mine", 5), nil))

	var profile struct {
		ID    string `json:"id"`
		Count struct {
			OrganizedProjects int `json:"organizedProjects"`
			Rsvps             int `json:"rsvps"`
			Badges            int `json:"badges"`
		} `json:"_count"`
		Badges []interface{} `json:"badges"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/auth/user", "u1", nil, &profile))
	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, 1, profile.Count.OrganizedProjects)
	assert.NotNil(t, profile.Badges)

	var updated map[string]interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, "/api/user/profile", "u1", map[string]string{"bio": "Gardener"}, &updated))
	assert.Equal(t, "Gardener", updated["bio"])

	var badges []interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/user/badges", "u1", nil, &badges))
	assert.Empty(t, badges)

	var projects []interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/user/projects", "u1", nil, &projects))
	assert.Len(t, projects, 1)
}
