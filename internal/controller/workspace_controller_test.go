package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyspace-be/internal/dto"
	"studyspace-be/internal/entity"
	"studyspace-be/internal/pkg/serverutils"
	"studyspace-be/pkg/entitlement"
	"studyspace-be/pkg/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type workspaceServiceFake struct {
	generateErr error
	lastTab     entity.TabID
	lastGen     *dto.GenerateRequest
	lastUser    uuid.UUID
	lastName    string
	lastTZ      string
}

func (f *workspaceServiceFake) Open(_ context.Context, userId uuid.UUID, name, timezone string) (*dto.WorkspaceResponse, error) {
	f.lastUser, f.lastName, f.lastTZ = userId, name, timezone
	return &dto.WorkspaceResponse{}, nil
}

func (f *workspaceServiceFake) SetInput(_ context.Context, _ uuid.UUID, tab entity.TabID, req *dto.SetInputRequest) (*dto.TabResponse, error) {
	f.lastTab = tab
	return &dto.TabResponse{Tab: tab, RawInput: req.Input, Status: workspace.StatusEditing}, nil
}

func (f *workspaceServiceFake) Lock(_ context.Context, _ uuid.UUID, tab entity.TabID) (*dto.TabResponse, error) {
	if tab != entity.TabGeneral {
		return nil, workspace.ErrLockNotSupported
	}
	return &dto.TabResponse{Tab: tab, IsLocked: true}, nil
}

func (f *workspaceServiceFake) Unlock(_ context.Context, _ uuid.UUID, tab entity.TabID) (*dto.TabResponse, error) {
	return &dto.TabResponse{Tab: tab}, nil
}

func (f *workspaceServiceFake) Reset(_ context.Context, _ uuid.UUID, tab entity.TabID) (*dto.TabResponse, error) {
	return &dto.TabResponse{Tab: tab}, nil
}

func (f *workspaceServiceFake) Generate(_ context.Context, _ uuid.UUID, tab entity.TabID, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	f.lastTab, f.lastGen = tab, req
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &dto.GenerateResponse{Tab: dto.TabResponse{Tab: tab}, Content: dto.ContentResponse{Mode: entity.Mode(req.Mode), Body: "ok"}}, nil
}

func (f *workspaceServiceFake) Save(_ context.Context, _ uuid.UUID, _ entity.TabID, _ *dto.SaveRequest) (*dto.LibraryItemResponse, error) {
	return nil, workspace.ErrNoResult
}

func (f *workspaceServiceFake) History(context.Context, uuid.UUID) ([]dto.HistoryItemResponse, error) {
	return []dto.HistoryItemResponse{}, nil
}

func (f *workspaceServiceFake) Library(context.Context, uuid.UUID) ([]dto.LibraryItemResponse, error) {
	return []dto.LibraryItemResponse{}, nil
}

func (f *workspaceServiceFake) SetView(_ context.Context, _ uuid.UUID, req *dto.ViewRequest) (*dto.ViewResponse, error) {
	return &dto.ViewResponse{ActiveTab: entity.TabID(req.ActiveTab), ShowLeaderboard: req.ShowLeaderboard}, nil
}

func newTestApp(svc *workspaceServiceFake) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewWorkspaceController(svc).RegisterRoutes(app.Group("/api"), serverutils.NewJwtMiddleware(testSecret))
	return app
}

func signedToken(t *testing.T, userID uuid.UUID, name string) string {
	return signedTokenWith(t, userID, name, jwt.MapClaims{})
}

func signedTokenWith(t *testing.T, userID uuid.UUID, name string, claims jwt.MapClaims) string {
	t.Helper()
	claims["user_id"] = userID.String()
	claims["name"] = name
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestWorkspaceRoutesRequireToken(t *testing.T) {
	app := newTestApp(&workspaceServiceFake{})

	status, _ := doRequest(t, app, http.MethodGet, "/api/workspace", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doRequest(t, app, http.MethodGet, "/api/workspace", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestWorkspaceShowPassesIdentity(t *testing.T) {
	svc := &workspaceServiceFake{}
	app := newTestApp(svc)
	userID := uuid.New()

	status, body := doRequest(t, app, http.MethodGet, "/api/workspace", signedToken(t, userID, "Rin"), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, userID, svc.lastUser)
	assert.Equal(t, "Rin", svc.lastName)
}

func TestWorkspaceShowPassesTimezone(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		header string
		want   string
	}{
		{name: "tz claim", claims: jwt.MapClaims{"tz": "Asia/Jakarta"}, want: "Asia/Jakarta"},
		{name: "claim wins over header", claims: jwt.MapClaims{"tz": "Asia/Jakarta"}, header: "Europe/Berlin", want: "Asia/Jakarta"},
		{name: "header fallback", claims: jwt.MapClaims{}, header: "Europe/Berlin", want: "Europe/Berlin"},
		{name: "neither", claims: jwt.MapClaims{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &workspaceServiceFake{}
			app := newTestApp(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/workspace", nil)
			req.Header.Set("Authorization", "Bearer "+signedTokenWith(t, uuid.New(), "Rin", tt.claims))
			if tt.header != "" {
				req.Header.Set(serverutils.HeaderTimezone, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, svc.lastTZ)
		})
	}
}

func TestWorkspaceGenerate(t *testing.T) {
	resetAfter := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
		wantType   string
	}{
		{name: "ok", path: "/api/workspace/tabs/general/generate", body: `{"mode":"summary"}`, wantStatus: http.StatusOK},
		{name: "unknown tab", path: "/api/workspace/tabs/notes/generate", body: `{"mode":"summary"}`, wantStatus: http.StatusNotFound},
		{name: "unknown mode", path: "/api/workspace/tabs/general/generate", body: `{"mode":"poem"}`, wantStatus: http.StatusBadRequest, wantType: "VALIDATION_FAILED"},
		{name: "malformed body", path: "/api/workspace/tabs/general/generate", body: `{`, wantStatus: http.StatusBadRequest},
		{
			name:       "upgrade required",
			path:       "/api/workspace/tabs/general/generate",
			body:       `{"mode":"summary"}`,
			err:        &entitlement.DeniedError{Reason: entitlement.ReasonUpgradeRequired, Plan: entity.PlanFree},
			wantStatus: http.StatusForbidden,
			wantType:   "UPGRADE_REQUIRED",
		},
		{
			name:       "daily limit",
			path:       "/api/workspace/tabs/exam/generate",
			body:       `{"mode":"summary"}`,
			err:        &entitlement.DeniedError{Reason: entitlement.ReasonDailyLimitReached, Plan: entity.PlanStarter, Limit: 5, Used: 5, ResetAfter: &resetAfter},
			wantStatus: http.StatusTooManyRequests,
			wantType:   "DAILY_LIMIT_REACHED",
		},
		{
			name:       "generator failure",
			path:       "/api/workspace/tabs/general/generate",
			body:       `{"mode":"quiz"}`,
			err:        &workspace.GenerationFailedError{Tab: entity.TabGeneral, Mode: entity.ModeQuiz, Cause: errors.New("timeout")},
			wantStatus: http.StatusBadGateway,
			wantType:   "GENERATION_FAILED",
		},
		{
			name:       "busy tab",
			path:       "/api/workspace/tabs/general/generate",
			body:       `{"mode":"quiz"}`,
			err:        workspace.ErrGenerationInProgress,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&workspaceServiceFake{generateErr: tt.err})
			status, body := doRequest(t, app, http.MethodPost, tt.path, signedToken(t, uuid.New(), "Rin"), tt.body)

			assert.Equal(t, tt.wantStatus, status)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, body["error_type"])
			}
		})
	}
}

func TestWorkspaceDailyLimitCarriesResetTime(t *testing.T) {
	resetAfter := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)
	app := newTestApp(&workspaceServiceFake{generateErr: &entitlement.DeniedError{
		Reason: entitlement.ReasonDailyLimitReached, Limit: 5, Used: 5, ResetAfter: &resetAfter,
	}})

	status, body := doRequest(t, app, http.MethodPost, "/api/workspace/tabs/general/generate", signedToken(t, uuid.New(), ""), `{"mode":"summary"}`)
	require.Equal(t, http.StatusTooManyRequests, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(5), data["limit"])
	assert.Equal(t, "2025-05-21T00:00:00Z", data["reset_after"])
}

func TestWorkspaceTabActions(t *testing.T) {
	app := newTestApp(&workspaceServiceFake{})
	token := signedToken(t, uuid.New(), "Rin")

	status, body := doRequest(t, app, http.MethodPut, "/api/workspace/tabs/general/input", token, `{"input":"osmosis"}`)
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "osmosis", data["raw_input"])

	status, _ = doRequest(t, app, http.MethodPost, "/api/workspace/tabs/general/lock", token, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/workspace/tabs/exam/lock", token, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/workspace/tabs/general/save", token, `{"mode":"summary"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, app, http.MethodPut, "/api/workspace/view", token, `{"active_tab":"lab"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}
