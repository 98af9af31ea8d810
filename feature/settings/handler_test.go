package settings

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T, name string) (*fiber.App, *gorm.DB) {
	t.Helper()

	app := fiber.New()
	db := setupSettingsDB(t, name)
	svc := NewService(db, zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, db
}

func request(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestHandleGet_EmptyDocument(t *testing.T) {
	app, _ := setupTestApp(t, "settings_handler_empty")

	code, body := request(t, app, "GET", "/settings", "")
	assert.Equal(t, fiber.StatusOK, code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Empty(t, doc)
}

func TestHandlePatchThenGet(t *testing.T) {
	app, _ := setupTestApp(t, "settings_handler_patch")

	code, body := request(t, app, "PATCH", "/settings",
		`{"fields": {"event_name": "GopherCon", "capacity": 500}, "actor": "sam"}`)
	assert.Equal(t, fiber.StatusOK, code)

	var patched struct {
		Document map[string]any   `json:"document"`
		Changes  []map[string]any `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(body, &patched))
	assert.Equal(t, "GopherCon", patched.Document["event_name"])
	assert.Len(t, patched.Changes, 2)

	code, body = request(t, app, "GET", "/settings", "")
	assert.Equal(t, fiber.StatusOK, code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, float64(500), doc["capacity"])
}

func TestHandlePatch_Validation(t *testing.T) {
	app, _ := setupTestApp(t, "settings_handler_validation")

	code, _ := request(t, app, "PATCH", "/settings", `{"fields": {}}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, body := request(t, app, "PATCH", "/settings",
		`{"fields": {"event_name": "GopherCon"}, "source": "upstream"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Contains(t, out["error"], "unknown change source")
}

func TestHandleChanges(t *testing.T) {
	app, _ := setupTestApp(t, "settings_handler_changes")

	code, _ := request(t, app, "PATCH", "/settings",
		`{"fields": {"event_name": "GopherCon"}}`)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = request(t, app, "PATCH", "/settings",
		`{"fields": {"capacity": 750}, "source": "remote"}`)
	require.Equal(t, fiber.StatusOK, code)

	code, body := request(t, app, "GET", "/settings/changes", "")
	assert.Equal(t, fiber.StatusOK, code)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 2)

	code, body = request(t, app, "GET", "/settings/changes?source=remote", "")
	assert.Equal(t, fiber.StatusOK, code)
	var remote []map[string]any
	require.NoError(t, json.Unmarshal(body, &remote))
	require.Len(t, remote, 1)
	assert.Equal(t, "capacity", remote[0]["field"])

	code, _ = request(t, app, "GET", "/settings/changes?source=upstream", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestHandleDriftCheck(t *testing.T) {
	app, _ := setupTestApp(t, "settings_handler_drift")

	code, _ := request(t, app, "PATCH", "/settings",
		`{"fields": {"event_name": "GopherCon", "capacity": 500}}`)
	require.Equal(t, fiber.StatusOK, code)

	code, body := request(t, app, "POST", "/settings/drift",
		`{"mirror": {"event_name": "GopherCon", "capacity": 500}}`)
	assert.Equal(t, fiber.StatusOK, code)
	var report map[string]any
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, true, report["in_sync"])

	code, body = request(t, app, "POST", "/settings/drift",
		`{"mirror": {"event_name": "GopherCon", "capacity": 450}}`)
	assert.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, false, report["in_sync"])
	mismatches := report["mismatches"].([]any)
	require.Len(t, mismatches, 1)
	assert.Equal(t, "capacity", mismatches[0].(map[string]any)["field"])
}
