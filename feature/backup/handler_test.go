package backup

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	engine "reg-manager/core/backup"
	"reg-manager/core/storage/mocks"

	"github.com/google/uuid"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupTestApp wires the feature against a mock repository and, when store
// is non-empty, a fresh in-memory registration store of that name.
func setupTestApp(t *testing.T, store string) (*fiber.App, *mocks.Client, *gorm.DB) {
	t.Helper()

	app := fiber.New()
	mockClient := new(mocks.Client)
	var db *gorm.DB
	if store != "" {
		db = setupStore(t, store)
	}
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), db, nil, engine.Config{DefaultPolicy: engine.PolicyCurrentWins})
	NewHandler(svc).RegisterRoutes(app)
	return app, mockClient, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, []byte) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHandleUpload(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "")

	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	req := httptest.NewRequest("POST", "/backup/artifacts", bytes.NewReader(rolesArtifact(t)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var ref ArtifactRef
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ref))
	_, err = uuid.Parse(ref.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, ref.Rows)
}

func TestHandleUpload_Malformed(t *testing.T) {
	app, _, _ := setupTestApp(t, "")

	req := httptest.NewRequest("POST", "/backup/artifacts", bytes.NewReader([]byte(`{"format_version": `)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "malformed backup artifact")
}

func TestHandleList(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "")

	id := uuid.NewString()
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "artifacts/" + id + ".json", Size: 10}
	close(ch)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	req := httptest.NewRequest("GET", "/backup/artifacts", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var refs []ArtifactRef
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refs))
	require.Len(t, refs, 1)
	assert.Equal(t, id, refs[0].ID)
}

func TestHandleRemove(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "")

	id := uuid.NewString()
	mockClient.On("RemoveObject", mock.Anything, "test-bucket", "artifacts/"+id+".json", mock.Anything).Return(nil)

	req := httptest.NewRequest("DELETE", "/backup/artifacts/"+id, nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	mockClient.AssertExpectations(t)
}

func TestHandleRemove_BadReference(t *testing.T) {
	app, _, _ := setupTestApp(t, "")

	req := httptest.NewRequest("DELETE", "/backup/artifacts/yesterday", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleAnalyze(t *testing.T) {
	app, mockClient, db := setupTestApp(t, "feature_backup_handler_analyze")
	require.NoError(t, db.Exec(
		`INSERT INTO roles (id, name, level, updated_at) VALUES (1, 'helper', 10, ?)`, exportStamp).Error)

	id := uuid.NewString()
	mockGetArtifact(mockClient, id, rolesArtifact(t))

	code, body := postJSON(t, app, "/backup/analyze", AnalyzeRequest{ArtifactID: id})
	assert.Equal(t, fiber.StatusOK, code)

	var analysis engine.Analysis
	require.NoError(t, json.Unmarshal(body, &analysis))
	assert.Equal(t, engine.PolicyCurrentWins, analysis.Options.Policy)
	assert.Equal(t, 1, analysis.Tables["roles"].New)
	assert.Equal(t, 1, analysis.Tables["roles"].Conflicting)
	require.Len(t, analysis.Conflicts, 1)
	assert.Equal(t, engine.ResolutionCurrent, analysis.Conflicts[0].Proposed)
}

func TestHandleAnalyze_UnknownArtifact(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "feature_backup_handler_analyze_404")

	id := uuid.NewString()
	mockClient.On("GetObject", mock.Anything, "test-bucket", "artifacts/"+id+".json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	code, _ := postJSON(t, app, "/backup/analyze", AnalyzeRequest{ArtifactID: id})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestHandleAnalyze_BadPolicy(t *testing.T) {
	app, mockClient, _ := setupTestApp(t, "feature_backup_handler_analyze_policy")

	id := uuid.NewString()
	mockGetArtifact(mockClient, id, rolesArtifact(t))

	code, _ := postJSON(t, app, "/backup/analyze", AnalyzeRequest{
		ArtifactID: id,
		Options:    engine.Options{Policy: "newest_wins"},
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestHandleMerge(t *testing.T) {
	app, mockClient, db := setupTestApp(t, "feature_backup_handler_merge")

	id := uuid.NewString()
	mockGetArtifact(mockClient, id, rolesArtifact(t))

	code, body := postJSON(t, app, "/backup/merge", MergeRequest{ArtifactID: id})
	assert.Equal(t, fiber.StatusOK, code)

	var result engine.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Success)
	assert.False(t, result.Simulated)
	assert.Equal(t, 2, result.Tables["roles"].Imported)

	var count int64
	require.NoError(t, db.Table("roles").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestHandleMerge_DryRun(t *testing.T) {
	app, mockClient, db := setupTestApp(t, "feature_backup_handler_dryrun")

	id := uuid.NewString()
	mockGetArtifact(mockClient, id, rolesArtifact(t))

	code, body := postJSON(t, app, "/backup/merge", MergeRequest{
		ArtifactID: id,
		Options:    engine.Options{DryRun: true},
	})
	assert.Equal(t, fiber.StatusOK, code)

	var result engine.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Simulated)
	assert.Equal(t, 2, result.Tables["roles"].Imported)

	var count int64
	require.NoError(t, db.Table("roles").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestHandleMerge_StoreUnavailable(t *testing.T) {
	app, _, _ := setupTestApp(t, "")

	code, _ := postJSON(t, app, "/backup/merge", MergeRequest{ArtifactID: uuid.NewString()})
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
}

func TestHandleSnapshot(t *testing.T) {
	app, mockClient, db := setupTestApp(t, "feature_backup_handler_snapshot")
	require.NoError(t, db.Exec(
		`INSERT INTO roles (id, name, level, updated_at) VALUES (1, 'organizer', 90, ?)`, exportStamp).Error)

	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	code, body := postJSON(t, app, "/backup/snapshot", SnapshotRequest{ExportedBy: "console"})
	assert.Equal(t, fiber.StatusCreated, code)

	var ref ArtifactRef
	require.NoError(t, json.Unmarshal(body, &ref))
	assert.Equal(t, "console", ref.ExportedBy)
	assert.Equal(t, 1, ref.Rows)
}
