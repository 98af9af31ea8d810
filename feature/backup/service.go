package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	engine "reg-manager/core/backup"
	"reg-manager/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// objectPrefix is where artifact documents live inside the bucket.
const objectPrefix = "artifacts/"

// ErrArtifactNotFound marks a reference that resolves to nothing in the
// repository.
var ErrArtifactNotFound = errors.New("artifact not found")

// ErrStoreUnavailable is returned by operations that need the registration
// store when the application started without a database.
var ErrStoreUnavailable = errors.New("registration store unavailable")

// Service owns the artifact repository and fronts the merge engine.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB

	schema   *engine.Schema
	defaults engine.Config

	// The engine expects a single mutating run per store at a time, and the
	// service is the engine's caller, so the lock lives here.
	mergeMu sync.Mutex
}

// NewService creates a new backup service. A nil schema falls back to the
// built-in registration schema; a nil db disables analyze, merge, and
// snapshot but leaves the artifact repository usable.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, schema *engine.Schema, defaults engine.Config) *Service {
	if schema == nil {
		schema = engine.DefaultSchema()
	}
	return &Service{
		client:   client,
		bucket:   bucket,
		logger:   logger,
		db:       db,
		schema:   schema,
		defaults: defaults,
	}
}

// EnsureBucket makes sure the artifact bucket exists, creating it when absent.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check artifact bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create artifact bucket %q: %w", s.bucket, err)
	}
	s.logger.Info("Artifact bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Upload validates raw artifact bytes and stores them under a fresh
// reference. Nothing is written for documents the engine rejects.
func (s *Service) Upload(ctx context.Context, raw []byte) (*ArtifactRef, error) {
	art, err := engine.Extract(raw)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.client.PutObject(ctx, s.bucket, objectKey(id), bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("failed to store artifact %s: %w", id, err)
	}

	s.logger.Info("Artifact stored",
		zap.String("artifact_id", id),
		zap.Int("tables", len(art.Tables)),
		zap.Int("rows", art.RowCount()))

	return refFromArtifact(id, int64(len(raw)), art), nil
}

// List returns references for every stored artifact. Only listing metadata
// is filled in; the documents themselves are not opened.
func (s *Service) List(ctx context.Context) ([]ArtifactRef, error) {
	refs := make([]ArtifactRef, 0)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: objectPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list artifacts: %w", obj.Err)
		}
		refs = append(refs, ArtifactRef{
			ID:       strings.TrimSuffix(strings.TrimPrefix(obj.Key, objectPrefix), ".json"),
			Size:     obj.Size,
			StoredAt: obj.LastModified,
		})
	}
	return refs, nil
}

// Resolve fetches a stored artifact and runs it through extraction again, so
// callers always get a validated document.
func (s *Service) Resolve(ctx context.Context, id string) (*engine.Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed reference %q", ErrArtifactNotFound, id)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyStorageErr(id, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return nil, classifyStorageErr(id, err)
	}
	return engine.Extract(raw)
}

// Remove deletes a stored artifact. Removing a reference that no longer
// exists is not an error.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed reference %q", ErrArtifactNotFound, id)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectKey(id), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove artifact %s: %w", id, err)
	}
	s.logger.Info("Artifact removed", zap.String("artifact_id", id))
	return nil
}

// Analyze classifies a stored artifact against the live store without
// touching it.
func (s *Service) Analyze(ctx context.Context, id string, opts engine.Options) (*engine.Analysis, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	art, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return engine.Analyze(ctx, s.db, s.schema, art, s.defaults.ApplyDefaults(opts))
}

// Merge applies a stored artifact to the live store. Mutating runs are
// serialized; dry runs take the same lock so their numbers match what a wet
// run would have done at that moment.
func (s *Service) Merge(ctx context.Context, id string, opts engine.Options, overrides engine.Overrides) (*engine.Result, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	art, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mergeMu.Lock()
	defer s.mergeMu.Unlock()

	return engine.Merge(ctx, s.db, s.schema, art, s.defaults.ApplyDefaults(opts), overrides, s.logger)
}

// Snapshot captures the live store as a new artifact and stores it like an
// upload, so it can be listed, merged elsewhere, or re-applied later.
func (s *Service) Snapshot(ctx context.Context, exportedBy string) (*ArtifactRef, error) {
	if s.db == nil {
		return nil, ErrStoreUnavailable
	}
	if exportedBy == "" {
		exportedBy = "reg-manager"
	}

	art, err := engine.CreateSnapshot(ctx, s.db, s.schema, exportedBy)
	if err != nil {
		return nil, err
	}
	raw, err := art.Encode()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = s.client.PutObject(ctx, s.bucket, objectKey(id), bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot %s: %w", id, err)
	}

	s.logger.Info("Snapshot captured",
		zap.String("artifact_id", id),
		zap.String("exported_by", exportedBy),
		zap.Int("rows", art.RowCount()))

	return refFromArtifact(id, int64(len(raw)), art), nil
}

func objectKey(id string) string {
	return objectPrefix + id + ".json"
}

func classifyStorageErr(id string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrArtifactNotFound, id)
	}
	return fmt.Errorf("failed to load artifact %s: %w", id, err)
}
