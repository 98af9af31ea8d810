package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"reg-manager/core/patch"
	"reg-manager/core/record"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentID pins the settings document to a single row.
const documentID = 1

// Service reads and mutates the settings document.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger

	// Writers are serialized so the read-modify-write on the document and
	// its trail stays consistent.
	mu sync.Mutex
}

// NewService creates a new settings service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Document returns the current settings document. A store without one yet
// yields an empty document.
func (s *Service) Document(ctx context.Context) (record.Row, error) {
	var row Setting
	err := s.db.WithContext(ctx).First(&row, "id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return record.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings document: %w", err)
	}
	return decodeDocument(row.Document)
}

// ApplyPatch lays a patch over the document, persists the result, and
// records the effective transitions in the change trail. No-op assignments
// leave no trail; a patch that changes nothing writes nothing.
func (s *Service) ApplyPatch(ctx context.Context, p patch.Patch, meta patch.Meta) (record.Row, []patch.Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Document(ctx)
	if err != nil {
		return nil, nil, err
	}

	updated, changes := patch.Apply(current, p, meta)
	if len(changes) == 0 {
		return updated, nil, nil
	}

	doc, err := json.Marshal(updated)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode settings document: %w", err)
	}
	trail := make([]SettingChange, len(changes))
	for i, ch := range changes {
		rec, err := changeRecord(ch)
		if err != nil {
			return nil, nil, err
		}
		trail[i] = rec
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := Setting{ID: documentID, Document: string(doc), UpdatedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Create(&trail).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist settings patch: %w", err)
	}

	s.logger.Info("Settings updated",
		zap.Strings("fields", p.FieldNames()),
		zap.String("source", string(meta.Source)))

	return updated, changes, nil
}

// History returns the recorded change trail oldest-first, optionally
// filtered by source.
func (s *Service) History(ctx context.Context, source patch.Source) ([]patch.Change, error) {
	q := s.db.WithContext(ctx).Model(&SettingChange{}).Order("changed_at, id")
	if source != "" {
		q = q.Where("source = ?", string(source))
	}

	var rows []SettingChange
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings history: %w", err)
	}

	changes := make([]patch.Change, 0, len(rows))
	for _, row := range rows {
		ch, err := row.change()
		if err != nil {
			return nil, err
		}
		changes = append(changes, ch)
	}
	return changes, nil
}

// CheckDrift compares a caller-held mirror of the document against the
// stored one, field by field. It only reports; nothing is reconciled.
func (s *Service) CheckDrift(ctx context.Context, mirror record.Row) (patch.SyncReport, error) {
	current, err := s.Document(ctx)
	if err != nil {
		return patch.SyncReport{}, err
	}
	return patch.ValidateSync(current, mirror), nil
}

func decodeDocument(doc string) (record.Row, error) {
	if doc == "" {
		return record.Row{}, nil
	}
	var row record.Row
	if err := json.Unmarshal([]byte(doc), &row); err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}
	return row, nil
}

func changeRecord(ch patch.Change) (SettingChange, error) {
	oldRaw, err := json.Marshal(ch.Old)
	if err != nil {
		return SettingChange{}, fmt.Errorf("failed to encode change for %q: %w", ch.Field, err)
	}
	newRaw, err := json.Marshal(ch.New)
	if err != nil {
		return SettingChange{}, fmt.Errorf("failed to encode change for %q: %w", ch.Field, err)
	}
	return SettingChange{
		Field:     ch.Field,
		OldValue:  string(oldRaw),
		NewValue:  string(newRaw),
		ChangedAt: ch.At,
		Source:    string(ch.Source),
		Actor:     ch.Actor,
	}, nil
}

func (r SettingChange) change() (patch.Change, error) {
	var oldVal, newVal record.Value
	if err := json.Unmarshal([]byte(r.OldValue), &oldVal); err != nil {
		return patch.Change{}, fmt.Errorf("corrupt change %d for %q: %w", r.ID, r.Field, err)
	}
	if err := json.Unmarshal([]byte(r.NewValue), &newVal); err != nil {
		return patch.Change{}, fmt.Errorf("corrupt change %d for %q: %w", r.ID, r.Field, err)
	}
	return patch.Change{
		Field:  r.Field,
		Old:    oldVal,
		New:    newVal,
		At:     r.ChangedAt,
		Source: patch.Source(r.Source),
		Actor:  r.Actor,
	}, nil
}
