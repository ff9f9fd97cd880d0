package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
)

// BackupService exports every collection as one document and merges such
// documents back in
type BackupService struct {
	store          repository.CollectionStore
	defaultAppName string
	logger         *slog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(store repository.CollectionStore, defaultAppName string, logger *slog.Logger) *BackupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupService{
		store:          store,
		defaultAppName: defaultAppName,
		logger:         logger.With("component", "backup_service"),
	}
}

// ImportResult counts the records appended per collection
type ImportResult struct {
	Added           map[string]int `json:"added"`
	SettingsUpdated bool           `json:"settingsUpdated"`
}

// recordDecoders check that imported records have the shape of their collection
var recordDecoders = map[string]func(json.RawMessage) error{
	repository.CollectionProducts:        decodeAs[entity.Product],
	repository.CollectionClients:         decodeAs[entity.Client],
	repository.CollectionSuppliers:       decodeAs[entity.Supplier],
	repository.CollectionBrands:          decodeAs[entity.Brand],
	repository.CollectionSales:           decodeAs[entity.Sale],
	repository.CollectionPurchases:       decodeAs[entity.Purchase],
	repository.CollectionReceivables:     decodeAs[entity.AccountReceivable],
	repository.CollectionCashAdjustments: decodeAs[entity.CashAdjustment],
}

func decodeAs[T any](raw json.RawMessage) error {
	var v T
	return json.Unmarshal(raw, &v)
}

// Export returns a JSON object with one key per collection. Records are
// copied verbatim; settings fall back to defaults when never saved.
func (s *BackupService) Export(ctx context.Context) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range repository.Collections {
		var value json.RawMessage
		if name == repository.CollectionSettings {
			settings, err := loadSettings(ctx, s.store, s.defaultAppName)
			if err != nil {
				return nil, err
			}
			if value, err = json.Marshal(settings); err != nil {
				return nil, fmt.Errorf("failed to encode settings: %w", err)
			}
		} else {
			raw, err := s.store.Get(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", name, err)
			}
			value = raw
			if len(value) == 0 {
				value = json.RawMessage("[]")
			}
		}

		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type idProbe struct {
	ID string `json:"id"`
}

// Import merges a backup document. Records whose id already exists are
// skipped, everything else is appended, and settings are overwritten when
// present. Nothing is written when any part of the document is malformed.
func (s *BackupService) Import(ctx context.Context, document []byte) (*ImportResult, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(document, &doc); err != nil {
		return nil, apperror.NewMalformedImportError(err)
	}

	incoming := make(map[string][]json.RawMessage, len(recordDecoders))
	for _, name := range repository.Collections {
		raw, ok := doc[name]
		if !ok || name == repository.CollectionSettings || string(raw) == "null" {
			continue
		}
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, apperror.NewMalformedImportError(fmt.Errorf("%s: %w", name, err))
		}
		for i, rec := range records {
			if err := recordDecoders[name](rec); err != nil {
				return nil, apperror.NewMalformedImportError(fmt.Errorf("%s[%d]: %w", name, i, err))
			}
		}
		incoming[name] = records
	}

	var settings *entity.AppSettings
	if raw, ok := doc[repository.CollectionSettings]; ok && string(raw) != "null" {
		settings = &entity.AppSettings{}
		if err := json.Unmarshal(raw, settings); err != nil {
			return nil, apperror.NewMalformedImportError(fmt.Errorf("settings: %w", err))
		}
		if settings.AppName == "" {
			settings.AppName = s.defaultAppName
		}
	}

	result := &ImportResult{Added: make(map[string]int, len(incoming))}
	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		for _, name := range repository.Collections {
			records, ok := incoming[name]
			if !ok {
				continue
			}
			added, err := mergeRecords(ctx, tx, name, records)
			if err != nil {
				return err
			}
			result.Added[name] = added
		}
		if settings != nil {
			result.SettingsUpdated = true
			return repository.SaveObject(ctx, tx, repository.CollectionSettings, *settings)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "backup imported", "added", result.Added, "settings_updated", result.SettingsUpdated)
	return result, nil
}

// mergeRecords appends records whose id is not present yet. Records
// without an id are given one.
func mergeRecords(ctx context.Context, tx repository.CollectionTx, name string, records []json.RawMessage) (int, error) {
	existing, err := repository.LoadList[json.RawMessage](ctx, tx, name)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing)+len(records))
	for _, rec := range existing {
		var probe idProbe
		if err := json.Unmarshal(rec, &probe); err == nil && probe.ID != "" {
			seen[probe.ID] = struct{}{}
		}
	}

	added := 0
	for _, rec := range records {
		var probe idProbe
		_ = json.Unmarshal(rec, &probe)
		if probe.ID == "" {
			withID, err := assignID(rec)
			if err != nil {
				return 0, apperror.NewMalformedImportError(fmt.Errorf("%s: %w", name, err))
			}
			rec = withID
		} else if _, dup := seen[probe.ID]; dup {
			continue
		} else {
			seen[probe.ID] = struct{}{}
		}
		existing = append(existing, rec)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	return added, repository.SaveList(ctx, tx, name, existing)
}

func assignID(rec json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("record is not an object")
	}
	id, _ := json.Marshal(entity.NewID())
	fields["id"] = id
	return json.Marshal(fields)
}
