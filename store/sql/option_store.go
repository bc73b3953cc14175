package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// OptionStore persists plugin settings in the plugin_options table, one row
// per option name.
type OptionStore struct {
	db       *bun.DB
	repo     repository.Repository[*optionRecord]
	autoload bool
}

type OptionStoreOption func(*OptionStore)

// WithAutoload sets the autoload flag written on new rows.
func WithAutoload(autoload bool) OptionStoreOption {
	return func(s *OptionStore) {
		s.autoload = autoload
	}
}

func NewOptionStore(db *bun.DB, opts ...OptionStoreOption) (*OptionStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*optionRecord](db, optionHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid option repository wiring: %w", err)
		}
	}
	store := &OptionStore{db: db, repo: repo, autoload: true}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store, nil
}

func (s *OptionStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.repo == nil {
		return nil, false, fmt.Errorf("sqlstore: option store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("sqlstore: option name is required")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("option_name", "=", key),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return []byte(records[0].Value), true, nil
}

// Set inserts or replaces the option value.
func (s *OptionStore) Set(ctx context.Context, key string, value []byte) error {
	if s == nil || s.db == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: option store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("sqlstore: option name is required")
	}
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := findOptionTx(ctx, tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			record = newOptionRecord(key, value, s.autoload, now)
			record.ID = uuid.NewString()
			_, insertErr := s.repo.CreateTx(ctx, tx, record)
			if insertErr == nil {
				return nil
			}
			if !isUniqueViolation(insertErr) {
				return insertErr
			}
			record, err = findOptionTx(ctx, tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return insertErr
			}
		}

		_, err = tx.NewUpdate().
			Model((*optionRecord)(nil)).
			Set("option_value = ?", string(value)).
			Set("updated_at = ?", now).
			Where("id = ?", record.ID).
			Exec(ctx)
		return err
	})
}

// Delete removes the option. Deleting a missing option is not an error.
func (s *OptionStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: option store is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("sqlstore: option name is required")
	}
	_, err := s.db.NewDelete().
		Model((*optionRecord)(nil)).
		Where("option_name = ?", key).
		Exec(ctx)
	return err
}

// Names lists the stored option names in ascending order.
func (s *OptionStore) Names(ctx context.Context) ([]string, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("sqlstore: option store is not configured")
	}
	records, _, err := s.repo.List(ctx, repository.OrderBy("option_name ASC"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, record := range records {
		names = append(names, record.Name)
	}
	return names, nil
}

func findOptionTx(ctx context.Context, tx bun.Tx, key string) (*optionRecord, error) {
	record := &optionRecord{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.option_name = ?", key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}
