// Package kv is the persistence port: a single key to serialized-value
// table. A set overwrites; there is no TTL, versioning, or transaction.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the narrow port the rest of the service depends on.
//
// Get reports found=false for an absent key; store failures come back as an
// error so callers can distinguish "absent" from "store unreachable".
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, key string, value any) error

	// Incr atomically adds delta to the numeric value under key. When the
	// key is absent it is created as seed+delta. Returns the new value.
	Incr(ctx context.Context, key string, delta, seed int) (int, error)
}

// Entry is the single-table layout: one row per key, value serialized as JSON.
type Entry struct {
	Key   string `gorm:"column:key;primaryKey;size:128"`
	Value string `gorm:"column:value;type:text;not null"`
}

func (Entry) TableName() string { return "kv_entries" }

type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened gorm connection. Migrate must have run.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates the kv_entries table if missing.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Entry{})
}

func (s *gormStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).
		Where("`key` = ?", key).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return json.RawMessage(e.Value), true, nil
}

func (s *gormStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv marshal %q: %w", key, err)
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&Entry{Key: key, Value: string(raw)}).Error
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *gormStore) Incr(ctx context.Context, key string, delta, seed int) (int, error) {
	// Single conditional update; both mysql and sqlite coerce the serialized
	// number for the arithmetic. Creation of a missing key is a separate
	// insert, so two first-ever increments can race. Accepted: the counters
	// are display statistics, not billing state.
	res := s.db.WithContext(ctx).
		Model(&Entry{}).
		Where("`key` = ?", key).
		Update("value", gorm.Expr("value + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("kv incr %q: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		n := seed + delta
		err := s.db.WithContext(ctx).
			Create(&Entry{Key: key, Value: strconv.Itoa(n)}).Error
		if err != nil {
			return 0, fmt.Errorf("kv incr seed %q: %w", key, err)
		}
		return n, nil
	}

	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return 0, fmt.Errorf("kv incr readback %q: %w", key, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("kv incr %q: non-numeric value %q", key, raw)
	}
	return n, nil
}

// GetJSON reads key and unmarshals it into out. found=false leaves out
// untouched.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("kv decode %q: %w", key, err)
	}
	return true, nil
}
