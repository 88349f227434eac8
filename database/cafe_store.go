package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"cafelist/model"

	"gorm.io/gorm"
)

// CafeStore is the persistence layer for cafes. Every write runs in its own
// transaction that commits on success and rolls back on error.
type CafeStore struct {
	db   *gorm.DB
	pick func(n int) int
}

func NewCafeStore(db *gorm.DB) *CafeStore {
	return &CafeStore{db: db, pick: rand.Intn}
}

// List returns every cafe ordered by name.
func (s *CafeStore) List(ctx context.Context) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return cafes, nil
}

func (s *CafeStore) Get(ctx context.Context, id uint) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := s.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cafe %d: %w", id, err)
	}
	return &cafe, nil
}

// Random picks one cafe uniformly from the whole table.
func (s *CafeStore) Random(ctx context.Context) (*model.Cafe, error) {
	var cafes []model.Cafe
	if err := s.db.WithContext(ctx).Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("load cafes: %w", err)
	}
	if len(cafes) == 0 {
		return nil, ErrEmptyCollection
	}
	return &cafes[s.pick(len(cafes))], nil
}

// ByLocation matches location by exact equality.
func (s *CafeStore) ByLocation(ctx context.Context, location string) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := s.db.WithContext(ctx).Where("location = ?", location).Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("search cafes: %w", err)
	}
	return cafes, nil
}

func (s *CafeStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Cafe{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cafes: %w", err)
	}
	return n, nil
}

// Create inserts a new cafe. A duplicate name fails with the driver's
// constraint error.
func (s *CafeStore) Create(ctx context.Context, cafe *model.Cafe) error {
	cafe.ID = 0
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cafe).Error; err != nil {
			return fmt.Errorf("create cafe: %w", err)
		}
		return nil
	})
}

// CreateBatch inserts all cafes or none.
func (s *CafeStore) CreateBatch(ctx context.Context, cafes []model.Cafe) error {
	if len(cafes) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cafes).Error; err != nil {
			return fmt.Errorf("create cafes: %w", err)
		}
		return nil
	})
}

// Update overwrites every column of the cafe with the given id.
func (s *CafeStore) Update(ctx context.Context, id uint, cafe *model.Cafe) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Cafe
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load cafe %d: %w", id, err)
		}

		cafe.ID = existing.ID
		if err := tx.Save(cafe).Error; err != nil {
			return fmt.Errorf("update cafe %d: %w", id, err)
		}
		return nil
	})
}

// Delete removes the cafe if present. Deleting a missing id is not an error.
func (s *CafeStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Cafe{}, id).Error; err != nil {
			return fmt.Errorf("delete cafe %d: %w", id, err)
		}
		return nil
	})
}
