package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/invensync/invensync/internal/inventory/domain"
)

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryItem{})
}

func (r *GormItemRepository) Create(item *domain.InventoryItem) error {
	return r.db.Create(item).Error
}

func (r *GormItemRepository) FindByID(id string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) FindByOwner(ownerID string) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.Where("owner_id = ?", ownerID).Find(&items).Error
	return items, err
}

func (r *GormItemRepository) FindExpiring(ownerID string, threshold int) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.Where("owner_id = ? AND expiry_days <= ?", ownerID, threshold).Find(&items).Error
	return items, err
}

func (r *GormItemRepository) FindByCategory(ownerID, category string) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.Where("owner_id = ? AND category = ?", ownerID, category).Find(&items).Error
	return items, err
}

func (r *GormItemRepository) Update(item *domain.InventoryItem) error {
	result := r.db.Model(&domain.InventoryItem{}).
		Where("id = ?", item.ID).
		Select("Name", "Quantity", "Unit", "Category", "ExpiryDays", "Status", "UpdatedAt").
		Updates(item)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormItemRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&domain.InventoryItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormItemRepository) Count(ownerID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.InventoryItem{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
