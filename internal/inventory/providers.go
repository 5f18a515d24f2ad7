package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/invensync/invensync/internal/inventory/domain"
	"github.com/invensync/invensync/internal/inventory/repository"
)

// ProvideItemRepository provides the inventory item repository
func ProvideItemRepository(db *gorm.DB) domain.ItemRepository {
	return repository.NewGormItemRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideItemRepository,
)
