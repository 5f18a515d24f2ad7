//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/invensync/invensync/internal/inventory/delivery/http"
	"github.com/invensync/invensync/internal/inventory/usecase/command"
)

// InitializeItemHandler initializes the HTTP handler with all dependencies
func InitializeItemHandler(db *gorm.DB, alerter command.ExpiryAlerter) (*httpDelivery.ItemHandler, error) {
	wire.Build(
		RepositorySet,
		httpDelivery.NewItemHandler,
	)
	return nil, nil
}
