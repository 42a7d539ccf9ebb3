package repository

import (
	"context"
	"fmt"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/application/port"
	"github.com/Shreyasms28/InvoiceAnalytics/internal/domain/entity"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
	"go.uber.org/zap"
)

// MasterDataRepository implements port.MasterDataRepository.
// Vendors, customers and categories are de-duplicated by their unique name.
type MasterDataRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewMasterDataRepository creates a new master data repository
func NewMasterDataRepository(db *database.DB, logger *zap.Logger) port.MasterDataRepository {
	return &MasterDataRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertVendor inserts a vendor or refreshes the contact fields of the existing one
func (r *MasterDataRepository) UpsertVendor(ctx context.Context, vendor *entity.Vendor) error {
	query := `
		INSERT INTO vendors (name, email, phone, address)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			email = COALESCE(excluded.email, vendors.email),
			phone = COALESCE(excluded.phone, vendors.phone),
			address = COALESCE(excluded.address, vendors.address)
		RETURNING id
	`

	err := r.db.Executor(ctx).QueryRowContext(ctx, r.db.Rebind(query),
		vendor.Name, vendor.Email, vendor.Phone, vendor.Address,
	).Scan(&vendor.ID)
	if err != nil {
		r.logger.Error("Failed to upsert vendor", zap.String("name", vendor.Name), zap.Error(err))
		return fmt.Errorf("failed to upsert vendor: %w", err)
	}
	return nil
}

// UpsertCustomer inserts a customer or refreshes the contact fields of the existing one
func (r *MasterDataRepository) UpsertCustomer(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, address)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			email = COALESCE(excluded.email, customers.email),
			phone = COALESCE(excluded.phone, customers.phone),
			address = COALESCE(excluded.address, customers.address)
		RETURNING id
	`

	err := r.db.Executor(ctx).QueryRowContext(ctx, r.db.Rebind(query),
		customer.Name, customer.Email, customer.Phone, customer.Address,
	).Scan(&customer.ID)
	if err != nil {
		r.logger.Error("Failed to upsert customer", zap.String("name", customer.Name), zap.Error(err))
		return fmt.Errorf("failed to upsert customer: %w", err)
	}
	return nil
}

// UpsertCategory returns the id of the named category, creating it if needed
func (r *MasterDataRepository) UpsertCategory(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (name)
		VALUES (?)
		ON CONFLICT (name) DO UPDATE SET name = excluded.name
		RETURNING id
	`

	if err := r.db.Executor(ctx).QueryRowContext(ctx, r.db.Rebind(query), category.Name).Scan(&category.ID); err != nil {
		r.logger.Error("Failed to upsert category", zap.String("name", category.Name), zap.Error(err))
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.MasterDataRepository = (*MasterDataRepository)(nil)
