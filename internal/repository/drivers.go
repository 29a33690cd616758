package repository

import (
	"context"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

// AddDriver stores a new driver with creation defaults applied.
func (r *EntityRepository) AddDriver(ctx context.Context, driver domain.Driver) (Result[domain.Driver], error) {
	return upsert(ctx, r, driverKind, domain.NewDriver(driver))
}

// UpdateDriver replaces a driver document. The avatar is kept from the stored
// record when the input has none, so a rename does not change it.
func (r *EntityRepository) UpdateDriver(ctx context.Context, driver domain.Driver) (Result[domain.Driver], error) {
	if driver.ID == "" {
		return Result[domain.Driver]{}, &PreconditionError{Collection: driverKind.collection, Reason: "update requires an id"}
	}
	driver.Deleted = false
	return upsert(ctx, r, driverKind, driver)
}

// DeleteDriver removes a driver. Loads naming the driver are left untouched.
func (r *EntityRepository) DeleteDriver(ctx context.Context, id string) (Result[domain.Driver], error) {
	return upsert(ctx, r, driverKind, domain.Driver{ID: id, Deleted: true})
}
