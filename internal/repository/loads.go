package repository

import (
	"context"

	"github.com/spec-kit/fleet-dashboard/internal/domain"
)

// UpsertLoad creates, replaces or deletes a load depending on the input:
// Deleted set removes it, an id replaces the stored document as given, no id
// creates one with an empty assignment and Pending status unless set.
// On a failed remote write the Loads collection is refetched before returning.
func (r *EntityRepository) UpsertLoad(ctx context.Context, load domain.Load) (Result[domain.Load], error) {
	if !load.Deleted && load.ID == "" {
		if load.AssignedTo == nil {
			load.AssignedTo = domain.Strings{}
		}
		if load.Status == "" {
			load.Status = domain.LoadStatusPending
		}
	}
	return upsert(ctx, r, loadKind, load)
}

// DeleteLoad is UpsertLoad with the delete marker set.
func (r *EntityRepository) DeleteLoad(ctx context.Context, id string) (Result[domain.Load], error) {
	return upsert(ctx, r, loadKind, domain.Load{ID: id, Deleted: true})
}
