package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	portsrepo "github.com/tithr-app/tithr_backend/internal/core/ports/repositories"
	"github.com/tithr-app/tithr_backend/internal/models"
	"github.com/tithr-app/tithr_backend/internal/utils/mapping"
)

type collectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository creates a new repository for collection and
// donation data.
func NewCollectionRepository(pool *pgxpool.Pool) portsrepo.CollectionRepositoryFacade {
	return &collectionRepository{pool: pool}
}

var _ portsrepo.CollectionRepositoryFacade = (*collectionRepository)(nil)

// SaveCollection inserts the collection row and returns it with the assigned
// id. Collections are immutable once inserted; there is no update path.
func (r *collectionRepository) SaveCollection(ctx context.Context, collection domain.Collection) (*domain.Collection, error) {
	model := mapping.ToModelCollection(collection)
	model.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO collections (date, service_type, recorded_by, counted_by, deposit_slip_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING collection_id;
	`
	err := r.pool.QueryRow(ctx, query,
		model.Date,
		model.ServiceType,
		model.RecordedBy,
		model.CountedBy,
		model.DepositSlipRef,
		model.CreatedAt,
	).Scan(&model.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert collection for %s: %w", collection.Date, err)
	}

	saved := mapping.ToDomainCollection(model)
	return &saved, nil
}

// SaveDonations inserts all line items of one collection as a single batch on
// one connection. A failed command fails the whole call; no partial batch is
// reported as success. The already-inserted parent collection is NOT removed
// on failure -- that gap is deliberate and surfaced to the caller instead.
func (r *collectionRepository) SaveDonations(ctx context.Context, donations []domain.Donation) error {
	if len(donations) == 0 {
		return nil
	}
	collectionID := donations[0].CollectionID
	for _, d := range donations {
		if d.CollectionID != collectionID {
			return fmt.Errorf("%w: donation batch spans multiple collections", apperrors.ErrValidation)
		}
	}

	query := `
		INSERT INTO donations (collection_id, donor_name, check_number, amount, donation_type, position)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, d := range donations {
		model := mapping.ToModelDonation(d)
		batch.Queue(query,
			model.CollectionID,
			model.DonorName,
			model.CheckNumber,
			model.Amount,
			model.DonationType,
			model.Position,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert donation batch for collection %s: %w", collectionID, err)
	}
	return nil
}

// FindCollectionByID retrieves a collection with its donations in entry order.
func (r *collectionRepository) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	query := `
		SELECT collection_id, date, service_type, recorded_by, counted_by, deposit_slip_ref, created_at
		FROM collections
		WHERE collection_id = $1;
	`
	var model models.Collection
	err := r.pool.QueryRow(ctx, query, collectionID).Scan(
		&model.CollectionID,
		&model.Date,
		&model.ServiceType,
		&model.RecordedBy,
		&model.CountedBy,
		&model.DepositSlipRef,
		&model.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find collection %s: %w", collectionID, err)
	}

	donationsByID, err := r.findDonationsByCollectionIDs(ctx, []string{collectionID})
	if err != nil {
		return nil, err
	}

	collection := mapping.ToDomainCollection(model)
	collection.Donations = donationsByID[collectionID]
	return &collection, nil
}

// FindCollectionsByDateRange retrieves all collections dated within
// [start, end] inclusive with donations attached, ordered by date ascending.
func (r *collectionRepository) FindCollectionsByDateRange(ctx context.Context, start, end civil.Date) ([]domain.Collection, error) {
	query := `
		SELECT collection_id, date, service_type, recorded_by, counted_by, deposit_slip_ref, created_at
		FROM collections
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, collection_id ASC;
	`
	rows, err := r.pool.Query(ctx, query, start.In(time.UTC), end.In(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to query collections in [%s, %s]: %w", start, end, err)
	}
	defer rows.Close()

	var collections []domain.Collection
	var ids []string
	for rows.Next() {
		var model models.Collection
		if err := rows.Scan(
			&model.CollectionID,
			&model.Date,
			&model.ServiceType,
			&model.RecordedBy,
			&model.CountedBy,
			&model.DepositSlipRef,
			&model.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		collections = append(collections, mapping.ToDomainCollection(model))
		ids = append(ids, model.CollectionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading collection rows: %w", err)
	}
	if len(collections) == 0 {
		return []domain.Collection{}, nil
	}

	donationsByID, err := r.findDonationsByCollectionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range collections {
		collections[i].Donations = donationsByID[collections[i].CollectionID]
	}
	return collections, nil
}

// findDonationsByCollectionIDs fetches donations for a set of collections and
// groups them by collection id, each group in entry order.
func (r *collectionRepository) findDonationsByCollectionIDs(ctx context.Context, collectionIDs []string) (map[string][]domain.Donation, error) {
	query := `
		SELECT donation_id, collection_id, donor_name, check_number, amount, donation_type, position
		FROM donations
		WHERE collection_id = ANY($1)
		ORDER BY collection_id, position;
	`
	rows, err := r.pool.Query(ctx, query, collectionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.Donation)
	for rows.Next() {
		var model models.Donation
		if err := rows.Scan(
			&model.DonationID,
			&model.CollectionID,
			&model.DonorName,
			&model.CheckNumber,
			&model.Amount,
			&model.DonationType,
			&model.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan donation row: %w", err)
		}
		grouped[model.CollectionID] = append(grouped[model.CollectionID], mapping.ToDomainDonation(model))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading donation rows: %w", err)
	}
	return grouped, nil
}
