package labels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shiplabel/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for label persistence. Every
// operation takes the owning user's id; rows belonging to other users are
// invisible.
type RepositoryInterface interface {
	Create(ctx context.Context, label *models.ShippingLabel) (*models.ShippingLabel, error)
	FindByIDForUser(ctx context.Context, userID string, labelID int64) (*models.ShippingLabel, error)
	ListByUser(ctx context.Context, userID string, filters models.LabelFilters, page, limit int) ([]*models.ShippingLabel, int, error)
	UpdateStatusForUser(ctx context.Context, userID string, labelID int64, status models.LabelStatus) error
	StatsForUser(ctx context.Context, userID string) (*models.LabelStats, error)
}

// Repository implements the RepositoryInterface over Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new label repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const labelColumns = `id, user_id, easypost_shipment_id,
	from_name, from_company, from_street1, from_street2, from_city, from_state, from_zip, from_country, from_phone,
	to_name, to_company, to_street1, to_street2, to_city, to_state, to_zip, to_country, to_phone,
	weight, length, width, height,
	carrier, service, rate, tracking_code, label_url, label_pdf_url, label_png_url, status,
	created_at, updated_at`

// scanLabel is a helper to scan a row into a ShippingLabel model.
func scanLabel(row pgx.Row) (*models.ShippingLabel, error) {
	var l models.ShippingLabel
	err := row.Scan(
		&l.ID, &l.UserID, &l.EasypostShipmentID,
		&l.FromName, &l.FromCompany, &l.FromStreet1, &l.FromStreet2, &l.FromCity, &l.FromState, &l.FromZip, &l.FromCountry, &l.FromPhone,
		&l.ToName, &l.ToCompany, &l.ToStreet1, &l.ToStreet2, &l.ToCity, &l.ToState, &l.ToZip, &l.ToCountry, &l.ToPhone,
		&l.Weight, &l.Length, &l.Width, &l.Height,
		&l.Carrier, &l.Service, &l.Rate, &l.TrackingCode, &l.LabelURL, &l.LabelPdfURL, &l.LabelPngURL, &l.Status,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan shipping label: %w", err)
	}
	return &l, nil
}

// Create inserts a new label record. The easypost_shipment_id column is
// unique; a second insert for the same shipment fails with
// models.ErrDuplicateShipment.
func (r *Repository) Create(ctx context.Context, label *models.ShippingLabel) (*models.ShippingLabel, error) {
	query := `
		INSERT INTO shipping_labels (
			user_id, easypost_shipment_id,
			from_name, from_company, from_street1, from_street2, from_city, from_state, from_zip, from_country, from_phone,
			to_name, to_company, to_street1, to_street2, to_city, to_state, to_zip, to_country, to_phone,
			weight, length, width, height,
			carrier, service, rate, tracking_code, label_url, label_pdf_url, label_png_url, status
		) VALUES (
			$1, $2,
			$3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24,
			$25, $26, $27, $28, $29, $30, $31, $32
		)
		RETURNING ` + labelColumns

	row := r.db.QueryRow(ctx, query,
		label.UserID, label.EasypostShipmentID,
		label.FromName, label.FromCompany, label.FromStreet1, label.FromStreet2, label.FromCity, label.FromState, label.FromZip, label.FromCountry, label.FromPhone,
		label.ToName, label.ToCompany, label.ToStreet1, label.ToStreet2, label.ToCity, label.ToState, label.ToZip, label.ToCountry, label.ToPhone,
		label.Weight, label.Length, label.Width, label.Height,
		label.Carrier, label.Service, label.Rate, label.TrackingCode, label.LabelURL, label.LabelPdfURL, label.LabelPngURL, label.Status,
	)

	created, err := scanLabel(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateShipment
		}
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return created, nil
}

// FindByIDForUser retrieves a single label owned by the given user.
func (r *Repository) FindByIDForUser(ctx context.Context, userID string, labelID int64) (*models.ShippingLabel, error) {
	query := `SELECT ` + labelColumns + ` FROM shipping_labels WHERE id = $1 AND user_id = $2`

	label, err := scanLabel(r.db.QueryRow(ctx, query, labelID, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByIDForUser: %w", err)
	}
	return label, nil
}

// ListByUser retrieves a page of the user's labels, newest first. The search
// filter matches as a case-insensitive substring across tracking code,
// status, from/to name and from/to city; the status filter is exact.
func (r *Repository) ListByUser(ctx context.Context, userID string, filters models.LabelFilters, page, limit int) ([]*models.ShippingLabel, int, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	argIdx := 2

	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		where = append(where, fmt.Sprintf(
			`(tracking_code ILIKE $%d OR status ILIKE $%d OR from_name ILIKE $%d OR to_name ILIKE $%d OR from_city ILIKE $%d OR to_city ILIKE $%d)`,
			argIdx, argIdx, argIdx, argIdx, argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM shipping_labels WHERE " + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUser.Count: %w", err)
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`SELECT %s FROM shipping_labels WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		labelColumns, whereClause, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUser.Query: %w", err)
	}
	defer rows.Close()

	var result []*models.ShippingLabel
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListByUser.Scan: %w", err)
		}
		result = append(result, label)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repository.ListByUser.Rows: %w", err)
	}

	return result, total, nil
}

// UpdateStatusForUser updates the status of a label owned by the given user.
// Concurrent updates are last-write-wins.
func (r *Repository) UpdateStatusForUser(ctx context.Context, userID string, labelID int64, status models.LabelStatus) error {
	query := `
		UPDATE shipping_labels
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3`

	cmdTag, err := r.db.Exec(ctx, query, status, labelID, userID)
	if err != nil {
		return fmt.Errorf("repository.UpdateStatusForUser: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound // label not found or not owned by the user
	}
	return nil
}

// StatsForUser computes the dashboard aggregates in one pass. Active means
// status is created or purchased; total_spent sums rate over that same set.
func (r *Repository) StatsForUser(ctx context.Context, userID string) (*models.LabelStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('created', 'purchased')),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(rate) FILTER (WHERE status IN ('created', 'purchased')), 0)
		FROM shipping_labels
		WHERE user_id = $1`

	stats := &models.LabelStats{}
	err := r.db.QueryRow(ctx, query, userID).Scan(&stats.Total, &stats.Active, &stats.Cancelled, &stats.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("repository.StatsForUser: %w", err)
	}
	return stats, nil
}
