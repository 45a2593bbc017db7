package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/beaglesim/flightlog-backend-go/internal/models"
)

// ConversionRepository handles database operations for conversion records
type ConversionRepository struct {
	db *sql.DB
}

// NewConversionRepository creates a new conversion repository
func NewConversionRepository(db *sql.DB) *ConversionRepository {
	return &ConversionRepository{db: db}
}

// Insert stores a finished conversion and fills in its ID.
func (r *ConversionRepository) Insert(rec *models.ConversionRecord) error {
	query := `INSERT INTO conversions
		(input_path, output_path, method, status, reason, points, distance_m, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.Exec(query,
		rec.InputPath, rec.OutputPath, rec.Method, rec.Status, rec.Reason,
		rec.Points, rec.DistanceM, rec.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to insert conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read conversion id: %w", err)
	}
	rec.ID = id
	return nil
}

// GetByID retrieves a single conversion record, or nil when absent.
func (r *ConversionRepository) GetByID(id int64) (*models.ConversionRecord, error) {
	query := `SELECT id, input_path, output_path, method, status, reason,
		points, distance_m, duration_ms, created_at
		FROM conversions WHERE id = ?`
	rec, err := scanConversion(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion: %w", err)
	}
	return rec, nil
}

// List retrieves conversion records with filtering and pagination,
// newest first.
func (r *ConversionRepository) List(filter models.ConversionFilter) ([]models.ConversionRecord, int64, error) {
	var conditions []string
	var args []interface{}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Method != "" {
		conditions = append(conditions, "method = ?")
		args = append(args, filter.Method)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM conversions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count conversions: %w", err)
	}

	query := `SELECT id, input_path, output_path, method, status, reason,
		points, distance_m, duration_ms, created_at
		FROM conversions` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var records []models.ConversionRecord
	for rows.Next() {
		rec, err := scanConversion(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversion(row rowScanner) (*models.ConversionRecord, error) {
	var rec models.ConversionRecord
	var outputPath, method, reason, createdAt sql.NullString
	err := row.Scan(&rec.ID, &rec.InputPath, &outputPath, &method, &rec.Status,
		&reason, &rec.Points, &rec.DistanceM, &rec.DurationMS, &createdAt)
	if err != nil {
		return nil, err
	}
	rec.OutputPath = outputPath.String
	rec.Method = method.String
	rec.Reason = reason.String
	rec.CreatedAt = createdAt.String
	return &rec, nil
}
