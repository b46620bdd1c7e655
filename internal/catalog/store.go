// Package catalog persists and indexes the freezone package catalog.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"freezone-advisor/internal/models"
)

// Store persists normalized catalog records in PostgreSQL.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Replace swaps the whole catalog in one transaction. The loader runs this
// on every refresh; readers never observe a partial catalog.
func (s *Store) Replace(ctx context.Context, records []models.FreezoneRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM freezone_packages"); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	const insert = `
		INSERT INTO freezone_packages (
			id, freezone_name, package_name, location,
			setup_cost, renewal_cost, license_cost, registration_cost, visa_cost, office_cost,
			initial_visa_allocation, max_visa_allocation,
			supported_activities, prohibited_activities, payment_options, key_benefits,
			corporate_requirements, setup_timeframe
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	for _, rec := range records {
		supported, _ := json.Marshal(rec.SupportedActivities)
		prohibited, _ := json.Marshal(rec.ProhibitedActivities)
		payments, _ := json.Marshal(rec.PaymentOptions)
		benefits, _ := json.Marshal(rec.KeyBenefits)

		if _, err := tx.ExecContext(ctx, insert,
			rec.ID, rec.FreezoneName, rec.PackageName, rec.Location,
			rec.SetupCost, rec.RenewalCost, rec.LicenseCost, rec.RegistrationCost, rec.VisaCost, rec.OfficeCost,
			rec.InitialVisaAllocation, rec.MaxVisaAllocation,
			supported, prohibited, payments, benefits,
			rec.CorporateRequirements, rec.SetupTimeframe,
		); err != nil {
			return fmt.Errorf("insert catalog record %q: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog replace: %w", err)
	}
	return nil
}

// GetByID fetches one catalog record.
func (s *Store) GetByID(ctx context.Context, id string) (*models.FreezoneRecord, error) {
	const query = `
		SELECT id, freezone_name, package_name, location,
		       setup_cost, renewal_cost, license_cost, registration_cost, visa_cost, office_cost,
		       initial_visa_allocation, max_visa_allocation,
		       supported_activities, prohibited_activities, payment_options, key_benefits,
		       corporate_requirements, setup_timeframe
		FROM freezone_packages WHERE id = $1`

	row := s.db.QueryRowContext(ctx, query, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("catalog record %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch catalog record %q: %w", id, err)
	}
	return rec, nil
}

// All returns every catalog record, used by the loader to rebuild indexes.
func (s *Store) All(ctx context.Context) ([]models.FreezoneRecord, error) {
	const query = `
		SELECT id, freezone_name, package_name, location,
		       setup_cost, renewal_cost, license_cost, registration_cost, visa_cost, office_cost,
		       initial_visa_allocation, max_visa_allocation,
		       supported_activities, prohibited_activities, payment_options, key_benefits,
		       corporate_requirements, setup_timeframe
		FROM freezone_packages ORDER BY freezone_name, package_name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var records []models.FreezoneRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.FreezoneRecord, error) {
	var rec models.FreezoneRecord
	var supported, prohibited, payments, benefits []byte

	err := row.Scan(
		&rec.ID, &rec.FreezoneName, &rec.PackageName, &rec.Location,
		&rec.SetupCost, &rec.RenewalCost, &rec.LicenseCost, &rec.RegistrationCost, &rec.VisaCost, &rec.OfficeCost,
		&rec.InitialVisaAllocation, &rec.MaxVisaAllocation,
		&supported, &prohibited, &payments, &benefits,
		&rec.CorporateRequirements, &rec.SetupTimeframe,
	)
	if err != nil {
		return nil, err
	}

	_ = json.Unmarshal(supported, &rec.SupportedActivities)
	_ = json.Unmarshal(prohibited, &rec.ProhibitedActivities)
	_ = json.Unmarshal(payments, &rec.PaymentOptions)
	_ = json.Unmarshal(benefits, &rec.KeyBenefits)

	return &rec, nil
}
