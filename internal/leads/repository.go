// Package leads persists leads and payments for the setup workflow.
package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"freezone-advisor/internal/models"
)

// ErrDuplicateEmail is returned when a lead with the same email already exists.
var ErrDuplicateEmail = fmt.Errorf("lead email already exists")

// Repository stores leads and payments in PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateLead inserts a new lead. The requirements payload is stored as JSONB.
func (r *Repository) CreateLead(ctx context.Context, lead *models.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	reqJSON, err := json.Marshal(lead.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}

	const insert = `
		INSERT INTO leads (id, email, first_name, last_name, phone, requirements, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, insert,
		lead.ID, lead.Email, lead.FirstName, lead.LastName, lead.Phone,
		reqJSON, lead.Status, lead.CreatedAt, lead.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// GetLead fetches a lead by ID.
func (r *Repository) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	const query = `
		SELECT id, email, first_name, last_name, phone, requirements, status, created_at, updated_at
		FROM leads WHERE id = $1`

	var lead models.Lead
	var reqJSON []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lead.ID, &lead.Email, &lead.FirstName, &lead.LastName, &lead.Phone,
		&reqJSON, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lead %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch lead %q: %w", id, err)
	}

	if err := json.Unmarshal(reqJSON, &lead.Requirements); err != nil {
		return nil, fmt.Errorf("unmarshal requirements for lead %q: %w", id, err)
	}

	return &lead, nil
}

// FindLeadByEmail returns the lead for an email, or nil when none exists.
func (r *Repository) FindLeadByEmail(ctx context.Context, email string) (*models.Lead, error) {
	const query = `SELECT id FROM leads WHERE email = $1`

	var id string
	err := r.db.QueryRowContext(ctx, query, email).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup lead by email: %w", err)
	}

	return r.GetLead(ctx, id)
}

// UpdateLeadStatus advances a lead through the workflow.
func (r *Repository) UpdateLeadStatus(ctx context.Context, id, status string) error {
	const update = `UPDATE leads SET status = $2, updated_at = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, update, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("lead %q not found", id)
	}
	return nil
}

// CreatePayment records a payment attempt.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}

	const insert = `
		INSERT INTO payments (id, lead_id, method, amount, currency, status, gateway_id, reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, insert,
		payment.ID, payment.LeadID, payment.Method, payment.Amount, payment.Currency,
		payment.Status, payment.GatewayID, payment.Reference, payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// FindPaymentByGatewayID resolves a webhook event back to our payment record.
func (r *Repository) FindPaymentByGatewayID(ctx context.Context, gatewayID string) (*models.Payment, error) {
	const query = `
		SELECT id, lead_id, method, amount, currency, status, gateway_id, reference, created_at, updated_at
		FROM payments WHERE gateway_id = $1`

	var p models.Payment
	err := r.db.QueryRowContext(ctx, query, gatewayID).Scan(
		&p.ID, &p.LeadID, &p.Method, &p.Amount, &p.Currency,
		&p.Status, &p.GatewayID, &p.Reference, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment for gateway id %q not found", gatewayID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch payment by gateway id: %w", err)
	}

	return &p, nil
}

// UpdatePaymentStatus marks a payment confirmed or failed.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id, status string) error {
	const update = `UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, update, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("payment %q not found", id)
	}
	return nil
}
