package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	id, number, sender_id, sender_name, sender_email, sender_address, sender_phone,
	recipient_name, recipient_email, amount, currency, description, invoice_date,
	status, signature_kind, signature, signed_at, created_at
`

// scanInvoice reads an invoice row in selectInvoiceColumns order.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var statusStr string

	var address, phone, sigKind sql.NullString

	var sigPayload []byte

	var signedAt sql.NullTime

	if err := s.Scan(
		&inv.ID, &inv.Number, &inv.SenderID, &inv.SenderName, &inv.SenderEmail,
		&address, &phone,
		&inv.RecipientName, &inv.RecipientEmail,
		&inv.Amount, &inv.Currency, &inv.Description, &inv.InvoiceDate,
		&statusStr, &sigKind, &sigPayload, &signedAt, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = invoice.Status(statusStr)
	inv.SenderAddress = address.String
	inv.SenderPhone = phone.String

	if sigKind.Valid && len(sigPayload) > 0 {
		inv.Signature = &invoice.Signature{
			Kind:    invoice.SignatureKind(sigKind.String),
			Payload: sigPayload,
		}
	}

	if signedAt.Valid {
		t := signedAt.Time
		inv.SignedAt = &t
	}

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			number, sender_id, sender_name, sender_email, sender_address, sender_phone,
			recipient_name, recipient_email, amount, currency, description, invoice_date,
			status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.Number,
		inv.SenderID,
		inv.SenderName,
		inv.SenderEmail,
		nullable(inv.SenderAddress),
		nullable(inv.SenderPhone),
		inv.RecipientName,
		inv.RecipientEmail,
		inv.Amount,
		inv.Currency,
		inv.Description,
		inv.InvoiceDate,
		inv.Status,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + ` FROM invoices WHERE id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, senderID string, limit int) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invs, nil
}

func (s *Store) NumberExists(ctx context.Context, senderID, number string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invoices WHERE sender_id = $1 AND number = $2)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, senderID, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking invoice number: %w", err)
	}

	return exists, nil
}

// MarkPending applies the draft -> pending transition. The status guard in
// the WHERE clause makes a repeated dispatch a no-row update rather than a
// silent overwrite.
func (s *Store) MarkPending(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE invoices SET status = $1 WHERE id = $2 AND status = $3`

	res, err := s.db.ExecContext(ctx, query, invoice.StatusPending, id, invoice.StatusDraft)
	if err != nil {
		return fmt.Errorf("marking pending: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking pending: %w", err)
	}

	if affected == 0 {
		return invoice.ErrInvalidTransition
	}

	return nil
}

// signLockKey hashes an invoice id into an advisory lock key so concurrent
// sign attempts on the same record queue behind one another. Records with
// different ids stay fully independent.
func signLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(id[:])

	return int64(h.Sum64())
}

// MarkSigned applies the pending -> signed transition and attaches the
// signature atomically. At most one concurrent attempt can succeed: the
// advisory lock serializes them and the status guard rejects the losers
// with ErrAlreadySigned.
func (s *Store) MarkSigned(ctx context.Context, id uuid.UUID, sig invoice.Signature, signedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning sign tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", signLockKey(id)); err != nil {
		return fmt.Errorf("acquiring sign lock: %w", err)
	}

	query := `
		UPDATE invoices
		SET status = $1, signature_kind = $2, signature = $3, signed_at = $4
		WHERE id = $5 AND status = $6
	`

	res, err := tx.ExecContext(ctx, query,
		invoice.StatusSigned, sig.Kind, sig.Payload, signedAt, id, invoice.StatusPending)
	if err != nil {
		return fmt.Errorf("marking signed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking signed: %w", err)
	}

	if affected == 0 {
		return invoice.ErrAlreadySigned
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sign tx: %w", err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
