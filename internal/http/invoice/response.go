package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

type invoiceResponse struct {
	ID            uuid.UUID `json:"id"`
	Number        string    `json:"number"`
	SenderID      string    `json:"sender_id"`
	SenderName    string    `json:"sender_name"`
	SenderEmail   string    `json:"sender_email"`
	SenderAddress string    `json:"sender_address,omitempty"`
	SenderPhone   string    `json:"sender_phone,omitempty"`

	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`

	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	InvoiceDate string          `json:"invoice_date"`

	Status        invoice.Status `json:"status"`
	SignatureKind string         `json:"signature_kind,omitempty"`
	SignedAt      *time.Time     `json:"signed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:             inv.ID,
		Number:         inv.Number,
		SenderID:       inv.SenderID,
		SenderName:     inv.SenderName,
		SenderEmail:    inv.SenderEmail,
		SenderAddress:  inv.SenderAddress,
		SenderPhone:    inv.SenderPhone,
		RecipientName:  inv.RecipientName,
		RecipientEmail: inv.RecipientEmail,
		Amount:         inv.Amount,
		Currency:       inv.Currency,
		Description:    inv.Description,
		InvoiceDate:    inv.InvoiceDate.Format(time.DateOnly),
		Status:         inv.Status,
		SignedAt:       inv.SignedAt,
		CreatedAt:      inv.CreatedAt,
	}

	if inv.Signature != nil {
		resp.SignatureKind = string(inv.Signature.Kind)
	}

	return resp
}

func toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	return resp
}
