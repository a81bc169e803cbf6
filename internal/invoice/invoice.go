package invoice

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an invoice.
// Transitions are linear: draft -> pending -> signed, with no back-edges.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusSigned  Status = "signed"
)

// SignatureKind distinguishes a drawn acknowledgment from a typed one.
type SignatureKind string

const (
	SignatureDrawn SignatureKind = "drawn"
	SignatureTyped SignatureKind = "typed"
)

// Signature is the recipient's acknowledgment artifact. For drawn
// signatures the payload is a PNG raster; for typed ones it is the
// literal name as UTF-8 bytes. It is attached exactly once, at the
// pending -> signed transition, and never mutated afterward.
type Signature struct {
	Kind    SignatureKind
	Payload []byte
}

// Invoice represents a billing document and its signing lifecycle.
type Invoice struct {
	ID     uuid.UUID
	Number string

	SenderID      string
	SenderName    string
	SenderEmail   string
	SenderAddress string
	SenderPhone   string

	RecipientName  string
	RecipientEmail string

	Amount      decimal.Decimal
	Currency    string
	Description string
	InvoiceDate time.Time

	Status    Status
	Signature *Signature
	SignedAt  *time.Time
	CreatedAt time.Time
}

// currencySymbols is the closed set of supported currency codes. Codes
// outside this set are rejected at creation; rendering falls back to the
// literal code for records that carry one anyway.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CAD": "C$",
	"AUD": "A$",
}

// CurrencySymbol returns the display symbol for a currency code and
// whether the code belongs to the supported set.
func CurrencySymbol(code string) (string, bool) {
	sym, ok := currencySymbols[code]
	return sym, ok
}

// CreateParams carries the caller-supplied fields for a new draft.
type CreateParams struct {
	SenderID      string
	SenderName    string
	SenderEmail   string
	SenderAddress string
	SenderPhone   string

	RecipientName  string
	RecipientEmail string

	Amount      decimal.Decimal
	Currency    string
	Description string
	InvoiceDate time.Time
}

// Validate checks every invariant and reports all violations together,
// not just the first one.
func (p CreateParams) Validate() error {
	var verr ValidationError

	if strings.TrimSpace(p.SenderName) == "" {
		verr.add("sender_name", "must not be empty")
	}

	if !validEmail(p.SenderEmail) {
		verr.add("sender_email", "must be a valid email address")
	}

	if strings.TrimSpace(p.RecipientName) == "" {
		verr.add("recipient_name", "must not be empty")
	}

	if !validEmail(p.RecipientEmail) {
		verr.add("recipient_email", "must be a valid email address")
	}

	if !p.Amount.IsPositive() {
		verr.add("amount", "must be greater than zero")
	}

	if _, ok := currencySymbols[p.Currency]; !ok {
		verr.add("currency", "must be a supported currency code")
	}

	if strings.TrimSpace(p.Description) == "" {
		verr.add("description", "must not be empty")
	}

	if p.InvoiceDate.IsZero() {
		verr.add("invoice_date", "must be a valid date")
	}

	if len(verr.Fields) > 0 {
		return &verr
	}

	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	// Reject the "Name <addr>" form; only a bare address is a valid field value.
	return err == nil && addr.Address == strings.TrimSpace(s)
}
