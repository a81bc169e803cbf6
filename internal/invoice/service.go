package invoice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NANDHINI7390/signify-invoice/internal/signature"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, senderID string, limit int) ([]*Invoice, error)
	NumberExists(ctx context.Context, senderID, number string) (bool, error)

	// MarkPending and MarkSigned apply a single status-guarded transition.
	// They fail with ErrInvalidTransition / ErrAlreadySigned when the record
	// is no longer in the state the transition requires, which is what keeps
	// concurrent attempts from both succeeding.
	MarkPending(ctx context.Context, id uuid.UUID) error
	MarkSigned(ctx context.Context, id uuid.UUID, sig Signature, signedAt time.Time) error
}

// Action is the kind of access being requested on a record.
type Action string

const (
	ActionRead       Action = "read"
	ActionTransition Action = "transition"
	ActionSign       Action = "sign"
)

// Guard decides whether an actor may perform an action on a record.
type Guard interface {
	Allow(actorID string, inv *Invoice, action Action) error
}

// Notification is the flat parameter set handed to the notification
// collaborator when a record becomes ready for signing. The service only
// assembles it; delivery is the collaborator's job.
type Notification struct {
	RecipientName  string
	RecipientEmail string
	SenderName     string
	SenderEmail    string
	InvoiceNumber  string
	InvoiceDate    string
	Amount         string
	Description    string
	SignLink       string
}

type Notifier interface {
	SendSignRequest(ctx context.Context, n Notification) error
}

// LinkBuilder produces the shareable signing URL for a record.
type LinkBuilder interface {
	SignURL(id uuid.UUID) (string, error)
}

type Service struct {
	repo     Repository
	guard    Guard
	notifier Notifier
	links    LinkBuilder
	now      func() time.Time
}

func NewService(repo Repository, guard Guard, notifier Notifier, links LinkBuilder) *Service {
	return &Service{
		repo:     repo,
		guard:    guard,
		notifier: notifier,
		links:    links,
		now:      time.Now,
	}
}

// Create validates the params and produces a draft record with a freshly
// generated invoice number unique within the owner's numbering.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	number, err := s.generateNumber(ctx, params.SenderID)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		Number:         number,
		SenderID:       params.SenderID,
		SenderName:     params.SenderName,
		SenderEmail:    params.SenderEmail,
		SenderAddress:  params.SenderAddress,
		SenderPhone:    params.SenderPhone,
		RecipientName:  params.RecipientName,
		RecipientEmail: params.RecipientEmail,
		Amount:         params.Amount,
		Currency:       params.Currency,
		Description:    params.Description,
		InvoiceDate:    params.InvoiceDate,
		Status:         StatusDraft,
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, s.persistErr("create", err)
	}

	return inv, nil
}

func (s *Service) generateNumber(ctx context.Context, senderID string) (string, error) {
	for i := 0; i < numberAttempts; i++ {
		number := newNumber(s.now())

		exists, err := s.repo.NumberExists(ctx, senderID, number)
		if err != nil {
			return "", s.persistErr("number check", err)
		}

		if !exists {
			return number, nil
		}
	}

	return "", ErrGenerationExhausted
}

// Dispatch moves an owned draft to pending and emits the sign-request
// notification. The notification never sends mail itself and a delivery
// failure does not roll the transition back.
func (s *Service) Dispatch(ctx context.Context, id uuid.UUID, actorID string) (*Invoice, error) {
	inv, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Allow(actorID, inv, ActionTransition); err != nil {
		return nil, err
	}

	if inv.Status != StatusDraft {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.MarkPending(ctx, id); err != nil {
		return nil, s.persistErr("dispatch", err)
	}

	inv.Status = StatusPending

	s.notifySignRequest(ctx, inv)

	return inv, nil
}

// Sign attaches the acknowledgment artifact and moves a pending record to
// signed. The shareable link is the recipient's credential, so no actor
// identity is checked here; an empty or blank artifact is rejected.
func (s *Service) Sign(ctx context.Context, id uuid.UUID, art signature.Artifact) (*Invoice, error) {
	if art.Empty() {
		return nil, ErrEmptySignature
	}

	inv, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	switch inv.Status {
	case StatusSigned:
		return nil, ErrAlreadySigned
	case StatusDraft:
		return nil, ErrInvalidTransition
	}

	sig := Signature{
		Kind:    SignatureKind(art.Kind),
		Payload: art.Payload,
	}

	signedAt := s.now()

	if err := s.repo.MarkSigned(ctx, id, sig, signedAt); err != nil {
		return nil, s.persistErr("sign", err)
	}

	inv.Status = StatusSigned
	inv.Signature = &sig
	inv.SignedAt = &signedAt

	return inv, nil
}

// Get returns a record after an ownership check.
func (s *Service) Get(ctx context.Context, id uuid.UUID, actorID string) (*Invoice, error) {
	inv, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Allow(actorID, inv, ActionRead); err != nil {
		return nil, err
	}

	return inv, nil
}

// GetForSigning returns a record for the shareable-link path, which is
// intentionally reachable without an authenticated identity.
func (s *Service) GetForSigning(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.fetch(ctx, id)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// List returns the caller's own records, newest first.
func (s *Service) List(ctx context.Context, senderID string, limit int) ([]*Invoice, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	invs, err := s.repo.ListInvoices(ctx, senderID, limit)
	if err != nil {
		return nil, s.persistErr("list", err)
	}

	return invs, nil
}

func (s *Service) fetch(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, s.persistErr("get", err)
	}

	return inv, nil
}

func (s *Service) notifySignRequest(ctx context.Context, inv *Invoice) {
	link, err := s.links.SignURL(inv.ID)
	if err != nil {
		slog.Error("failed to build sign link", "invoice", inv.Number, "error", err)
		return
	}

	sym, ok := CurrencySymbol(inv.Currency)
	if !ok {
		sym = inv.Currency + " "
	}

	n := Notification{
		RecipientName:  inv.RecipientName,
		RecipientEmail: inv.RecipientEmail,
		SenderName:     inv.SenderName,
		SenderEmail:    inv.SenderEmail,
		InvoiceNumber:  inv.Number,
		InvoiceDate:    inv.InvoiceDate.Format(time.DateOnly),
		Amount:         sym + inv.Amount.StringFixed(2),
		Description:    inv.Description,
		SignLink:       link,
	}

	if err := s.notifier.SendSignRequest(ctx, n); err != nil {
		slog.Error("failed to hand off sign request notification",
			"invoice", inv.Number, "error", err)
	}
}

// persistErr wraps store failures so callers can tell them apart from
// state-machine errors; sentinels pass through unchanged.
func (s *Service) persistErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrAlreadySigned):
		return err
	default:
		return &PersistenceError{Op: op, Err: err}
	}
}
