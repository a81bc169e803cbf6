package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/NANDHINI7390/signify-invoice/internal/http/auth"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	"github.com/NANDHINI7390/signify-invoice/internal/render"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/dispatch", h.dispatch)
	r.Get("/{id}/document", h.document)
}

type createInvoiceRequest struct {
	SenderName    string `json:"sender_name"`
	SenderEmail   string `json:"sender_email"`
	SenderAddress string `json:"sender_address,omitempty"`
	SenderPhone   string `json:"sender_phone,omitempty"`

	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`

	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	InvoiceDate string          `json:"invoice_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// A malformed date parses to the zero time, which validation then
	// reports together with any other violated field.
	date, _ := time.Parse(time.DateOnly, req.InvoiceDate)

	inv, err := h.svc.Create(r.Context(), invoice.CreateParams{
		SenderID:       actorID,
		SenderName:     req.SenderName,
		SenderEmail:    req.SenderEmail,
		SenderAddress:  req.SenderAddress,
		SenderPhone:    req.SenderPhone,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Description:    req.Description,
		InvoiceDate:    date,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	invs, err := h.svc.List(r.Context(), actorID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(invs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Dispatch(r.Context(), id, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id, actorID)
	if err != nil {
		writeError(w, err)
		return
	}

	doc, err := render.Compose(inv)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.PDF)))

	if _, err := w.Write(doc.PDF); err != nil {
		slog.Error("failed to write document", "error", err)
	}
}

type validationResponse struct {
	Error  string               `json:"error"`
	Fields []invoice.FieldError `json:"fields"`
}

func writeError(w http.ResponseWriter, err error) {
	var verr *invoice.ValidationError
	if errors.As(err, &verr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)

		if err := json.NewEncoder(w).Encode(validationResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	var cerr *render.CompositionError

	switch {
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "invoice not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrPermissionDenied):
		// The body must not leak record contents to a non-owner.
		http.Error(w, "permission denied", http.StatusForbidden)
	case errors.Is(err, invoice.ErrInvalidTransition):
		http.Error(w, "invalid status transition", http.StatusConflict)
	case errors.Is(err, invoice.ErrAlreadySigned):
		http.Error(w, "invoice already signed", http.StatusConflict)
	case errors.Is(err, invoice.ErrGenerationExhausted):
		http.Error(w, "could not allocate an invoice number, retry", http.StatusServiceUnavailable)
	case errors.As(err, &cerr):
		http.Error(w, "document composition failed, retry", http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
