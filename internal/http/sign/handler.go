// Package sign serves the public shareable-link path. Holding a valid
// link token is the recipient's only credential; invalid and expired
// tokens are answered with 404 so the endpoint is not an existence oracle.
package sign

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	"github.com/NANDHINI7390/signify-invoice/internal/render"
	"github.com/NANDHINI7390/signify-invoice/internal/sharelink"
	"github.com/NANDHINI7390/signify-invoice/internal/signature"
)

type Handler struct {
	svc   *invoice.Service
	links *sharelink.Builder
}

func NewHandler(svc *invoice.Service, links *sharelink.Builder) *Handler {
	return &Handler{svc: svc, links: links}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{token}", h.show)
	r.Post("/{token}", h.sign)
}

type summaryResponse struct {
	Number        string         `json:"number"`
	SenderName    string         `json:"sender_name"`
	RecipientName string         `json:"recipient_name"`
	Amount        string         `json:"amount"`
	Currency      string         `json:"currency"`
	Description   string         `json:"description"`
	InvoiceDate   string         `json:"invoice_date"`
	Status        invoice.Status `json:"status"`
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.resolve(w, r)
	if !ok {
		return
	}

	resp := summaryResponse{
		Number:        inv.Number,
		SenderName:    inv.SenderName,
		RecipientName: inv.RecipientName,
		Amount:        render.FormatTotal(inv.Amount, inv.Currency),
		Currency:      inv.Currency,
		Description:   inv.Description,
		InvoiceDate:   inv.InvoiceDate.Format(time.DateOnly),
		Status:        inv.Status,
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type signRequest struct {
	Kind  string `json:"kind"`
	Image string `json:"image,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (h *Handler) sign(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	art, err := buildArtifact(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	signed, err := h.svc.Sign(r.Context(), inv.ID, art)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	resp := summaryResponse{
		Number:        signed.Number,
		SenderName:    signed.SenderName,
		RecipientName: signed.RecipientName,
		Amount:        render.FormatTotal(signed.Amount, signed.Currency),
		Currency:      signed.Currency,
		Description:   signed.Description,
		InvoiceDate:   signed.InvoiceDate.Format(time.DateOnly),
		Status:        signed.Status,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// resolve parses the link token and loads the record. It writes the
// response itself on failure.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*invoice.Invoice, bool) {
	id, err := h.links.Parse(chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return nil, false
	}

	inv, err := h.svc.GetForSigning(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	return inv, true
}

func buildArtifact(req signRequest) (signature.Artifact, error) {
	switch signature.Kind(req.Kind) {
	case signature.KindTyped:
		return signature.Typed(req.Name), nil
	case signature.KindDrawn:
		// Accept both raw base64 and the data-URL form a canvas export
		// produces.
		data := req.Image
		if idx := strings.Index(data, ","); strings.HasPrefix(data, "data:") && idx >= 0 {
			data = data[idx+1:]
		}

		payload, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return signature.Artifact{}, errors.New("image must be base64-encoded PNG data")
		}

		return signature.Artifact{Kind: signature.KindDrawn, Payload: payload}, nil
	default:
		return signature.Artifact{}, errors.New("kind must be drawn or typed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, invoice.ErrEmptySignature):
		http.Error(w, "signature must not be empty", http.StatusBadRequest)
	case errors.Is(err, invoice.ErrAlreadySigned):
		http.Error(w, "invoice already signed", http.StatusConflict)
	case errors.Is(err, invoice.ErrInvalidTransition):
		http.Error(w, "invoice is not awaiting signature", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
