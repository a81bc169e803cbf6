package importcsv

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NANDHINI7390/signify-invoice/internal/http/auth"
	"github.com/NANDHINI7390/signify-invoice/internal/importer"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

type Handler struct {
	importSvc  *importer.Service
	invoiceSvc *invoice.Service
}

func NewHandler(importSvc *importer.Service, invoiceSvc *invoice.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		invoiceSvc: invoiceSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importDrafts)
}

type rowError struct {
	Row    int                  `json:"row"`
	Fields []invoice.FieldError `json:"fields"`
}

type importErrorResponse struct {
	Error string     `json:"error"`
	Rows  []rowError `json:"rows"`
}

type importSuccessResponse struct {
	Imported int      `json:"imported"`
	Numbers  []string `json:"numbers"`
}

func (h *Handler) importDrafts(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatCSV
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(rows) == 0 {
		http.Error(w, "file contains no rows", http.StatusBadRequest)
		return
	}

	// Stamp the owner's identity onto each row, then validate everything
	// up front: the upload is all-or-nothing.
	for i := range rows {
		rows[i].SenderID = actorID
		rows[i].SenderName = r.FormValue("sender_name")
		rows[i].SenderEmail = r.FormValue("sender_email")
		rows[i].SenderAddress = r.FormValue("sender_address")
		rows[i].SenderPhone = r.FormValue("sender_phone")
	}

	var rowErrs []rowError

	for i, row := range rows {
		var verr *invoice.ValidationError
		if err := row.Validate(); errors.As(err, &verr) {
			rowErrs = append(rowErrs, rowError{Row: i + 2, Fields: verr.Fields})
		}
	}

	if len(rowErrs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)

		if err := json.NewEncoder(w).Encode(importErrorResponse{
			Error: "validation failed",
			Rows:  rowErrs,
		}); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	numbers := make([]string, 0, len(rows))

	for i, row := range rows {
		inv, err := h.invoiceSvc.Create(r.Context(), row)
		if err != nil {
			http.Error(w, fmt.Sprintf("creating draft for row %d: %v", i+2, err), http.StatusInternalServerError)
			return
		}

		numbers = append(numbers, inv.Number)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importSuccessResponse{
		Imported: len(numbers),
		Numbers:  numbers,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
