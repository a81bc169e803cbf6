package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/NANDHINI7390/signify-invoice/internal/http/auth"
	"github.com/NANDHINI7390/signify-invoice/internal/http/importcsv"
	invoiceHandler "github.com/NANDHINI7390/signify-invoice/internal/http/invoice"
	"github.com/NANDHINI7390/signify-invoice/internal/http/sign"
)

func New(
	authSecret string,
	invoicesV1 *invoiceHandler.Handler,
	importV1 *importcsv.Handler,
	signH *sign.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(authSecret))

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			invoicesV1.Routes(r)
		})

		r.Route("/import", importV1.Routes)
	})

	// The signing path is public: possession of the link token is the
	// recipient's credential.
	router.Route("/sign", signH.Routes)

	return router
}
