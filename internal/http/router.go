package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/http/category"
	"github.com/MrJamesThe3rd/spendwise/internal/http/insights"
	httpmw "github.com/MrJamesThe3rd/spendwise/internal/http/middleware"
	"github.com/MrJamesThe3rd/spendwise/internal/http/respond"
	"github.com/MrJamesThe3rd/spendwise/internal/http/statement"
	"github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
)

type Options struct {
	Log            zerolog.Logger
	Verifier       *auth.Verifier
	AllowedOrigins []string
}

func New(
	opts Options,
	statementsV1 *statement.Handler,
	transactionsV1 *transaction.Handler,
	insightsV1 *insights.Handler,
	categoriesV1 *category.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpmw.Logger(opts.Log))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.Verifier, func(w http.ResponseWriter, r *http.Request, err error) {
			logger.FromContext(r.Context()).Debug().Err(err).Msg("rejected request")
			w.Header().Set("WWW-Authenticate", "Bearer")
			respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		}))

		r.Route("/statements", statementsV1.Routes)

		r.Route("/transactions", transactionsV1.Routes)

		r.Route("/insights", insightsV1.Routes)

		r.Route("/categories", categoriesV1.Routes)
	})

	return router
}
