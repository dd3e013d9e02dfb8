package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradeLedger/internal/analytics"
	"tradeLedger/internal/app"
	"tradeLedger/internal/domain"
	"tradeLedger/internal/ports"
)

// JournalService is the application surface the API serves.
type JournalService interface {
	LoadJournal(ctx context.Context, accountID string) (*app.Journal, error)
	Summary(ctx context.Context, accountID string) (analytics.Summary, error)
	Streaks(ctx context.Context, accountID string) (app.StreakView, error)
	EquityCurve(ctx context.Context, accountID string, q app.EquityQuery) (analytics.EquityCurve, error)
	Breakdown(ctx context.Context, accountID string, q app.BreakdownQuery) (analytics.Breakdown, error)
	DailyPnL(ctx context.Context, accountID string, includeNonTrading bool) ([]analytics.DayPnL, error)
	WeekdayPnL(ctx context.Context, accountID string) ([]analytics.WeekdayPnL, error)
	Report(ctx context.Context, accountID string, q app.ReportQuery) (analytics.Report, error)
	CreateAccount(ctx context.Context, in app.NewAccount) (domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	AddTrade(ctx context.Context, accountID string, rec domain.TradeRecord) (domain.Trade, error)
	DeleteTrade(ctx context.Context, accountID, tradeID string) error
}

// Options configures NewRouter.
type Options struct {
	// Registry receives the API metrics and backs /metrics. Nil uses a fresh registry.
	Registry *prometheus.Registry
	// Metrics are the collectors the router records into. Nil registers new ones on Registry.
	Metrics *Metrics
}

// NewRouter wires the journal API.
//
//	/api/v1/accounts                         GET list, POST create
//	/api/v1/accounts/{id}/trades             GET list, POST add
//	/api/v1/accounts/{id}/trades/{tradeID}   DELETE
//	/api/v1/accounts/{id}/summary            GET
//	/api/v1/accounts/{id}/streaks            GET
//	/api/v1/accounts/{id}/equity             GET ?group=&enlarged=&hide=
//	/api/v1/accounts/{id}/breakdown          GET ?group=&metric=&enlarged=
//	/api/v1/accounts/{id}/daily              GET ?include_non_trading=
//	/api/v1/accounts/{id}/weekdays           GET
//	/api/v1/accounts/{id}/report             GET ?group=&enlarged=&hide=&include_non_trading=
//	/metrics, /healthz
func NewRouter(svc JournalService, logger ports.Logger, opts Options) *mux.Router {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(reg)
	}
	h := &Handler{svc: svc, logger: logger}

	router := mux.NewRouter()
	router.Use(recovery(logger))
	router.Use(instrument(logger, metrics))

	const api = "/api/v1"

	router.HandleFunc(api+"/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts", h.CreateAccount).Methods(http.MethodPost)

	router.HandleFunc(api+"/accounts/{id}/trades", h.ListTrades).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts/{id}/trades", h.AddTrade).Methods(http.MethodPost)
	router.HandleFunc(api+"/accounts/{id}/trades/{tradeID}", h.DeleteTrade).Methods(http.MethodDelete)

	router.HandleFunc(api+"/accounts/{id}/summary", h.Summary).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts/{id}/streaks", h.Streaks).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts/{id}/equity", h.Equity).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts/{id}/breakdown", h.Breakdown).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts/{id}/daily", h.Daily).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts/{id}/weekdays", h.Weekdays).Methods(http.MethodGet)
	router.HandleFunc(api+"/accounts/{id}/report", h.Report).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", r.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", r.Method)
	})

	return router
}
