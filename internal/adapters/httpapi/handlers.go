package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"tradeLedger/internal/analytics"
	"tradeLedger/internal/app"
	"tradeLedger/internal/domain"
	"tradeLedger/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

// Handler serves the journal endpoints.
type Handler struct {
	svc    JournalService
	logger ports.Logger
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type accountResponse struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	StartingBalance decimal.Decimal          `json:"starting_balance"`
	Fields          []domain.FieldDefinition `json:"fields"`
}

func newAccountResponse(a domain.Account) accountResponse {
	return accountResponse{ID: a.ID, Name: a.Name, StartingBalance: a.StartingBalance, Fields: a.Fields}
}

type tradeResponse struct {
	ID        string                 `json:"id"`
	Symbol    string                 `json:"symbol"`
	Outcome   domain.Outcome         `json:"outcome"`
	PnL       decimal.Decimal        `json:"pnl"`
	RR        decimal.Decimal        `json:"rr"`
	Date      string                 `json:"date"`
	Direction domain.Direction       `json:"direction,omitempty"`
	Extra     map[string]interface{} `json:"extra"`
}

func newTradeResponse(t domain.Trade) tradeResponse {
	extra := make(map[string]interface{}, len(t.Extra))
	for k, v := range t.Extra {
		if v.IsNumeric() {
			extra[k] = v.Number
		} else {
			extra[k] = v.Text
		}
	}
	return tradeResponse{
		ID:        t.ID,
		Symbol:    t.Symbol,
		Outcome:   t.Outcome,
		PnL:       t.PnL,
		RR:        t.RR,
		Date:      domain.FormatDate(t.Date),
		Direction: t.Direction,
		Extra:     extra,
	}
}

type tradesResponse struct {
	Trades  []tradeResponse `json:"trades"`
	Skipped int             `json:"skipped"`
}

type tradeRequest struct {
	ID        string                 `json:"id,omitempty"`
	Symbol    string                 `json:"symbol"`
	Outcome   string                 `json:"outcome"`
	PnL       domain.Numeric         `json:"pnl"`
	RR        domain.Numeric         `json:"rr"`
	Date      string                 `json:"date"`
	Direction string                 `json:"direction"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

func (req tradeRequest) record() (domain.TradeRecord, error) {
	rec := domain.TradeRecord{
		ID:        req.ID,
		Symbol:    req.Symbol,
		Outcome:   req.Outcome,
		PnL:       req.PnL,
		RR:        req.RR,
		Date:      req.Date,
		Direction: req.Direction,
		ExtraData: "{}",
	}
	if len(req.Extra) > 0 {
		raw, err := json.MarshalToString(req.Extra)
		if err != nil {
			return rec, fmt.Errorf("%w: extra: %v", ports.ErrInvalidRequest, err)
		}
		rec.ExtraData = raw
	}
	return rec, nil
}

// --- Accounts ---

// ListAccounts returns every account.
// GET /api/v1/accounts
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, newAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateAccount adds an account.
// POST /api/v1/accounts
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var in app.NewAccount
	if err := decodeBody(w, r, &in); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	acc, err := h.svc.CreateAccount(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAccountResponse(acc))
}

// --- Trades ---

// ListTrades returns the parsed trades of an account.
// GET /api/v1/accounts/{id}/trades
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	j, err := h.svc.LoadJournal(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	resp := tradesResponse{Trades: make([]tradeResponse, 0, len(j.Trades)), Skipped: j.Skipped}
	for _, t := range j.Trades {
		resp.Trades = append(resp.Trades, newTradeResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddTrade logs a trade.
// POST /api/v1/accounts/{id}/trades
func (h *Handler) AddTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	rec, err := req.record()
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	trade, err := h.svc.AddTrade(r.Context(), mux.Vars(r)["id"], rec)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTradeResponse(trade))
}

// DeleteTrade removes a trade.
// DELETE /api/v1/accounts/{id}/trades/{tradeID}
func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.DeleteTrade(r.Context(), vars["id"], vars["tradeID"]); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Analytics ---

// Summary GET /api/v1/accounts/{id}/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Streaks GET /api/v1/accounts/{id}/streaks
func (h *Handler) Streaks(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Streaks(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Equity GET /api/v1/accounts/{id}/equity
func (h *Handler) Equity(w http.ResponseWriter, r *http.Request) {
	enlarged, err := queryBool(r, "enlarged")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	curve, err := h.svc.EquityCurve(r.Context(), mux.Vars(r)["id"], app.EquityQuery{
		Group:    q.Get("group"),
		Enlarged: enlarged,
		Hidden:   q["hide"],
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, curve)
}

// Breakdown GET /api/v1/accounts/{id}/breakdown
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	enlarged, err := queryBool(r, "enlarged")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	b, err := h.svc.Breakdown(r.Context(), mux.Vars(r)["id"], app.BreakdownQuery{
		Group:    q.Get("group"),
		Metric:   q.Get("metric"),
		Enlarged: enlarged,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Daily GET /api/v1/accounts/{id}/daily
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	fill, err := queryBool(r, "include_non_trading")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	days, err := h.svc.DailyPnL(r.Context(), mux.Vars(r)["id"], fill)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// Weekdays GET /api/v1/accounts/{id}/weekdays
func (h *Handler) Weekdays(w http.ResponseWriter, r *http.Request) {
	days, err := h.svc.WeekdayPnL(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// Report GET /api/v1/accounts/{id}/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	enlarged, err := queryBool(r, "enlarged")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	fill, err := queryBool(r, "include_non_trading")
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	q := r.URL.Query()
	report, err := h.svc.Report(r.Context(), mux.Vars(r)["id"], app.ReportQuery{
		Group:                 q.Get("group"),
		Enlarged:              enlarged,
		Hidden:                q["hide"],
		IncludeNonTradingDays: fill,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// --- Helpers ---

// handleServiceError maps service errors to HTTP statuses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, analytics.ErrInvalidGroupKey),
		errors.Is(err, analytics.ErrInvalidMetric),
		errors.Is(err, ports.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())

	case errors.Is(err, ports.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", err.Error())

	case errors.Is(err, ports.ErrDuplicateEntry):
		writeError(w, http.StatusConflict, "already exists", err.Error())

	default:
		h.logger.Error(r.Context(), err, "Request failed", map[string]interface{}{"path": r.URL.Path})
		writeError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func queryBool(r *http.Request, key string) (bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", ports.ErrInvalidRequest, key, v)
	}
	return b, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", ports.ErrInvalidRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message, details string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message, Details: details})
}
