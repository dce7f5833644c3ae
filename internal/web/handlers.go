package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/msquare-market/admin/internal/actions"
	"github.com/msquare-market/admin/internal/clients"
	"github.com/msquare-market/admin/internal/console"
	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/notify"
	"github.com/msquare-market/admin/internal/validate"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type viewInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

type viewResult struct {
	Sent     bool             `json:"sent,omitempty"`
	Dirty    bool             `json:"dirty"`
	Snapshot console.Snapshot `json:"snapshot"`
}

type searchRequest struct {
	Value     string `json:"value"`
	Immediate bool   `json:"immediate"`
}

type moveRequest struct {
	Field string `json:"field"`
	Index int    `json:"index"`
}

type sortRequest struct {
	Field string `json:"field"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type transferRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Token      string `json:"token"`
	Amount     string `json:"amount"`
	Memo       string `json:"memo"`
}

type tokenRequest struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	ContractAddress string `json:"contract_address"`
	Decimals        string `json:"decimals"`
}

type bankAmountRequest struct {
	Fee        string `json:"fee"`
	USDTCharge string `json:"usdt_charge"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeError maps err to a status code and a JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := apiError{Error: err.Error()}
	status := http.StatusInternalServerError

	var fields validate.Errors
	var upstream *clients.APIError
	switch {
	case errors.Is(err, console.ErrUnknownView):
		status = http.StatusNotFound
	case errors.As(err, &fields):
		status = http.StatusUnprocessableEntity
		body = apiError{Error: "validation failed", Fields: fields}
	case errors.Is(err, actions.ErrCanceled):
		status = http.StatusConflict
	case errors.Is(err, clients.ErrOffline):
		status = http.StatusServiceUnavailable
	case errors.Is(err, clients.ErrUnauthorized), errors.Is(err, clients.ErrSessionExpired):
		status = http.StatusUnauthorized
	case errors.As(err, &upstream):
		status = http.StatusBadGateway
		body = apiError{Error: upstream.Message}
	}

	if status >= http.StatusInternalServerError {
		s.l.Warn("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, r, status, body)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiError{Error: "request body is not valid JSON"})
		return false
	}
	return true
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) (console.View, bool) {
	v, err := s.console.View(chi.URLParam(r, "view"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return v, true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.console.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	views := s.console.Views()
	out := make([]viewInfo, 0, len(views))
	for _, v := range views {
		out = append(out, viewInfo{Name: v.Name(), Title: v.Title()})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	// a failed first page is already toasted; the snapshot still describes the view
	if err := v.Open(r.Context()); err != nil {
		s.l.Debug("view open failed", zap.String("view", v.Name()), zap.Error(err))
	}
	writeJSON(w, r, http.StatusOK, v.Snapshot())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	if err := v.Reload(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v.Snapshot())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	if req.Immediate {
		v.SubmitSearch(req.Value)
		writeJSON(w, r, http.StatusOK, v.Snapshot())
		return
	}
	v.Search(req.Value)
	writeJSON(w, r, http.StatusAccepted, v.Snapshot())
}

func (s *Server) handleMore(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	// the scroll sentinel asks once per cursor; a button press always retries
	load := v.Reached
	if r.URL.Query().Get("manual") != "" {
		load = v.LoadMore
	}
	sent, err := load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap := v.Snapshot()
	writeJSON(w, r, http.StatusOK, viewResult{Sent: sent, Dirty: snap.Dirty, Snapshot: snap})
}

func (s *Server) handleMoveColumn(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	dirty, err := v.MoveColumn(req.Field, req.Index)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, viewResult{Dirty: dirty, Snapshot: v.Snapshot()})
}

func (s *Server) handleToggleSort(w http.ResponseWriter, r *http.Request) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	var req sortRequest
	if !s.decode(w, r, &req) {
		return
	}
	dirty, err := v.ToggleSort(req.Field)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, viewResult{Dirty: dirty, Snapshot: v.Snapshot()})
}

func (s *Server) handleSaveView(w http.ResponseWriter, r *http.Request) {
	s.layoutChange(w, r, console.View.SaveView, notify.MsgViewSaved)
}

func (s *Server) handleResetView(w http.ResponseWriter, r *http.Request) {
	s.layoutChange(w, r, console.View.ResetView, notify.MsgViewReset)
}

func (s *Server) layoutChange(w http.ResponseWriter, r *http.Request, apply func(console.View) error, msg notify.MessageID) {
	v, ok := s.view(w, r)
	if !ok {
		return
	}
	if err := apply(v); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.console.Reporter().Success(msg)
	writeJSON(w, r, http.StatusOK, viewResult{Snapshot: v.Snapshot()})
}

func (s *Server) handleApproveBankChange(w http.ResponseWriter, r *http.Request) {
	req := s.bankChange(chi.URLParam(r, "userID"))
	err := s.console.Actions(actions.Answers{}).BankChanges.Approve(r.Context(), req)
	s.actionResult(w, r, err)
}

func (s *Server) handleRejectBankChange(w http.ResponseWriter, r *http.Request) {
	var body reasonRequest
	if !s.decode(w, r, &body) {
		return
	}
	req := s.bankChange(chi.URLParam(r, "userID"))
	err := s.console.Actions(actions.Answers{Reason: body.Reason}).BankChanges.Reject(r.Context(), req)
	s.actionResult(w, r, err)
}

// bankChange prefers the loaded row so its status is checked; unknown users are
// passed through and left to the API to judge.
func (s *Server) bankChange(userID string) domain.BankChangeRequest {
	if req, ok := s.console.BankChangeByUser(userID); ok {
		return req
	}
	return domain.BankChangeRequest{UserID: userID}
}

func (s *Server) handleReviewDeposit(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		req, ok := s.console.Deposit(id)
		if !ok {
			req = domain.DepositRequest{ID: id}
		}
		if approve {
			s.actionResult(w, r, s.console.Actions(actions.Answers{}).Requests.ApproveDeposit(r.Context(), req))
			return
		}
		var body reasonRequest
		if !s.decode(w, r, &body) {
			return
		}
		s.actionResult(w, r, s.console.Actions(actions.Answers{Reason: body.Reason}).Requests.RejectDeposit(r.Context(), req))
	}
}

func (s *Server) handleReviewWithdrawal(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		req, ok := s.console.Withdrawal(id)
		if !ok {
			req = domain.WithdrawalRequest{ID: id}
		}
		if approve {
			s.actionResult(w, r, s.console.Actions(actions.Answers{}).Requests.ApproveWithdrawal(r.Context(), req))
			return
		}
		var body reasonRequest
		if !s.decode(w, r, &body) {
			return
		}
		s.actionResult(w, r, s.console.Actions(actions.Answers{Reason: body.Reason}).Requests.RejectWithdrawal(r.Context(), req))
	}
}

func (s *Server) handleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	var body transferRequest
	if !s.decode(w, r, &body) {
		return
	}
	created, err := s.console.Actions(actions.Answers{}).Transfers.Create(r.Context(), validate.TransferForm(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var body tokenRequest
	if !s.decode(w, r, &body) {
		return
	}
	token, err := s.console.Actions(actions.Answers{}).Settings.CreateToken(r.Context(), validate.TokenForm(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, token)
}

func (s *Server) handleBankAccountAmount(w http.ResponseWriter, r *http.Request) {
	var body bankAmountRequest
	if !s.decode(w, r, &body) {
		return
	}
	err := s.console.Actions(actions.Answers{}).Settings.UpdateBankAccountAmount(r.Context(), body.Fee, body.USDTCharge)
	s.actionResult(w, r, err)
}

func (s *Server) handleNotificationSettings(w http.ResponseWriter, r *http.Request) {
	sets, err := s.console.NotificationSettings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sets)
}

func (s *Server) handleUpdateNotification(w http.ResponseWriter, r *http.Request) {
	var body domain.NotificationSetting
	if !s.decode(w, r, &body) {
		return
	}
	body.Event = chi.URLParam(r, "event")
	err := s.console.Actions(actions.Answers{}).Settings.UpdateNotification(r.Context(), body)
	s.actionResult(w, r, err)
}

func (s *Server) handleTimeSettings(w http.ResponseWriter, r *http.Request) {
	sets, err := s.console.TimeSettings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sets)
}

func (s *Server) handleUpdateTime(w http.ResponseWriter, r *http.Request) {
	var body domain.TimeSetting
	if !s.decode(w, r, &body) {
		return
	}
	body.Name = chi.URLParam(r, "name")
	err := s.console.Actions(actions.Answers{}).Settings.UpdateTime(r.Context(), body)
	s.actionResult(w, r, err)
}

func (s *Server) actionResult(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
