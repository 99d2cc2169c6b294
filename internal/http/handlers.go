package http

import (
	"errors"
	"net/http"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

type healthResponse struct {
	Status    string     `json:"status"`
	Database  string     `json:"database"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// handleHealth reports whether the database answers, using its clock.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now, err := s.backend.Ping(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Health check failed",
			applog.FieldComponent, applog.ComponentStorage,
			applog.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, healthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: &now,
	})
}

// handleAPINotFound answers unmatched /api/ paths with a JSON 404.
func handleAPINotFound(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, http.StatusNotFound, "Not found: "+r.Method+" "+r.URL.Path)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.backend.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentCategory, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in core.NewCategory
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, applog.ComponentCategory, applog.OpCreate, err)
		return
	}
	cat, err := s.backend.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.ComponentCategory, applog.OpCreate, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Category created",
		applog.FieldComponent, applog.ComponentCategory,
		applog.FieldCategoryID, cat.ID,
		applog.FieldKind, cat.Type)
	writeJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err == nil {
		err = s.backend.DeleteCategory(r.Context(), id)
	}
	if err != nil {
		writeError(w, r, applog.ComponentCategory, applog.OpDelete, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := ParseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpList, err)
		return
	}
	list, err := s.backend.ListTransactions(r.Context(), f)
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpCreate, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpCreate, err)
		return
	}
	tx, err := s.backend.CreateTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpCreate, err)
		return
	}
	s.logTransaction(r, applog.OpCreate, tx)
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpUpdate, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpUpdate, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpUpdate, err)
		return
	}
	tx, err := s.backend.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpUpdate, err)
		return
	}
	s.logTransaction(r, applog.OpUpdate, tx)
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err == nil {
		err = s.backend.DeleteTransaction(r.Context(), id)
	}
	if err != nil {
		writeError(w, r, applog.ComponentTransaction, applog.OpDelete, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction deleted",
		applog.FieldComponent, applog.ComponentTransaction,
		applog.FieldTransactionID, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}

func (s *Server) logTransaction(r *http.Request, op string, tx core.Transaction) {
	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogTransactionChanged(r.Context(), op, tx.ID, string(tx.Type), tx.Amount.String(), tx.CategoryID)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.backend.ListBudgets(r.Context())
	if err != nil {
		writeError(w, r, applog.ComponentBudget, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, applog.ComponentBudget, applog.OpCreate, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, applog.ComponentBudget, applog.OpCreate, err)
		return
	}
	b, err := s.backend.CreateBudget(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.ComponentBudget, applog.OpCreate, err)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Budget created",
		applog.FieldComponent, applog.ComponentBudget,
		applog.FieldBudgetID, b.ID,
		applog.FieldCategoryID, b.CategoryID,
		applog.FieldAmount, b.Amount.String())
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseDateRange(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.ComponentAnalytics, applog.OpReport, err)
		return
	}
	sum, err := s.backend.Summary(r.Context(), rng)
	if err != nil {
		writeError(w, r, applog.ComponentAnalytics, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleByCategory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := ParseDateRange(q)
	if err != nil {
		writeError(w, r, applog.ComponentAnalytics, applog.OpReport, err)
		return
	}
	kind, err := ParseKind(q)
	if err != nil {
		writeError(w, r, applog.ComponentAnalytics, applog.OpReport, err)
		return
	}
	totals, err := s.backend.SpendingByCategory(r.Context(), rng, kind)
	if err != nil {
		writeError(w, r, applog.ComponentAnalytics, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	months, err := ParseMonths(r.URL.Query())
	if err != nil {
		writeError(w, r, applog.ComponentAnalytics, applog.OpReport, err)
		return
	}
	trends, err := s.backend.Trends(r.Context(), months)
	if err != nil {
		writeError(w, r, applog.ComponentAnalytics, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, trends)
}

type queryResponse struct {
	Success bool `json:"success"`
	core.QueryResult
}

type queryFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Messages of the ad-hoc query endpoint's rejections.
const (
	msgQueryRequired   = "Query is required"
	msgQueryNotAllowed = "Only SELECT queries are allowed for security reasons"
)

// handleQuery runs an ad-hoc statement. Rejected statements never reach the
// store; execution failures come back as success=false with the driver text.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())

	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, msgQueryRequired)
		return
	}
	q, err := req.text()
	if err == nil {
		err = core.CheckReadQuery(q)
	}
	switch {
	case errors.Is(err, core.ErrQueryRequired):
		ErrorResponse(w, http.StatusBadRequest, msgQueryRequired)
		return
	case errors.Is(err, core.ErrQueryNotAllowed):
		logger.WarnContext(r.Context(), "Rejected non-SELECT query",
			applog.FieldComponent, applog.ComponentQuery,
			applog.FieldErrorType, applog.ErrorTypeForbidden)
		ErrorResponse(w, http.StatusForbidden, msgQueryNotAllowed)
		return
	}

	res, err := s.backend.RunReadQuery(r.Context(), q)
	if err != nil {
		logger.ErrorContext(r.Context(), "Ad-hoc query failed",
			applog.FieldComponent, applog.ComponentQuery,
			applog.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, queryFailure{Error: err.Error()})
		return
	}
	logger.InfoContext(r.Context(), "Ad-hoc query executed",
		applog.FieldComponent, applog.ComponentQuery,
		applog.FieldRowCount, res.RowCount)
	writeJSON(w, http.StatusOK, queryResponse{Success: true, QueryResult: res})
}
