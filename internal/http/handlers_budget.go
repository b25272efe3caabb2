package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"budget/internal/ledger"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	totals := s.ledger.Totals()

	data := struct {
		Income      string
		TotalActual string
		MoneyLeft   string
		SavingsRate string
		Planned     string
		Actual      string
		Overspent   bool
	}{
		Income:      formatDollarsLong(totals.Income.Cents),
		TotalActual: formatDollarsLong(totals.TotalActual.Cents),
		MoneyLeft:   formatDollarsLong(totals.MoneyLeft.Cents),
		SavingsRate: fmt.Sprintf("%.1f%%", totals.SavingsRate),
		Planned:     formatDollars(totals.TotalPlanned.Cents),
		Actual:      formatDollars(totals.TotalActual.Cents),
		Overspent:   totals.MoneyLeft.Cents < 0,
	}

	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Error loading summary</div>`))
	}
}

type budgetRowView struct {
	ID         string
	Name       string
	Planned    string
	Actual     string
	Difference string
	Overspent  bool
}

func (s *Server) handleBudgetTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	rows := s.ledger.Rows()
	totals := s.ledger.Totals()

	data := struct {
		Rows            []budgetRowView
		TotalPlanned    string
		TotalActual     string
		TotalDifference string
	}{
		TotalPlanned:    formatDollars(totals.TotalPlanned.Cents),
		TotalActual:     formatDollars(totals.TotalActual.Cents),
		TotalDifference: formatDollars(totals.TotalDifference.Cents),
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, budgetRowView{
			ID:         row.Category.ID,
			Name:       row.Category.Name,
			Planned:    row.Category.Planned.String(),
			Actual:     formatDollars(row.Actual.Cents),
			Difference: formatDollars(row.Difference.Cents),
			Overspent:  row.Overspent,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "budget_table.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "budget_table.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Error loading budget table</div>`))
	}
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	source := sanitizeInput(r.Form.Get("source"))
	amount := sanitizeInput(r.Form.Get("amount"))
	s.ledger.SetIncome(r.Context(), source, amount)

	NewHTMXResponse().
		TriggerBudgetChanged(s.ledger.Revision()).
		TriggerSuccessNotification("Income updated").
		Write(w)
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	planned := sanitizeInput(r.Form.Get("planned"))

	cat, err := s.ledger.AddCategory(r.Context(), name, planned)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Category added", "category_id", cat.ID, "planned_cents", cat.Planned.Cents)
	NewHTMXResponse().
		TriggerBudgetChanged(s.ledger.Revision()).
		TriggerFormReset().
		TriggerSuccessNotification("Category \"" + template.JSEscapeString(cat.Name) + "\" added").
		Write(w)
}

func (s *Server) handleSetPlanned(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	amount := sanitizeInput(r.Form.Get("amount"))
	s.ledger.SetPlannedAmount(r.Context(), id, amount)

	NewHTMXResponse().
		TriggerBudgetChanged(s.ledger.Revision()).
		Write(w)
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	name := sanitizeInput(r.Form.Get("name"))

	if err := s.ledger.RenameCategory(r.Context(), id, name); err != nil {
		s.writeLedgerError(w, r, err)
		return
	}

	NewHTMXResponse().
		TriggerBudgetChanged(s.ledger.Revision()).
		Write(w)
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if err := s.ledger.RemoveCategory(r.Context(), id); err != nil {
		s.writeLedgerError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Category removed", "category_id", id)
	NewHTMXResponse().
		TriggerBudgetChanged(s.ledger.Revision()).
		TriggerSuccessNotification("Category removed").
		Write(w)
}

func (s *Server) handleResetPeriod(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	s.ledger.ResetPeriod(r.Context())

	slog.InfoContext(r.Context(), "Budget period reset")
	NewHTMXResponse().
		TriggerPeriodReset().
		TriggerBudgetChanged(s.ledger.Revision()).
		TriggerSuccessNotification("New month started. Transactions cleared, plan kept.").
		Write(w)
}

// writeLedgerError maps the ledger's typed errors onto HTTP responses.
func (s *Server) writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *ledger.ValidationError
	var nfErr *ledger.NotFoundError

	switch {
	case errors.As(err, &valErr):
		UnprocessableEntityError(valErr.Error()).
			TriggerErrorNotification(valErr.Error()).
			Write(w)
	case errors.As(err, &nfErr):
		NotFoundError(nfErr.Error()).
			TriggerErrorNotification(nfErr.Error()).
			Write(w)
	default:
		slog.ErrorContext(r.Context(), "Unexpected ledger error", "error", err, "url", r.URL.Path)
		InternalServerError("Something went wrong").Write(w)
	}
}
