package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
)

type transactionView struct {
	ID       int64
	Date     string
	Category string
	Amount   string
	Notes    string
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	cats := s.ledger.Categories()
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	type categoryOption struct{ ID, Name string }
	data := struct {
		Transactions []transactionView
		Categories   []categoryOption
	}{}
	for _, c := range cats {
		data.Categories = append(data.Categories, categoryOption{ID: c.ID, Name: c.Name})
	}
	for _, t := range s.ledger.Transactions() {
		label, ok := names[t.CategoryID]
		if !ok {
			label = t.CategoryID
		}
		data.Transactions = append(data.Transactions, transactionView{
			ID:       t.ID,
			Date:     t.Date.ISO(),
			Category: label,
			Amount:   formatDollars(t.Amount.Cents),
			Notes:    t.Notes,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "transactions.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Error loading transactions</div>`))
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	date, err := parseDate(sanitizeInput(r.Form.Get("date")))
	if err != nil {
		UnprocessableEntityError("Invalid date").Write(w)
		return
	}
	categoryID := sanitizeInput(r.Form.Get("category"))
	amount := sanitizeInput(r.Form.Get("amount"))
	notes := sanitizeInput(r.Form.Get("notes"))

	tx, err := s.ledger.RecordTransaction(r.Context(), date.ISO(), categoryID, amount, notes)
	if err != nil {
		s.writeLedgerError(w, r, err)
		return
	}

	label := tx.CategoryID
	for _, c := range s.ledger.Categories() {
		if c.ID == tx.CategoryID {
			label = c.Name
			break
		}
	}
	msg := "Recorded " + formatDollars(tx.Amount.Cents) + " against " + template.JSEscapeString(label)
	NewHTMXResponse().
		TriggerTransactionCreated(tx.ID).
		TriggerBudgetChanged(s.ledger.Revision()).
		TriggerFormReset().
		TriggerSuccessNotification(msg).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		MethodNotAllowedError("POST, DELETE").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	idStr := sanitizeInput(r.Form.Get("id"))
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		UnprocessableEntityError("Invalid transaction id").Write(w)
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		s.writeLedgerError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction deleted", "transaction_id", id)
	NewHTMXResponse().
		TriggerTransactionDeleted(id).
		TriggerBudgetChanged(s.ledger.Revision()).
		TriggerSuccessNotification("Transaction deleted").
		Write(w)
}
