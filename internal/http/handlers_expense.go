package http

import (
	"io"
	"net/http"

	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error adding expense"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}

	var in services.ExpenseInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}

	expense, err := s.svc.Expenses.Add(r.Context(), userID, in)
	if err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error fetching expenses"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpList, fallback, err)
		return
	}

	expenses, err := s.svc.Expenses.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, log.OpList, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error deleting expense"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpDelete, fallback, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, log.OpDelete, fallback, err)
		return
	}

	if err := s.svc.Expenses.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, log.OpDelete, fallback, err)
		return
	}
	MessageResponse(http.StatusOK, services.MsgExpenseDeleted).Write(w)
}

func (s *Server) handleExpenseExcel(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error generating expense report"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpExport, fallback, err)
		return
	}
	s.writeAttachment(w, r, log.OpExport, fallback, export.ContentTypeXLSX, "Expense_details.xlsx",
		func(out io.Writer) error { return s.svc.Expenses.Export(r.Context(), userID, out) })
}

func (s *Server) handleExpensePDF(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error generating expense report"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpExport, fallback, err)
		return
	}
	s.writeAttachment(w, r, log.OpExport, fallback, export.ContentTypePDF, "Expense_details.pdf",
		func(out io.Writer) error { return s.svc.Expenses.ExportPDF(r.Context(), userID, out) })
}
