package http

import (
	"io"
	"net/http"

	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func (s *Server) handleAddIncome(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error adding income source"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}

	var in services.IncomeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}

	income, err := s.svc.Incomes.Add(r.Context(), userID, in)
	if err != nil {
		s.writeError(w, r, log.OpCreate, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, income)
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error fetching income"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpList, fallback, err)
		return
	}

	incomes, err := s.svc.Incomes.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, log.OpList, fallback, err)
		return
	}
	writeJSON(w, http.StatusOK, incomes)
}

// handleDeleteIncome succeeds even when nothing matched; other users' rows
// are never touched.
func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error deleting income source"
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

	if err := s.svc.Incomes.Delete(r.Context(), userID, id); err != nil {
		s.writeError(w, r, log.OpDelete, fallback, err)
		return
	}
	MessageResponse(http.StatusOK, services.MsgIncomeDeleted).Write(w)
}

func (s *Server) handleIncomeExcel(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error generating income report"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpExport, fallback, err)
		return
	}
	s.writeAttachment(w, r, log.OpExport, fallback, export.ContentTypeXLSX, "Income_details.xlsx",
		func(out io.Writer) error { return s.svc.Incomes.Export(r.Context(), userID, out) })
}

func (s *Server) handleIncomePDF(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error generating income report"
	userID, err := currentUser(r)
	if err != nil {
		s.writeError(w, r, log.OpExport, fallback, err)
		return
	}
	s.writeAttachment(w, r, log.OpExport, fallback, export.ContentTypePDF, "Income_details.pdf",
		func(out io.Writer) error { return s.svc.Incomes.ExportPDF(r.Context(), userID, out) })
}
