package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ims/internal/domain"
)

type statusBody[T ~string] struct {
	Status T `json:"status"`
}

func decodeStatus[T ~string](w http.ResponseWriter, r *http.Request) (T, error) {
	var body statusBody[T]
	if err := decode(w, r, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

// Incidents

func (s *Server) listIncidents(w http.ResponseWriter, r *http.Request) {
	var f domain.IncidentFilter
	err := bindQuery(r, param{"standard", &f.Standard}, param{"status", &f.Status})
	if err == nil {
		f.Page, err = bindPage(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Registers.ListIncidents(r.Context(), f)
	respond(w, r, http.StatusOK, res, err)
}

func (s *Server) createIncident(w http.ResponseWriter, r *http.Request) {
	var in domain.IncidentInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	i, err := s.svc.Registers.CreateIncident(r.Context(), in)
	respond(w, r, http.StatusCreated, i, err)
}

func (s *Server) setIncidentStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus[domain.IncidentStatus](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	i, err := s.svc.Registers.SetIncidentStatus(r.Context(), chi.URLParam(r, "id"), status)
	respond(w, r, http.StatusOK, i, err)
}

// Actions

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	var f domain.ActionFilter
	var overdue *bool
	err := bindQuery(r, param{"standard", &f.Standard}, param{"status", &f.Status}, param{"overdue", &overdue})
	if err == nil {
		f.Page, err = bindPage(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.OverdueOnly = overdue != nil && *overdue
	res, err := s.svc.Registers.ListActions(r.Context(), f)
	respond(w, r, http.StatusOK, res, err)
}

func (s *Server) createAction(w http.ResponseWriter, r *http.Request) {
	var in domain.ActionInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Registers.CreateAction(r.Context(), in)
	respond(w, r, http.StatusCreated, a, err)
}

func (s *Server) setActionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus[domain.ActionStatus](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Registers.SetActionStatus(r.Context(), chi.URLParam(r, "id"), status)
	respond(w, r, http.StatusOK, a, err)
}

// Legal requirements

func (s *Server) listLegalRequirements(w http.ResponseWriter, r *http.Request) {
	var f domain.LegalFilter
	err := bindQuery(r, param{"standard", &f.Standard}, param{"complianceStatus", &f.ComplianceStatus})
	if err == nil {
		f.Page, err = bindPage(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Registers.ListLegalRequirements(r.Context(), f)
	respond(w, r, http.StatusOK, res, err)
}

func (s *Server) createLegalRequirement(w http.ResponseWriter, r *http.Request) {
	var in domain.LegalInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.svc.Registers.CreateLegalRequirement(r.Context(), in)
	respond(w, r, http.StatusCreated, l, err)
}

func (s *Server) setLegalStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus[domain.ComplianceStatus](w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.svc.Registers.SetLegalStatus(r.Context(), chi.URLParam(r, "id"), status)
	respond(w, r, http.StatusOK, l, err)
}

// Analyses

func (s *Server) listAnalyses(w http.ResponseWriter, r *http.Request) {
	var f domain.AnalysisFilter
	err := query(r, "status", &f.Status)
	if err == nil {
		f.Page, err = bindPage(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Registers.ListAnalyses(r.Context(), f)
	respond(w, r, http.StatusOK, res, err)
}

func (s *Server) createAnalysis(w http.ResponseWriter, r *http.Request) {
	var in domain.AnalysisInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Registers.CreateAnalysis(r.Context(), in)
	respond(w, r, http.StatusCreated, a, err)
}
