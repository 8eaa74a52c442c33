package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ims/internal/domain"
)

// Dashboard and compliance

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Dashboard.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type complianceResponse struct {
	Standards    []domain.ComplianceScore `json:"standards"`
	OverallScore int                      `json:"overallScore"`
}

func (s *Server) getCompliance(w http.ResponseWriter, r *http.Request) {
	scores, overall, err := s.svc.Compliance.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, complianceResponse{Standards: scores, OverallScore: overall})
}

func (s *Server) getComplianceStandard(w http.ResponseWriter, r *http.Request) {
	score, err := s.svc.Compliance.Score(r.Context(), domain.Standard(chi.URLParam(r, "standard")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// getComplianceHistory defaults to the last 30 days.
func (s *Server) getComplianceHistory(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if err := query(r, "since", &since); err != nil {
		writeError(w, r, err)
		return
	}
	from := s.now().AddDate(0, 0, -30)
	if since != nil {
		from = *since
	}
	hist, err := s.svc.Compliance.History(r.Context(), domain.Standard(chi.URLParam(r, "standard")), from)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}

// Risks

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	var f domain.RiskFilter
	err := bindQuery(r,
		param{"standard", &f.Standard},
		param{"status", &f.Status},
		param{"level", &f.Level},
		param{"minScore", &f.MinScore},
		param{"q", &f.Search},
	)
	if err == nil {
		f.Page, err = bindPage(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Risks.List(r.Context(), f)
	respond(w, r, http.StatusOK, res, err)
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	var in domain.RiskInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	risk, err := s.svc.Risks.Create(r.Context(), in)
	respond(w, r, http.StatusCreated, risk, err)
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	risk, err := s.svc.Risks.Get(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, risk, err)
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	var in domain.RiskPatch
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	risk, err := s.svc.Risks.Update(r.Context(), chi.URLParam(r, "id"), in)
	respond(w, r, http.StatusOK, risk, err)
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Risks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Aspects

func (s *Server) listAspects(w http.ResponseWriter, r *http.Request) {
	var f domain.AspectFilter
	err := bindQuery(r,
		param{"status", &f.Status},
		param{"level", &f.Level},
		param{"q", &f.Search},
	)
	if err == nil {
		f.Page, err = bindPage(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.svc.Aspects.List(r.Context(), f)
	respond(w, r, http.StatusOK, res, err)
}

func (s *Server) createAspect(w http.ResponseWriter, r *http.Request) {
	var in domain.AspectInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Aspects.Create(r.Context(), in)
	respond(w, r, http.StatusCreated, a, err)
}

func (s *Server) getAspect(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Aspects.Get(r.Context(), chi.URLParam(r, "id"))
	respond(w, r, http.StatusOK, a, err)
}

func (s *Server) updateAspect(w http.ResponseWriter, r *http.Request) {
	var in domain.AspectPatch
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	a, err := s.svc.Aspects.Update(r.Context(), chi.URLParam(r, "id"), in)
	respond(w, r, http.StatusOK, a, err)
}

// Safety metrics

func (s *Server) listSafetyMetrics(w http.ResponseWriter, r *http.Request) {
	var year *int
	if err := query(r, "year", &year); err != nil {
		writeError(w, r, err)
		return
	}
	y := s.now().Year()
	if year != nil {
		y = *year
	}
	periods, err := s.svc.Safety.List(r.Context(), y)
	if periods == nil {
		periods = []domain.SafetyMetricPeriod{}
	}
	respond(w, r, http.StatusOK, periods, err)
}

func (s *Server) upsertSafetyMetric(w http.ResponseWriter, r *http.Request) {
	var in domain.SafetyInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.svc.Safety.Upsert(r.Context(), in)
	respond(w, r, http.StatusOK, p, err)
}

func (s *Server) safetyYearToDate(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := s.svc.Safety.YearToDate(r.Context(), year)
	respond(w, r, http.StatusOK, sum, err)
}

func respond(w http.ResponseWriter, r *http.Request, code int, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, code, v)
}
