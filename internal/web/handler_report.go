package web

import "net/http"

func (s *Server) handleDamageReport(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	checkinID, err := queryID(r, "checkin_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	checkoutID, err := queryID(r, "checkout_id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	rep, err := s.inspections.CompileDamageReport(r.Context(), propertyID, checkinID, checkoutID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDamageReport(rep))
}

func (s *Server) handleCostHistory(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	hist, err := s.inspections.CostHistory(r.Context(), propertyID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCostHistory(hist))
}

func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	checkID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	issues, err := s.inspections.ListIssues(r.Context(), checkID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIssues(issues))
}
