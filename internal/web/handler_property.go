package web

import (
	"net/http"

	"github.com/vbonduro/staycheck/internal/domain"
)

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.properties.CreateProperty(r.Context(), req.Name, req.Address)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProperty(p))
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.properties.ListProperties(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]propertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, toProperty(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	p, err := s.properties.GetProperty(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProperty(p))
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req createRoomRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	room, err := s.properties.CreateRoom(r.Context(), propertyID, req.Name, domain.RoomType(req.RoomType))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoom(room))
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	rooms, err := s.properties.ListRooms(r.Context(), propertyID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoom(room))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req checklistItemRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.properties.CreateChecklistItem(r.Context(), roomID, req.Name, req.ReplacementCost)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItem(item))
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	items, err := s.properties.ListChecklistItems(r.Context(), roomID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItem(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req checklistItemRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	item, err := s.properties.UpdateChecklistItem(r.Context(), itemID, req.Name, req.ReplacementCost)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItem(item))
}

func (s *Server) handleCreateCheck(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	var req createCheckRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	check, err := s.properties.CreateCheck(r.Context(), propertyID, domain.CheckType(req.CheckType), req.GuestName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCheck(check))
}

func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	propertyID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	checks, err := s.properties.ListChecks(r.Context(), propertyID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]checkResponse, 0, len(checks))
	for _, c := range checks {
		out = append(out, toCheck(c))
	}
	writeJSON(w, http.StatusOK, out)
}
