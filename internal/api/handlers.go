package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/dcs-inspector-core/internal/inspector"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
)

// SettingsPatch is the body of PATCH /settings.
type SettingsPatch struct {
	// Action sets the action identifier when the host did not supply one.
	Action string `json:"action,omitempty"`

	// Fields are written as user input, derived fields included.
	Fields settings.Record `json:"fields,omitempty"`
}

// MappingsRequest is the body of PUT /settings/mappings.
type MappingsRequest struct {
	Mappings []settings.ValueMapping `json:"mappings"`
}

// handleStatus returns the full inspector snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	clients := 0
	if s.hub != nil {
		clients = s.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inspector":  s.inspector.Snapshot(),
		"ws_clients": clients,
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	snap := s.inspector.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"instance": snap.Instance,
		"settings": snap.Settings,
	})
}

// handlePatchSettings applies an action identifier and/or field writes.
func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Action == "" && len(req.Fields) == 0 {
		writeBadRequest(w, "action or fields is required")
		return
	}

	if req.Action != "" {
		if _, err := s.inspector.SetAction(req.Action); err != nil {
			s.writeDomainError(w, err)
			return
		}
	}

	if len(req.Fields) > 0 {
		if _, err := s.inspector.SetFields(req.Fields); err != nil {
			s.writeDomainError(w, err)
			return
		}
	}

	s.handleGetSettings(w, r)
}

func (s *Server) handleGetMappings(w http.ResponseWriter, _ *http.Request) {
	mappings := s.inspector.Mappings()
	if mappings == nil {
		mappings = []settings.ValueMapping{}
	}
	writeJSON(w, http.StatusOK, MappingsRequest{Mappings: mappings})
}

func (s *Server) handlePutMappings(w http.ResponseWriter, r *http.Request) {
	var req MappingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	record, err := s.inspector.SetMappings(req.Mappings)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": record})
}

// handleClearSettings clears one imported field group.
func (s *Server) handleClearSettings(w http.ResponseWriter, r *http.Request) {
	var clearGroup func() (settings.Record, error)
	switch group := chi.URLParam(r, "group"); group {
	case "command":
		clearGroup = s.inspector.ClearCommand
	case "compare_monitor":
		clearGroup = s.inspector.ClearCompareMonitor
	case "string_monitor":
		clearGroup = s.inspector.ClearStringMonitor
	case "increment_monitor":
		clearGroup = s.inspector.ClearIncrementMonitor
	default:
		writeNotFound(w, "unknown settings group: "+group)
		return
	}

	record, err := clearGroup()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": record})
}

func (s *Server) handleGetGlobal(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"global": s.inspector.Snapshot().Global})
}

func (s *Server) handlePatchGlobal(w http.ResponseWriter, r *http.Request) {
	var partial settings.Record
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(partial) == 0 {
		writeBadRequest(w, "at least one field is required")
		return
	}

	record, err := s.inspector.SetGlobal(partial)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"global": record})
}

// handleSendToPlugin passes the request body to the plugin on the
// instance channel. Delivery is fire-and-forget: 202 means queued.
func (s *Server) handleSendToPlugin(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(payload) == 0 || string(payload) == "null" {
		writeBadRequest(w, "a payload is required")
		return
	}

	if err := s.inspector.SendToPlugin(payload); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// handleOpenWindow opens a window, or returns the live one with 200.
func (s *Server) handleOpenWindow(w http.ResponseWriter, r *http.Request) {
	handle, created, err := s.inspector.OpenWindow(r.Context(), chi.URLParam(r, "kind"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, handle)
}

func (s *Server) handleGetWindow(w http.ResponseWriter, r *http.Request) {
	view, err := s.inspector.WindowView(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCloseWindows(w http.ResponseWriter, _ *http.Request) {
	if err := s.inspector.CloseWindows(); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWindowAction performs one user intent on a live window and returns
// the window's view afterwards. Actions that close the window return 204.
func (s *Server) handleWindowAction(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	var intent inspector.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if intent.Action == "" {
		writeBadRequest(w, "action is required")
		return
	}

	if err := s.inspector.Act(r.Context(), kind, intent); err != nil {
		s.writeDomainError(w, err)
		return
	}

	view, err := s.inspector.WindowView(kind)
	if err != nil {
		// Imports and close end the window.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
