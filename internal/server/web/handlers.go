package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/inovacc/todo/internal/model"
	"github.com/inovacc/todo/internal/service"
)

// APIResponse is the acknowledgement returned by mutating endpoints
type APIResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

type createTodoRequest struct {
	Text string `json:"text"`
}

type reorderRequest struct {
	TodoIDs []int64 `json:"todoIds"`
}

// handleIndex serves the embedded single page UI
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, staticFS, "static/index.html")
}

// handleListTodos returns every todo in display order
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	items, err := s.todos.List(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, items)
}

// handleCreateTodo appends a new todo
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if !s.decode(w, r, schemaCreateTodo, &req) {
		return
	}

	item, err := s.todos.Create(r.Context(), req.Text)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, item)
}

// handleUpdateTodo applies a partial update to one todo
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoID(w, r)
	if !ok {
		return
	}

	var patch model.TodoPatch
	if !s.decode(w, r, schemaUpdateTodo, &patch) {
		return
	}

	if err := s.todos.Update(r.Context(), id, patch); err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, APIResponse{Success: true})
}

// handleReorderTodos assigns sort positions from the submitted id order
func (s *Server) handleReorderTodos(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !s.decode(w, r, schemaReorder, &req) {
		return
	}

	if err := s.todos.Reorder(r.Context(), req.TodoIDs); err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, APIResponse{Success: true})
}

// handleDeleteTodo removes one todo
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoID(w, r)
	if !ok {
		return
	}

	if err := s.todos.Delete(r.Context(), id); err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, APIResponse{Success: true})
}

// handleExportPDF streams the list as a PDF attachment
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	file, err := s.exporter.Export(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))

	if _, err := w.Write(file.Data); err != nil {
		s.logger.Warn("failed to write export", "error", err, "request_id", requestIDFrom(r.Context()))
	}
}

// handleGetProject returns the project metadata
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	meta, err := s.project.Get(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, meta)
}

// handleUpdateProject changes the project title and/or description
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var patch model.ProjectPatch
	if !s.decode(w, r, schemaUpdateProject, &patch) {
		return
	}

	if err := s.project.Update(r.Context(), patch); err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, APIResponse{Success: true})
}

// handleHealth reports whether the store answers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "error": err.Error()})

		return
	}

	s.jsonResponse(w, map[string]string{"status": "ok"})
}

func (s *Server) todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.jsonError(w, "Invalid todo id", http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

// serviceError maps service failures onto HTTP status codes
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *service.ValidationError
		serr *service.StoreError
	)

	switch {
	case errors.As(err, &verr):
		s.jsonError(w, verr.Message, http.StatusBadRequest)
	case errors.Is(err, service.ErrTodoNotFound):
		s.jsonError(w, "Todo not found", http.StatusNotFound)
	case errors.As(err, &serr):
		s.logger.Error("store failure", "op", serr.Op, "error", serr.Err, "request_id", requestIDFrom(r.Context()))
		s.jsonError(w, serr.Err.Error(), http.StatusInternalServerError)
	default:
		s.logger.Error("request failed", "error", err, "request_id", requestIDFrom(r.Context()))
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("JSON encode error", "error", err)
	}
}

// jsonError writes a JSON error response
func (s *Server) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		s.logger.Warn("JSON encode error", "error", err)
	}
}
