package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tasktrackr/internal/service"
)

// GET /health
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

// GET /tasks
func (s *Server) handleList(c *gin.Context) {
	tasks, err := s.tasks.ListTasks(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// POST /tasks
func (s *Server) handleCreate(c *gin.Context) {
	var req createTaskRequest
	if err := bindBody(c, createTaskSchema, &req); err != nil {
		s.writeError(c, err)
		return
	}

	task, err := s.tasks.CreateTask(c.Request.Context(), req.Title)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// PATCH /tasks/:id
func (s *Server) handleUpdate(c *gin.Context) {
	var req updateTaskRequest
	if err := bindBody(c, updateTaskSchema, &req); err != nil {
		s.writeError(c, err)
		return
	}

	task, err := s.tasks.SetCompleted(c.Request.Context(), c.Param("id"), req.Completed)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DELETE /tasks/:id
func (s *Server) handleDelete(c *gin.Context) {
	if err := s.tasks.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Deleted"})
}

// writeError is the single place service errors become HTTP statuses.
// Only invalid-argument details reach the client.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: service.ErrNotFound.Error()})
	case errors.Is(err, service.ErrUnavailable):
		s.logger.Error("store unavailable", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "service unavailable"})
	default:
		s.logger.Error("internal error", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
