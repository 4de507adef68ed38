package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Makepad-fr/tasktrackr/internal/model"
)

// TaskService is the part of service.TaskService the handlers need.
type TaskService interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, title string) (model.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Server is the task API.
type Server struct {
	tasks  TaskService
	logger *log.Logger
	router *gin.Engine
}

// NewServer wires routes and middleware around tasks.
func NewServer(tasks TaskService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	router := gin.New()
	s := &Server{
		tasks:  tasks,
		logger: logger,
		router: router,
	}

	router.Use(s.recovery(), s.requestLogger(), cors.Default())
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "route not found"})
	})

	router.GET("/health", s.handleHealth)
	router.GET("/tasks", s.handleList)
	router.POST("/tasks", s.handleCreate)
	router.PATCH("/tasks/:id", s.handleUpdate)
	router.DELETE("/tasks/:id", s.handleDelete)

	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shut down signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("shut down gracefully")
	return nil
}
