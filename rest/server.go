package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohitkumar/flowdesk/engine"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/persistence"
	"github.com/mohitkumar/flowdesk/scheduler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port      int
	engine    *engine.Engine
	scheduler *scheduler.Scheduler
	reportDao persistence.ReportDao
}

func NewServer(httpPort int, eng *engine.Engine, sched *scheduler.Scheduler, reportDao persistence.ReportDao) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr: fmt.Sprintf(":%d", httpPort),
		},
		engine:    eng,
		scheduler: sched,
		reportDao: reportDao,
		Port:      httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/template", s.HandleSaveTemplate).Methods(http.MethodPost)
	router.HandleFunc("/template", s.HandleListTemplates).Methods(http.MethodGet)
	router.HandleFunc("/template/{id}", s.HandleGetTemplate).Methods(http.MethodGet)
	router.HandleFunc("/template/{id}", s.HandleDeleteTemplate).Methods(http.MethodDelete)
	router.HandleFunc("/workflow", s.HandleCreateInstance).Methods(http.MethodPost)
	router.HandleFunc("/workflow/{id}", s.HandleGetInstance).Methods(http.MethodGet)
	router.HandleFunc("/workflow/{id}/{action}", s.HandleStepAction).Methods(http.MethodPost)
	router.HandleFunc("/report", s.HandleSaveReport).Methods(http.MethodPost)
	router.HandleFunc("/report", s.HandleListReports).Methods(http.MethodGet)
	router.HandleFunc("/report/{id}", s.HandleSaveReport).Methods(http.MethodPut)
	router.HandleFunc("/report/{id}", s.HandleDeleteReport).Methods(http.MethodDelete)
	router.HandleFunc("/report/{id}/run", s.HandleRunReport).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("startting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	res, _ := json.Marshal(map[string]string{"message": message})
	w.Write(res)
}

func respondWithError(w http.ResponseWriter, err error) {
	respondWithJSON(w, statusCode(err), map[string]string{"error": err.Error()})
}

func statusCode(err error) int {
	switch err.(type) {
	case engine.ValidationError:
		return http.StatusBadRequest
	case engine.AuthorizationError:
		return http.StatusForbidden
	case engine.StateError:
		return http.StatusConflict
	case persistence.NotFoundError:
		return http.StatusNotFound
	case persistence.ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
