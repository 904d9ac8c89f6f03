package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mohitkumar/flowdesk/engine"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/model"
	"github.com/mohitkumar/flowdesk/scheduler"
)

func (s *Server) HandleSaveReport(w http.ResponseWriter, r *http.Request) {
	var report model.ScheduledReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if id, ok := mux.Vars(r)["id"]; ok {
		report.Id = id
	}
	if report.Name == "" {
		respondWithError(w, engine.ValidationError{Message: "report name is required"})
		return
	}
	if scheduler.CronExpression(report.Timeframe) == "" {
		respondWithError(w, engine.ValidationError{Message: "unknown timeframe"})
		return
	}
	now := time.Now()
	if report.Id == "" {
		report.Id = uuid.New().String()
		report.CreatedAt = now
	}
	// run bookkeeping is server computed, never client supplied
	report.LastRun = nil
	report.NextRun = nil
	if existing, err := s.reportDao.Get(report.Id); err == nil {
		report.LastRun = existing.LastRun
		report.NextRun = existing.NextRun
		report.CreatedAt = existing.CreatedAt
	}
	report.UpdatedAt = now
	if err := s.reportDao.Save(&report); err != nil {
		logger.Error("error saving report", zap.String("report", report.Id), zap.Error(err))
		respondWithError(w, err)
		return
	}
	if err := s.scheduler.UpdateSchedule(report.Id); err != nil {
		logger.Error("error scheduling report", zap.String("report", report.Id), zap.Error(err))
	}
	respondWithJSON(w, http.StatusOK, report)
}

func (s *Server) HandleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.reportDao.List()
	if err != nil {
		logger.Error("error listing reports", zap.Error(err))
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reports)
}

func (s *Server) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.reportDao.Delete(id); err != nil {
		logger.Error("error deleting report", zap.String("report", id), zap.Error(err))
		respondWithError(w, err)
		return
	}
	s.scheduler.StopSchedule(id)
	respondOK(w, "deleted")
}

func (s *Server) HandleRunReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.scheduler.ProcessReport(id); err != nil {
		logger.Error("error running report", zap.String("report", id), zap.Error(err))
		respondWithError(w, err)
		return
	}
	respondOK(w, "report processed")
}
