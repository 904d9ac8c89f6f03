package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/model"
)

func (s *Server) HandleCreateInstance(w http.ResponseWriter, r *http.Request) {
	var req model.CreateInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	instance, err := s.engine.CreateInstance(req)
	if err != nil {
		logger.Error("error creating workflow instance", zap.String("template", req.TemplateId), zap.Error(err))
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, instance)
}

func (s *Server) HandleGetInstance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	instance, err := s.engine.GetInstance(id)
	if err != nil {
		logger.Info("workflow instance does not exist", zap.String("id", id))
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, instance)
}

func (s *Server) HandleStepAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	action := vars["action"]
	defer r.Body.Close()

	if action == "comment" {
		var req model.CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		req.InstanceId = id
		instance, err := s.engine.AddComment(req)
		if err != nil {
			respondWithError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, instance)
		return
	}

	var req model.StepActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	req.InstanceId = id

	var instance *model.WorkflowInstance
	var err error
	switch action {
	case "approve":
		instance, err = s.engine.Approve(req)
	case "reject":
		instance, err = s.engine.Reject(req)
	case "request-changes":
		instance, err = s.engine.RequestChanges(req)
	case "delegate":
		instance, err = s.engine.Delegate(req)
	case "cancel":
		instance, err = s.engine.Cancel(req)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error("error processing workflow step", zap.String("instance", id), zap.String("action", action), zap.Error(err))
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, instance)
}
