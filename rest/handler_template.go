package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/model"
)

func (s *Server) HandleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl model.WorkflowTemplate
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if err := s.engine.SaveTemplate(&tpl); err != nil {
		logger.Error("error saving template", zap.Error(err))
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tpl)
}

func (s *Server) HandleGetTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	tpl, err := s.engine.GetTemplate(id)
	if err != nil {
		logger.Info("template does not exist", zap.String("id", id))
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, tpl)
}

func (s *Server) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.engine.ListTemplates()
	if err != nil {
		logger.Error("error listing templates", zap.Error(err))
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, templates)
}

func (s *Server) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, ok := vars["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.engine.DeleteTemplate(id); err != nil {
		logger.Error("error deleting template", zap.String("id", id), zap.Error(err))
		respondWithError(w, err)
		return
	}
	respondOK(w, "deleted")
}
