package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/mohitkumar/flowdesk/model"
)

// SaveTemplate validates and persists a workflow template. Step numbers
// are always re-derived from array position on save.
func (e *Engine) SaveTemplate(tpl *model.WorkflowTemplate) error {
	if tpl.Name == "" {
		return ValidationError{Message: "template name is required"}
	}
	if len(tpl.Steps) == 0 {
		return ValidationError{Message: "template requires at least one step"}
	}
	for _, step := range tpl.Steps {
		if step.Name == "" {
			return ValidationError{Message: "every step requires a name"}
		}
	}
	now := time.Now()
	if tpl.Id == "" {
		tpl.Id = uuid.New().String()
		tpl.CreatedAt = now
	}
	tpl.IsTemplate = true
	tpl.UpdatedAt = now
	tpl.NormalizeSteps()
	if err := e.templates.Save(tpl); err != nil {
		return err
	}
	e.tplCache.Invalidate(tpl.Id)
	return nil
}

func (e *Engine) GetTemplate(id string) (*model.WorkflowTemplate, error) {
	if tpl, found := e.tplCache.Get(id); found {
		return tpl, nil
	}
	tpl, err := e.templates.Get(id)
	if err != nil {
		return nil, err
	}
	e.tplCache.Put(tpl)
	return tpl, nil
}

func (e *Engine) ListTemplates() ([]model.WorkflowTemplate, error) {
	return e.templates.List()
}

// DeleteTemplate refuses to delete a template with running instances, the
// caller must deactivate it instead.
func (e *Engine) DeleteTemplate(id string) error {
	tpl, err := e.templates.Get(id)
	if err != nil {
		return err
	}
	if tpl.HasActiveWorkflows() {
		return StateError{Message: "template has active workflow instances, deactivate it instead"}
	}
	if err := e.templates.Delete(id); err != nil {
		return err
	}
	e.tplCache.Invalidate(id)
	return nil
}
