package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mohitkumar/flowdesk/bridge"
	"github.com/mohitkumar/flowdesk/cache"
	"github.com/mohitkumar/flowdesk/dispatch"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/model"
	"github.com/mohitkumar/flowdesk/persistence"
	"go.uber.org/zap"
)

const NOTIFICATION_STEP_ASSIGNED string = "workflow_step_assigned"
const NOTIFICATION_COMPLETED string = "workflow_completed"
const NOTIFICATION_REJECTED string = "workflow_rejected"
const NOTIFICATION_CANCELLED string = "workflow_cancelled"
const NOTIFICATION_CHANGES_REQUESTED string = "workflow_changes_requested"

const casRetries int = 3

type Engine struct {
	templates  persistence.TemplateDao
	instances  persistence.InstanceDao
	tplCache   *cache.TemplateCache
	entities   bridge.EntityBridge
	dispatcher *dispatch.NotificationDispatcher
}

func New(templates persistence.TemplateDao, instances persistence.InstanceDao, tplCache *cache.TemplateCache,
	entities bridge.EntityBridge, dispatcher *dispatch.NotificationDispatcher) *Engine {
	return &Engine{
		templates:  templates,
		instances:  instances,
		tplCache:   tplCache,
		entities:   entities,
		dispatcher: dispatcher,
	}
}

// CreateInstance starts one execution of a template. Step definitions are
// copied into mutable runtime records, step 1 starts immediately.
func (e *Engine) CreateInstance(req model.CreateInstanceRequest) (*model.WorkflowInstance, error) {
	tpl, err := e.templates.Get(req.TemplateId)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, StateError{Message: "template is not active"}
	}
	related := model.RelatedEntity{EntityType: model.ENTITY_NONE}
	if req.RelatedEntity != nil && req.RelatedEntity.EntityType != model.ENTITY_NONE {
		snapshot, err := e.entities.Get(req.RelatedEntity.EntityType, req.RelatedEntity.EntityId)
		if err != nil {
			return nil, ValidationError{Message: fmt.Sprintf("related %s %s does not exist", req.RelatedEntity.EntityType, req.RelatedEntity.EntityId)}
		}
		related = model.RelatedEntity{
			EntityType: req.RelatedEntity.EntityType,
			EntityId:   req.RelatedEntity.EntityId,
			Snapshot:   snapshot,
		}
		if err := e.entities.UpdateApprovalStatus(related.EntityType, related.EntityId, bridge.APPROVAL_PENDING); err != nil {
			logger.Error("error updating related entity approval status", zap.String("entity", related.EntityId), zap.Error(err))
		}
	}
	name := req.Name
	if name == "" {
		name = tpl.Name
	}
	now := time.Now()
	stepsData := make([]model.StepRuntime, 0, len(tpl.Steps))
	for i, step := range tpl.Steps {
		runtime := model.StepRuntime{
			StepNumber:     step.StepNumber,
			Name:           step.Name,
			Description:    step.Description,
			DurationInDays: step.DurationInDays,
			Status:         model.STEP_PENDING,
			AssignedTo:     step.AssignedUser,
			Actions:        []model.StepAction{},
		}
		if i == 0 {
			startStep(&runtime, now)
		}
		stepsData = append(stepsData, runtime)
	}
	instance := &model.WorkflowInstance{
		Id:            uuid.New().String(),
		TemplateId:    tpl.Id,
		Name:          name,
		Status:        model.INSTANCE_ACTIVE,
		CurrentStep:   1,
		StepsData:     stepsData,
		RelatedEntity: related,
		Initiator:     req.Initiator.Id,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	instance.AddHistory("created", req.Initiator.Id, 0, fmt.Sprintf("created by %s from template %s", req.Initiator.Id, tpl.Name))
	if err := e.instances.Save(instance); err != nil {
		return nil, err
	}
	if err := e.addToActiveList(tpl.Id, instance.Id); err != nil {
		logger.Error("error registering instance on template", zap.String("template", tpl.Id), zap.String("instance", instance.Id), zap.Error(err))
	}
	e.notifyAssignee(instance, instance.CurrentStepData())
	logger.Info("workflow instance created", zap.String("template", tpl.Id), zap.String("instance", instance.Id))
	return instance, nil
}

func (e *Engine) GetInstance(id string) (*model.WorkflowInstance, error) {
	return e.instances.Get(id)
}

func (e *Engine) ListInstancesByTemplate(templateId string) ([]model.WorkflowInstance, error) {
	return e.instances.ListByTemplate(templateId)
}

// startStep marks a runtime record in progress. The due date is computed
// from the step duration at the moment the step starts, not at template
// definition time.
func startStep(step *model.StepRuntime, now time.Time) {
	step.Status = model.STEP_IN_PROGRESS
	step.StartDate = &now
	if step.DurationInDays > 0 {
		due := now.AddDate(0, 0, step.DurationInDays)
		step.DueDate = &due
	}
}

func (e *Engine) addToActiveList(templateId string, instanceId string) error {
	return e.updateActiveList(templateId, func(tpl *model.WorkflowTemplate) {
		tpl.AddActiveWorkflow(instanceId)
	})
}

func (e *Engine) removeFromActiveList(templateId string, instanceId string) error {
	return e.updateActiveList(templateId, func(tpl *model.WorkflowTemplate) {
		tpl.RemoveActiveWorkflow(instanceId)
	})
}

func (e *Engine) updateActiveList(templateId string, mutate func(tpl *model.WorkflowTemplate)) error {
	var err error
	for i := 0; i < casRetries; i++ {
		var tpl *model.WorkflowTemplate
		tpl, err = e.templates.Get(templateId)
		if err != nil {
			return err
		}
		mutate(tpl)
		err = e.templates.Save(tpl)
		if _, conflict := err.(persistence.ConflictError); conflict {
			continue
		}
		if err == nil {
			e.tplCache.Invalidate(templateId)
		}
		return err
	}
	return err
}

func (e *Engine) notifyAssignee(instance *model.WorkflowInstance, step *model.StepRuntime) {
	if step == nil || step.AssignedTo == "" {
		return
	}
	e.dispatcher.Dispatch(step.AssignedTo, bridge.Notification{
		Type:    NOTIFICATION_STEP_ASSIGNED,
		Title:   fmt.Sprintf("Step %q of %q is assigned to you", step.Name, instance.Name),
		Content: fmt.Sprintf("Workflow %s is waiting on step %d", instance.Name, step.StepNumber),
		Metadata: map[string]any{
			"instanceId": instance.Id,
			"stepNumber": step.StepNumber,
		},
	})
}

func (e *Engine) notifyInitiator(instance *model.WorkflowInstance, notificationType string, title string) {
	e.dispatcher.Dispatch(instance.Initiator, bridge.Notification{
		Type:    notificationType,
		Title:   title,
		Content: fmt.Sprintf("Workflow %s", instance.Name),
		Metadata: map[string]any{
			"instanceId": instance.Id,
		},
	})
}

// retire removes a terminal instance from the template active list and
// pushes the outcome to the related entity.
func (e *Engine) retire(instance *model.WorkflowInstance, approvalStatus string) {
	if err := e.removeFromActiveList(instance.TemplateId, instance.Id); err != nil {
		logger.Error("error removing instance from template active list", zap.String("template", instance.TemplateId), zap.String("instance", instance.Id), zap.Error(err))
	}
	e.pushEntityApprovalStatus(instance, approvalStatus)
}

func (e *Engine) pushEntityApprovalStatus(instance *model.WorkflowInstance, approvalStatus string) {
	related := instance.RelatedEntity
	if related.EntityType == "" || related.EntityType == model.ENTITY_NONE || related.EntityId == "" {
		return
	}
	if err := e.entities.UpdateApprovalStatus(related.EntityType, related.EntityId, approvalStatus); err != nil {
		logger.Error("error pushing approval status to related entity", zap.String("entity", related.EntityId), zap.String("approvalStatus", approvalStatus), zap.Error(err))
	}
}
