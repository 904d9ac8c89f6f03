package engine

import (
	"fmt"
	"time"

	"github.com/mohitkumar/flowdesk/bridge"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/metrics"
	"github.com/mohitkumar/flowdesk/model"
	"go.uber.org/zap"
)

// loadActive fetches an instance and its current step, refusing any
// instance already in a terminal state.
func (e *Engine) loadActive(instanceId string) (*model.WorkflowInstance, *model.StepRuntime, error) {
	instance, err := e.instances.Get(instanceId)
	if err != nil {
		return nil, nil, err
	}
	if instance.Status != model.INSTANCE_ACTIVE {
		return nil, nil, StateError{Message: fmt.Sprintf("instance is %s, no further processing permitted", instance.Status)}
	}
	step := instance.CurrentStepData()
	if step == nil {
		return nil, nil, StateError{Message: "instance has no current step"}
	}
	return instance, step, nil
}

// checkStepActor enforces the approve/reject actor rule: admin always, the
// step assignee otherwise. A step with no assignee is admin-only.
func checkStepActor(step *model.StepRuntime, actor model.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if step.AssignedTo == "" {
		return AuthorizationError{Message: "step has no assignee, only an admin can process it"}
	}
	if actor.Id != step.AssignedTo {
		return AuthorizationError{Message: fmt.Sprintf("step %d is assigned to %s", step.StepNumber, step.AssignedTo)}
	}
	return nil
}

// Approve marks the current step approved and either advances to the next
// step or completes the instance when the last step was approved.
func (e *Engine) Approve(req model.StepActionRequest) (*model.WorkflowInstance, error) {
	instance, step, err := e.loadActive(req.InstanceId)
	if err != nil {
		return nil, err
	}
	if err := checkStepActor(step, req.Actor); err != nil {
		return nil, err
	}
	now := time.Now()
	step.Actions = append(step.Actions, model.StepAction{
		Action:      "approve",
		Actor:       req.Actor.Id,
		Timestamp:   now,
		Comment:     req.Comment,
		Attachments: req.Attachments,
	})
	if len(req.FormData) > 0 {
		if step.FormData == nil {
			step.FormData = make(map[string]model.FormValue)
		}
		for key, value := range req.FormData {
			step.FormData[key] = value
		}
	}
	step.Status = model.STEP_APPROVED
	instance.AddHistory("approved", req.Actor.Id, step.StepNumber, req.Comment)

	completed := instance.OnLastStep()
	if completed {
		instance.Status = model.INSTANCE_COMPLETED
		instance.AddHistory("completed", req.Actor.Id, step.StepNumber, "all steps approved")
	} else {
		instance.CurrentStep++
		startStep(instance.CurrentStepData(), now)
	}
	instance.UpdatedAt = now
	if err := e.instances.Save(instance); err != nil {
		return nil, err
	}
	if completed {
		e.retire(instance, bridge.APPROVAL_APPROVED)
		e.notifyInitiator(instance, NOTIFICATION_COMPLETED, fmt.Sprintf("Workflow %q completed", instance.Name))
		logger.Info("workflow instance completed", zap.String("instance", instance.Id))
	} else {
		e.notifyAssignee(instance, instance.CurrentStepData())
	}
	metrics.WorkflowTransitions.WithLabelValues("approve").Inc()
	return instance, nil
}

// Reject is terminal. A comment is mandatory.
func (e *Engine) Reject(req model.StepActionRequest) (*model.WorkflowInstance, error) {
	if req.Comment == "" {
		return nil, ValidationError{Message: "a comment is required to reject a step"}
	}
	instance, step, err := e.loadActive(req.InstanceId)
	if err != nil {
		return nil, err
	}
	if err := checkStepActor(step, req.Actor); err != nil {
		return nil, err
	}
	now := time.Now()
	step.Actions = append(step.Actions, model.StepAction{
		Action:      "reject",
		Actor:       req.Actor.Id,
		Timestamp:   now,
		Comment:     req.Comment,
		Attachments: req.Attachments,
	})
	step.Status = model.STEP_REJECTED
	instance.Status = model.INSTANCE_REJECTED
	instance.AddHistory("rejected", req.Actor.Id, step.StepNumber, req.Comment)
	instance.UpdatedAt = now
	if err := e.instances.Save(instance); err != nil {
		return nil, err
	}
	e.retire(instance, bridge.APPROVAL_REJECTED)
	e.notifyInitiator(instance, NOTIFICATION_REJECTED, fmt.Sprintf("Workflow %q was rejected", instance.Name))
	metrics.WorkflowTransitions.WithLabelValues("reject").Inc()
	logger.Info("workflow instance rejected", zap.String("instance", instance.Id), zap.Int("step", step.StepNumber))
	return instance, nil
}

// RequestChanges annotates the current step without touching status or the
// step pointer. A comment is mandatory.
func (e *Engine) RequestChanges(req model.StepActionRequest) (*model.WorkflowInstance, error) {
	if req.Comment == "" {
		return nil, ValidationError{Message: "a comment is required to request changes"}
	}
	instance, step, err := e.loadActive(req.InstanceId)
	if err != nil {
		return nil, err
	}
	if err := checkStepActor(step, req.Actor); err != nil {
		return nil, err
	}
	instance.AddHistory("changes_requested", req.Actor.Id, step.StepNumber, req.Comment)
	instance.UpdatedAt = time.Now()
	if err := e.instances.Save(instance); err != nil {
		return nil, err
	}
	e.pushEntityApprovalStatus(instance, bridge.APPROVAL_CHANGES_REQUESTED)
	e.notifyInitiator(instance, NOTIFICATION_CHANGES_REQUESTED, fmt.Sprintf("Changes requested on workflow %q", instance.Name))
	metrics.WorkflowTransitions.WithLabelValues("request_changes").Inc()
	return instance, nil
}

// Delegate is not supported. Reassignment semantics are undecided, so the
// engine refuses instead of guessing.
func (e *Engine) Delegate(req model.StepActionRequest) (*model.WorkflowInstance, error) {
	return nil, ValidationError{Message: "step delegation is not yet supported"}
}

// Cancel terminates an active instance. Only the initiator or an admin may
// cancel.
func (e *Engine) Cancel(req model.StepActionRequest) (*model.WorkflowInstance, error) {
	instance, step, err := e.loadActive(req.InstanceId)
	if err != nil {
		return nil, err
	}
	if !req.Actor.IsAdmin() && req.Actor.Id != instance.Initiator {
		return nil, AuthorizationError{Message: "only the initiator or an admin can cancel a workflow"}
	}
	instance.Status = model.INSTANCE_CANCELLED
	instance.AddHistory("cancelled", req.Actor.Id, step.StepNumber, req.Comment)
	instance.UpdatedAt = time.Now()
	if err := e.instances.Save(instance); err != nil {
		return nil, err
	}
	e.retire(instance, bridge.APPROVAL_CANCELLED)
	e.notifyAssignee(instance, step)
	metrics.WorkflowTransitions.WithLabelValues("cancel").Inc()
	logger.Info("workflow instance cancelled", zap.String("instance", instance.Id))
	return instance, nil
}

// AddComment appends to the instance comment thread. Broader actor rule
// than step processing: assignee, initiator or admin.
func (e *Engine) AddComment(req model.CommentRequest) (*model.WorkflowInstance, error) {
	if req.Text == "" {
		return nil, ValidationError{Message: "comment text is required"}
	}
	instance, step, err := e.loadActive(req.InstanceId)
	if err != nil {
		return nil, err
	}
	allowed := req.Actor.IsAdmin() || req.Actor.Id == instance.Initiator || req.Actor.Id == step.AssignedTo
	if !allowed {
		return nil, AuthorizationError{Message: "only the current assignee, the initiator or an admin can comment"}
	}
	instance.Comments = append(instance.Comments, model.Comment{
		Actor:     req.Actor.Id,
		Text:      req.Text,
		Timestamp: time.Now(),
	})
	instance.UpdatedAt = time.Now()
	if err := e.instances.Save(instance); err != nil {
		return nil, err
	}
	return instance, nil
}
