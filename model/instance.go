package model

import "time"

type InstanceStatus string

const INSTANCE_ACTIVE InstanceStatus = "active"
const INSTANCE_COMPLETED InstanceStatus = "completed"
const INSTANCE_CANCELLED InstanceStatus = "cancelled"
const INSTANCE_REJECTED InstanceStatus = "rejected"

func (s InstanceStatus) IsTerminal() bool {
	return s == INSTANCE_COMPLETED || s == INSTANCE_CANCELLED || s == INSTANCE_REJECTED
}

type StepStatus string

const STEP_PENDING StepStatus = "pending"
const STEP_IN_PROGRESS StepStatus = "in_progress"
const STEP_APPROVED StepStatus = "approved"
const STEP_REJECTED StepStatus = "rejected"

type EntityType string

const ENTITY_TASK EntityType = "task"
const ENTITY_DOCUMENT EntityType = "document"
const ENTITY_USER EntityType = "user"
const ENTITY_NONE EntityType = "none"

type StepAction struct {
	Action      string    `json:"action"`
	Actor       string    `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Comment     string    `json:"comment,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
}

type StepRuntime struct {
	StepNumber     int                  `json:"stepNumber"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	DurationInDays int                  `json:"durationInDays,omitempty"`
	Status         StepStatus           `json:"status"`
	AssignedTo     string               `json:"assignedTo,omitempty"`
	StartDate      *time.Time           `json:"startDate,omitempty"`
	DueDate        *time.Time           `json:"dueDate,omitempty"`
	Actions        []StepAction         `json:"actions"`
	FormData       map[string]FormValue `json:"formData,omitempty"`
}

type RelatedEntity struct {
	EntityType EntityType     `json:"entityType"`
	EntityId   string         `json:"entityId,omitempty"`
	Snapshot   map[string]any `json:"snapshot,omitempty"`
}

type HistoryEntry struct {
	Action     string    `json:"action"`
	Actor      string    `json:"actor"`
	Timestamp  time.Time `json:"timestamp"`
	StepNumber int       `json:"stepNumber,omitempty"`
	Details    string    `json:"details,omitempty"`
}

type Comment struct {
	Actor     string    `json:"actor"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type WorkflowInstance struct {
	Id            string         `json:"id"`
	TemplateId    string         `json:"templateId"`
	Name          string         `json:"name"`
	Status        InstanceStatus `json:"status"`
	CurrentStep   int            `json:"currentStep"`
	StepsData     []StepRuntime  `json:"stepsData"`
	RelatedEntity RelatedEntity  `json:"relatedEntity"`
	History       []HistoryEntry `json:"history"`
	Comments      []Comment      `json:"comments"`
	Initiator     string         `json:"initiator"`
	Priority      string         `json:"priority,omitempty"`
	DueDate       *time.Time     `json:"dueDate,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Version       int64          `json:"version"`
}

// CurrentStepData returns the runtime record the currentStep pointer
// refers to, nil when the pointer is out of range.
func (wi *WorkflowInstance) CurrentStepData() *StepRuntime {
	if wi.CurrentStep < 1 || wi.CurrentStep > len(wi.StepsData) {
		return nil
	}
	return &wi.StepsData[wi.CurrentStep-1]
}

func (wi *WorkflowInstance) OnLastStep() bool {
	return wi.CurrentStep == len(wi.StepsData)
}

func (wi *WorkflowInstance) AddHistory(action string, actor string, stepNumber int, details string) {
	wi.History = append(wi.History, HistoryEntry{
		Action:     action,
		Actor:      actor,
		Timestamp:  time.Now(),
		StepNumber: stepNumber,
		Details:    details,
	})
}
