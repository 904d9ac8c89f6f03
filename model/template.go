package model

import "time"

type StepTemplate struct {
	StepNumber         int    `json:"stepNumber"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	AssignedUser       string `json:"assignedUser,omitempty"`
	AssignedDepartment string `json:"assignedDepartment,omitempty"`
	DurationInDays     int    `json:"durationInDays,omitempty"`
}

type WorkflowTemplate struct {
	Id                     string         `json:"id"`
	Name                   string         `json:"name"`
	Category               string         `json:"category,omitempty"`
	Priority               string         `json:"priority,omitempty"`
	IsActive               bool           `json:"isActive"`
	IsTemplate             bool           `json:"isTemplate"`
	Steps                  []StepTemplate `json:"steps"`
	CurrentActiveWorkflows []string       `json:"currentActiveWorkflows"`
	CreatedBy              string         `json:"createdBy,omitempty"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	Version                int64          `json:"version"`
}

// NormalizeSteps re-derives stepNumber from array position. Step numbers
// are never user supplied, they are always contiguous starting at 1.
func (wt *WorkflowTemplate) NormalizeSteps() {
	for i := range wt.Steps {
		wt.Steps[i].StepNumber = i + 1
	}
}

func (wt *WorkflowTemplate) HasActiveWorkflows() bool {
	return len(wt.CurrentActiveWorkflows) > 0
}

func (wt *WorkflowTemplate) AddActiveWorkflow(instanceId string) {
	for _, id := range wt.CurrentActiveWorkflows {
		if id == instanceId {
			return
		}
	}
	wt.CurrentActiveWorkflows = append(wt.CurrentActiveWorkflows, instanceId)
}

func (wt *WorkflowTemplate) RemoveActiveWorkflow(instanceId string) {
	active := make([]string, 0, len(wt.CurrentActiveWorkflows))
	for _, id := range wt.CurrentActiveWorkflows {
		if id != instanceId {
			active = append(active, id)
		}
	}
	wt.CurrentActiveWorkflows = active
}
