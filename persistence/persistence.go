package persistence

import (
	"fmt"

	"github.com/mohitkumar/flowdesk/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type NotFoundError struct {
	Kind string
	Id   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Id)
}

// ConflictError signals a version mismatch on a compare and swap write.
// The caller may re-read and retry.
type ConflictError struct {
	Kind string
	Id   string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("concurrent modification of %s %s", e.Kind, e.Id)
}

type TemplateDao interface {
	Save(tpl *model.WorkflowTemplate) error
	Get(id string) (*model.WorkflowTemplate, error)
	Delete(id string) error
	List() ([]model.WorkflowTemplate, error)
}

type InstanceDao interface {
	Save(instance *model.WorkflowInstance) error
	Get(id string) (*model.WorkflowInstance, error)
	Delete(id string) error
	ListByTemplate(templateId string) ([]model.WorkflowInstance, error)
}

type ReportDao interface {
	Save(report *model.ScheduledReport) error
	Get(id string) (*model.ScheduledReport, error)
	Delete(id string) error
	List() ([]model.ScheduledReport, error)
	ListActive() ([]model.ScheduledReport, error)
}
