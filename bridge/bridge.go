package bridge

import (
	"github.com/mohitkumar/flowdesk/model"
)

const APPROVAL_PENDING string = "pending"
const APPROVAL_APPROVED string = "approved"
const APPROVAL_REJECTED string = "rejected"
const APPROVAL_CANCELLED string = "cancelled"
const APPROVAL_CHANGES_REQUESTED string = "changes_requested"

// EntityBridge is the narrow contract to the task/document/user modules
// that own the entities a workflow runs against. The engine reads them and
// pushes approval outcomes, nothing more.
type EntityBridge interface {
	Get(entityType model.EntityType, entityId string) (map[string]any, error)
	UpdateApprovalStatus(entityType model.EntityType, entityId string, approvalStatus string) error
}

type Notification struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Notifier delivers a notification to a user. Fire and forget, failures
// are not surfaced back into workflow or scheduler logic.
type Notifier interface {
	Notify(userId string, notification Notification) error
}

type ReportContent struct {
	Html string
	Csv  []byte
}

// ReportRenderer turns a metric type and timeframe into renderable
// content. Pure function from the scheduler's point of view.
type ReportRenderer interface {
	Render(metricType string, timeframe model.Timeframe, departmentId string) (*ReportContent, error)
}

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type MailTransport interface {
	Deliver(recipients []string, subject string, html string, attachments []Attachment) error
}
