package model

import "time"

type CreateInstanceRequest struct {
	TemplateId    string         `json:"templateId"`
	Name          string         `json:"name"`
	RelatedEntity *RelatedEntity `json:"relatedEntity,omitempty"`
	DueDate       *time.Time     `json:"dueDate,omitempty"`
	Priority      string         `json:"priority,omitempty"`
	Initiator     Actor          `json:"initiator"`
}

type StepActionRequest struct {
	InstanceId  string               `json:"instanceId"`
	Actor       Actor                `json:"actor"`
	Comment     string               `json:"comment,omitempty"`
	FormData    map[string]FormValue `json:"formData,omitempty"`
	Attachments []string             `json:"attachments,omitempty"`
}

type CommentRequest struct {
	InstanceId string `json:"instanceId"`
	Actor      Actor  `json:"actor"`
	Text       string `json:"text"`
}
