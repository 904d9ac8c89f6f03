package bridge

import (
	"fmt"

	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/model"
	"go.uber.org/zap"
)

// Log-only collaborators. They stand in for the portal modules when the
// engine runs outside the full deployment.

type logEntityBridge struct{}

func NewLogEntityBridge() EntityBridge {
	return &logEntityBridge{}
}

func (b *logEntityBridge) Get(entityType model.EntityType, entityId string) (map[string]any, error) {
	logger.Debug("entity lookup", zap.String("type", string(entityType)), zap.String("id", entityId))
	return map[string]any{"id": entityId}, nil
}

func (b *logEntityBridge) UpdateApprovalStatus(entityType model.EntityType, entityId string, approvalStatus string) error {
	logger.Info("entity approval status updated", zap.String("type", string(entityType)), zap.String("id", entityId), zap.String("approvalStatus", approvalStatus))
	return nil
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) Notify(userId string, notification Notification) error {
	logger.Info("notification", zap.String("user", userId), zap.String("type", notification.Type), zap.String("title", notification.Title))
	return nil
}

type logMailTransport struct{}

func NewLogMailTransport() MailTransport {
	return &logMailTransport{}
}

func (m *logMailTransport) Deliver(recipients []string, subject string, html string, attachments []Attachment) error {
	logger.Info("mail delivery", zap.Strings("recipients", recipients), zap.String("subject", subject), zap.Int("attachments", len(attachments)))
	return nil
}

type basicReportRenderer struct{}

func NewBasicReportRenderer() ReportRenderer {
	return &basicReportRenderer{}
}

func (r *basicReportRenderer) Render(metricType string, timeframe model.Timeframe, departmentId string) (*ReportContent, error) {
	html := fmt.Sprintf("<html><body><h1>%s report</h1><p>timeframe: %s</p></body></html>", metricType, timeframe)
	csv := fmt.Sprintf("metric,timeframe,department\n%s,%s,%s\n", metricType, timeframe, departmentId)
	return &ReportContent{Html: html, Csv: []byte(csv)}, nil
}
