package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/RussellLuo/timingwheel"
	"github.com/mohitkumar/flowdesk/bridge"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/metrics"
	"github.com/mohitkumar/flowdesk/model"
	"github.com/mohitkumar/flowdesk/persistence"
	"github.com/mohitkumar/flowdesk/timers"
	"github.com/mohitkumar/flowdesk/util"
	"go.uber.org/zap"
)

// Scheduler keeps at most one recurring timer per active scheduled report,
// keyed by report id. A daily refresh reloads the whole active set so
// reports edited out of band pick up schedule changes without a restart.
type Scheduler struct {
	reports     persistence.ReportDao
	renderer    bridge.ReportRenderer
	mailer      bridge.MailTransport
	timers      *timers.TimerManager
	refresh     *util.TickWorker
	refreshStop chan struct{}
	wg          *sync.WaitGroup

	mu     sync.Mutex
	active map[string]*timingwheel.Timer

	now func() time.Time
}

func New(reports persistence.ReportDao, renderer bridge.ReportRenderer, mailer bridge.MailTransport, wg *sync.WaitGroup) *Scheduler {
	return &Scheduler{
		reports:     reports,
		renderer:    renderer,
		mailer:      mailer,
		timers:      timers.NewTimerManager(),
		refreshStop: make(chan struct{}),
		wg:          wg,
		active:      make(map[string]*timingwheel.Timer),
		now:         time.Now,
	}
}

func (s *Scheduler) Start() error {
	s.timers.Init()
	if err := s.Reload(); err != nil {
		logger.Error("error loading report schedules", zap.Error(err))
	}
	s.refresh = util.NewTickWorker("schedule-refresh", 24*time.Hour, s.refreshStop, func() {
		if err := s.Reload(); err != nil {
			logger.Error("error refreshing report schedules", zap.Error(err))
		}
	}, s.wg)
	s.refresh.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	if s.refresh != nil {
		s.refresh.Stop()
	}
	s.mu.Lock()
	for id, timer := range s.active {
		timer.Stop()
		delete(s.active, id)
	}
	s.mu.Unlock()
	s.timers.Stop()
	logger.Info("report scheduler stopped")
	return nil
}

// Reload cancels every registered timer and re-registers one per active
// report. Idempotent, safe to call on a running scheduler.
func (s *Scheduler) Reload() error {
	reports, err := s.reports.ListActive()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.active {
		timer.Stop()
		delete(s.active, id)
	}
	for i := range reports {
		s.scheduleLocked(&reports[i])
	}
	logger.Info("report schedules loaded", zap.Int("count", len(s.active)))
	return nil
}

// UpdateSchedule applies a report edit: the existing timer is cancelled
// and re-registered from the report's current isActive and timeframe.
func (s *Scheduler) UpdateSchedule(reportId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.active[reportId]; ok {
		timer.Stop()
		delete(s.active, reportId)
	}
	report, err := s.reports.Get(reportId)
	if err != nil {
		if _, ok := err.(persistence.NotFoundError); ok {
			return nil
		}
		return err
	}
	if report.IsActive {
		s.scheduleLocked(report)
	}
	return nil
}

// StopSchedule cancels and forgets the timer of a deactivated or deleted
// report.
func (s *Scheduler) StopSchedule(reportId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.active[reportId]; ok {
		timer.Stop()
		delete(s.active, reportId)
	}
}

func (s *Scheduler) scheduleLocked(report *model.ScheduledReport) {
	sched, err := ParseSchedule(report.Timeframe)
	if err != nil {
		logger.Error("refusing to schedule report", zap.String("report", report.Id), zap.String("timeframe", string(report.Timeframe)), zap.Error(err))
		return
	}
	reportId := report.Id
	timer := s.timers.Schedule(sched, func() {
		if err := s.ProcessReport(reportId); err != nil {
			logger.Error("error processing scheduled report", zap.String("report", reportId), zap.Error(err))
		}
	})
	s.active[reportId] = timer
	next := sched.Next(s.now())
	report.NextRun = &next
	if err := s.reports.Save(report); err != nil {
		logger.Error("error persisting next run", zap.String("report", reportId), zap.Error(err))
	}
	logger.Info("report scheduled", zap.String("report", reportId), zap.String("timeframe", string(report.Timeframe)), zap.Time("nextRun", next))
}

// ProcessReport runs one report cycle. The report is re-fetched to catch
// concurrent edits. Delivery failure never blocks the lastRun/nextRun
// bookkeeping update, delivery is best effort and not retried.
func (s *Scheduler) ProcessReport(reportId string) error {
	report, err := s.reports.Get(reportId)
	if err != nil {
		if _, ok := err.(persistence.NotFoundError); ok {
			logger.Info("report deleted, cancelling schedule", zap.String("report", reportId))
			s.StopSchedule(reportId)
			return nil
		}
		return err
	}
	if !report.IsActive {
		logger.Info("report deactivated, cancelling schedule", zap.String("report", reportId))
		s.StopSchedule(reportId)
		return nil
	}
	content, err := s.renderer.Render(report.MetricType, report.Timeframe, report.DepartmentId)
	if err != nil {
		logger.Error("error generating report content", zap.String("report", reportId), zap.Error(err))
		metrics.SchedulerRuns.WithLabelValues("render_error").Inc()
	} else if s.sendReportToRecipients(report, content) {
		metrics.SchedulerRuns.WithLabelValues("ok").Inc()
	} else {
		metrics.SchedulerRuns.WithLabelValues("delivery_failed").Inc()
	}

	now := s.now()
	report.LastRun = &now
	if sched, err := ParseSchedule(report.Timeframe); err == nil {
		next := sched.Next(now)
		report.NextRun = &next
	}
	report.UpdatedAt = now
	if err := s.reports.Save(report); err != nil {
		logger.Error("error updating report bookkeeping", zap.String("report", reportId), zap.Error(err))
		return err
	}
	return nil
}

func (s *Scheduler) sendReportToRecipients(report *model.ScheduledReport, content *bridge.ReportContent) bool {
	if len(report.Recipients) == 0 {
		logger.Warn("report has no recipients, skipping delivery", zap.String("report", report.Id))
		return false
	}
	recipients := make([]string, 0, len(report.Recipients))
	for _, recipient := range report.Recipients {
		recipients = append(recipients, recipient.Email)
	}
	var attachments []bridge.Attachment
	if report.IncludeDataExport {
		attachments = append(attachments, bridge.Attachment{
			Name:        fmt.Sprintf("%s.csv", report.Name),
			ContentType: "text/csv",
			Data:        content.Csv,
		})
	}
	subject := fmt.Sprintf("%s report: %s", report.Timeframe, report.Name)
	if err := s.mailer.Deliver(recipients, subject, content.Html, attachments); err != nil {
		logger.Error("error delivering report", zap.String("report", report.Id), zap.Error(err))
		metrics.ReportDeliveryFailures.Inc()
		return false
	}
	return true
}
