package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mohitkumar/flowdesk/bridge"
	"github.com/mohitkumar/flowdesk/model"
	"github.com/mohitkumar/flowdesk/persistence"
	rd "github.com/mohitkumar/flowdesk/persistence/redis"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	fail bool
}

func (r *fakeRenderer) Render(metricType string, timeframe model.Timeframe, departmentId string) (*bridge.ReportContent, error) {
	if r.fail {
		return nil, fmt.Errorf("metric source unavailable")
	}
	return &bridge.ReportContent{Html: "<h1>report</h1>", Csv: []byte("a,b\n1,2\n")}, nil
}

type fakeMailer struct {
	mu         sync.Mutex
	fail       bool
	deliveries int
}

func (m *fakeMailer) Deliver(recipients []string, subject string, html string, attachments []bridge.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries++
	if m.fail {
		return fmt.Errorf("smtp unreachable")
	}
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deliveries
}

type fixture struct {
	scheduler *Scheduler
	reports   persistence.ReportDao
	renderer  *fakeRenderer
	mailer    *fakeMailer
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	mr := miniredis.RunT(t)
	conf := rd.Config{
		Addrs:     []string{mr.Addr()},
		Namespace: "test",
	}
	reports := rd.NewRedisReportDao(conf)
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	var wg sync.WaitGroup
	s := New(reports, renderer, mailer, &wg)
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.Local)
	s.now = func() time.Time { return now }
	return &fixture{scheduler: s, reports: reports, renderer: renderer, mailer: mailer, now: now}
}

func saveReport(t *testing.T, f *fixture, report *model.ScheduledReport) {
	require.NoError(t, f.reports.Save(report))
}

func TestReportScheduler(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, f *fixture,
	){
		"test reload registers active reports":      testReloadRegistersActive,
		"test unknown timeframe refused":            testUnknownTimeframeRefused,
		"test process inactive cancels timer":       testProcessInactive,
		"test process deleted cancels timer":        testProcessDeleted,
		"test delivery failure advances bookkeping": testDeliveryFailureBookkeeping,
		"test no recipients still advances":         testNoRecipients,
		"test update schedule applies edit":         testUpdateSchedule,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, newFixture(t))
		})
	}
}

func testReloadRegistersActive(t *testing.T, f *fixture) {
	saveReport(t, f, &model.ScheduledReport{Id: "r-1", Name: "daily tasks", Timeframe: model.TIMEFRAME_DAILY, IsActive: true})
	saveReport(t, f, &model.ScheduledReport{Id: "r-2", Name: "weekly docs", Timeframe: model.TIMEFRAME_WEEKLY, IsActive: false})

	require.NoError(t, f.scheduler.Reload())
	require.Len(t, f.scheduler.active, 1)
	require.Contains(t, f.scheduler.active, "r-1")

	sched, err := ParseSchedule(model.TIMEFRAME_DAILY)
	require.NoError(t, err)
	stored, err := f.reports.Get("r-1")
	require.NoError(t, err)
	require.NotNil(t, stored.NextRun)
	require.True(t, sched.Next(f.now).Equal(*stored.NextRun))

	// reload is idempotent
	require.NoError(t, f.scheduler.Reload())
	require.Len(t, f.scheduler.active, 1)
}

func testUnknownTimeframeRefused(t *testing.T, f *fixture) {
	saveReport(t, f, &model.ScheduledReport{Id: "r-1", Name: "odd", Timeframe: model.Timeframe("FORTNIGHTLY"), IsActive: true})

	require.NoError(t, f.scheduler.Reload())
	require.Empty(t, f.scheduler.active)

	stored, err := f.reports.Get("r-1")
	require.NoError(t, err)
	require.Nil(t, stored.NextRun)
}

func testProcessInactive(t *testing.T, f *fixture) {
	saveReport(t, f, &model.ScheduledReport{Id: "r-1", Name: "daily", Timeframe: model.TIMEFRAME_DAILY, IsActive: false})
	f.scheduler.active["r-1"] = f.scheduler.timers.AddTask(func() {}, time.Hour)

	require.NoError(t, f.scheduler.ProcessReport("r-1"))
	require.Empty(t, f.scheduler.active)
	require.Zero(t, f.mailer.count())

	stored, err := f.reports.Get("r-1")
	require.NoError(t, err)
	require.Nil(t, stored.LastRun)
	require.Nil(t, stored.NextRun)
}

func testProcessDeleted(t *testing.T, f *fixture) {
	f.scheduler.active["ghost"] = f.scheduler.timers.AddTask(func() {}, time.Hour)

	require.NoError(t, f.scheduler.ProcessReport("ghost"))
	require.Empty(t, f.scheduler.active)
	require.Zero(t, f.mailer.count())
}

func testDeliveryFailureBookkeeping(t *testing.T, f *fixture) {
	saveReport(t, f, &model.ScheduledReport{
		Id:                "r-1",
		Name:              "daily tasks",
		Timeframe:         model.TIMEFRAME_DAILY,
		Recipients:        []model.Recipient{{Email: "ops@example.com"}},
		IncludeDataExport: true,
		IsActive:          true,
	})
	f.mailer.fail = true

	require.NoError(t, f.scheduler.ProcessReport("r-1"))
	require.Equal(t, 1, f.mailer.count())

	sched, err := ParseSchedule(model.TIMEFRAME_DAILY)
	require.NoError(t, err)
	stored, err := f.reports.Get("r-1")
	require.NoError(t, err)
	require.NotNil(t, stored.LastRun)
	require.True(t, f.now.Equal(*stored.LastRun))
	require.NotNil(t, stored.NextRun)
	require.True(t, sched.Next(f.now).Equal(*stored.NextRun))
}

func testNoRecipients(t *testing.T, f *fixture) {
	saveReport(t, f, &model.ScheduledReport{Id: "r-1", Name: "weekly docs", Timeframe: model.TIMEFRAME_WEEKLY, IsActive: true})

	require.NoError(t, f.scheduler.ProcessReport("r-1"))
	require.Zero(t, f.mailer.count())

	stored, err := f.reports.Get("r-1")
	require.NoError(t, err)
	require.NotNil(t, stored.NextRun)
	require.Equal(t, time.Monday, stored.NextRun.Weekday())
	require.Equal(t, 8, stored.NextRun.Hour())
}

func testUpdateSchedule(t *testing.T, f *fixture) {
	saveReport(t, f, &model.ScheduledReport{Id: "r-1", Name: "daily", Timeframe: model.TIMEFRAME_DAILY, IsActive: true})

	require.NoError(t, f.scheduler.UpdateSchedule("r-1"))
	require.Contains(t, f.scheduler.active, "r-1")

	stored, err := f.reports.Get("r-1")
	require.NoError(t, err)
	stored.IsActive = false
	saveReport(t, f, stored)

	require.NoError(t, f.scheduler.UpdateSchedule("r-1"))
	require.Empty(t, f.scheduler.active)

	// unknown report ids are forgotten without error
	require.NoError(t, f.scheduler.UpdateSchedule("missing"))
}
