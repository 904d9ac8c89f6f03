package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mohitkumar/flowdesk/model"
	"github.com/stretchr/testify/require"
)

func TestReportDao(t *testing.T) {
	for scenario, fn := range map[string]func(
		t *testing.T, dao *redisReportDao,
	){
		"test save and get":   testReportSaveGet,
		"test list active":    testReportListActive,
		"test delete forgets": testReportDelete,
	} {
		t.Run(scenario, func(t *testing.T) {
			mr := miniredis.RunT(t)
			conf := &Config{
				Addrs:     []string{mr.Addr()},
				Namespace: "test",
			}
			dao := NewRedisReportDao(*conf)

			fn(t, dao)
		})
	}
}

func testReportSaveGet(t *testing.T, dao *redisReportDao) {
	report := &model.ScheduledReport{
		Id:         "r-1",
		Name:       "weekly grievance summary",
		MetricType: "grievances",
		Timeframe:  model.TIMEFRAME_WEEKLY,
		Recipients: []model.Recipient{{Email: "ops@example.com"}},
		IsActive:   true,
	}
	require.NoError(t, dao.Save(report))

	stored, err := dao.Get("r-1")
	require.NoError(t, err)
	require.Equal(t, model.TIMEFRAME_WEEKLY, stored.Timeframe)
	require.Len(t, stored.Recipients, 1)
}

func testReportListActive(t *testing.T, dao *redisReportDao) {
	require.NoError(t, dao.Save(&model.ScheduledReport{Id: "r-1", Name: "a", Timeframe: model.TIMEFRAME_DAILY, IsActive: true}))
	require.NoError(t, dao.Save(&model.ScheduledReport{Id: "r-2", Name: "b", Timeframe: model.TIMEFRAME_MONTHLY, IsActive: false}))

	active, err := dao.ListActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "r-1", active[0].Id)

	all, err := dao.List()
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func testReportDelete(t *testing.T, dao *redisReportDao) {
	require.NoError(t, dao.Save(&model.ScheduledReport{Id: "r-1", Name: "a", Timeframe: model.TIMEFRAME_DAILY, IsActive: true}))
	require.NoError(t, dao.Delete("r-1"))

	all, err := dao.List()
	require.NoError(t, err)
	require.Empty(t, all)
}
