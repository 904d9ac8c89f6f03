package redis

import (
	"context"

	rd "github.com/go-redis/redis/v9"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/model"
	"github.com/mohitkumar/flowdesk/persistence"
	"github.com/mohitkumar/flowdesk/util"
	"go.uber.org/zap"
)

const REPORT_KEY string = "REPORT"

var _ persistence.ReportDao = new(redisReportDao)

type redisReportDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.ScheduledReport]
}

func NewRedisReportDao(conf Config) *redisReportDao {
	return &redisReportDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.ScheduledReport](),
	}
}

func (rrd *redisReportDao) itemKey(id string) string {
	return rrd.getNamespaceKey(REPORT_KEY, id)
}

func (rrd *redisReportDao) indexKey() string {
	return rrd.getNamespaceKey(REPORT_KEY, "IDS")
}

func (rrd *redisReportDao) Save(report *model.ScheduledReport) error {
	ctx := context.Background()
	data, err := rrd.encoderDecoder.Encode(*report)
	if err != nil {
		return err
	}
	_, err = rrd.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		pipe.Set(ctx, rrd.itemKey(report.Id), data, 0)
		pipe.SAdd(ctx, rrd.indexKey(), report.Id)
		return nil
	})
	if err != nil {
		logger.Error("error in saving scheduled report", zap.String("report", report.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rrd *redisReportDao) Get(id string) (*model.ScheduledReport, error) {
	ctx := context.Background()
	val, err := rrd.redisClient.Get(ctx, rrd.itemKey(id)).Result()
	if err == rd.Nil {
		return nil, persistence.NotFoundError{Kind: "report", Id: id}
	}
	if err != nil {
		logger.Error("error in getting scheduled report", zap.String("report", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rrd.encoderDecoder.Decode([]byte(val))
}

func (rrd *redisReportDao) Delete(id string) error {
	ctx := context.Background()
	_, err := rrd.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		pipe.Del(ctx, rrd.itemKey(id))
		pipe.SRem(ctx, rrd.indexKey(), id)
		return nil
	})
	if err != nil {
		logger.Error("error in deleting scheduled report", zap.String("report", id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rrd *redisReportDao) List() ([]model.ScheduledReport, error) {
	ctx := context.Background()
	raws, err := rrd.membersData(ctx, rrd.indexKey(), rrd.itemKey)
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	reports := make([]model.ScheduledReport, 0, len(raws))
	for _, raw := range raws {
		report, err := rrd.encoderDecoder.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func (rrd *redisReportDao) ListActive() ([]model.ScheduledReport, error) {
	reports, err := rrd.List()
	if err != nil {
		return nil, err
	}
	active := make([]model.ScheduledReport, 0, len(reports))
	for _, report := range reports {
		if report.IsActive {
			active = append(active, report)
		}
	}
	return active, nil
}
