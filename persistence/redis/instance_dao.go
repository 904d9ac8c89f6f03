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

const INSTANCE_KEY string = "INSTANCE"

var _ persistence.InstanceDao = new(redisInstanceDao)

type redisInstanceDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.WorkflowInstance]
}

func NewRedisInstanceDao(conf Config) *redisInstanceDao {
	return &redisInstanceDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.WorkflowInstance](),
	}
}

func (rid *redisInstanceDao) itemKey(id string) string {
	return rid.getNamespaceKey(INSTANCE_KEY, id)
}

func (rid *redisInstanceDao) indexKey(templateId string) string {
	return rid.getNamespaceKey(INSTANCE_KEY, "TPL", templateId)
}

// Save writes the instance with a compare and swap on its version field so
// two concurrent approvals of the same instance cannot both win.
func (rid *redisInstanceDao) Save(instance *model.WorkflowInstance) error {
	key := rid.itemKey(instance.Id)
	ctx := context.Background()
	err := rid.redisClient.Watch(ctx, func(tx *rd.Tx) error {
		stored, err := tx.Get(ctx, key).Result()
		if err != nil && err != rd.Nil {
			return err
		}
		if err != rd.Nil {
			current, err := rid.encoderDecoder.Decode([]byte(stored))
			if err != nil {
				return err
			}
			if current.Version != instance.Version {
				return persistence.ConflictError{Kind: "instance", Id: instance.Id}
			}
		} else if instance.Version != 0 {
			return persistence.ConflictError{Kind: "instance", Id: instance.Id}
		}
		instance.Version++
		data, err := rid.encoderDecoder.Encode(*instance)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, rid.indexKey(instance.TemplateId), instance.Id)
			return nil
		})
		return err
	}, key)
	if err == rd.TxFailedErr {
		instance.Version--
		return persistence.ConflictError{Kind: "instance", Id: instance.Id}
	}
	if err != nil {
		if _, ok := err.(persistence.ConflictError); ok {
			return err
		}
		logger.Error("error in saving workflow instance", zap.String("instance", instance.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rid *redisInstanceDao) Get(id string) (*model.WorkflowInstance, error) {
	key := rid.itemKey(id)
	ctx := context.Background()
	val, err := rid.redisClient.Get(ctx, key).Result()
	if err == rd.Nil {
		return nil, persistence.NotFoundError{Kind: "instance", Id: id}
	}
	if err != nil {
		logger.Error("error in getting workflow instance", zap.String("instance", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rid.encoderDecoder.Decode([]byte(val))
}

func (rid *redisInstanceDao) Delete(id string) error {
	instance, err := rid.Get(id)
	if err != nil {
		return err
	}
	ctx := context.Background()
	_, err = rid.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		pipe.Del(ctx, rid.itemKey(id))
		pipe.SRem(ctx, rid.indexKey(instance.TemplateId), id)
		return nil
	})
	if err != nil {
		logger.Error("error in deleting workflow instance", zap.String("instance", id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rid *redisInstanceDao) ListByTemplate(templateId string) ([]model.WorkflowInstance, error) {
	ctx := context.Background()
	raws, err := rid.membersData(ctx, rid.indexKey(templateId), rid.itemKey)
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	instances := make([]model.WorkflowInstance, 0, len(raws))
	for _, raw := range raws {
		instance, err := rid.encoderDecoder.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		instances = append(instances, *instance)
	}
	return instances, nil
}
