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

const TEMPLATE_KEY string = "TEMPLATE"

var _ persistence.TemplateDao = new(redisTemplateDao)

type redisTemplateDao struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.WorkflowTemplate]
}

func NewRedisTemplateDao(conf Config) *redisTemplateDao {
	return &redisTemplateDao{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.WorkflowTemplate](),
	}
}

func (rtd *redisTemplateDao) itemKey(id string) string {
	return rtd.getNamespaceKey(TEMPLATE_KEY, id)
}

func (rtd *redisTemplateDao) indexKey() string {
	return rtd.getNamespaceKey(TEMPLATE_KEY, "IDS")
}

// Save writes the template with a compare and swap on its version field.
// A version mismatch against the stored copy returns ConflictError.
func (rtd *redisTemplateDao) Save(tpl *model.WorkflowTemplate) error {
	key := rtd.itemKey(tpl.Id)
	ctx := context.Background()
	err := rtd.redisClient.Watch(ctx, func(tx *rd.Tx) error {
		stored, err := tx.Get(ctx, key).Result()
		if err != nil && err != rd.Nil {
			return err
		}
		if err != rd.Nil {
			current, err := rtd.encoderDecoder.Decode([]byte(stored))
			if err != nil {
				return err
			}
			if current.Version != tpl.Version {
				return persistence.ConflictError{Kind: "template", Id: tpl.Id}
			}
		} else if tpl.Version != 0 {
			return persistence.ConflictError{Kind: "template", Id: tpl.Id}
		}
		tpl.Version++
		data, err := rtd.encoderDecoder.Encode(*tpl)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, rtd.indexKey(), tpl.Id)
			return nil
		})
		return err
	}, key)
	if err == rd.TxFailedErr {
		tpl.Version--
		return persistence.ConflictError{Kind: "template", Id: tpl.Id}
	}
	if err != nil {
		if _, ok := err.(persistence.ConflictError); ok {
			return err
		}
		logger.Error("error in saving template", zap.String("template", tpl.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rtd *redisTemplateDao) Get(id string) (*model.WorkflowTemplate, error) {
	key := rtd.itemKey(id)
	ctx := context.Background()
	val, err := rtd.redisClient.Get(ctx, key).Result()
	if err == rd.Nil {
		return nil, persistence.NotFoundError{Kind: "template", Id: id}
	}
	if err != nil {
		logger.Error("error in getting template", zap.String("template", id), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rtd.encoderDecoder.Decode([]byte(val))
}

func (rtd *redisTemplateDao) Delete(id string) error {
	ctx := context.Background()
	_, err := rtd.redisClient.TxPipelined(ctx, func(pipe rd.Pipeliner) error {
		pipe.Del(ctx, rtd.itemKey(id))
		pipe.SRem(ctx, rtd.indexKey(), id)
		return nil
	})
	if err != nil {
		logger.Error("error in deleting template", zap.String("template", id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rtd *redisTemplateDao) List() ([]model.WorkflowTemplate, error) {
	ctx := context.Background()
	raws, err := rtd.membersData(ctx, rtd.indexKey(), rtd.itemKey)
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	templates := make([]model.WorkflowTemplate, 0, len(raws))
	for _, raw := range raws {
		tpl, err := rtd.encoderDecoder.Decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tpl)
	}
	return templates, nil
}
