package cache

import (
	"time"

	"github.com/mohitkumar/flowdesk/model"
	c "github.com/patrickmn/go-cache"
)

type TemplateCache struct {
	cache *c.Cache
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: c.New(5*time.Minute, 10*time.Minute),
	}
}

func (ch *TemplateCache) Put(tpl *model.WorkflowTemplate) {
	ch.cache.Set(tpl.Id, tpl, c.DefaultExpiration)
}

func (ch *TemplateCache) Get(id string) (*model.WorkflowTemplate, bool) {
	val, found := ch.cache.Get(id)
	if found {
		return val.(*model.WorkflowTemplate), true
	}
	return nil, false
}

func (ch *TemplateCache) Invalidate(id string) {
	ch.cache.Delete(id)
}
