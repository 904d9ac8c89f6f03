package container

import (
	"github.com/mohitkumar/flowdesk/bridge"
	"github.com/mohitkumar/flowdesk/cache"
	"github.com/mohitkumar/flowdesk/config"
	"github.com/mohitkumar/flowdesk/persistence"
	rd "github.com/mohitkumar/flowdesk/persistence/redis"
)

type DIContainer struct {
	initialized   bool
	templateDao   persistence.TemplateDao
	instanceDao   persistence.InstanceDao
	reportDao     persistence.ReportDao
	templateCache *cache.TemplateCache
	entityBridge  bridge.EntityBridge
	notifier      bridge.Notifier
	renderer      bridge.ReportRenderer
	mailer        bridge.MailTransport
}

func NewDiContainer() *DIContainer {
	return &DIContainer{
		initialized: false,
	}
}

func (d *DIContainer) setInitialized() {
	d.initialized = true
}

func (d *DIContainer) Init(conf config.Config) {
	defer d.setInitialized()

	switch conf.StorageType {
	default:
		rdConf := rd.Config{
			Addrs:     conf.RedisConfig.Addrs,
			Namespace: conf.RedisConfig.Namespace,
		}
		d.templateDao = rd.NewRedisTemplateDao(rdConf)
		d.instanceDao = rd.NewRedisInstanceDao(rdConf)
		d.reportDao = rd.NewRedisReportDao(rdConf)
	}
	d.templateCache = cache.NewTemplateCache()
	d.entityBridge = bridge.NewLogEntityBridge()
	d.notifier = bridge.NewLogNotifier()
	d.renderer = bridge.NewBasicReportRenderer()
	d.mailer = bridge.NewLogMailTransport()
}

func (d *DIContainer) GetTemplateDao() persistence.TemplateDao {
	if !d.initialized {
		panic("persistence not initalized")
	}
	return d.templateDao
}

func (d *DIContainer) GetInstanceDao() persistence.InstanceDao {
	if !d.initialized {
		panic("persistence not initalized")
	}
	return d.instanceDao
}

func (d *DIContainer) GetReportDao() persistence.ReportDao {
	if !d.initialized {
		panic("persistence not initalized")
	}
	return d.reportDao
}

func (d *DIContainer) GetTemplateCache() *cache.TemplateCache {
	return d.templateCache
}

func (d *DIContainer) GetEntityBridge() bridge.EntityBridge {
	return d.entityBridge
}

func (d *DIContainer) GetNotifier() bridge.Notifier {
	return d.notifier
}

func (d *DIContainer) GetReportRenderer() bridge.ReportRenderer {
	return d.renderer
}

func (d *DIContainer) GetMailTransport() bridge.MailTransport {
	return d.mailer
}
