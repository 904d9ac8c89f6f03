package agent

import (
	"sync"

	"github.com/mohitkumar/flowdesk/config"
	"github.com/mohitkumar/flowdesk/container"
	"github.com/mohitkumar/flowdesk/dispatch"
	"github.com/mohitkumar/flowdesk/engine"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/rest"
	"github.com/mohitkumar/flowdesk/scheduler"
)

type Agent struct {
	Config       config.Config
	container    *container.DIContainer
	dispatcher   *dispatch.NotificationDispatcher
	engine       *engine.Engine
	scheduler    *scheduler.Scheduler
	httpServer   *rest.Server
	shutdown     bool
	shutdowns    chan struct{}
	shutdownLock sync.Mutex
	wg           sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config:    config,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupContainer,
		a.setupDispatcher,
		a.setupEngine,
		a.setupScheduler,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupContainer() error {
	a.container = container.NewDiContainer()
	a.container.Init(a.Config)
	return nil
}

func (a *Agent) setupDispatcher() error {
	a.dispatcher = dispatch.NewNotificationDispatcher(a.container.GetNotifier(), a.Config.NotificationCapacity, &a.wg)
	return a.dispatcher.Start()
}

func (a *Agent) setupEngine() error {
	a.engine = engine.New(a.container.GetTemplateDao(), a.container.GetInstanceDao(),
		a.container.GetTemplateCache(), a.container.GetEntityBridge(), a.dispatcher)
	return nil
}

func (a *Agent) setupScheduler() error {
	a.scheduler = scheduler.New(a.container.GetReportDao(), a.container.GetReportRenderer(),
		a.container.GetMailTransport(), &a.wg)
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.engine, a.scheduler, a.container.GetReportDao())
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	if err := a.scheduler.Start(); err != nil {
		return err
	}
	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		a.scheduler.Stop,
		a.dispatcher.Stop,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	return nil
}
