package dispatch

import (
	"fmt"
	"sync"

	"github.com/mohitkumar/flowdesk/bridge"
	"github.com/mohitkumar/flowdesk/logger"
	"github.com/mohitkumar/flowdesk/util"
)

type notificationTask struct {
	UserId       string
	Notification bridge.Notification
}

// NotificationDispatcher decouples workflow transitions from notification
// delivery. Notifications are queued on a worker and delivered
// asynchronously, a failed delivery is logged and dropped.
type NotificationDispatcher struct {
	notifier bridge.Notifier
	capacity int
	worker   *util.Worker
	wg       *sync.WaitGroup
}

func NewNotificationDispatcher(notifier bridge.Notifier, capacity int, wg *sync.WaitGroup) *NotificationDispatcher {
	return &NotificationDispatcher{
		notifier: notifier,
		capacity: capacity,
		wg:       wg,
	}
}

func (d *NotificationDispatcher) handler(task util.Task) error {
	req, ok := task.(notificationTask)
	if !ok {
		return fmt.Errorf("can not handle task of type other than notificationTask")
	}
	return d.notifier.Notify(req.UserId, req.Notification)
}

func (d *NotificationDispatcher) Start() error {
	d.worker = util.NewWorker("notification-dispatcher", d.wg, d.handler, d.capacity)
	d.worker.Start()
	logger.Info("notification dispatcher started")
	return nil
}

func (d *NotificationDispatcher) Stop() error {
	d.worker.Stop()
	return nil
}

// Dispatch queues a notification. Never blocks workflow processing, when
// the queue is full the notification is dropped.
func (d *NotificationDispatcher) Dispatch(userId string, notification bridge.Notification) {
	if userId == "" {
		return
	}
	select {
	case d.worker.Sender() <- notificationTask{UserId: userId, Notification: notification}:
	default:
		logger.Warn("notification queue full, dropping notification")
	}
}
