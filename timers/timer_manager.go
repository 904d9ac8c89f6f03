package timers

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

// TimerManager owns the timing wheel all recurring report timers run on.
// Each schedule is an independent timer, cancellable through the returned
// handle.
type TimerManager struct {
	wheel *timingwheel.TimingWheel
}

func NewTimerManager() *TimerManager {
	return &TimerManager{
		wheel: timingwheel.NewTimingWheel(time.Second, 3600),
	}
}

func (m *TimerManager) AddTask(task func(), delay time.Duration) *timingwheel.Timer {
	return m.wheel.AfterFunc(delay, task)
}

// Schedule registers a recurring task. The scheduler's Next method decides
// every fire time, a zero time ends the schedule.
func (m *TimerManager) Schedule(s timingwheel.Scheduler, task func()) *timingwheel.Timer {
	return m.wheel.ScheduleFunc(s, task)
}

func (m *TimerManager) Init() {
	m.wheel.Start()
}

func (m *TimerManager) Stop() {
	m.wheel.Stop()
}
