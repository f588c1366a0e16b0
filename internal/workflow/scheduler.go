package workflow

import "time"

// Scheduler defers a callback by a delay. The engine never blocks on a
// timer itself: all step advancement is scheduled through this interface,
// which also lets tests drive the pipeline with a virtual clock.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler is the production scheduler backed by time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
