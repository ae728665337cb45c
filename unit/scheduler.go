/*
 * MIT License
 *
 * Copyright (c) 2024-2026 The Robokit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package unit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/robokit-io/robokit/log"
)

const (
	// defaultWorkerCount is the default size of the scheduler's worker pool.
	defaultWorkerCount = 2
	// defaultTaskBacklog bounds the number of submitted tasks awaiting a worker.
	defaultTaskBacklog = 256
	// defaultStopTimeout bounds how long Stop waits for timed jobs to drain.
	defaultStopTimeout = 3 * time.Second
)

// Scheduler runs the background work of a runtime: a bounded pool of
// workers for one-shot task submission plus quartz-backed timed and
// recurring jobs. Units use it for their poll loops and connection
// handling instead of spawning ad hoc goroutines.
type Scheduler struct {
	mu              sync.Mutex
	workerCount     int
	tasks           chan func()
	done            chan struct{}
	workers         errgroup.Group
	quartzScheduler quartz.Scheduler
	started         *atomic.Bool
	stopped         *atomic.Bool
	stopTimeout     time.Duration
	logger          log.Logger
}

func newScheduler(logger log.Logger, workerCount int, stopTimeout time.Duration) *Scheduler {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	if stopTimeout <= 0 {
		stopTimeout = defaultStopTimeout
	}
	quartzScheduler, _ := quartz.NewStdScheduler(
		quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))

	return &Scheduler{
		workerCount:     workerCount,
		tasks:           make(chan func(), defaultTaskBacklog),
		done:            make(chan struct{}),
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		stopped:         atomic.NewBool(false),
		stopTimeout:     stopTimeout,
		logger:          logger,
	}
}

// Start brings the worker pool and the timed-job scheduler up.
func (x *Scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.CompareAndSwap(false, true) {
		return
	}

	x.quartzScheduler.Start(ctx)
	for i := 0; i < x.workerCount; i++ {
		x.workers.Go(x.work)
	}
	x.logger.Infof("scheduler started with %d workers", x.workerCount)
}

// Stop cancels timed jobs, rejects further submissions and waits for the
// workers to finish their current task. Stop is idempotent.
func (x *Scheduler) Stop(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() || !x.stopped.CompareAndSwap(false, true) {
		return
	}

	close(x.done)
	_ = x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)

	_ = x.workers.Wait()
	x.logger.Info("scheduler stopped")
}

// Running reports whether the scheduler accepts work.
func (x *Scheduler) Running() bool {
	return x.started.Load() && !x.stopped.Load()
}

// Submit hands a one-shot task to the worker pool. It fails with
// ErrSchedulerShutdown when the scheduler is not running, and blocks when
// the backlog is full until a worker frees up or the scheduler stops.
func (x *Scheduler) Submit(task func()) error {
	if !x.Running() {
		return ErrSchedulerShutdown
	}
	select {
	case x.tasks <- task:
		return nil
	case <-x.done:
		return ErrSchedulerShutdown
	}
}

// Every schedules task to run repeatedly at the given interval until the
// scheduler stops.
func (x *Scheduler) Every(interval time.Duration, task func(ctx context.Context) error) error {
	return x.schedule(task, quartz.NewSimpleTrigger(interval))
}

// Once schedules task to run a single time after the given delay.
func (x *Scheduler) Once(delay time.Duration, task func(ctx context.Context) error) error {
	return x.schedule(task, quartz.NewRunOnceTrigger(delay))
}

func (x *Scheduler) schedule(task func(ctx context.Context) error, trigger quartz.Trigger) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.Running() {
		return ErrSchedulerShutdown
	}

	fnJob := job.NewFunctionJob[bool](func(ctx context.Context) (bool, error) {
		err := task(ctx)
		return err == nil, err
	})

	detail := quartz.NewJobDetail(fnJob, quartz.NewJobKey(uuid.NewString()))
	return x.quartzScheduler.ScheduleJob(detail, trigger)
}

func (x *Scheduler) work() error {
	for {
		select {
		case task := <-x.tasks:
			task()
		case <-x.done:
			return nil
		}
	}
}
