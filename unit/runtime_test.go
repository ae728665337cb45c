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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robokit-io/robokit/config"
	"github.com/robokit-io/robokit/log"
)

// recorder captures every message it receives.
type recorder struct {
	BaseUnit
	mu       sync.Mutex
	messages []any
}

func (u *recorder) OnMessage(ctx *MessageContext) {
	u.mu.Lock()
	u.messages = append(u.messages, ctx.Message())
	u.mu.Unlock()
}

func (u *recorder) received() []any {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]any, len(u.messages))
	copy(out, u.messages)
	return out
}

// brokenInit fails configuration.
type brokenInit struct {
	BaseUnit
}

func (u *brokenInit) OnInit(*InitContext) error {
	return errors.New("missing required setting")
}

// brokenStart fails its start hook.
type brokenStart struct {
	BaseUnit
}

func (u *brokenStart) Start(context.Context) error {
	return errors.New("device not reachable")
}

// hookTracer records lifecycle hook invocations.
type hookTracer struct {
	BaseUnit
	mu    sync.Mutex
	calls []string
}

func (u *hookTracer) trace(name string) {
	u.mu.Lock()
	u.calls = append(u.calls, name)
	u.mu.Unlock()
}

func (u *hookTracer) OnInit(*InitContext) error           { u.trace("init"); return nil }
func (u *hookTracer) Start(context.Context) error         { u.trace("start"); return nil }
func (u *hookTracer) Stop(context.Context) error          { u.trace("stop"); return nil }
func (u *hookTracer) Shutdown(context.Context) error      { u.trace("shutdown"); return nil }

func (u *hookTracer) traced() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]string, len(u.calls))
	copy(out, u.calls)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestRuntimeRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("With a valid unit", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		ref, err := runtime.Register(ctx, "motor-left", &recorder{}, config.New())
		require.NoError(t, err)
		require.NotNil(t, ref)
		assert.Equal(t, "motor-left", ref.ID())
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With an invalid identifier", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		ref, err := runtime.Register(ctx, "-bad id-", &recorder{}, config.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidUnitID)
		assert.Nil(t, ref)
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With a duplicate identifier", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "motor", &recorder{}, config.New())
		require.NoError(t, err)
		_, err = runtime.Register(ctx, "motor", &recorder{}, config.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitAlreadyExists)
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With a failing OnInit hook the unit stays registered as failed", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "broken", &brokenInit{}, config.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)

		// the runtime survives and the unit is visible but failed
		local, err := runtime.LocalReference("broken")
		require.NoError(t, err)
		assert.Equal(t, Failed, local.State())

		err = local.Send("ignored")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitFailed)
		require.NoError(t, runtime.Shutdown(ctx))
	})
}

func TestRuntimeReference(t *testing.T) {
	ctx := context.Background()

	t.Run("With references memoized per identifier", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		registered, err := runtime.Register(ctx, "sensor", &recorder{}, config.New())
		require.NoError(t, err)

		first, err := runtime.Reference("sensor")
		require.NoError(t, err)
		second, err := runtime.Reference("sensor")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Same(t, registered, first)
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With an unknown identifier", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		ref, err := runtime.Reference("ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitNotFound)
		assert.Nil(t, ref)
		require.NoError(t, runtime.Shutdown(ctx))
	})
}

func TestRuntimeMessaging(t *testing.T) {
	ctx := context.Background()

	t.Run("With messages delivered in send order", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		sink := &recorder{}
		ref, err := runtime.Register(ctx, "sink", sink, config.New())
		require.NoError(t, err)
		require.NoError(t, runtime.Start(ctx))

		for _, msg := range []string{"forward", "left", "stop"} {
			require.NoError(t, ref.Send(msg))
		}

		waitFor(t, func() bool { return len(sink.received()) == 3 })
		assert.Equal(t, []any{"forward", "left", "stop"}, sink.received())
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With sends rejected before the unit is started", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		ref, err := runtime.Register(ctx, "idle", &recorder{}, config.New())
		require.NoError(t, err)

		err = ref.Send("too early")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitNotReady)
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With sends rejected after stop", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		ref, err := runtime.Register(ctx, "halted", &recorder{}, config.New())
		require.NoError(t, err)
		require.NoError(t, runtime.Start(ctx))
		require.NoError(t, runtime.Stop(ctx))

		err = ref.Send("too late")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitNotReady)
		require.NoError(t, runtime.Shutdown(ctx))
	})
}

func TestRuntimeLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("With hooks invoked in order across the full lifecycle", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		tracer := &hookTracer{}
		_, err := runtime.Register(ctx, "traced", tracer, config.New())
		require.NoError(t, err)

		require.NoError(t, runtime.Start(ctx))
		require.NoError(t, runtime.Stop(ctx))
		require.NoError(t, runtime.Shutdown(ctx))

		assert.Equal(t, []string{"init", "start", "stop", "shutdown"}, tracer.traced())
	})

	t.Run("With Stop before Start being rejected", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "idle", &recorder{}, config.New())
		require.NoError(t, err)

		err = runtime.Stop(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRuntimeNotStarted)
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With one unit stopped while its sibling keeps running", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "retiring", &recorder{}, config.New())
		require.NoError(t, err)
		ref, err := runtime.Register(ctx, "surviving", &recorder{}, config.New())
		require.NoError(t, err)
		require.NoError(t, runtime.Start(ctx))

		require.NoError(t, runtime.StopUnit(ctx, "retiring"))
		local, err := runtime.LocalReference("retiring")
		require.NoError(t, err)
		assert.Equal(t, Stopped, local.State())
		require.NoError(t, ref.Send("still here"))

		err = runtime.StopUnit(ctx, "nobody")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitNotFound)
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With a stopped unit rejecting a restart", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "oneway", &recorder{}, config.New())
		require.NoError(t, err)
		require.NoError(t, runtime.Start(ctx))
		require.NoError(t, runtime.Stop(ctx))

		local, err := runtime.LocalReference("oneway")
		require.NoError(t, err)
		require.Equal(t, Stopped, local.State())

		// a second start must not resurrect anything
		err = runtime.Start(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, Stopped, local.State())
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With one failing unit not preventing its siblings from starting", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		healthy := &recorder{}
		_, err := runtime.Register(ctx, "flaky", &brokenStart{}, config.New())
		require.NoError(t, err)
		ref, err := runtime.Register(ctx, "healthy", healthy, config.New())
		require.NoError(t, err)

		err = runtime.Start(ctx)
		require.Error(t, err)

		// the healthy unit is up and dispatchable
		require.NoError(t, ref.Send("ping"))
		waitFor(t, func() bool { return len(healthy.received()) == 1 })

		// the flaky one is failed
		flaky, err := runtime.LocalReference("flaky")
		require.NoError(t, err)
		assert.Equal(t, Failed, flaky.State())
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With shutdown releasing the scheduler", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "worker", &recorder{}, config.New())
		require.NoError(t, err)
		require.NoError(t, runtime.Start(ctx))

		scheduler, err := runtime.Scheduler()
		require.NoError(t, err)
		require.True(t, scheduler.Running())

		require.NoError(t, runtime.Shutdown(ctx))
		require.False(t, scheduler.Running())

		err = scheduler.Submit(func() {})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSchedulerShutdown)
	})

	t.Run("With shutdown reachable without a prior stop", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		tracer := &hookTracer{}
		_, err := runtime.Register(ctx, "direct", tracer, config.New())
		require.NoError(t, err)
		require.NoError(t, runtime.Start(ctx))
		require.NoError(t, runtime.Shutdown(ctx))

		assert.Equal(t, []string{"init", "start", "shutdown"}, tracer.traced())
	})
}

// attributedUnit exposes a static attribute set.
type attributedUnit struct {
	BaseUnit
}

func (u *attributedUnit) KnownAttributes() []string {
	return []string{"address", "port"}
}

func (u *attributedUnit) Attribute(name string) (string, bool) {
	switch name {
	case "address":
		return "0.0.0.0", true
	case "port":
		return "8061", true
	default:
		return "", false
	}
}

func TestLocalReferenceAttributes(t *testing.T) {
	ctx := context.Background()

	t.Run("With an attributed unit", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "server", &attributedUnit{}, config.New())
		require.NoError(t, err)

		local, err := runtime.LocalReference("server")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"address", "port"}, local.KnownAttributes())

		port, err := local.Attribute("port")
		require.NoError(t, err)
		assert.Equal(t, "8061", port)

		_, err = local.Attribute("speed")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAttributeNotFound)
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With a plain unit exposing no attributes", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		_, err := runtime.Register(ctx, "plain", &recorder{}, config.New())
		require.NoError(t, err)

		local, err := runtime.LocalReference("plain")
		require.NoError(t, err)
		assert.Empty(t, local.KnownAttributes())
		_, err = local.Attribute("anything")
		assert.ErrorIs(t, err, ErrAttributeNotFound)
		require.NoError(t, runtime.Shutdown(ctx))
	})
}

// configReceiver accepts messages already while starting.
type configReceiver struct {
	recorder
}

func (u *configReceiver) AcceptWhileStarting() bool { return true }

func TestSendWhileStarting(t *testing.T) {
	ctx := context.Background()

	t.Run("With a starting-receiver unit accepting early sends", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		p := newProcess("setup", &configReceiver{}, runtime, 0)
		require.NoError(t, p.init(ctx, config.New()))
		require.NoError(t, p.state.transition(Starting))

		require.NoError(t, p.send("configure"))
		require.NoError(t, runtime.Shutdown(ctx))
	})

	t.Run("With a plain unit rejecting early sends", func(t *testing.T) {
		runtime := New(WithLogger(log.DiscardLogger))
		p := newProcess("plain", &recorder{}, runtime, 0)
		require.NoError(t, p.init(ctx, config.New()))
		require.NoError(t, p.state.transition(Starting))

		err := p.send("too early")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitNotReady)
		require.NoError(t, runtime.Shutdown(ctx))
	})
}
