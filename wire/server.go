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

package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/robokit-io/robokit/codec"
	"github.com/robokit-io/robokit/log"
	"github.com/robokit-io/robokit/unit"
)

// ServerUnit configuration keys.
const (
	// ConfigPort is the TCP port the server listens on.
	ConfigPort = "port"
	// ConfigTarget names the unit that receives dispatched commands when
	// no per-type target matches. Required.
	ConfigTarget = "target"
	// ConfigTargetPrefix declares a per-type target: "target.tank" maps
	// requests carrying type tag "tank" to the named unit.
	ConfigTargetPrefix = "target."
	// ConfigReadTimeout bounds how long a connection worker waits for the
	// rest of a request.
	ConfigReadTimeout = "read-timeout"
)

const (
	defaultPort        = 8042
	defaultReadTimeout = 10 * time.Second
	readChunkSize      = 1024
)

// activeStates are the lifecycle states in which the accept loop keeps
// running; leaving the set ends the loop.
var activeStates = mapset.NewSet(unit.Starting, unit.Started)

// ServerUnit accepts inbound wire connections and dispatches each parsed
// request to a target unit. Every connection carries exactly one request
// and is closed once dispatch completes. The unit transitions to Stopped
// when its accept loop exits.
//
// GET requests carry their command in the query string
// (?type=<tag>&command=<value>); the type tag selects a per-type target
// when one is configured. POST requests carry a body decoded through the
// codec registry using the type tag from the query string.
type ServerUnit struct {
	unit.BaseUnit

	id          string
	runtime     *unit.Runtime
	registry    *codec.Registry
	logger      log.Logger
	port        int
	target      string
	typeTargets map[string]string
	readTimeout time.Duration
	listener    net.Listener
	scheduler   *unit.Scheduler
	closed      *atomic.Bool
	loop        sync.WaitGroup
}

var (
	_ unit.Unit       = (*ServerUnit)(nil)
	_ unit.Attributed = (*ServerUnit)(nil)
)

// NewServerUnit creates a ServerUnit decoding bodies with the given codec
// registry. Pass codec.NewDefaultRegistry() for the built-in payloads.
func NewServerUnit(registry *codec.Registry) *ServerUnit {
	return &ServerUnit{
		registry: registry,
		closed:   atomic.NewBool(false),
	}
}

// OnInit implements unit.Unit. The "target" setting is required; "port",
// "read-timeout" and per-type "target.<tag>" settings are optional.
func (s *ServerUnit) OnInit(ic *unit.InitContext) error {
	s.id = ic.ID()
	s.runtime = ic.Runtime()
	s.logger = ic.Logger()

	cfg := ic.Config()
	target, err := cfg.MustString(ConfigTarget)
	if err != nil {
		return err
	}
	s.target = target
	s.port = cfg.GetInt(ConfigPort, defaultPort)
	s.readTimeout = cfg.GetDuration(ConfigReadTimeout, defaultReadTimeout)
	s.typeTargets = make(map[string]string)
	for _, key := range cfg.Keys() {
		if len(key) > len(ConfigTargetPrefix) && key[:len(ConfigTargetPrefix)] == ConfigTargetPrefix {
			s.typeTargets[key[len(ConfigTargetPrefix):]] = cfg.GetString(key, "")
		}
	}
	return nil
}

// Start implements unit.Unit: it binds the listener and runs the accept
// loop on its own goroutine. The scheduler's bounded pool serves the
// per-connection workers only, so a transport never starves units that
// run their poll loops on the same pool.
func (s *ServerUnit) Start(context.Context) error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("binding port=(%d): %w", s.port, err)
	}
	s.listener = listener

	scheduler, err := s.runtime.Scheduler()
	if err != nil {
		_ = listener.Close()
		return err
	}
	s.scheduler = scheduler

	s.loop.Add(1)
	go s.run()
	s.logger.Infof("listening on port=(%d)", s.port)
	return nil
}

// Stop implements unit.Unit. It returns once the accept loop has exited.
func (s *ServerUnit) Stop(context.Context) error {
	s.close()
	s.loop.Wait()
	return nil
}

// Shutdown implements unit.Unit.
func (s *ServerUnit) Shutdown(context.Context) error {
	s.close()
	s.loop.Wait()
	return nil
}

// KnownAttributes implements unit.Attributed.
func (s *ServerUnit) KnownAttributes() []string {
	return []string{"port", "target"}
}

// Attribute implements unit.Attributed.
func (s *ServerUnit) Attribute(name string) (string, bool) {
	switch name {
	case "port":
		return strconv.Itoa(s.port), true
	case "target":
		return s.target, true
	default:
		return "", false
	}
}

func (s *ServerUnit) close() {
	if s.closed.CompareAndSwap(false, true) && s.listener != nil {
		_ = s.listener.Close()
	}
}

// run hosts the accept loop and retires the unit when the loop ends on
// its own. A listener that dies while the unit is still in an active
// state would otherwise leave a transport that reports live but accepts
// nothing, so the exit drives the unit to Stopped.
func (s *ServerUnit) run() {
	s.acceptLoop()
	s.loop.Done()
	if activeStates.Contains(s.state()) {
		if err := s.runtime.StopUnit(context.Background(), s.id); err != nil {
			s.logger.Errorf("stopping after accept loop exit: %v", err)
		}
	}
}

// acceptLoop runs on the unit's own goroutine for as long as the unit
// stays in an active lifecycle state. Each accepted connection is handed
// to a scheduler worker, which blocks until dispatch completes and then
// closes the connection. The bounded pool is the bound on request
// volume, which matches the robot-control traffic this transport serves.
func (s *ServerUnit) acceptLoop() {
	for activeStates.Contains(s.state()) {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.closed.Load() {
				s.logger.Errorf("accept failed: %v", err)
			}
			break
		}
		if err := s.scheduler.Submit(func() { s.handle(conn) }); err != nil {
			_ = conn.Close()
		}
	}
	s.logger.Infof("accept loop on port=(%d) ended", s.port)
}

func (s *ServerUnit) state() unit.State {
	ref, err := s.runtime.LocalReference(s.id)
	if err != nil {
		return unit.Shutdown
	}
	return ref.State()
}

// handle reads one request from the connection, dispatches it and closes
// the connection. Parse failures drop the connection without dispatch and
// never take the accept loop down.
func (s *ServerUnit) handle(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	request, err := ReadRequest(conn, s.readTimeout)
	if err != nil {
		s.logger.Errorf("dropping connection: %v", err)
		return
	}
	if err := s.dispatch(request); err != nil {
		s.logger.Errorf("dispatch failed: %v", err)
	}
}

// dispatch extracts the message from the parsed request and sends it to
// the resolved target unit.
func (s *ServerUnit) dispatch(request *Request) error {
	tag, _ := request.QueryParam(QueryParamType)
	targetID := s.target
	if mapped, ok := s.typeTargets[tag]; ok && mapped != "" {
		targetID = mapped
	}

	ref, err := s.runtime.Reference(targetID)
	if err != nil {
		return err
	}

	switch request.Method {
	case MethodGet:
		command, ok := request.QueryParam(QueryParamCommand)
		if !ok {
			return NewErrMalformedRequest("missing command parameter")
		}
		return ref.Send(command)
	case MethodPost:
		if tag == "" {
			tag = codec.TagSimpleCommand
		}
		message, err := s.registry.Decode(tag, string(request.Body))
		if err != nil {
			return err
		}
		return ref.Send(message)
	default:
		return NewErrMalformedRequest("method: " + request.Method)
	}
}

// ReadRequest reads from the connection until one full request has been
// parsed or the deadline elapses. A stream ending before the declared
// body length fails with ErrTruncatedBody.
func ReadRequest(conn net.Conn, timeout time.Duration) (*Request, error) {
	if timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
	}

	parser := NewParser()
	chunk := make([]byte, readChunkSize)
	for !parser.Complete() {
		n, err := conn.Read(chunk)
		if n > 0 {
			if ferr := parser.Feed(chunk[:n]); ferr != nil {
				return nil, ferr
			}
		}
		if err != nil {
			if parser.Complete() {
				break
			}
			if errors.Is(err, io.EOF) {
				return nil, ErrTruncatedBody
			}
			return nil, err
		}
	}
	return parser.Request()
}
