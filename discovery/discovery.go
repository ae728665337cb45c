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

// Package discovery announces a runtime's wire endpoint over mDNS and
// finds runtimes announced by other hosts on the local network, so a
// client view can be built without hard-coding addresses.
package discovery

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/grandcat/zeroconf"
	"go.uber.org/atomic"

	"github.com/robokit-io/robokit/internal/validation"
)

// ErrNotAnnounced is returned when lookups are attempted before Announce.
var ErrNotAnnounced = errors.New("discovery service not announced")

// ErrAlreadyAnnounced is returned when Announce is called twice.
var ErrAlreadyAnnounced = errors.New("discovery service already announced")

const defaultBrowseTimeout = 5 * time.Second

// Config describes how a runtime announces itself.
type Config struct {
	// InstanceName is the unique name of this runtime on the network.
	InstanceName string
	// Service is the mDNS service type, e.g. "_robokit._tcp".
	Service string
	// Domain is the mDNS domain, usually "local.".
	Domain string
	// Port is the wire transport port being announced.
	Port int
	// BrowseTimeout bounds each Lookup. Defaults to 5 seconds.
	BrowseTimeout time.Duration
}

// Validate checks the announcement configuration.
func (x Config) Validate() error {
	return validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("InstanceName", x.InstanceName)).
		AddValidator(validation.NewEmptyStringValidator("Service", x.Service)).
		AddValidator(validation.NewEmptyStringValidator("Domain", x.Domain)).
		AddAssertion(x.Port > 0, "the [Port] must be positive").
		Validate()
}

// Service announces one runtime over mDNS and resolves peers announcing
// the same service type.
type Service struct {
	config    Config
	mu        sync.Mutex
	announced *atomic.Bool
	resolver  *zeroconf.Resolver
	server    *zeroconf.Server
}

// NewService creates a discovery Service for the given configuration.
func NewService(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = defaultBrowseTimeout
	}
	return &Service{
		config:    config,
		announced: atomic.NewBool(false),
	}, nil
}

// Announce registers this runtime's endpoint on the local network.
func (s *Service) Announce() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.announced.Load() {
		return ErrAlreadyAnnounced
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return err
	}
	s.resolver = resolver

	server, err := zeroconf.Register(
		s.config.InstanceName,
		s.config.Service,
		s.config.Domain,
		s.config.Port,
		[]string{"txtv=0"},
		nil)
	if err != nil {
		return err
	}
	s.server = server
	s.announced.Store(true)
	return nil
}

// Lookup browses the network and returns the "host:port" wire addresses
// of every runtime announcing the configured service type.
func (s *Service) Lookup(ctx context.Context) ([]string, error) {
	if !s.announced.Load() {
		return nil, ErrNotAnnounced
	}

	entries := make(chan *zeroconf.ServiceEntry, 100)
	ctx, cancel := context.WithTimeout(ctx, s.config.BrowseTimeout)
	defer cancel()

	if err := s.resolver.Browse(ctx, s.config.Service, s.config.Domain, entries); err != nil {
		return nil, err
	}
	<-ctx.Done()

	addresses := goset.NewSet[string]()
	for entry := range entries {
		if entry.Service != s.config.Service || entry.Domain != s.config.Domain {
			continue
		}
		for _, addr := range entry.AddrIPv4 {
			addresses.Add(net.JoinHostPort(addr.String(), strconv.Itoa(entry.Port)))
		}
	}
	return addresses.ToSlice(), nil
}

// Withdraw removes the announcement. Idempotent.
func (s *Service) Withdraw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.announced.CompareAndSwap(true, false) {
		return
	}
	if s.server != nil {
		s.server.Shutdown()
		s.server = nil
	}
}
