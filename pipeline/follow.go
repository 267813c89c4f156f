// Copyright 2018-2019 The linefold Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrivets/log4g"
	"github.com/linefold/linefold/pkg/pump"
	"github.com/linefold/linefold/pkg/sink"
	"github.com/linefold/linefold/pkg/source"
	"github.com/linefold/linefold/pkg/storage"
	"github.com/linefold/linefold/pkg/utils"
	"github.com/logrange/linker"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

type (
	// Service is the long-running follow mode - it tails the configured
	// file source, pumping new records to the sink and persisting the
	// source position, so a restart continues from the last released
	// offset. The fields are set up by the injector.
	Service struct {
		Config *Config `inject:""`
		Cursor *Cursor `inject:""`

		logger log4g.Logger
		cancel context.CancelFunc
		wg     sync.WaitGroup
	}

	// positioner is what the source must provide to make its position
	// persistent
	positioner interface {
		Pos() int64
	}
)

// Follow runs the follow mode until ctx is closed. The components are wired
// by the linker injector and torn down in the dependency order on exit.
func Follow(ctx context.Context, cfg *Config) error {
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid config; %v", err)
	}

	store, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage, err=%v", err)
	}

	injector := linker.New()
	injector.SetLogger(log4g.GetLogger("linefold.injector"))
	injector.Register(
		linker.Component{Name: "", Value: cfg},
		linker.Component{Name: "", Value: store},
		linker.Component{Name: "", Value: NewCursor()},
		linker.Component{Name: "", Value: NewService()},
	)
	injector.Init(ctx)

	select {
	case <-ctx.Done():
	}
	injector.Shutdown()
	return nil
}

//===================== service =====================

// NewService creates the follow Service, its dependencies come from the
// injection
func NewService() *Service {
	s := new(Service)
	s.logger = log4g.GetLogger("linefold.follow")
	return s
}

// Init provides an implementation of linker.Initializer interface
func (s *Service) Init(actx context.Context) error {
	if s.Config.Source.Type != source.SrcTypeFile {
		return fmt.Errorf("follow mode supports the %q source only, but type=%v",
			source.SrcTypeFile, s.Config.Source.Type)
	}

	path, ok := s.Config.Source.Params["Path"].(string)
	if !ok {
		return fmt.Errorf("invalid source Params=%v, Path must be a string", s.Config.Source.Params)
	}

	spl, err := newSplitter(s.Config)
	if err != nil {
		return err
	}

	// the source config is adjusted for tailing, the caller's one stays intact
	scfg := deepcopy.Copy(s.Config.Source).(*source.Config)
	if scfg.Params == nil {
		scfg.Params = source.Params{}
	}
	scfg.Params["Follow"] = true
	scfg.Params["StartPos"] = s.Cursor.LoadPos(path)

	src, err := source.NewSource(scfg)
	if err != nil {
		return errors.Wrapf(err, "could not create the source by %s", scfg)
	}

	snk, err := sink.NewSink(s.Config.Sink)
	if err != nil {
		_ = src.Close()
		return errors.Wrapf(err, "could not create the sink by %s", s.Config.Sink)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	psrc, _ := src.(positioner)
	s.runPump(ctx, pump.New(src, snk, spl), cancel)
	s.runPersistPos(ctx, path, psrc)
	return nil
}

// Shutdown provides an implementation of linker.Shutdowner interface
func (s *Service) Shutdown() {
	s.logger.Info("Shutting down...")
	s.cancel()
	if !utils.WaitWaitGroup(&s.wg, time.Minute) {
		s.logger.Error("Shutdown timeout.")
		return
	}
	s.logger.Info("Shutdown.")
}

func (s *Service) runPump(ctx context.Context, p *pump.Pump, cancel context.CancelFunc) {
	s.wg.Add(1)
	go func() {
		if err := p.Run(ctx); err != nil {
			s.logger.Error("The pump failed, err=", err)
		}
		// a stopped pump stops the position persisting as well
		cancel()
		s.wg.Done()
	}()
}

func (s *Service) runPersistPos(ctx context.Context, path string, psrc positioner) {
	if psrc == nil {
		s.logger.Warn("The source reports no position, nothing to persist.")
		return
	}

	s.logger.Info("Persisting the position every ", s.Config.StateSaveIntervalSec, " seconds...")
	ticker := time.NewTicker(time.Second * time.Duration(s.Config.StateSaveIntervalSec))

	s.wg.Add(1)
	go func() {
		for utils.Wait(ctx, ticker) {
			if err := s.Cursor.SavePos(path, psrc.Pos()); err != nil {
				s.logger.Error("Unable to persist the position, err=", err)
			}
		}
		_ = s.Cursor.SavePos(path, psrc.Pos())
		ticker.Stop()
		s.logger.Warn("Persisting the position stopped.")
		s.wg.Done()
	}()
}
