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

	"github.com/jrivets/log4g"
	"github.com/linefold/linefold/pkg/flt"
	"github.com/linefold/linefold/pkg/fold"
	"github.com/linefold/linefold/pkg/lines"
	"github.com/linefold/linefold/pkg/pump"
	"github.com/linefold/linefold/pkg/sink"
	"github.com/linefold/linefold/pkg/source"
)

var logger = log4g.GetLogger("linefold.pipeline")

// Run executes one pipeline over the source and sink from the config and
// returns when the source is over, the sink is full, ctx is closed or the
// run fails
func Run(ctx context.Context, cfg *Config) error {
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid config; %v", err)
	}

	spl, err := newSplitter(cfg)
	if err != nil {
		return err
	}

	src, err := source.NewSource(cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to create source, err=%v", err)
	}
	snk, err := sink.NewSink(cfg.Sink)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("failed to create sink, err=%v", err)
	}

	logger.Info("Running, cfg=", cfg)
	return pump.New(src, snk, spl).Run(ctx)
}

// newSplitter builds the splitter with the mapper and, optionally, the
// record filter configured. The filter matches the already folded records.
func newSplitter(cfg *Config) (*lines.Splitter, error) {
	m, err := fold.ByName(cfg.Fold)
	if err != nil {
		return nil, err
	}

	if cfg.Filter == "" {
		return lines.NewSplitter(m), nil
	}

	lf, err := flt.BuildLineFunc(cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("bad filter expression %q; %v", cfg.Filter, err)
	}
	return lines.NewFilteredSplitter(m, lines.Filter(lf)), nil
}
