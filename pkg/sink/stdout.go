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

package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/linefold/linefold/pkg/fold"
	errors2 "github.com/logrange/range/pkg/utils/errors"
	"github.com/mitchellh/mapstructure"
)

type (
	stdoutConfig struct {
		Fold string
	}

	// stdoutSink writes to the process stdout, optionally through the fold
	// decorator. The sink has no capacity limit. stdout is not ours to
	// close, so Close only marks the sink closed.
	stdoutSink struct {
		w      io.Writer
		closed int32
	}
)

func newStdoutSink(params Params) (Sink, error) {
	scfg := &stdoutConfig{}
	if err := mapstructure.Decode(params, scfg); err != nil {
		return nil, fmt.Errorf("unable to decode Params=%v; %v", params, err)
	}

	m, err := fold.ByName(scfg.Fold)
	if err != nil {
		return nil, fmt.Errorf("invalid Fold param; %v", err)
	}

	ss := new(stdoutSink)
	ss.w = os.Stdout
	if m != nil {
		ss.w = fold.NewStream(os.Stdout, m)
	}
	return ss, nil
}

func (ss *stdoutSink) Write(ctx context.Context, p []byte) (Capacity, error) {
	if atomic.LoadInt32(&ss.closed) != 0 {
		return Terminated, errors2.ClosedState
	}

	_, err := ss.w.Write(p)
	return More, err
}

func (ss *stdoutSink) Close() error {
	atomic.StoreInt32(&ss.closed, 1)
	return nil
}

func (ss *stdoutSink) String() string {
	return "[stdout]"
}
