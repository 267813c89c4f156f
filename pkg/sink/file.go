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
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/jrivets/log4g"
	"github.com/linefold/linefold/pkg/fold"
	errors2 "github.com/logrange/range/pkg/utils/errors"
	"github.com/mitchellh/mapstructure"
)

type (
	fileConfig struct {
		Path    string
		Fold    string
		Limit   string
		BufSize int
	}

	// fileSink appends to a file through a bufio writer, optionally folding
	// the bytes on their way there. A non-empty Limit makes the sink report
	// AtCapacity as soon as the byte budget is spent, which lets the writing
	// loop stop pulling its source without the sink failing the write.
	fileSink struct {
		w       *bufio.Writer
		c       io.Closer
		limit   uint64
		written uint64
		closed  int32
		logger  log4g.Logger
	}
)

const defaultBufSize = 4096

func newFileSink(params Params) (Sink, error) {
	fcfg := &fileConfig{BufSize: defaultBufSize}
	if err := mapstructure.Decode(params, fcfg); err != nil {
		return nil, fmt.Errorf("unable to decode Params=%v; %v", params, err)
	}
	if fcfg.Path == "" {
		return nil, fmt.Errorf("invalid Params=%v, must have non-empty Path", params)
	}
	if fcfg.BufSize <= 0 {
		return nil, fmt.Errorf("invalid BufSize=%d, must be positive", fcfg.BufSize)
	}

	var limit uint64
	if fcfg.Limit != "" {
		var err error
		limit, err = humanize.ParseBytes(fcfg.Limit)
		if err != nil {
			return nil, fmt.Errorf("invalid Limit=%q; %v", fcfg.Limit, err)
		}
	}

	m, err := fold.ByName(fcfg.Fold)
	if err != nil {
		return nil, fmt.Errorf("invalid Fold param; %v", err)
	}

	f, err := os.OpenFile(fcfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, err
	}

	fs := new(fileSink)
	fs.c = f
	if m != nil {
		fs.c = fold.NewStream(f, m)
	}
	fs.w = bufio.NewWriterSize(fs.c.(io.Writer), fcfg.BufSize)
	fs.limit = limit
	fs.logger = log4g.GetLogger("linefold.sink").WithId(fmt.Sprintf("[file:%s]", fcfg.Path)).(log4g.Logger)
	fs.logger.Info("New file sink, limit=", limit, " bytes, bufSize=", fcfg.BufSize, ", fold=", fcfg.Fold)
	return fs, nil
}

func (fs *fileSink) Write(ctx context.Context, p []byte) (Capacity, error) {
	if atomic.LoadInt32(&fs.closed) != 0 {
		return Terminated, errors2.ClosedState
	}

	n, err := fs.w.Write(p)
	fs.written += uint64(n)
	if err != nil {
		return Terminated, err
	}

	if fs.limit > 0 && fs.written >= fs.limit {
		fs.logger.Info("The limit of ", fs.limit, " bytes is reached, written=", fs.written)
		return AtCapacity, nil
	}
	return More, nil
}

func (fs *fileSink) Close() error {
	if !atomic.CompareAndSwapInt32(&fs.closed, 0, 1) {
		return nil
	}

	err := fs.w.Flush()
	if cerr := fs.c.Close(); cerr != nil && err == nil {
		err = cerr
	}
	fs.logger.Info("Closed, written=", fs.written, " bytes, err=", err)
	return err
}
