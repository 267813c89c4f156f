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

package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/jrivets/log4g"
	"github.com/logrange/range/pkg/utils/bytes"
	errors2 "github.com/logrange/range/pkg/utils/errors"
	"github.com/mitchellh/mapstructure"
)

type (
	// readerSource pumps chunks out of an io.Reader. It owns one chunk
	// buffer, arranged from the pool, which is reused by every Read call.
	readerSource struct {
		r      io.Reader
		c      io.Closer
		buf    []byte
		pool   *bytes.Pool
		read   int64
		rel    int64
		closed int32
		logger log4g.Logger
	}

	stdinConfig struct {
		ChunkConfig `mapstructure:",squash"`
	}
)

func newReaderSource(r io.Reader, c io.Closer, chunkSize int, name string) *readerSource {
	rs := new(readerSource)
	rs.r = r
	rs.c = c
	rs.pool = new(bytes.Pool)
	rs.buf = rs.pool.Arrange(chunkSize)
	rs.logger = log4g.GetLogger("linefold.source").WithId("[" + name + "]").(log4g.Logger)
	return rs
}

func newStdinSource(params Params) (Source, error) {
	scfg := &stdinConfig{ChunkConfig{ChunkSize: defaultChunkSize}}
	if err := mapstructure.Decode(params, scfg); err != nil {
		return nil, fmt.Errorf("unable to decode Params=%v; %v", params, err)
	}
	if scfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("invalid ChunkSize=%d, must be positive", scfg.ChunkSize)
	}

	// stdin is not ours to close
	return newReaderSource(os.Stdin, nil, scfg.ChunkSize, "stdin"), nil
}

func (rs *readerSource) Read(ctx context.Context) (Result, error) {
	if atomic.LoadInt32(&rs.closed) != 0 {
		return Result{}, errors2.ClosedState
	}

	for ctx.Err() == nil {
		n, err := rs.r.Read(rs.buf)
		if n > 0 {
			rs.read += int64(n)
			return Result{Data: rs.buf[:n], State: DataAvailable}, nil
		}

		if err == io.EOF {
			return Result{State: EndOfData}, nil
		}

		if err != nil {
			if ctx.Err() != nil {
				// the read was interrupted by the cancellation
				break
			}
			return Result{}, err
		}
	}
	return Result{State: Cancelled}, nil
}

func (rs *readerSource) Release(n int) {
	atomic.AddInt64(&rs.rel, int64(n))
}

func (rs *readerSource) Close() error {
	if !atomic.CompareAndSwapInt32(&rs.closed, 0, 1) {
		return nil
	}

	rs.pool.Release(rs.buf)
	rs.logger.Debug("Closed, read=", rs.read, " bytes, released=", atomic.LoadInt64(&rs.rel))
	if rs.c != nil {
		return rs.c.Close()
	}
	return nil
}
