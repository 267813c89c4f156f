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
	"time"

	"github.com/jrivets/log4g"
	"github.com/linefold/linefold/pkg/fold"
	"github.com/linefold/linefold/pkg/utils"
	"github.com/logrange/range/pkg/utils/bytes"
	errors2 "github.com/logrange/range/pkg/utils/errors"
	"github.com/mitchellh/mapstructure"
)

type (
	fileConfig struct {
		ChunkConfig `mapstructure:",squash"`

		Path     string
		Follow   bool
		StartPos int64
		Fold     string
	}

	// fileSource reads a file chunk by chunk. In the follow mode it never
	// reports the end of data, but waits for the file to grow instead, like
	// tail does. The source tracks two offsets - how far the file has been
	// read and how big its released (fully processed) prefix is. The second
	// one is reported by Pos and may be persisted to continue the file from
	// the place a previous run stopped at.
	fileSource struct {
		cfg      *fileConfig
		t        fold.Target
		buf      []byte
		pool     *bytes.Pool
		readPos  int64
		relPos   int64
		eofSleep time.Duration
		closed   int32
		logger   log4g.Logger
	}
)

const sleepOnEOF = 200

func newFileSource(params Params) (Source, error) {
	fcfg := &fileConfig{ChunkConfig: ChunkConfig{ChunkSize: defaultChunkSize}}
	if err := mapstructure.Decode(params, fcfg); err != nil {
		return nil, fmt.Errorf("unable to decode Params=%v; %v", params, err)
	}
	if fcfg.Path == "" {
		return nil, fmt.Errorf("invalid Params=%v, must have non-empty Path", params)
	}
	if fcfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("invalid ChunkSize=%d, must be positive", fcfg.ChunkSize)
	}
	if fcfg.StartPos < 0 {
		return nil, fmt.Errorf("invalid StartPos=%d, must not be negative", fcfg.StartPos)
	}

	m, err := fold.ByName(fcfg.Fold)
	if err != nil {
		return nil, fmt.Errorf("invalid Fold param; %v", err)
	}

	f, err := os.Open(fcfg.Path)
	if err != nil {
		return nil, err
	}

	fs := new(fileSource)
	fs.cfg = fcfg
	fs.t = f
	if m != nil {
		fs.t = fold.NewStream(f, m)
	}

	if fcfg.StartPos > 0 {
		if _, err := fs.t.Seek(fcfg.StartPos, io.SeekStart); err != nil {
			fs.t.Close()
			return nil, err
		}
	}

	fs.readPos = fcfg.StartPos
	fs.relPos = fcfg.StartPos
	fs.pool = new(bytes.Pool)
	fs.buf = fs.pool.Arrange(fcfg.ChunkSize)
	fs.eofSleep = sleepOnEOF * time.Millisecond
	fs.logger = log4g.GetLogger("linefold.source").WithId(fmt.Sprintf("[file:%s]", fcfg.Path)).(log4g.Logger)
	fs.logger.Info("New file source ", fs)
	return fs, nil
}

func (fs *fileSource) Read(ctx context.Context) (Result, error) {
	if atomic.LoadInt32(&fs.closed) != 0 {
		return Result{}, errors2.ClosedState
	}

	for ctx.Err() == nil {
		n, err := fs.t.Read(fs.buf)
		if n > 0 {
			fs.readPos += int64(n)
			return Result{Data: fs.buf[:n], State: DataAvailable}, nil
		}

		if err == io.EOF {
			if !fs.cfg.Follow {
				return Result{State: EndOfData}, nil
			}
			// somebody can append the file later, wait for the data
			utils.Sleep(ctx, fs.eofSleep)
			continue
		}

		if err != nil {
			if atomic.LoadInt32(&fs.closed) != 0 {
				return Result{}, errors2.ClosedState
			}
			return Result{}, err
		}
	}
	return Result{State: Cancelled}, nil
}

func (fs *fileSource) Release(n int) {
	atomic.AddInt64(&fs.relPos, int64(n))
}

// Pos returns the offset of the released prefix of the file. A partially
// parsed tail is not included, so starting a new source from Pos never
// skips data.
func (fs *fileSource) Pos() int64 {
	return atomic.LoadInt64(&fs.relPos)
}

func (fs *fileSource) Close() error {
	if !atomic.CompareAndSwapInt32(&fs.closed, 0, 1) {
		return nil
	}

	fs.pool.Release(fs.buf)
	err := fs.t.Close()
	fs.logger.Info("Closed, readPos=", fs.readPos, ", releasedPos=", fs.Pos())
	return err
}

func (fs *fileSource) String() string {
	return fmt.Sprintf("{path=%s, follow=%t, startPos=%d, chunkSize=%d, fold=%q}",
		fs.cfg.Path, fs.cfg.Follow, fs.cfg.StartPos, fs.cfg.ChunkSize, fs.cfg.Fold)
}
