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
	"sync/atomic"

	errors2 "github.com/logrange/range/pkg/utils/errors"
)

type (
	// ChunksSource replays a fixed script of chunks, one chunk per Read
	// call, and reports the end of data when the script is over. It exists
	// for tests and demos, which need the full control over how the input
	// is cut into pieces.
	ChunksSource struct {
		chunks [][]byte
		idx    int
		rel    int64
		closed int32
	}
)

// NewChunksSource creates a Source which returns the provided chunks one by
// one in their order. The chunks are not copied.
func NewChunksSource(chunks ...[]byte) *ChunksSource {
	cs := new(ChunksSource)
	cs.chunks = chunks
	return cs
}

func (cs *ChunksSource) Read(ctx context.Context) (Result, error) {
	if atomic.LoadInt32(&cs.closed) != 0 {
		return Result{}, errors2.ClosedState
	}
	if ctx.Err() != nil {
		return Result{State: Cancelled}, nil
	}

	if cs.idx >= len(cs.chunks) {
		return Result{State: EndOfData}, nil
	}

	data := cs.chunks[cs.idx]
	cs.idx++
	return Result{Data: data, State: DataAvailable}, nil
}

func (cs *ChunksSource) Release(n int) {
	atomic.AddInt64(&cs.rel, int64(n))
}

// Released returns how many bytes have been released so far
func (cs *ChunksSource) Released() int64 {
	return atomic.LoadInt64(&cs.rel)
}

// Reads returns how many chunks have been handed out so far
func (cs *ChunksSource) Reads() int {
	return cs.idx
}

func (cs *ChunksSource) Close() error {
	atomic.StoreInt32(&cs.closed, 1)
	return nil
}

// Closed reports whether Close has been called at least once
func (cs *ChunksSource) Closed() bool {
	return atomic.LoadInt32(&cs.closed) != 0
}
