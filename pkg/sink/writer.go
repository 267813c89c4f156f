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
	"io"
	"sync/atomic"

	errors2 "github.com/logrange/range/pkg/utils/errors"
)

type (
	// writerSink adapts a plain io.Writer to the Sink contract. It never
	// reports any capacity pressure. The writer is closed by Close when it
	// happens to be an io.Closer.
	writerSink struct {
		w      io.Writer
		closed int32
	}
)

// NewWriterSink wraps w into a Sink with no capacity limit
func NewWriterSink(w io.Writer) Sink {
	ws := new(writerSink)
	ws.w = w
	return ws
}

func (ws *writerSink) Write(ctx context.Context, p []byte) (Capacity, error) {
	if atomic.LoadInt32(&ws.closed) != 0 {
		return Terminated, errors2.ClosedState
	}

	_, err := ws.w.Write(p)
	return More, err
}

func (ws *writerSink) Close() error {
	if !atomic.CompareAndSwapInt32(&ws.closed, 0, 1) {
		return nil
	}
	if c, ok := ws.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
