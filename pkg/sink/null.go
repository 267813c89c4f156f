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
	"sync/atomic"

	errors2 "github.com/logrange/range/pkg/utils/errors"
)

type (
	// nullSink discards everything it gets, counting the bytes. It is the
	// baseline sink for benchmarking, the writes cost nothing here.
	nullSink struct {
		written int64
		closed  int32
	}
)

func newNullSink() Sink {
	return new(nullSink)
}

func (ns *nullSink) Write(ctx context.Context, p []byte) (Capacity, error) {
	if atomic.LoadInt32(&ns.closed) != 0 {
		return Terminated, errors2.ClosedState
	}

	atomic.AddInt64(&ns.written, int64(len(p)))
	return More, nil
}

func (ns *nullSink) Close() error {
	atomic.StoreInt32(&ns.closed, 1)
	return nil
}
