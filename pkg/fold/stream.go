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

package fold

import (
	"io"
	"sync/atomic"

	"github.com/logrange/range/pkg/utils/bytes"
	errors2 "github.com/logrange/range/pkg/utils/errors"
)

type (
	// Target is what a Stream wraps - anything that can be read, written,
	// positioned and closed. os.File satisfies the interface.
	Target interface {
		io.Reader
		io.Writer
		io.Seeker
		io.Closer
	}

	// Stream decorates a Target, applying a Mapper to all the bytes read from
	// it and all the bytes written to it. Chunk sizes and their order are kept
	// intact in both directions and no data is buffered between the calls,
	// what is possible cause the Mapper transforms every byte independently.
	// Seek is forwarded to the Target as is. A Stream with a nil Mapper is
	// fully transparent.
	Stream struct {
		t      Target
		m      Mapper
		pool   *bytes.Pool
		closed int32
	}

	flusher interface {
		Flush() error
	}
)

// NewStream returns a Stream which wraps t applying m in both directions
func NewStream(t Target, m Mapper) *Stream {
	s := new(Stream)
	s.t = t
	s.m = m
	s.pool = new(bytes.Pool)
	return s
}

// Read fills p from the wrapped Target and applies the Mapper to the bytes
// actually read before returning them
func (s *Stream) Read(p []byte) (int, error) {
	if atomic.LoadInt32(&s.closed) != 0 {
		return 0, errors2.ClosedState
	}

	n, err := s.t.Read(p)
	if n > 0 {
		Fold(s.m, p[:n])
	}
	return n, err
}

// Write sends the transformed copy of p to the wrapped Target. p itself is
// never modified, the transformation happens in a buffer arranged from the
// pool for the call.
func (s *Stream) Write(p []byte) (int, error) {
	if atomic.LoadInt32(&s.closed) != 0 {
		return 0, errors2.ClosedState
	}

	if s.m == nil || len(p) == 0 {
		return s.t.Write(p)
	}

	buf := s.pool.Arrange(len(p))
	FoldCopy(s.m, buf, p)
	n, err := s.t.Write(buf)
	s.pool.Release(buf)
	return n, err
}

// Seek forwards the call to the wrapped Target
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if atomic.LoadInt32(&s.closed) != 0 {
		return 0, errors2.ClosedState
	}
	return s.t.Seek(offset, whence)
}

// Close flushes the wrapped Target, if it supports flushing, and closes it.
// The Target is closed exactly once, repeating calls do nothing and return
// nil.
func (s *Stream) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	var err error
	if f, ok := s.t.(flusher); ok {
		err = f.Flush()
	}

	if cerr := s.t.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
