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

package lines

import (
	"bytes"

	"github.com/linefold/linefold/pkg/fold"
)

type (
	// Filter decides whether an extracted record goes to the output. It
	// receives the record already transformed and without the trailing
	// delimiter. The slice is valid for the call duration only.
	Filter func(rec []byte) bool

	// Splitter extracts complete delimiter-terminated records from a Buffer,
	// transforming every record with the Mapper on the way out. A record is
	// complete only when its delimiter has been seen, so a trailing piece
	// with no delimiter is always left in the buffer untouched.
	Splitter struct {
		m   fold.Mapper
		f   Filter
		out []byte
	}
)

// delimiter terminates records in both the input and the output
const delimiter = '\n'

// NewSplitter creates a Splitter which transforms records with m. A nil m
// leaves the records as they are.
func NewSplitter(m fold.Mapper) *Splitter {
	return NewFilteredSplitter(m, nil)
}

// NewFilteredSplitter creates a Splitter which drops the records rejected by
// f. Dropped records are still counted as consumed bytes.
func NewFilteredSplitter(m fold.Mapper, f Filter) *Splitter {
	s := new(Splitter)
	s.m = m
	s.f = f
	return s
}

// Split extracts all complete records available in buf. Every record is
// transformed, checked against the filter, if any, and appended to the
// result together with a trailing delimiter, keeping the records order.
// An empty record, a delimiter right after another one, is a normal record
// of zero length.
//
// Split returns the records bytes, the exact number of bytes consumed from
// buf, including the delimiters of dropped records, and whether there is
// anything to write. The returned slice is valid until the next Split call.
func (s *Splitter) Split(buf *Buffer) ([]byte, int, bool) {
	s.out = s.out[:0]
	consumed := 0

	data := buf.Bytes()
	for {
		idx := bytes.IndexByte(data, delimiter)
		if idx < 0 {
			break
		}

		start := len(s.out)
		s.out = append(s.out, data[:idx]...)
		fold.Fold(s.m, s.out[start:])
		if s.f != nil && !s.f(s.out[start:]) {
			s.out = s.out[:start]
		} else {
			s.out = append(s.out, delimiter)
		}

		data = data[idx+1:]
		consumed += idx + 1
	}

	buf.Consume(consumed)
	return s.out, consumed, len(s.out) > 0
}
