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
	"bufio"
	"context"
	"io"

	"github.com/logrange/range/pkg/utils/bytes"
)

type (
	// Reader is a straightforward bufio based line reader. It has no notion
	// of consumption cursors or write capacity, it simply returns the input
	// line by line. The type exists as the baseline strategy for comparing
	// with the Pump and it silently accepts an unterminated last line, what
	// the Pump treats as a data integrity violation.
	Reader struct {
		r *bufio.Reader
	}
)

// NewReader creates a Reader over ioRdr with the internal buffer of bufSize
// bytes. Lines longer than the buffer are assembled by concatenation.
func NewReader(ioRdr io.Reader, bufSize int) *Reader {
	r := new(Reader)
	r.r = bufio.NewReaderSize(ioRdr, bufSize)
	return r
}

// ReadLine returns the next line without the trailing delimiter, or io.EOF
// when the input is over. The result is valid until the next ReadLine call,
// unless the line did not fit the buffer in one piece.
func (r *Reader) ReadLine(ctx context.Context) ([]byte, error) {
	var buf []byte
	for ctx.Err() == nil {
		line, err := r.r.ReadSlice(delimiter)
		if err == nil {
			return concatBufs(buf, line[:len(line)-1]), nil
		}

		if err == bufio.ErrBufferFull {
			// the line straddles the buffer, collect it piece by piece
			buf = concatBufs(buf, bytes.BytesCopy(line))
			continue
		}

		if err == io.EOF {
			buf = concatBufs(buf, line)
			if len(buf) == 0 {
				return nil, io.EOF
			}
			return buf, nil
		}
		return nil, err
	}
	return nil, io.ErrClosedPipe
}

func concatBufs(b1, b2 []byte) []byte {
	if len(b1) == 0 {
		return b2
	}
	nb := make([]byte, len(b1)+len(b2))
	copy(nb[:len(b1)], b1)
	copy(nb[len(b1):], b2)
	return nb
}
