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

import "fmt"

type (
	// Buffer keeps bytes which have been received, but not parsed into
	// complete records yet. It is a growable arena with an explicit consumed
	// offset: Append adds bytes to the tail of the unconsumed part and
	// Consume cuts bytes from its head. Bytes reported consumed are never
	// visible again.
	Buffer struct {
		buf  []byte
		offs int
	}
)

// Append adds p to the tail of the unconsumed part. The storage grows by 3/2
// when the new data doesn't fit, or is compacted in place when the consumed
// prefix alone gives enough room.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	rest := len(b.buf) - b.offs
	need := rest + len(p)
	if need > cap(b.buf) {
		newSize := cap(b.buf) * 3 / 2
		if newSize < need {
			newSize = need
		}
		nb := make([]byte, rest, newSize)
		copy(nb, b.buf[b.offs:])
		b.buf = nb
		b.offs = 0
	} else if len(b.buf)+len(p) > cap(b.buf) {
		copy(b.buf, b.buf[b.offs:])
		b.buf = b.buf[:rest]
		b.offs = 0
	}
	b.buf = append(b.buf, p...)
}

// Bytes returns the unconsumed part of the buffer. The slice is valid until
// the next Append, Consume or Reset call.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.offs:]
}

// Consume cuts n bytes from the head of the unconsumed part. It panics if n
// is out of the [0..Len()] range.
func (b *Buffer) Consume(n int) {
	if n < 0 || n > b.Len() {
		panic(fmt.Sprintf("could not consume %d bytes, unconsumed len=%d", n, b.Len()))
	}

	b.offs += n
	if b.offs == len(b.buf) {
		b.buf = b.buf[:0]
		b.offs = 0
	}
}

// Len returns the size of the unconsumed part
func (b *Buffer) Len() int {
	return len(b.buf) - b.offs
}

// Reset drops all the data, but keeps the storage for further use
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.offs = 0
}

func (b *Buffer) String() string {
	return fmt.Sprintf("{len=%d, offs=%d, cap=%d}", b.Len(), b.offs, cap(b.buf))
}
