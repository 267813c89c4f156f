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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferAppendConsume(t *testing.T) {
	var b Buffer
	assert.Equal(t, 0, b.Len())

	b.Append([]byte("abc"))
	b.Append([]byte("def"))
	assert.Equal(t, []byte("abcdef"), b.Bytes())

	b.Consume(4)
	assert.Equal(t, []byte("ef"), b.Bytes())
	assert.Equal(t, 2, b.Len())

	b.Consume(2)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, len(b.Bytes()))
}

func TestBufferConsumedNeverVisible(t *testing.T) {
	var b Buffer
	b.Append([]byte("0123456789"))
	b.Consume(3)

	// new appends must land right after the unconsumed tail
	b.Append([]byte("ab"))
	assert.Equal(t, []byte("3456789ab"), b.Bytes())
}

func TestBufferCompaction(t *testing.T) {
	var b Buffer
	b.Append(make([]byte, 100))
	b.Consume(90)
	before := cap(b.buf)

	// 10 unconsumed bytes, the consumed prefix must be reclaimed in place
	b.Append(make([]byte, 80))
	assert.Equal(t, 90, b.Len())
	assert.Equal(t, before, cap(b.buf))
	assert.Equal(t, 0, b.offs)
}

func TestBufferGrowth(t *testing.T) {
	var b Buffer
	for i := 0; i < 100; i++ {
		b.Append([]byte("some data to make the buffer grow"))
	}
	assert.Equal(t, 3400, b.Len())
	assert.True(t, cap(b.buf) >= 3400)
}

func TestBufferConsumeOutOfRange(t *testing.T) {
	var b Buffer
	b.Append([]byte("abc"))
	assert.Panics(t, func() { b.Consume(4) })
	assert.Panics(t, func() { b.Consume(-1) })
	b.Consume(3)
}

func TestBufferReset(t *testing.T) {
	var b Buffer
	b.Append([]byte("something"))
	b.Consume(2)
	b.Reset()
	assert.Equal(t, 0, b.Len())
	b.Append([]byte("xy"))
	assert.Equal(t, []byte("xy"), b.Bytes())
}
