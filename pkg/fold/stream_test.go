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
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testTarget struct {
	data    []byte
	pos     int
	written [][]byte
	flushes int
	closes  int
}

func (tt *testTarget) Read(p []byte) (int, error) {
	if tt.pos >= len(tt.data) {
		return 0, io.EOF
	}
	n := copy(p, tt.data[tt.pos:])
	tt.pos += n
	return n, nil
}

func (tt *testTarget) Write(p []byte) (int, error) {
	b := make([]byte, len(p))
	copy(b, p)
	tt.written = append(tt.written, b)
	return len(p), nil
}

func (tt *testTarget) Seek(offset int64, whence int) (int64, error) {
	tt.pos = int(offset)
	return offset, nil
}

func (tt *testTarget) Flush() error {
	tt.flushes++
	return nil
}

func (tt *testTarget) Close() error {
	tt.closes++
	return nil
}

func TestStreamRead(t *testing.T) {
	tt := &testTarget{data: []byte("Hello, WORLD")}
	s := NewStream(tt, Lower)

	res, err := ioutil.ReadAll(s)
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello, world"), res)
}

func TestStreamWrite(t *testing.T) {
	tt := &testTarget{}
	s := NewStream(tt, Lower)

	src := []byte("First CHUNK|")
	n, err := s.Write(src)
	assert.NoError(t, err)
	assert.Equal(t, len(src), n)
	_, err = s.Write([]byte("Second Chunk"))
	assert.NoError(t, err)

	// the caller's buffer must be kept intact
	assert.Equal(t, []byte("First CHUNK|"), src)

	// chunk sizes and order must be kept as well
	assert.Equal(t, 2, len(tt.written))
	assert.Equal(t, []byte("first chunk|"), tt.written[0])
	assert.Equal(t, []byte("second chunk"), tt.written[1])
}

func TestStreamTransparent(t *testing.T) {
	tt := &testTarget{data: []byte("As Is")}
	s := NewStream(tt, nil)

	res, err := ioutil.ReadAll(s)
	assert.NoError(t, err)
	assert.Equal(t, []byte("As Is"), res)

	_, err = s.Write([]byte("As Is"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("As Is"), tt.written[0])
}

func TestStreamCloseOnce(t *testing.T) {
	tt := &testTarget{}
	s := NewStream(tt, Lower)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Equal(t, 1, tt.closes)
	// flush must happen before the close and only once
	assert.Equal(t, 1, tt.flushes)

	_, err := s.Write([]byte("too late"))
	assert.Error(t, err)
	_, err = s.Read(make([]byte, 10))
	assert.Error(t, err)
}

func TestStreamFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "streamFileTest")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	fn := path.Join(dir, "data.txt")
	f, err := os.Create(fn)
	assert.NoError(t, err)

	s := NewStream(f, Lower)
	_, err = s.Write([]byte("Alpha\nBeta\n"))
	assert.NoError(t, err)
	assert.NoError(t, s.Close())

	res, err := ioutil.ReadFile(fn)
	assert.NoError(t, err)
	assert.Equal(t, []byte("alpha\nbeta\n"), res)

	// read the folded file back through the decorator, skipping the first
	// record via Seek
	f, err = os.Open(fn)
	assert.NoError(t, err)
	s = NewStream(f, Upper)
	off, err := s.Seek(6, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), off)

	res, err = ioutil.ReadAll(s)
	assert.NoError(t, err)
	assert.Equal(t, []byte("BETA\n"), res)
	assert.NoError(t, s.Close())
}
