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
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	errors2 "github.com/logrange/range/pkg/utils/errors"
	"github.com/stretchr/testify/assert"
)

func TestFileSinkWritesAndFolds(t *testing.T) {
	dir, err := ioutil.TempDir("", "sinktest")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "out.txt")
	snk, err := NewSink(&Config{Type: SnkTypeFile,
		Params: Params{"Path": fn, "Fold": "lower"}})
	assert.NoError(t, err)

	cp, err := snk.Write(context.Background(), []byte("Alpha\n"))
	assert.NoError(t, err)
	assert.Equal(t, More, cp)

	// the data must survive Close through all the buffers
	assert.NoError(t, snk.Close())
	data, err := ioutil.ReadFile(fn)
	assert.NoError(t, err)
	assert.Equal(t, "alpha\n", string(data))
}

func TestFileSinkLimit(t *testing.T) {
	dir, err := ioutil.TempDir("", "sinktest")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	snk, err := NewSink(&Config{Type: SnkTypeFile,
		Params: Params{"Path": filepath.Join(dir, "out.txt"), "Limit": "10B"}})
	assert.NoError(t, err)
	defer snk.Close()

	cp, err := snk.Write(context.Background(), []byte("123456\n"))
	assert.NoError(t, err)
	assert.Equal(t, More, cp)

	// this write crosses the 10 bytes budget
	cp, err = snk.Write(context.Background(), []byte("789\n"))
	assert.NoError(t, err)
	assert.Equal(t, AtCapacity, cp)
}

func TestFileSinkClosedTerminates(t *testing.T) {
	dir, err := ioutil.TempDir("", "sinktest")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	snk, err := NewSink(&Config{Type: SnkTypeFile,
		Params: Params{"Path": filepath.Join(dir, "out.txt")}})
	assert.NoError(t, err)

	assert.NoError(t, snk.Close())
	assert.NoError(t, snk.Close())

	cp, err := snk.Write(context.Background(), []byte("no\n"))
	assert.Equal(t, Terminated, cp)
	assert.Equal(t, errors2.ClosedState, err)
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	snk := NewWriterSink(&buf)

	cp, err := snk.Write(context.Background(), []byte("abc"))
	assert.NoError(t, err)
	assert.Equal(t, More, cp)
	assert.Equal(t, "abc", buf.String())

	assert.NoError(t, snk.Close())
	_, err = snk.Write(context.Background(), []byte("no"))
	assert.Equal(t, errors2.ClosedState, err)
}

func TestNullSinkCounts(t *testing.T) {
	snk, err := NewSink(&Config{Type: SnkTypeNull})
	assert.NoError(t, err)

	cp, err := snk.Write(context.Background(), []byte("12345"))
	assert.NoError(t, err)
	assert.Equal(t, More, cp)
	assert.Equal(t, int64(5), snk.(*nullSink).written)
	assert.NoError(t, snk.Close())
}

func TestSinkConfigCheck(t *testing.T) {
	assert.Error(t, (&Config{Type: "whatever"}).Check())
	assert.Error(t, (&Config{Type: SnkTypeFile}).Check())
	assert.NoError(t, (&Config{Type: SnkTypeFile, Params: Params{"Path": "p"}}).Check())
	assert.NoError(t, (&Config{Type: SnkTypeStdout}).Check())
	assert.NoError(t, (&Config{Type: SnkTypeNull}).Check())
}
