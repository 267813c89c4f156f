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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	errors2 "github.com/logrange/range/pkg/utils/errors"
	"github.com/stretchr/testify/assert"
)

func TestFileSourceReadsWholeFile(t *testing.T) {
	fn := writeTmpFile(t, "Alpha\nBeta\n")
	defer os.Remove(fn)

	src, err := NewSource(&Config{Type: SrcTypeFile,
		Params: Params{"Path": fn, "ChunkSize": 4}})
	assert.NoError(t, err)
	defer src.Close()

	read := readAll(t, src)
	assert.Equal(t, "Alpha\nBeta\n", string(read))
}

func TestFileSourceStartPos(t *testing.T) {
	fn := writeTmpFile(t, "Alpha\nBeta\n")
	defer os.Remove(fn)

	src, err := NewSource(&Config{Type: SrcTypeFile,
		Params: Params{"Path": fn, "StartPos": 6}})
	assert.NoError(t, err)
	defer src.Close()

	read := readAll(t, src)
	assert.Equal(t, "Beta\n", string(read))
}

func TestFileSourceFoldsOnRead(t *testing.T) {
	fn := writeTmpFile(t, "MiXeD\n")
	defer os.Remove(fn)

	src, err := NewSource(&Config{Type: SrcTypeFile,
		Params: Params{"Path": fn, "Fold": "lower"}})
	assert.NoError(t, err)
	defer src.Close()

	read := readAll(t, src)
	assert.Equal(t, "mixed\n", string(read))
}

func TestFileSourceFollowWaitsForData(t *testing.T) {
	fn := writeTmpFile(t, "First\n")

	src, err := NewSource(&Config{Type: SrcTypeFile,
		Params: Params{"Path": fn, "Follow": true}})
	assert.NoError(t, err)
	defer src.Close()
	defer os.Remove(fn)

	res, err := src.Read(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, DataAvailable, res.State)
	assert.Equal(t, "First\n", string(res.Data))

	// at the file end the source waits instead of reporting EndOfData
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	res, err = src.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, Cancelled, res.State)

	// appended data wakes the source up
	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_APPEND, 0640)
	assert.NoError(t, err)
	f.WriteString("Second\n")
	f.Close()

	res, err = src.Read(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, DataAvailable, res.State)
	assert.Equal(t, "Second\n", string(res.Data))
}

func TestFileSourcePosCountsReleasedOnly(t *testing.T) {
	fn := writeTmpFile(t, "Alpha\nBet")
	defer os.Remove(fn)

	src, err := NewSource(&Config{Type: SrcTypeFile,
		Params: Params{"Path": fn}})
	assert.NoError(t, err)
	defer src.Close()

	readAll(t, src)
	fs := src.(*fileSource)
	assert.Equal(t, int64(0), fs.Pos())

	// the complete record is parsed, the partial tail is not
	src.Release(6)
	assert.Equal(t, int64(6), fs.Pos())
}

func TestFileSourceClosedState(t *testing.T) {
	fn := writeTmpFile(t, "data\n")
	defer os.Remove(fn)

	src, err := NewSource(&Config{Type: SrcTypeFile, Params: Params{"Path": fn}})
	assert.NoError(t, err)

	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())

	_, err = src.Read(context.Background())
	assert.Equal(t, errors2.ClosedState, err)
}

func TestChunksSourceScript(t *testing.T) {
	src := NewChunksSource([]byte("Al"), []byte("pha\n"))

	res, err := src.Read(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, DataAvailable, res.State)
	assert.Equal(t, "Al", string(res.Data))

	res, err = src.Read(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "pha\n", string(res.Data))

	res, err = src.Read(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, EndOfData, res.State)

	src.Release(6)
	assert.Equal(t, int64(6), src.Released())
	assert.Equal(t, 2, src.Reads())
}

func TestConfigCheck(t *testing.T) {
	assert.Error(t, (&Config{Type: "whatever"}).Check())
	assert.Error(t, (&Config{Type: SrcTypeFile}).Check())
	assert.Error(t, (&Config{Type: SrcTypeHttp, Params: Params{"Path": "p"}}).Check())
	assert.NoError(t, (&Config{Type: SrcTypeFile, Params: Params{"Path": "p"}}).Check())
	assert.NoError(t, (&Config{Type: SrcTypeStdin}).Check())
}

func writeTmpFile(t *testing.T, data string) string {
	dir, err := ioutil.TempDir("", "sourcetest")
	assert.NoError(t, err)
	fn := filepath.Join(dir, "input.txt")
	assert.NoError(t, ioutil.WriteFile(fn, []byte(data), 0640))
	return fn
}

func readAll(t *testing.T, src Source) []byte {
	var read []byte
	for {
		res, err := src.Read(context.Background())
		assert.NoError(t, err)
		if res.State != DataAvailable {
			assert.Equal(t, EndOfData, res.State)
			return read
		}
		read = append(read, res.Data...)
	}
}
