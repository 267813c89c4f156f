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

package pipeline

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/linefold/linefold/pkg/sink"
	"github.com/linefold/linefold/pkg/source"
	"github.com/linefold/linefold/pkg/storage"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, NewDefaultConfig().Check())
}

func TestConfigApply(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Apply(&Config{Fold: "upper", Filter: "line CONTAINS abc", StateSaveIntervalSec: 3})

	assert.Equal(t, "upper", cfg.Fold)
	assert.Equal(t, "line CONTAINS abc", cfg.Filter)
	assert.Equal(t, 3, cfg.StateSaveIntervalSec)
	// untouched fields keep their defaults
	assert.Equal(t, source.SrcTypeStdin, cfg.Source.Type)
}

func TestConfigCheckRejectsBadFilter(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Filter = "line CONTAINS ((("
	assert.Error(t, cfg.Check())

	cfg = NewDefaultConfig()
	cfg.Fold = "whatever"
	assert.Error(t, cfg.Check())
}

func TestRunFileToFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "pipelinetest")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	assert.NoError(t, ioutil.WriteFile(in, []byte("Alpha\nBeta\nGamma\n"), 0640))

	cfg := NewDefaultConfig()
	cfg.Source = &source.Config{Type: source.SrcTypeFile, Params: source.Params{"Path": in}}
	cfg.Sink = &sink.Config{Type: sink.SnkTypeFile, Params: sink.Params{"Path": out}}

	assert.NoError(t, Run(context.Background(), cfg))

	data, err := ioutil.ReadFile(out)
	assert.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\ngamma\n", string(data))
}

func TestRunWithFilter(t *testing.T) {
	dir, err := ioutil.TempDir("", "pipelinetest")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	assert.NoError(t, ioutil.WriteFile(in, []byte("Keep Me\nDrop me\n"), 0640))

	cfg := NewDefaultConfig()
	cfg.Source = &source.Config{Type: source.SrcTypeFile, Params: source.Params{"Path": in}}
	cfg.Sink = &sink.Config{Type: sink.SnkTypeFile, Params: sink.Params{"Path": out}}
	// the filter sees the folded records
	cfg.Filter = "line PREFIX keep"

	assert.NoError(t, Run(context.Background(), cfg))

	data, err := ioutil.ReadFile(out)
	assert.NoError(t, err)
	assert.Equal(t, "keep me\n", string(data))
}

func TestCursorLoadSave(t *testing.T) {
	c := NewCursor()
	c.Storage = storage.NewDefaultStorage()

	assert.Equal(t, int64(0), c.LoadPos("/var/log/app.log"))

	assert.NoError(t, c.SavePos("/var/log/app.log", 42))
	assert.Equal(t, int64(42), c.LoadPos("/var/log/app.log"))

	// a position of another file is not reused
	assert.Equal(t, int64(0), c.LoadPos("/var/log/other.log"))
}
