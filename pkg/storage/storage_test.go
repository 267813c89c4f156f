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

package storage

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemStorageReadWrite(t *testing.T) {
	s, err := NewStorage(&Config{Type: TypeInMem})
	assert.NoError(t, err)

	_, err = s.ReadData("nothing-here")
	assert.Equal(t, os.ErrNotExist, err)

	assert.NoError(t, s.WriteData("key1", []byte("value1")))
	data, err := s.ReadData("key1")
	assert.NoError(t, err)
	assert.Equal(t, "value1", string(data))
}

func TestFileStorageReadWrite(t *testing.T) {
	dir, err := ioutil.TempDir("", "storagetest")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewStorage(&Config{Type: TypeFile, Location: dir})
	assert.NoError(t, err)

	_, err = s.ReadData("nothing-here")
	assert.Equal(t, os.ErrNotExist, err)

	assert.NoError(t, s.WriteData("pos", []byte("{\"pos\": 42}")))
	data, err := s.ReadData("pos")
	assert.NoError(t, err)
	assert.Equal(t, "{\"pos\": 42}", string(data))
}

func TestStorageConfigCheck(t *testing.T) {
	assert.Error(t, (&Config{}).Check())
	assert.Error(t, (&Config{Type: TypeFile}).Check())
	assert.Error(t, (&Config{Type: TypeInMem, Location: "dir"}).Check())
	assert.Error(t, (&Config{Type: "whatever"}).Check())
	assert.NoError(t, (&Config{Type: TypeFile, Location: "dir"}).Check())
	assert.NoError(t, NewDefaultConfig().Check())
}
