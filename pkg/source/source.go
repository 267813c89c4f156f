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
	"fmt"

	"github.com/linefold/linefold/pkg/utils"
)

type (
	// State tells how a Read attempt ended
	State int

	// Result is what one Read attempt returns. Data, if any, is the new
	// chunk of the source bytes. A chunk may be of any size and it is not
	// aligned to record boundaries anyhow.
	Result struct {
		Data  []byte
		State State
	}

	// Source is a lazy, pull style, finite sequence of byte chunks. It is
	// not restartable, bytes handed out are handed out once.
	Source interface {
		// Read blocks until it can return the next chunk of data, the source
		// is over, or ctx is closed. The returned Data is valid until the
		// next Read call only. The ctx closing is not an error, it is
		// reported by the Cancelled state.
		Read(ctx context.Context) (Result, error)

		// Release tells the source that n more bytes of the data it returned
		// are completely processed. The released offset never goes down.
		Release(n int)

		// Close releases the source resources. It is ok to call Close
		// multiple times.
		Close() error
	}

	// Params keeps the source type specific settings
	Params map[string]interface{}

	// Config is the source factory configuration
	Config struct {
		Type   string
		Params Params
	}

	// ChunkConfig is the common part of all the source type configurations
	ChunkConfig struct {
		ChunkSize int
	}
)

const (
	// DataAvailable means the chunk holds new bytes and more may follow
	DataAvailable State = iota
	// EndOfData means the source is over, no more data will ever come
	EndOfData
	// Cancelled means the read was given up cause the caller's ctx is closed
	Cancelled
)

const (
	SrcTypeFile  = "file"
	SrcTypeHttp  = "http"
	SrcTypeStdin = "stdin"
)

const defaultChunkSize = 4096

// NewSource creates a Source instance by the config provided
func NewSource(cfg *Config) (Source, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config; %v", err)
	}

	switch cfg.Type {
	case SrcTypeFile:
		return newFileSource(cfg.Params)
	case SrcTypeHttp:
		return newHttpSource(cfg.Params)
	case SrcTypeStdin:
		return newStdinSource(cfg.Params)
	}

	return nil, fmt.Errorf("unknown source type=%v", cfg.Type)
}

func (s State) String() string {
	switch s {
	case DataAvailable:
		return "dataAvailable"
	case EndOfData:
		return "endOfData"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

//===================== config =====================

func (c *Config) Check() error {
	if c.Type != SrcTypeFile && c.Type != SrcTypeHttp && c.Type != SrcTypeStdin {
		return fmt.Errorf("unknown Type=%v", c.Type)
	}

	var pp []string
	switch c.Type {
	case SrcTypeFile:
		pp = []string{"Path"}
	case SrcTypeHttp:
		pp = []string{"Url"}
	}

	for _, p := range pp {
		if err := c.checkParamExists(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) checkParamExists(pName string) error {
	if c.Params != nil {
		if _, ok := c.Params[pName]; ok {
			return nil
		}
	}
	return fmt.Errorf("invalid Params=%v, must have param '%v'", c.Params, pName)
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
