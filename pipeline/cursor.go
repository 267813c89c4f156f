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
	"encoding/json"

	"github.com/jrivets/log4g"
	"github.com/linefold/linefold/pkg/storage"
)

type (
	// Cursor persists the position of a followed source, so a clean restart
	// continues from where the previous run has stopped. The position is
	// the released offset only, a partially parsed tail is re-read by the
	// next run, data may repeat, but is never skipped.
	Cursor struct {
		Storage storage.Storage `inject:""`

		logger log4g.Logger
	}

	cursorState struct {
		Path string `json:"path"`
		Pos  int64  `json:"pos"`
	}
)

const cursorKey = "position"

// NewCursor creates a Cursor, the Storage comes from the injection
func NewCursor() *Cursor {
	c := new(Cursor)
	c.logger = log4g.GetLogger("linefold.cursor")
	return c
}

// LoadPos returns the persisted position for path, or 0 when there is none
// or it belongs to another path
func (c *Cursor) LoadPos(path string) int64 {
	data, err := c.Storage.ReadData(cursorKey)
	if err != nil {
		c.logger.Info("No persisted position found, starting from 0")
		return 0
	}

	var st cursorState
	if err := json.Unmarshal(data, &st); err != nil {
		c.logger.Warn("Broken persisted position, starting from 0, err=", err)
		return 0
	}

	if st.Path != path {
		c.logger.Info("The persisted position is for path=", st.Path, ", not for ", path, ", starting from 0")
		return 0
	}

	c.logger.Info("Loaded position=", st.Pos, " for path=", path)
	return st.Pos
}

// SavePos persists pos for path
func (c *Cursor) SavePos(path string, pos int64) error {
	data, err := json.Marshal(&cursorState{Path: path, Pos: pos})
	if err != nil {
		return err
	}
	return c.Storage.WriteData(cursorKey, data)
}
