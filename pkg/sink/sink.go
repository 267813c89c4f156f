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
	"context"
	"fmt"

	"github.com/linefold/linefold/pkg/utils"
)

type (
	// Capacity is the sink report about how a write went and whether the
	// sink wants more data. It is the back-pressure signal the writing loop
	// must obey.
	Capacity int

	// Sink accepts chunks of output bytes. A sink may be capacity limited,
	// so every Write reports whether the caller should keep writing, pause
	// or give up on the sink completely.
	Sink interface {
		// Write sends p to the sink. The returned Capacity is meaningful
		// only when the error is nil.
		Write(ctx context.Context, p []byte) (Capacity, error)

		// Close releases the sink resources flushing whatever is buffered
		// first. It is ok to call Close multiple times.
		Close() error
	}

	// Params keeps the sink type specific settings
	Params map[string]interface{}

	// Config is the sink factory configuration
	Config struct {
		Type   string
		Params Params
	}
)

const (
	// More means the write is accepted and the sink has room for more
	More Capacity = iota
	// AtCapacity means the write is accepted, but the sink budget is spent,
	// the caller should stop or pause writing
	AtCapacity
	// Terminated means the sink will not accept anything anymore
	Terminated
)

const (
	SnkTypeStdout = "stdout"
	SnkTypeFile   = "file"
	SnkTypeNull   = "null"
)

// NewSink creates a Sink instance by the config provided
func NewSink(cfg *Config) (Sink, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("invalid config; %v", err)
	}

	switch cfg.Type {
	case SnkTypeStdout:
		return newStdoutSink(cfg.Params)
	case SnkTypeFile:
		return newFileSink(cfg.Params)
	case SnkTypeNull:
		return newNullSink(), nil
	}

	return nil, fmt.Errorf("unknown sink type=%v", cfg.Type)
}

func (c Capacity) String() string {
	switch c {
	case More:
		return "more"
	case AtCapacity:
		return "atCapacity"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("unknown(%d)", int(c))
}

//===================== config =====================

func (c *Config) Check() error {
	if c.Type != SnkTypeStdout && c.Type != SnkTypeFile && c.Type != SnkTypeNull {
		return fmt.Errorf("unknown Type=%v", c.Type)
	}

	if c.Type == SnkTypeFile {
		if c.Params == nil {
			return fmt.Errorf("invalid Params=%v, must have param 'Path'", c.Params)
		}
		if _, ok := c.Params["Path"]; !ok {
			return fmt.Errorf("invalid Params=%v, must have param 'Path'", c.Params)
		}
	}
	return nil
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
