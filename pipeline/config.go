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
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/linefold/linefold/pkg/flt"
	"github.com/linefold/linefold/pkg/fold"
	"github.com/linefold/linefold/pkg/sink"
	"github.com/linefold/linefold/pkg/source"
	"github.com/linefold/linefold/pkg/storage"
	"github.com/linefold/linefold/pkg/utils"
)

// Config struct just aggregates the configs of all the pipeline pieces in
// one place
type Config struct {
	Source  *source.Config  `json:"source"`
	Sink    *sink.Config    `json:"sink"`
	Fold    string          `json:"fold"`
	Filter  string          `json:"filter"`
	Storage *storage.Config `json:"storage"`

	// StateSaveIntervalSec defines how often the follow mode persists the
	// source position
	StateSaveIntervalSec int `json:"stateSaveIntervalSec"`
}

//===================== config =====================

func NewDefaultConfig() *Config {
	return &Config{
		Source:  &source.Config{Type: source.SrcTypeStdin},
		Sink:    &sink.Config{Type: sink.SnkTypeStdout},
		Fold:    fold.MapperLower,
		Storage: storage.NewDefaultConfig(),

		StateSaveIntervalSec: 10,
	}
}

func LoadCfgFromFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	err = json.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Apply(other *Config) {
	if other == nil {
		return
	}
	if other.Source != nil {
		c.Source = other.Source
	}
	if other.Sink != nil {
		c.Sink = other.Sink
	}
	if strings.TrimSpace(other.Fold) != "" {
		c.Fold = other.Fold
	}
	if strings.TrimSpace(other.Filter) != "" {
		c.Filter = other.Filter
	}
	c.Storage.Apply(other.Storage)
	if other.StateSaveIntervalSec > 0 {
		c.StateSaveIntervalSec = other.StateSaveIntervalSec
	}
}

func (c *Config) Check() error {
	if c.Source == nil {
		return fmt.Errorf("invalid config; source=%v, must be non-nil", c.Source)
	}
	if c.Sink == nil {
		return fmt.Errorf("invalid config; sink=%v, must be non-nil", c.Sink)
	}
	if c.Storage == nil {
		return fmt.Errorf("invalid config; storage=%v, must be non-nil", c.Storage)
	}
	if c.StateSaveIntervalSec <= 0 {
		return fmt.Errorf("invalid config; stateSaveIntervalSec=%d, must be positive", c.StateSaveIntervalSec)
	}
	if err := c.Source.Check(); err != nil {
		return err
	}
	if err := c.Sink.Check(); err != nil {
		return err
	}
	if err := c.Storage.Check(); err != nil {
		return err
	}
	if _, err := fold.ByName(c.Fold); err != nil {
		return fmt.Errorf("invalid config; %v", err)
	}
	if _, err := flt.ParseExpr(c.Filter); err != nil {
		return fmt.Errorf("invalid config; bad filter expression %q; %v", c.Filter, err)
	}
	return nil
}

func (c *Config) String() string {
	return utils.ToJsonStr(c)
}
