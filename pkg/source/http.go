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
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
)

type (
	httpConfig struct {
		ChunkConfig `mapstructure:",squash"`

		Url        string
		TimeoutSec int
	}
)

// newHttpSource issues one GET request to the configured Url and pumps the
// response body out chunk by chunk. The body is a finite stream, so the
// source reports the end of data when the body is over. Closing the source
// before that drops the rest of the body.
func newHttpSource(params Params) (Source, error) {
	hcfg := &httpConfig{ChunkConfig: ChunkConfig{ChunkSize: defaultChunkSize}}
	if err := mapstructure.Decode(params, hcfg); err != nil {
		return nil, fmt.Errorf("unable to decode Params=%v; %v", params, err)
	}
	if hcfg.Url == "" {
		return nil, fmt.Errorf("invalid Params=%v, must have non-empty Url", params)
	}
	if hcfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("invalid ChunkSize=%d, must be positive", hcfg.ChunkSize)
	}
	if hcfg.TimeoutSec < 0 {
		return nil, fmt.Errorf("invalid TimeoutSec=%d, must not be negative", hcfg.TimeoutSec)
	}

	client := &http.Client{Timeout: time.Duration(hcfg.TimeoutSec) * time.Second}
	resp, err := client.Get(hcfg.Url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected response status=%v for url=%v", resp.Status, hcfg.Url)
	}

	return newReaderSource(resp.Body, resp.Body, hcfg.ChunkSize, "http:"+hcfg.Url), nil
}
