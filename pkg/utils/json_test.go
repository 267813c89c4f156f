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

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToJsonStr(t *testing.T) {
	type val struct {
		Name string
		Size int
	}

	assert.Equal(t, "{\"Name\":\"abc\",\"Size\":42}", ToJsonStr(&val{Name: "abc", Size: 42}))
	// no html escaping happens
	assert.Equal(t, "{\"Name\":\"a<b>\",\"Size\":0}", ToJsonStr(&val{Name: "a<b>"}))
	assert.Equal(t, "", ToJsonStr(func() {}))
}
