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

package flt

import (
	"github.com/kr/logfmt"
	"github.com/logrange/range/pkg/utils/bytes"
)

type (
	// Record is one line offered to a filter. Field values are parsed out of
	// the record body lazily, on the first Field call, treating the body as
	// a string in the logfmt form (https://brandur.org/logfmt). A record
	// which is not in the form simply has no fields.
	Record struct {
		data   []byte
		fields fields
		parsed bool
	}

	fields map[string]string
)

func (fs fields) HandleLogfmt(key, val []byte) error {
	fs[string(key)] = string(val)
	return nil
}

// Reset makes r represent data. The slice is not copied, so it must stay
// unchanged as long as the Record is in use.
func (r *Record) Reset(data []byte) {
	r.data = data
	r.parsed = false
}

// Line returns the whole record value as a string. No copying happens here,
// the result aliases the underlying slice.
func (r *Record) Line() string {
	return bytes.ByteArrayToString(r.data)
}

// Field returns the value of the named logfmt field, or an empty string if
// the record has no such field.
func (r *Record) Field(name string) string {
	if !r.parsed {
		r.parse()
	}
	return r.fields[name]
}

func (r *Record) parse() {
	r.parsed = true
	if r.fields == nil {
		r.fields = make(fields)
	} else {
		for k := range r.fields {
			delete(r.fields, k)
		}
	}

	// parse errors are ignored, whatever fields were recognized are kept
	_ = logfmt.Unmarshal(r.data, r.fields)
}
