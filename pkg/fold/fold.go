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

package fold

import (
	"fmt"
	"strings"
)

// Mapper is a stateless byte transformation. The result for a byte must not
// depend on its neighbors or its position in the stream, so a Mapper may be
// applied to data split into chunks of any size.
type Mapper func(c byte) byte

const (
	MapperLower = "lower"
	MapperUpper = "upper"
	MapperNone  = "none"
)

// Lower maps ASCII capital letters 'A'-'Z' to 'a'-'z'. All other byte values
// are returned untouched.
func Lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// Upper maps ASCII letters 'a'-'z' to 'A'-'Z'. All other byte values are
// returned untouched.
func Upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// Fold applies m to every byte of p in place. A nil Mapper is a no-op.
func Fold(m Mapper, p []byte) {
	if m == nil {
		return
	}
	for i, c := range p {
		p[i] = m(c)
	}
}

// FoldCopy writes the result of applying m to src into dst, which must be at
// least len(src) bytes long. src is left untouched. Returns the number of
// bytes written.
func FoldCopy(m Mapper, dst, src []byte) int {
	if m == nil {
		return copy(dst, src)
	}
	for i, c := range src {
		dst[i] = m(c)
	}
	return len(src)
}

// ByName returns the Mapper by its name - "lower", "upper" or "none". The
// "none" mapper is nil, which means no transformation at all. An empty name
// is treated like "none".
func ByName(name string) (Mapper, error) {
	switch strings.ToLower(name) {
	case MapperLower:
		return Lower, nil
	case MapperUpper:
		return Upper, nil
	case MapperNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown mapper name=%v, must be one of [%v, %v, %v]",
		name, MapperLower, MapperUpper, MapperNone)
}
