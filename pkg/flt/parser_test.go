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
	"testing"
)

func testOk(t *testing.T, exp string) {
	_, err := ParseExpr(exp)
	if err != nil {
		t.Fatal("expression '", exp, "' must be parsed ok, but err=", err)
	}
}

func testFail(t *testing.T, exp string) {
	_, err := ParseExpr(exp)
	if err == nil {
		t.Fatal("expression '", exp, "' must not be parsed")
	}
}

func TestParseExpr(t *testing.T) {
	testOk(t, `line contains abc`)
	testOk(t, `line CONTAINS "a b c"`)
	testOk(t, `line prefix 'x y'`)
	testOk(t, `LINE suffix ".log"`)
	testOk(t, `line like "*error*"`)
	testOk(t, `level=error`)
	testOk(t, `level = "error"`)
	testOk(t, `level != warn and line contains x`)
	testOk(t, `not level=debug`)
	testOk(t, `not (level=debug or level=info)`)
	testOk(t, `a=1 and b=2 or c=3 and not d=4`)
	testOk(t, `some.dotted-name_1 = y`)

	testFail(t, `line`)
	testFail(t, `line contains`)
	testFail(t, `= abc`)
	testFail(t, `(level=error`)
	testFail(t, `level=error and`)
	testFail(t, `line contains abc extra`)
}

func TestParseExprEmpty(t *testing.T) {
	e, err := ParseExpr("")
	if e != nil || err != nil {
		t.Fatal("empty condition must give nil expression, no error, but e=", e, ", err=", err)
	}
}

func BenchmarkParseExpr(b *testing.B) {
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseExpr(`level=error and line contains "file" or not (count=15)`)
	}
}
