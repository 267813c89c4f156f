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
	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

var (
	fltLexer = lexer.Must(getRegexpDefinition(`(\s+)` +
		`|(?P<Keyword>(?i)AND|OR|NOT|CONTAINS|PREFIX|SUFFIX|LIKE)` +
		`|(?P<Ident>[a-zA-Z_][a-zA-Z0-9_\-\.]*)` +
		`|(?P<String>"([^\\"]|\\.)*"|'([^\\']|\\.)*')` +
		`|(?P<Operator>!=|=|[()])` +
		`|(?P<Value>[a-zA-Z0-9_\-\\/!@#$%^&\*+~\.:]+)`,
	))

	parserExpr = participle.MustBuild(
		&Expression{},
		participle.Lexer(fltLexer),
		participle.Unquote("String"),
		participle.CaseInsensitive("Keyword"),
	)
)

const (
	CmpContains  = "CONTAINS"
	CmpHasPrefix = "PREFIX"
	CmpHasSuffix = "SUFFIX"
	CmpLike      = "LIKE"
)

// OpndLine is the operand name addressing the whole record value in a
// condition. Any other operand addresses a logfmt field of the record.
const OpndLine = "line"

type (
	Expression struct {
		Or []*OrCondition `@@ { "OR" @@ }`
	}

	OrCondition struct {
		And []*XCondition `@@ { "AND" @@ }`
	}

	XCondition struct {
		Not  bool        ` [@"NOT"] `
		Cond *Condition  `( @@`
		Expr *Expression `| "(" @@ ")")`
	}

	Condition struct {
		Operand string `  (@Ident)`
		Op      string ` (@("!="|"="|"CONTAINS"|"PREFIX"|"SUFFIX"|"LIKE"))`
		Value   string ` (@String|@Value|@Ident)`
	}
)

// ParseExpr parses the filter condition provided in a human readable form
// like `line CONTAINS "abc" AND level=error`. An empty condition is ok and
// gives a nil Expression.
func ParseExpr(cond string) (*Expression, error) {
	if len(cond) == 0 {
		return nil, nil
	}

	exp := &Expression{}
	err := parserExpr.ParseString(cond, exp)
	if err != nil {
		return nil, err
	}
	return exp, nil
}
