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
	"fmt"
	"path"
	"strings"
)

type (
	// RecordFunc returns true if the provided record matches the filter condition
	RecordFunc func(r *Record) bool

	recFuncBuilder struct {
		rf RecordFunc
	}
)

var positiveRecordFunc = func(*Record) bool { return true }

// BuildRecordFunc builds the filter function by the condition provided in the
// human readable form like `line CONTAINS error OR level=warn`. An empty
// condition gives a function which accepts everything.
func BuildRecordFunc(cond string) (RecordFunc, error) {
	exp, err := ParseExpr(cond)
	if err != nil {
		return nil, err
	}
	return BuildRecordFuncByExpression(exp)
}

// BuildRecordFuncByExpression builds the filter function by the Expression provided
func BuildRecordFuncByExpression(exp *Expression) (RecordFunc, error) {
	if exp == nil {
		return positiveRecordFunc, nil
	}

	var rfb recFuncBuilder
	err := rfb.buildOrConds(exp.Or)
	if err != nil {
		return nil, err
	}

	return rfb.rf, nil
}

// BuildLineFunc builds the filter in the form the lines.Splitter accepts. The
// returned function reuses one Record value, so it must be called from one
// goroutine only.
func BuildLineFunc(cond string) (func(line []byte) bool, error) {
	rf, err := BuildRecordFunc(cond)
	if err != nil {
		return nil, err
	}

	r := new(Record)
	return func(line []byte) bool {
		r.Reset(line)
		return rf(r)
	}, nil
}

func (rfb *recFuncBuilder) buildOrConds(ocn []*OrCondition) error {
	if len(ocn) == 0 {
		rfb.rf = positiveRecordFunc
		return nil
	}

	err := rfb.buildXConds(ocn[0].And)
	if err != nil {
		return err
	}

	if len(ocn) == 1 {
		// no need to go ahead anymore
		return nil
	}

	rf0 := rfb.rf
	err = rfb.buildOrConds(ocn[1:])
	if err != nil {
		return err
	}
	rf1 := rfb.rf

	rfb.rf = func(r *Record) bool { return rf0(r) || rf1(r) }
	return nil
}

func (rfb *recFuncBuilder) buildXConds(cn []*XCondition) (err error) {
	if len(cn) == 0 {
		rfb.rf = positiveRecordFunc
		return nil
	}

	if len(cn) == 1 {
		return rfb.buildXCond(cn[0])
	}

	err = rfb.buildXCond(cn[0])
	if err != nil {
		return err
	}

	rf0 := rfb.rf
	err = rfb.buildXConds(cn[1:])
	if err != nil {
		return err
	}
	rf1 := rfb.rf

	rfb.rf = func(r *Record) bool { return rf0(r) && rf1(r) }
	return nil
}

func (rfb *recFuncBuilder) buildXCond(xc *XCondition) (err error) {
	if xc.Expr != nil {
		err = rfb.buildOrConds(xc.Expr.Or)
	} else {
		err = rfb.buildCond(xc.Cond)
	}

	if err != nil {
		return err
	}

	if xc.Not {
		rf1 := rfb.rf
		rfb.rf = func(r *Record) bool { return !rf1(r) }
	}

	return nil
}

func (rfb *recFuncBuilder) buildCond(cn *Condition) error {
	if strings.ToLower(cn.Operand) == OpndLine {
		return rfb.buildLineCond(cn)
	}
	return rfb.buildFieldCond(cn)
}

func (rfb *recFuncBuilder) buildLineCond(cn *Condition) (err error) {
	op := strings.ToUpper(cn.Op)
	val := cn.Value

	switch op {
	case CmpContains:
		rfb.rf = func(r *Record) bool { return strings.Contains(r.Line(), val) }
	case CmpHasPrefix:
		rfb.rf = func(r *Record) bool { return strings.HasPrefix(r.Line(), val) }
	case CmpHasSuffix:
		rfb.rf = func(r *Record) bool { return strings.HasSuffix(r.Line(), val) }
	case CmpLike:
		if _, e := path.Match(val, "abc"); e != nil {
			return fmt.Errorf("uncompilable 'like' expression \"%s\", expected a shell pattern (not regexp); %v", val, e)
		}
		rfb.rf = func(r *Record) bool {
			res, _ := path.Match(val, r.Line())
			return res
		}
	case "=":
		rfb.rf = func(r *Record) bool { return r.Line() == val }
	case "!=":
		rfb.rf = func(r *Record) bool { return r.Line() != val }
	default:
		err = fmt.Errorf("unsupported operation \"%s\" for the %s operand", cn.Op, OpndLine)
	}
	return err
}

func (rfb *recFuncBuilder) buildFieldCond(cn *Condition) (err error) {
	fld := cn.Operand
	op := strings.ToUpper(cn.Op)
	val := cn.Value

	switch op {
	case CmpContains:
		rfb.rf = func(r *Record) bool { return strings.Contains(r.Field(fld), val) }
	case CmpHasPrefix:
		rfb.rf = func(r *Record) bool { return strings.HasPrefix(r.Field(fld), val) }
	case CmpHasSuffix:
		rfb.rf = func(r *Record) bool { return strings.HasSuffix(r.Field(fld), val) }
	case CmpLike:
		if _, e := path.Match(val, "abc"); e != nil {
			return fmt.Errorf("uncompilable 'like' expression \"%s\", expected a shell pattern (not regexp); %v", val, e)
		}
		rfb.rf = func(r *Record) bool {
			res, _ := path.Match(val, r.Field(fld))
			return res
		}
	case "=":
		rfb.rf = func(r *Record) bool { return r.Field(fld) == val }
	case "!=":
		rfb.rf = func(r *Record) bool { return r.Field(fld) != val }
	default:
		err = fmt.Errorf("unsupported operation \"%s\" for the field %s", cn.Op, fld)
	}
	return err
}
