// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndexpr/pkg/core/ndarray"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// generate creates the source array from the -gen flags.
func generate(gen string, dims []int, start, stop, step float64, num int) (a *ndarray.Array[float64], err error) {
	err = exceptions.TryCatch[error](func() {
		switch gen {
		case "arange":
			a = ndarray.ArangeStep(start, stop, step)
		case "linspace":
			a = ndarray.Linspace(start, stop, num)
		case "zeros":
			a = ndarray.Zeros[float64](dims...)
		case "ones":
			a = ndarray.Ones[float64](dims...)
		default:
			exceptions.Panicf("unknown generator %q, valid values are arange, linspace, zeros and ones", gen)
		}
		if len(dims) > 0 && (gen == "arange" || gen == "linspace") {
			reshaped := ndarray.Reshape(a, dims...)
			a.Finalize()
			a = reshaped
		}
	})
	return
}

// parseYAML creates an array from a YAML document holding a number or a (nested) list of numbers.
func parseYAML(data []byte) (*ndarray.Array[float64], error) {
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}
	a, err := ndarray.TryFromValue[float64](value)
	if err != nil {
		return nil, errors.WithMessage(err, "YAML document is not a regular (nested) list of numbers")
	}
	return a, nil
}

// pipeline transforms a source array: selection, element-wise formula, filter and float16 rounding,
// in this order. Empty steps are skipped.
type pipeline struct {
	selectors []ndarray.Selector
	mapCode   string
	filter    string
	f16       bool
}

// formulaEnv is the environment for the -map and -filter formulas.
type formulaEnv struct {
	values map[string]any
}

func newFormulaEnv() *formulaEnv {
	return &formulaEnv{values: map[string]any{"x": 0.0, "i": 0}}
}

func (env *formulaEnv) set(pos int, x float64) map[string]any {
	env.values["x"] = x
	env.values["i"] = pos
	return env.values
}

// compile compiles code for the formula environment, with the result type set by resultOpt.
func (env *formulaEnv) compile(code string, resultOpt expr.Option) (*vm.Program, error) {
	program, err := expr.Compile(code, expr.Env(env.values), resultOpt)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to compile formula %q", code)
	}
	return program, nil
}

// Run the pipeline on source. The returned array is always a new array, source is left untouched.
func (p *pipeline) Run(source *ndarray.Array[float64]) (*ndarray.Array[float64], error) {
	selected, err := ndarray.TryIndex[float64](source, p.selectors...)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to select %s from %s",
			ndarray.SelectorsString(p.selectors), source.Shape())
	}
	result := ndarray.Materialize(selected)

	env := newFormulaEnv()
	if p.mapCode != "" {
		program, err := env.compile(p.mapCode, expr.AsFloat64())
		if err != nil {
			return nil, err
		}
		flat := result.FlatData()
		for pos, x := range flat {
			output, err := vm.Run(program, env.set(pos, x))
			if err != nil {
				return nil, errors.Wrapf(err, "formula %q failed at position %d", p.mapCode, pos)
			}
			flat[pos] = output.(float64)
		}
	}

	if p.filter != "" {
		program, err := env.compile(p.filter, expr.AsBool())
		if err != nil {
			return nil, err
		}
		mask := ndarray.Zeros[bool](result.Dims()...)
		maskFlat := mask.FlatData()
		for pos, x := range ndarray.Enumerate[float64](result) {
			output, err := vm.Run(program, env.set(pos, x))
			if err != nil {
				return nil, errors.Wrapf(err, "filter %q failed at position %d", p.filter, pos)
			}
			maskFlat[pos] = output.(bool)
		}
		filtered := ndarray.Materialize[float64](ndarray.Filter[float64](result, mask))
		if filtered.Size() == 0 && result.Size() > 0 {
			klog.Warningf("Filter %q selected none of the %d elements", p.filter, result.Size())
		}
		result.Finalize()
		mask.Finalize()
		result = filtered
	}

	if p.f16 {
		dims := result.Dims()
		rounded := ndarray.DecodeFloat16(ndarray.EncodeFloat16[float64](result), dims...)
		converted := ndarray.Materialize[float64](ndarray.AsType[float64, float32](rounded))
		result.Finalize()
		rounded.Finalize()
		result = converted
	}
	return result, nil
}
