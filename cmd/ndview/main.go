// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// ndview creates or loads an array, applies a selection, an element-wise formula and a filter to it,
// and prints the result as a table.
//
// Examples:
//
//	ndview -gen=arange -stop=12 -dims=3,4 -select="1:, ::-1"
//	ndview -gen=linspace -start=0 -stop=1 -num=5 -map="x*x + i"
//	ndview -input=values.yaml -filter="x > 0" -summary
//	ndview -load=array.bin -select="newaxis, :, -1"
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/gomlx/ndexpr/pkg/core/ndarray"
	"github.com/gomlx/ndexpr/pkg/support/fsutil"
	"github.com/gomlx/ndexpr/pkg/support/xslices"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagGen = flag.String("gen", "arange", "How to generate the source array if -input and -load are not given: "+
		"one of arange, linspace, zeros or ones.")
	flagDims = xslices.Flag[int]("dims", nil, "Comma-separated dimensions of the source array. "+
		"For arange and linspace the generated values are reshaped to it, and one dimension can be -1.",
		strconv.Atoi)
	flagStart = flag.Float64("start", 0, "First value for -gen=arange or -gen=linspace.")
	flagStop  = flag.Float64("stop", 10, "End value for -gen=arange (exclusive) or -gen=linspace (inclusive).")
	flagStep  = flag.Float64("step", 1, "Step for -gen=arange.")
	flagNum   = flag.Int("num", ndarray.DefaultLinspaceNum, "Number of values for -gen=linspace.")

	flagInput = flag.String("input", "", "YAML file with a (nested) list of numbers to use as source array.")
	flagLoad  = flag.String("load", "", "File previously written with -save to use as source array.")

	flagSelect = flag.String("select", "", "Selectors in Python syntax applied to the source, e.g.: \"1:3, ::2, newaxis, -1\".")
	flagMap    = flag.String("map", "", "Formula applied to each element, using x (the value) and i (the flat position).")
	flagFilter = flag.String("filter", "", "Boolean formula on x and i: only the elements for which it is true are kept.")
	flagF16    = flag.Bool("f16", false, "Round the result values to float16 precision.")

	flagSave      = flag.String("save", "", "Saves the result to the given file.")
	flagOverwrite = flag.Bool("overwrite", false, "Allows -save to overwrite an existing file.")
	flagSummary   = flag.Bool("summary", false, "Display a summary of the source and the result, instead of the values.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if len(flag.Args()) > 0 {
		klog.Errorf("Unexpected arguments %q. See 'ndview -help'.", flag.Args())
		os.Exit(1)
	}

	source, err := loadSource()
	if err != nil {
		klog.Errorf("Failed to create source array: %+v", err)
		os.Exit(1)
	}
	p := &pipeline{
		selectors: must.M1(ndarray.ParseSelectors(*flagSelect)),
		mapCode:   *flagMap,
		filter:    *flagFilter,
		f16:       *flagF16,
	}
	result, err := p.Run(source)
	if err != nil {
		klog.Errorf("Failed to evaluate: %+v", err)
		os.Exit(1)
	}

	if *flagSummary {
		report(source, p, result)
	} else {
		fmt.Println(renderValues(result))
	}
	if *flagSave != "" {
		savePath := must.M1(fsutil.OutputPath(*flagSave, *flagOverwrite))
		must.M(result.Save(savePath))
		klog.V(1).Infof("Saved result to %q", savePath)
	}
}

func loadSource() (*ndarray.Array[float64], error) {
	if *flagLoad != "" {
		loadPath, err := fsutil.ExpandHome(*flagLoad)
		if err != nil {
			return nil, err
		}
		return ndarray.Load[float64](loadPath)
	}
	if *flagInput != "" {
		inputPath, err := fsutil.ExpandHome(*flagInput)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, err
		}
		return parseYAML(data)
	}
	return generate(*flagGen, *flagDims, *flagStart, *flagStop, *flagStep, *flagNum)
}
