// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package ndarray

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseSelectors parses a comma-separated list of selectors in Python syntax, the same format
// produced by SelectorsString, with or without the surrounding brackets.
//
// Example: "1:3, ::2, newaxis, -1" returns [Span(1, 3), Step(2), NewAxis, Idx(-1)].
// "None" is accepted as an alias of "newaxis". An empty string returns no selectors.
func ParseSelectors(text string) ([]Selector, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	selectors := make([]Selector, 0, len(parts))
	for ii, part := range parts {
		s, err := parseSelector(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.WithMessagef(err, "selector #%d in %q", ii, text)
		}
		selectors = append(selectors, s)
	}
	return selectors, nil
}

func parseSelector(text string) (Selector, error) {
	switch text {
	case "":
		return Selector{}, errors.New("empty selector")
	case "newaxis", "None":
		return NewAxis, nil
	}
	if !strings.Contains(text, ":") {
		index, err := strconv.Atoi(text)
		if err != nil {
			return Selector{}, errors.Wrapf(err, "invalid index %q", text)
		}
		return Idx(index), nil
	}
	fields := strings.Split(text, ":")
	if len(fields) > 3 {
		return Selector{}, errors.Errorf("too many ':' in slice %q", text)
	}
	bounds := [3]int{None, None, None}
	for ii, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		value, err := strconv.Atoi(field)
		if err != nil {
			return Selector{}, errors.Wrapf(err, "invalid slice bound %q in %q", field, text)
		}
		bounds[ii] = value
	}
	if bounds[2] == 0 {
		return Selector{}, errors.Errorf("slice step cannot be zero in %q", text)
	}
	return Range(bounds[0], bounds[1], bounds[2]), nil
}
