// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package fsutil resolves the file paths given to the command-line tools.
package fsutil

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileExists returns whether the file or directory exists, or an error for other file system failures.
func FileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to stat %q", filePath)
}

// ExpandHome replaces a leading "~" or "~user" by the corresponding home directory.
// Other paths are returned unchanged.
func ExpandHome(filePath string) (string, error) {
	if !strings.HasPrefix(filePath, "~") {
		return filePath, nil
	}
	userName, rest, _ := strings.Cut(filePath[1:], "/")
	var usr *user.User
	var err error
	if userName == "" {
		usr, err = user.Current()
	} else {
		usr, err = user.Lookup(userName)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to find home directory for %q", filePath)
	}
	return filepath.Join(usr.HomeDir, rest), nil
}

// OutputPath expands filePath with ExpandHome and checks that it can be written: an existing file
// is only accepted if overwrite is set, and the parent directory must exist.
func OutputPath(filePath string, overwrite bool) (string, error) {
	expanded, err := ExpandHome(filePath)
	if err != nil {
		return "", err
	}
	exists, err := FileExists(expanded)
	if err != nil {
		return "", err
	}
	if exists && !overwrite {
		return "", errors.Errorf("output file %q already exists", expanded)
	}
	dir := filepath.Dir(expanded)
	dirExists, err := FileExists(dir)
	if err != nil {
		return "", err
	}
	if !dirExists {
		return "", errors.Errorf("directory %q of output file doesn't exist", dir)
	}
	return expanded, nil
}
