// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The dataconfy Authors

package envload

import (
	"regexp"
	"strings"
)

var separatorRuns = regexp.MustCompile(`[\s-]+`)

// Prefix derives the environment variable prefix for an application name.
// The name is uppercased, every run of hyphens and/or spaces collapses to a
// single underscore, and a trailing underscore is appended:
//
//	Prefix("my-cool app") == "MY_COOL_APP_"
func Prefix(appName string) string {
	return separatorRuns.ReplaceAllString(strings.ToUpper(appName), "_") + "_"
}
