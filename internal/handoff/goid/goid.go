// Copyright 2025 The handoff Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goid extracts the identity of the calling goroutine.
//
// A goroutine ID is an opaque token that is stable for the lifetime of
// the goroutine, unique among live goroutines, and never zero. The
// handshake uses it so that two goroutines running the same routine can
// tell themselves apart.
//
// The ID is parsed from the first line of runtime.Stack output:
//
//	goroutine 123 [running]:
//
// Performance: ~1500ns per call (dominated by runtime.Stack). Workers
// call Current once per run.
package goid

import "runtime"

// Current returns the ID of the calling goroutine.
//
// Returns:
//   - int64: Goroutine ID (always positive), or 0 if parsing fails
func Current() int64 {
	// Only the first line is needed.
	// Format: "goroutine 123 [running]:\n..."
	var buf [64]byte

	n := runtime.Stack(buf[:], false)

	return Parse(buf[:n])
}

// Parse extracts the goroutine ID from stack trace bytes.
//
// Expected format: "goroutine 123 [running]:..."
// Returns the numeric ID (123 in this example) or 0 if the format is invalid.
func Parse(buf []byte) int64 {
	const prefix = "goroutine "
	const prefixLen = 10 // len("goroutine ")

	if len(buf) < prefixLen {
		return 0
	}

	if string(buf[:prefixLen]) != prefix {
		return 0
	}

	var gid int64
	for i := prefixLen; i < len(buf); i++ {
		//nolint:gosec // G602: i is always < len(buf) due to loop condition
		c := buf[i]
		if c < '0' || c > '9' {
			// Non-digit terminates the ID (usually space before "[running]").
			break
		}
		gid = gid*10 + int64(c-'0')
	}

	return gid
}
