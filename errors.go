// SPDX-License-Identifier: Apache-2.0

package obstack

import "errors"

var (
	// ErrOutOfMemory is returned by New when the backing Memory provider
	// cannot supply the initial chunk. No partial arena is returned.
	ErrOutOfMemory = errors.New("obstack: out of memory")

	// ErrOutOfCapacity is returned by AllocBytes on a fixed-capacity
	// obstack when the request does not fit and growth is disabled. The
	// arena remains usable for smaller requests.
	ErrOutOfCapacity = errors.New("obstack: out of capacity")

	// ErrInvalidMark is returned by Rewind when the mark does not denote a
	// position at or behind the current cursor.
	ErrInvalidMark = errors.New("obstack: invalid mark")
)
