// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package format renders a list of log arguments into a single line the way
// console methods do: a leading format string may consume the arguments that
// follow it, everything left over is appended separated by a space.
package format
