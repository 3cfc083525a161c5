// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package console provides a console-like object whose log methods are
// replaceable slots. Default is the process-wide instance that patches target
// when calls made through the familiar console methods must reach another
// logger.
package console
