// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

// LogMethodHook runs on every log call before the record is emitted. It receives
// the raw call arguments and the method emitting the record, and it is expected
// to call method with the arguments to log.
type LogMethodHook func(args []any, method LogFunc)

// normalizeArgsHook merges the arguments of calls with more than one argument.
// A single argument is forwarded untouched.
func normalizeArgsHook(args []any, method LogFunc) {
	switch len(args) {
	case 0:
		method("")
		return
	case 1:
		method(args...)
		return
	}

	normalized := NormalizeArgs(args)
	if len(normalized) == 0 {
		method("")
		return
	}
	method(normalized...)
}
