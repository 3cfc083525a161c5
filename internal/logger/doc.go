// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps the underlying logging stack behind a consistent interface.
// It centralizes configuration, normalizes the heterogeneous arguments of a log call
// into a structured record and makes loggers available through context helpers.
//
// Log methods follow a single calling convention: an optional leading merge object
// (*Fields, map[string]any or an error) followed by a message and the arguments
// consumed by its verbs.
//
//	log := logger.New(logger.Config{ForceArgs: true})
//	log.Info(map[string]any{"userId": 123}, "user %s logged in", "John")
package logger
