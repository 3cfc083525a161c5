// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the HTTP relay for remote console calls.
// It sets up the HTTP server using the Fiber framework, configures middleware for logging,
// and defines the relay route together with the health and status routes.
package server
