// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package patch redirects the log methods of a console-like target to a child of a
// structured logger. Every patch records the functions it replaced so that it can be
// undone with Restore.
package patch
