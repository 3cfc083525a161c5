// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package methods holds the two log method vocabularies bridged by logbridge and
// the adapter tables that translate a name from one vocabulary to the other.
package methods
