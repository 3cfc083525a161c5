// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads logger configurations from YAML, JSON and TOML files.
package config
