// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the format-agnostic model of a workflow file, along
// with the core interfaces (Loader, Converter) for loading and interpreting
// workflows from various sources.
//
// The config.Model is the single source of truth the app turns into a
// node.Workflow for the scheduler. Concrete implementations of the
// interfaces, such as for HCL, are provided in separate packages.
package config
