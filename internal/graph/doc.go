// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package graph provides the dependency queries over a workflow and a unified
// facade for one run, combining static topology (nodes and edges) with
// run-scoped state (status, output, error).
//
// # Pure Queries
//
// ParentsOf, ChildrenOf, InDegree, Roots and CollectInputText work directly
// on node and edge slices and have no side effects. Edge order matters: when
// a node has several parents, their outputs are joined in the order the edges
// were declared.
//
// # Architecture: The Facade Pattern
//
// The Manager is a thin facade over two specialized stores:
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (Unified API for the scheduler     │
//	│   to query & update)                │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │ Node State │
//	  │   Store    │  │   Store    │
//	  │ (Structure)│  │  (Results) │
//	  └────────────┘  └────────────┘
//
// Topology Store (topologystore.Store) is written once by Populate and read
// during the run. Node Store (nodestore.Store) is created per run and holds
// the result map handed back to the caller, so the caller's nodes are never
// mutated.
//
// # Thread-Safety
//
// All Manager methods are thread-safe, delegating to the underlying stores.
package graph
