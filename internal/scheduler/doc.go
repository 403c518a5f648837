// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package scheduler runs a whole workflow: it orders nodes by their
// dependencies, hands every ready node to the executor, and isolates failures
// to the failing node's downstream subgraph.
//
// # How It Works
//
// Readiness is driven by a remaining-parent counter per node, initialised to
// the node's in-degree:
//  1. Seed a FIFO queue with the roots, in workflow order.
//  2. Pop a node, mark it running and gather its parents' outputs.
//  3. Execute it. On success record the output, mark it completed, and
//     decrement the counter of each child once per connecting edge. Children
//     reaching zero join the back of the queue.
//  4. On failure record the error and mark it failed. Its children are never
//     decremented, so they and their descendants stay idle.
//  5. Stop when the queue drains or the context is cancelled.
//
// Nodes on a cycle never reach zero and are never enqueued, so the loop always
// terminates. Stalled nodes are reported in the logs, not as errors.
//
// # Observation
//
// Every transition to running, completed or failed is reported synchronously
// to the caller's Observer before the scheduler moves on. The failed
// transition carries the error text as its output.
//
// # Thread-Safety
//
// Execution within a run is sequential. Every run owns fresh stores, so one
// Scheduler may serve concurrent runs, and caller-owned nodes are never mutated.
package scheduler
