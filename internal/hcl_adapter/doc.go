// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package hcl_adapter loads workflow files written in HCL.
//
// A workflow file is a sequence of blocks:
//
//	workflow "launch" {
//	  description = "Blog post to social"
//	}
//
//	node "url_import" "post" {
//	  config = { url = "https://example.com/blog/launch" }
//	}
//
//	node "summarize" "digest" {
//	  name   = "Digest"
//	  inputs = ["post"]
//	  config = { audience = lower(env.AUDIENCE) }
//	}
//
//	edge {
//	  from = "digest"
//	  to   = "review"
//	}
//
// Expressions can read the environment through `env` and call a small set of
// string functions. Config values become plain Go values: strings, int64,
// float64, bool, []any and map[string]any.
package hcl_adapter
