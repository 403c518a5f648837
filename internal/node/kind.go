// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package node

import "sort"

// Kind is the type of a node. The set of known kinds is closed; a workflow may
// still carry an unknown kind, which the executor runs through its generic
// pass-through handler.
type Kind string

// Category groups kinds that share input requirements and output shape.
type Category string

const (
	CategorySource       Category = "source"
	CategoryAITransform  Category = "ai_transform"
	CategoryCheckpoint   Category = "checkpoint"
	CategoryDistribution Category = "distribution"
	CategoryLogic        Category = "logic"
	CategoryAnalytics    Category = "analytics"
	CategoryUnknown      Category = "unknown"
)

// Source kinds.
const (
	KindTextInput   Kind = "text_input"
	KindURLImport   Kind = "url_import"
	KindFileImport  Kind = "file_import"
	KindFeedImport  Kind = "feed_import"
	KindBrandMemory Kind = "brand_memory"
)

// AI transform kinds.
const (
	KindRepurpose       Kind = "repurpose"
	KindSummarize       Kind = "summarize"
	KindTranslate       Kind = "translate"
	KindStyleTransfer   Kind = "style_transfer"
	KindExtractKeywords Kind = "extract_keywords"
	KindGenerateCTA     Kind = "generate_cta"
	KindGenerateHooks   Kind = "generate_hooks"
)

// Checkpoint, distribution, logic and analytics kinds.
const (
	KindHumanReview Kind = "human_review"

	KindPublish Kind = "publish"
	KindExport  Kind = "export"
	KindEmail   Kind = "email"

	KindBranch Kind = "branch"
	KindMerge  Kind = "merge"
	KindDelay  Kind = "delay"

	KindAnalyze Kind = "analyze"
)

var categories = map[Kind]Category{
	KindTextInput:   CategorySource,
	KindURLImport:   CategorySource,
	KindFileImport:  CategorySource,
	KindFeedImport:  CategorySource,
	KindBrandMemory: CategorySource,

	KindRepurpose:       CategoryAITransform,
	KindSummarize:       CategoryAITransform,
	KindTranslate:       CategoryAITransform,
	KindStyleTransfer:   CategoryAITransform,
	KindExtractKeywords: CategoryAITransform,
	KindGenerateCTA:     CategoryAITransform,
	KindGenerateHooks:   CategoryAITransform,

	KindHumanReview: CategoryCheckpoint,

	KindPublish: CategoryDistribution,
	KindExport:  CategoryDistribution,
	KindEmail:   CategoryDistribution,

	KindBranch: CategoryLogic,
	KindMerge:  CategoryLogic,
	KindDelay:  CategoryLogic,

	KindAnalyze: CategoryAnalytics,
}

// Category returns the category of the kind, or CategoryUnknown.
func (k Kind) Category() Category {
	if c, ok := categories[k]; ok {
		return c
	}
	return CategoryUnknown
}

// Known reports whether the kind belongs to the closed set of node kinds.
func (k Kind) Known() bool {
	_, ok := categories[k]
	return ok
}

// Kinds returns every known kind of the given category.
func Kinds(c Category) []Kind {
	var out []Kind
	for k, kc := range categories {
		if kc == c {
			out = append(out, k)
		}
	}
	return out
}

// AllKinds returns every known kind, sorted by name.
func AllKinds() []Kind {
	out := make([]Kind, 0, len(categories))
	for k := range categories {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
