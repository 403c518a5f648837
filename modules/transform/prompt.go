// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package transform

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/contentgrid/internal/brand"
	"github.com/specialistvlad/contentgrid/internal/node"
)

// InstructionsHeader introduces the node's own instructions, which override
// the brand guidelines.
const InstructionsHeader = "Additional instructions (these take precedence over the brand guidelines if they conflict):"

// BuildPrompt assembles the prompt of an AI transform node: the task, the
// content, the brand guidelines and finally the node's instructions.
func BuildPrompt(n *node.Node, input string, b *brand.Context) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", node.EmptyInput(n.Kind)
	}
	instruction, err := taskText(n)
	if err != nil {
		return "", err
	}

	parts := []string{instruction}
	if audience, ok := n.Param("audience"); ok {
		parts = append(parts, "Target audience: "+audience+".")
	}
	parts = append(parts, "Content:\n"+input)
	if block := b.Block(); block != "" {
		parts = append(parts, block)
	}
	if extra, ok := n.Param("instructions"); ok {
		parts = append(parts, InstructionsHeader+"\n"+extra)
	}
	return strings.Join(parts, "\n\n"), nil
}

func taskText(n *node.Node) (string, error) {
	switch n.Kind {
	case node.KindRepurpose:
		format := strings.ReplaceAll(n.ParamOr("format", "social_post"), "_", " ")
		return fmt.Sprintf("Repurpose the content below into a %s. Keep the key message and adapt length, structure and tone to the format.", format), nil
	case node.KindSummarize:
		maxWords, err := n.IntParam("max_words", 0)
		if err != nil {
			return "", err
		}
		if maxWords > 0 {
			return fmt.Sprintf("Summarize the content below in at most %d words.", maxWords), nil
		}
		return "Summarize the content below, keeping the main points.", nil
	case node.KindTranslate:
		lang, ok := n.Param("language")
		if !ok {
			return "", node.MissingConfig(n.Kind, "language")
		}
		return fmt.Sprintf("Translate the content below into %s. Preserve meaning, formatting and tone.", lang), nil
	case node.KindStyleTransfer:
		style, ok := n.Param("style")
		if !ok {
			return "", node.MissingConfig(n.Kind, "style")
		}
		return fmt.Sprintf("Rewrite the content below in a %s style without changing its meaning.", style), nil
	case node.KindExtractKeywords:
		count, err := countParam(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Extract the %d most relevant keywords from the content below. Return one keyword per line.", count), nil
	case node.KindGenerateCTA:
		count, err := countParam(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Write %d distinct calls to action for the content below. Return one per line.", count), nil
	case node.KindGenerateHooks:
		count, err := countParam(n)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Write %d attention-grabbing opening hooks for the content below. Return one per line.", count), nil
	default:
		return "", fmt.Errorf("node kind '%s' is not an AI transform", n.Kind)
	}
}

func countParam(n *node.Node) (int, error) {
	count, err := n.IntParam("count", 5)
	if err != nil {
		return 0, err
	}
	if count < 1 {
		return 0, node.ConfigError(n.Kind, "count", "must be at least 1")
	}
	return count, nil
}
