// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package analytics implements the analyze node kind, which produces a
// structured readability and engagement report of its input.
package analytics

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/contentgrid/internal/handlers"
	"github.com/specialistvlad/contentgrid/internal/node"
	"github.com/specialistvlad/contentgrid/internal/task"
)

// WordsPerMinute is the reading speed used for ReadingMinutes.
const WordsPerMinute = 200

var (
	hashtagRe  = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionRe  = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_.])(@[\p{L}\p{N}_]+)`)
	linkRe     = regexp.MustCompile(`https?://\S+`)
	sentenceRe = regexp.MustCompile(`[.!?]+(?:\s|$)`)
	paraRe     = regexp.MustCompile(`\n\s*\n`)
)

var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a an and are as at be but by for from has have in is it its
		of on or our that the their this to was we were will with you your not can all more
		new about into than then they them these those what when which who how just also so`) {
		stopwords[w] = true
	}
}

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Register registers the analyze handler.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(node.KindAnalyze, Analyze)
}

// Analyze returns a node.Report of the input. The "top" parameter bounds the
// number of keywords, 5 by default.
func Analyze(_ context.Context, t *task.Task) (any, error) {
	if strings.TrimSpace(t.Input) == "" {
		return nil, node.EmptyInput(t.Node.Kind)
	}
	top, err := t.Node.IntParam("top", 5)
	if err != nil {
		return nil, err
	}
	r := Compute(t.Input, top)
	return r, nil
}

// Compute builds the report of text.
func Compute(text string, top int) node.Report {
	withoutLinks := linkRe.ReplaceAllString(text, " ")
	words := strings.Fields(withoutLinks)

	r := node.Report{
		Words:      len(words),
		Characters: utf8.RuneCountInString(text),
		Sentences:  len(sentenceRe.FindAllString(withoutLinks, -1)),
		Links:      len(linkRe.FindAllString(text, -1)),
		Hashtags:   unique(hashtagRe.FindAllString(text, -1)),
	}
	if r.Sentences == 0 && r.Words > 0 {
		r.Sentences = 1
	}
	for _, p := range paraRe.Split(strings.TrimSpace(text), -1) {
		if strings.TrimSpace(p) != "" {
			r.Paragraphs++
		}
	}
	var mentions []string
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		mentions = append(mentions, m[1])
	}
	r.Mentions = unique(mentions)
	r.ReadingMinutes = math.Round(float64(r.Words)/WordsPerMinute*10) / 10
	r.TopKeywords = keywords(words, top)
	return r
}

func keywords(words []string, top int) []string {
	if top <= 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, w := range words {
		if strings.HasPrefix(w, "#") || strings.HasPrefix(w, "@") {
			continue
		}
		w = strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		if utf8.RuneCountInString(w) < 3 || stopwords[w] {
			continue
		}
		counts[w]++
	}

	ranked := make([]string, 0, len(counts))
	for w := range counts {
		ranked = append(ranked, w)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

func unique(in []string) []string {
	var out []string
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
