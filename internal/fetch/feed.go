// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package fetch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
)

// Feed is the common subset of RSS 2.0 and Atom documents.
type Feed struct {
	Title string
	Items []Item
}

// Item is one entry of a feed.
type Item struct {
	Title     string
	Link      string
	Summary   string
	Published string
}

type rssDoc struct {
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			PubDate     string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

type atomDoc struct {
	Title   string `xml:"title"`
	Entries []struct {
		Title string `xml:"title"`
		Links []struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"link"`
		Summary   string `xml:"summary"`
		Content   string `xml:"content"`
		Updated   string `xml:"updated"`
		Published string `xml:"published"`
	} `xml:"entry"`
}

// ParseFeed decodes an RSS 2.0 or Atom document, detected by its root element.
func ParseFeed(data []byte) (*Feed, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}

	switch root {
	case "rss":
		var doc rssDoc
		if err := newXMLDecoder(data).Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid RSS document: %w", err)
		}
		feed := &Feed{Title: strings.TrimSpace(doc.Channel.Title)}
		for _, it := range doc.Channel.Items {
			feed.Items = append(feed.Items, Item{
				Title:     strings.TrimSpace(it.Title),
				Link:      strings.TrimSpace(it.Link),
				Summary:   plain(it.Description),
				Published: strings.TrimSpace(it.PubDate),
			})
		}
		return feed, nil
	case "feed":
		var doc atomDoc
		if err := newXMLDecoder(data).Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid Atom document: %w", err)
		}
		feed := &Feed{Title: strings.TrimSpace(doc.Title)}
		for _, e := range doc.Entries {
			item := Item{
				Title:     strings.TrimSpace(e.Title),
				Summary:   plain(e.Summary),
				Published: strings.TrimSpace(e.Published),
			}
			if item.Summary == "" {
				item.Summary = plain(e.Content)
			}
			if item.Published == "" {
				item.Published = strings.TrimSpace(e.Updated)
			}
			for _, l := range e.Links {
				if l.Rel == "" || l.Rel == "alternate" {
					item.Link = l.Href
					break
				}
			}
			feed.Items = append(feed.Items, item)
		}
		return feed, nil
	default:
		return nil, fmt.Errorf("unsupported feed format: root element <%s>", root)
	}
}

// Text renders the first limit items as plain text. A limit <= 0 renders all.
func (f *Feed) Text(limit int) string {
	items := f.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	var sb strings.Builder
	if f.Title != "" {
		sb.WriteString(f.Title)
		sb.WriteString("\n\n")
	}
	for i, it := range items {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("## ")
		sb.WriteString(it.Title)
		if it.Link != "" {
			sb.WriteString("\n")
			sb.WriteString(it.Link)
		}
		if it.Summary != "" {
			sb.WriteString("\n")
			sb.WriteString(it.Summary)
		}
	}
	return strings.TrimSpace(sb.String())
}

// newXMLDecoder honors the encoding declared in the XML prolog, so feeds
// in ISO-8859-1 or windows-1252 decode to UTF-8.
func newXMLDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

func rootElement(data []byte) (string, error) {
	dec := newXMLDecoder(data)
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("invalid feed document: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// plain strips markup from feed summaries, which are frequently HTML.
func plain(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "<") {
		return collapse(s)
	}
	text, err := ExtractText(strings.NewReader(s))
	if err != nil {
		return collapse(s)
	}
	return text
}
