package main

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Entry is a single version section of a Keep a Changelog file
type Entry struct {
	Version string
	Date    string
	Body    string
}

// File is a parsed Keep a Changelog document
type File struct {
	Entries []Entry
	Links   map[string]string
}

// Find returns the entry for a version, tolerating a leading "v"
func (f *File) Find(version string) *Entry {
	version = strings.TrimPrefix(version, "v")
	for i := range f.Entries {
		if strings.TrimPrefix(f.Entries[i].Version, "v") == version {
			return &f.Entries[i]
		}
	}
	return nil
}

// Parse parses a Keep a Changelog formatted markdown document
func Parse(source []byte) (*File, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	file := &File{Links: make(map[string]string)}
	for _, ref := range ctx.References() {
		file.Links[string(ref.Label())] = string(ref.Destination())
	}

	type section struct {
		version string
		date    string
		start   int // byte offset where the heading begins
		bodyAt  int // byte offset where the body begins
	}
	var sections []section

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}

		version, date := splitVersionHeading(headingText(heading, source))
		s := section{version: version, date: date}
		if lines := heading.Lines(); lines.Len() > 0 {
			s.start = lines.At(0).Start
			s.bodyAt = lines.At(lines.Len() - 1).Stop
		}
		sections = append(sections, s)
		return ast.WalkContinue, nil
	})

	for i, s := range sections {
		end := len(source)
		if i+1 < len(sections) {
			end = sections[i+1].start
		}
		body := ""
		if s.bodyAt < end {
			body = strings.TrimSpace(string(source[s.bodyAt:end]))
		}
		file.Entries = append(file.Entries, Entry{Version: s.version, Date: s.date, Body: body})
	}

	return file, nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				buf.Write(textNode.Segment.Value(source))
				continue
			}
			walk(child)
		}
	}
	walk(node)
	return buf.String()
}

// splitVersionHeading splits "## [1.2.0] - 2024-01-15" style headings into
// version and date
func splitVersionHeading(heading string) (version, date string) {
	heading = strings.TrimSpace(heading)

	if strings.HasPrefix(heading, "[") {
		heading = heading[1:]
		if idx := strings.Index(heading, "]"); idx != -1 {
			version = heading[:idx]
			rest := strings.TrimSpace(heading[idx+1:])
			date = strings.TrimSpace(strings.TrimPrefix(rest, "- "))
			return version, date
		}
	}

	if idx := strings.Index(heading, " - "); idx != -1 {
		return strings.TrimSpace(heading[:idx]), strings.TrimSpace(heading[idx+3:])
	}
	return heading, ""
}
