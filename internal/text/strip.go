// Package text prepares document text for speech synthesis. Markdown
// input is reduced to plain prose: formatting is dropped, link text is
// kept without the URL, and code blocks are skipped entirely since
// reading them aloud is noise.
package text

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// StripMarkdown extracts speakable plain text from markdown content.
func StripMarkdown(markdown string) string {
	md := goldmark.New()
	reader := gmtext.NewReader([]byte(markdown))
	doc := md.Parser().Parse(reader)

	var buf strings.Builder
	walk(doc, reader.Source(), &buf)
	return collapseWhitespace(buf.String())
}

// IsMarkdownPath reports whether a filename looks like a markdown file.
func IsMarkdownPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

func walk(node ast.Node, source []byte, buf *strings.Builder) {
	switch n := node.(type) {
	case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
		return

	case *ast.Text:
		// The parser splits text at characters that may open inline
		// syntax, so adjacent segments join directly; a space belongs
		// only where the source had a line break.
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteString(" ")
		}
		return

	case *ast.CodeSpan:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return

	case *ast.Heading:
		walkChildren(n, source, buf)
		// A period gives the synthesizer a sentence break after headings.
		buf.WriteString(". ")
		return

	case *ast.Paragraph, *ast.ListItem:
		walkChildren(node, source, buf)
		buf.WriteString(" ")
		return

	case *ast.Image:
		return
	}

	walkChildren(node, source, buf)
}

func walkChildren(node ast.Node, source []byte, buf *strings.Builder) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		walk(c, source, buf)
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
