package xhtml

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gerunddev/dotwiki/internal/dispatch"
	"github.com/gerunddev/dotwiki/internal/grammar"
	"github.com/gerunddev/dotwiki/internal/listtree"
)

func (t *Translator) blockHandlers() map[grammar.Kind]dispatch.Handler {
	return map[grammar.Kind]dispatch.Handler{
		grammar.KindXMP:        blockXMP,
		grammar.KindSpecial:    blockSpecial,
		grammar.KindPre:        blockPre,
		grammar.KindList:       t.blockList,
		grammar.KindHead:       blockHead,
		grammar.KindHR:         blockHR,
		grammar.KindBlockquote: blockQuote,
		grammar.KindParagraph:  blockParagraph,
		grammar.KindNewline:    blockNewline,
	}
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

func blockHR(*dispatch.Context, grammar.Match) (string, error) {
	return "<hr />\n", nil
}

func blockNewline(*dispatch.Context, grammar.Match) (string, error) {
	return "", nil
}

func blockParagraph(c *dispatch.Context, m grammar.Match) (string, error) {
	body, err := c.InlineField(m, "p")
	if err != nil {
		return "", err
	}
	return "<p>" + strings.TrimSpace(body) + "</p>\n", nil
}

func blockXMP(_ *dispatch.Context, m grammar.Match) (string, error) {
	return `<pre class="xmp">` + strings.TrimSpace(Escape(m.Field("xmp"))) + "</pre>\n", nil
}

func blockSpecial(_ *dispatch.Context, m grammar.Match) (string, error) {
	return fmt.Sprintf(`<div class="macro %s">%s</div>`+"\n",
		Escape(m.Field("macro")), strings.TrimSpace(m.Field("special"))), nil
}

func blockPre(c *dispatch.Context, m grammar.Match) (string, error) {
	f, _ := m.Lookup("pre")
	text, err := replace(firstSpace, f.Value, "")
	if err != nil {
		return "", err
	}
	// Offsets of nested diagnostics are approximate once spaces are gone.
	body, err := c.InlineAt(text, f.Start)
	if err != nil {
		return "", err
	}
	return "<pre>" + trimRight(body) + "</pre>\n", nil
}

func blockHead(c *dispatch.Context, m grammar.Match) (string, error) {
	level := 6 - len(m.Field("head_level"))
	body, err := c.InlineField(m, "head_value")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<h%d>%s</h%d>\n", level, body, level), nil
}

func blockQuote(c *dispatch.Context, m grammar.Match) (string, error) {
	f, _ := m.Lookup("blockquote")
	text, err := replace(quoteMarker, f.Value, "")
	if err != nil {
		return "", err
	}
	body, err := c.InlineAt(text, f.Start)
	if err != nil {
		return "", err
	}
	paragraphs, err := split(blockSeparator, body)
	if err != nil {
		return "", err
	}
	return "<blockquote><p>" + trimRight(strings.Join(paragraphs, "</p>\n<p>")) + "</p></blockquote>\n", nil
}

// blockList builds the list tree, rendering each item's content inline,
// then serializes every top-level list.
func (t *Translator) blockList(c *dispatch.Context, m grammar.Match) (string, error) {
	frags, err := listtree.Split(m.Text)
	if err != nil {
		return "", err
	}

	rewrite := func(f listtree.Fragment) (string, error) {
		return c.InlineAt(f.Content, m.Start+f.Offset)
	}
	root, err := listtree.Build(frags, listtree.WithRewriter(rewrite))
	if err != nil {
		return "", err
	}

	var lists []string
	for list := range root.Children() {
		lists = append(lists, t.ser.Render(list))
	}
	return strings.Join(lists, "\n"), nil
}
