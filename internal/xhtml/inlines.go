package xhtml

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gerunddev/dotwiki/internal/dispatch"
	"github.com/gerunddev/dotwiki/internal/grammar"
)

func (t *Translator) inlineHandlers() map[grammar.Kind]dispatch.Handler {
	return map[grammar.Kind]dispatch.Handler{
		grammar.KindURI:      inlineURI,
		grammar.KindImage:    inlineImage,
		grammar.KindEscape:   inlineEscape,
		grammar.KindEmphasis: wrap("em", "em"),
		grammar.KindStrong:   wrap("strong", "strong"),
		grammar.KindBreak:    inlineBreak,
		grammar.KindAnchor:   inlineAnchor,
		grammar.KindLink:     inlineLink,
		grammar.KindAcronym:  inlineAcronym,
		grammar.KindCite:     inlineCite,
		grammar.KindCode:     wrap(`tt class="code"`, "code"),
		grammar.KindInsert:   wrap("ins", "ins"),
		grammar.KindDelete:   wrap("del", "del"),
		grammar.KindFootnote: t.inlineFootnote,
	}
}

// wrap renders field inline between an open tag and its close tag.
func wrap(open, field string) dispatch.Handler {
	name, _, _ := strings.Cut(open, " ")
	return func(c *dispatch.Context, m grammar.Match) (string, error) {
		body, err := c.InlineField(m, field)
		if err != nil {
			return "", err
		}
		return "<" + open + ">" + body + "</" + name + ">", nil
	}
}

func inlineBreak(*dispatch.Context, grammar.Match) (string, error) {
	return "<br />", nil
}

func inlineEscape(_ *dispatch.Context, m grammar.Match) (string, error) {
	return Escape(m.Field("escaped_char")), nil
}

func inlineAnchor(_ *dispatch.Context, m grammar.Match) (string, error) {
	name, err := replace(nonWord, m.Field("anchor"), "-")
	if err != nil {
		return "", err
	}
	return `<a name="` + Escape(name) + `"></a>`, nil
}

func inlineAcronym(c *dispatch.Context, m grammar.Match) (string, error) {
	var title string
	if t := strings.TrimSpace(m.Field("acronym_title")); t != "" {
		title = ` title="` + Escape(t) + `"`
	}
	body, err := c.InlineField(m, "acronym_value")
	if err != nil {
		return "", err
	}
	return "<acronym" + title + ">" + strings.TrimSpace(body) + "</acronym>", nil
}

func isExternal(href string) bool {
	u, err := url.Parse(href)
	return err == nil && u.Scheme != ""
}

func inlineLink(c *dispatch.Context, m grammar.Match) (string, error) {
	href := m.Field("a_href")

	var b strings.Builder
	b.WriteString(`<a href="` + Escape(href) + `"`)
	if title := m.Field("a_title"); title != "" {
		b.WriteString(` title="` + Escape(title) + `"`)
	}
	if lang := m.Field("a_lang"); lang != "" {
		b.WriteString(` hreflang="` + Escape(lang) + `"`)
	}
	if isExternal(href) {
		b.WriteString(` class="external"`)
	}

	label := Escape(href)
	if _, ok := m.Lookup("a_value"); ok {
		var err error
		if label, err = c.InlineField(m, "a_value"); err != nil {
			return "", err
		}
	}
	b.WriteString(">" + label + "</a>")
	return b.String(), nil
}

func inlineURI(_ *dispatch.Context, m grammar.Match) (string, error) {
	uri := Escape(m.Field("uri"))
	return `<a href="` + uri + `" class="external">` + uri + `</a>`, nil
}

var alignments = map[rune]string{
	'l': "float:left; margin: 0 1em 1em 0;",
	'g': "float:left; margin: 0 1em 1em 0;",
	'c': "display:block; margin:0 auto;",
	'm': "display:block; margin:0 auto;",
	'r': "float:right; margin: 0 0 1em 1em;",
	'd': "float:right; margin: 0 0 1em 1em;",
}

func inlineImage(c *dispatch.Context, m grammar.Match) (string, error) {
	attrs := []string{`<img src="` + Escape(m.Field("img_src")) + `"`}
	if alt := m.Field("img_alt"); alt != "" {
		attrs = append(attrs, `alt="`+Escape(alt)+`"`)
	}
	if desc := m.Field("img_desc"); desc != "" {
		attrs = append(attrs, `longdesc="`+Escape(desc)+`"`)
	}
	if align, ok := m.Lookup("img_align"); ok {
		key := []rune(strings.ToLower(strings.TrimSpace(align.Value)))
		if style, known := alignments[firstRune(key)]; known {
			attrs = append(attrs, `style="`+style+`"`)
		} else {
			c.Warn(m, fmt.Sprintf("unknown alignment %q", align.Value))
		}
	}
	attrs = append(attrs, "/>")
	return strings.Join(attrs, " "), nil
}

func firstRune(r []rune) rune {
	if len(r) == 0 {
		return 0
	}
	return r[0]
}

func inlineCite(c *dispatch.Context, m grammar.Match) (string, error) {
	var b strings.Builder
	b.WriteString("<q")
	if lang := m.Field("cite_lang"); lang != "" {
		b.WriteString(` lang="` + Escape(lang) + `"`)
	}
	if cite := m.Field("cite_cite"); cite != "" {
		b.WriteString(` cite="` + Escape(cite) + `"`)
	}
	body, err := c.InlineField(m, "cite_value")
	if err != nil {
		return "", err
	}
	b.WriteString(">" + strings.TrimSpace(body) + "</q>")
	return b.String(), nil
}
