package xhtml

import (
	"strconv"

	"github.com/gerunddev/dotwiki/internal/dispatch"
	"github.com/gerunddev/dotwiki/internal/grammar"
	"github.com/gerunddev/dotwiki/internal/node"
)

const footnotesKey = "xhtml.footnotes"

func collected(c *dispatch.Context) []string {
	v, _ := c.Value(footnotesKey)
	notes, _ := v.([]string)
	return notes
}

// inlineFootnote stores the rendered note and leaves a numbered reference.
func (t *Translator) inlineFootnote(c *dispatch.Context, m grammar.Match) (string, error) {
	body, err := c.InlineField(m, "footnote")
	if err != nil {
		return "", err
	}
	notes := append(collected(c), body)
	c.Set(footnotesKey, notes)

	n := strconv.Itoa(len(notes))
	return `<sup><a href="#` + t.footnotePrefix + n + `">` + n + `</a></sup>`, nil
}

// footnotes renders the collected notes after the document.
func (t *Translator) footnotes(c *dispatch.Context) (string, error) {
	notes := collected(c)
	if len(notes) == 0 {
		return "", nil
	}

	div := node.New("div").SetAttr("class", "footnotes")
	ol := node.New("ol")
	if err := div.AppendChild(ol); err != nil {
		return "", err
	}
	for i, body := range notes {
		li := node.New("li").SetAttr("id", t.footnotePrefix+strconv.Itoa(i+1))
		if err := li.AppendChild(node.NewText(body)); err != nil {
			return "", err
		}
		if err := ol.AppendChild(li); err != nil {
			return "", err
		}
	}
	return t.ser.Render(div) + "\n", nil
}
