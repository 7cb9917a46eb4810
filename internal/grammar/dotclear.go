package grammar

import "strings"

// Block constructs.
const (
	KindXMP        Kind = "xmp"
	KindSpecial    Kind = "special"
	KindPre        Kind = "pre"
	KindList       Kind = "list"
	KindHead       Kind = "head"
	KindHR         Kind = "hr"
	KindBlockquote Kind = "blockquote"
	KindParagraph  Kind = "p"
	KindNewline    Kind = "nl"
)

// Inline constructs.
const (
	KindURI      Kind = "uri"
	KindImage    Kind = "img"
	KindEscape   Kind = "escape"
	KindEmphasis Kind = "em"
	KindStrong   Kind = "strong"
	KindBreak    Kind = "br"
	KindAnchor   Kind = "anchor"
	KindLink     Kind = "a"
	KindAcronym  Kind = "acronym"
	KindCite     Kind = "cite"
	KindCode     Kind = "code"
	KindInsert   Kind = "ins"
	KindDelete   Kind = "del"
	KindFootnote Kind = "footnote"
)

// word is a pipe-separated field: anything but an unescaped pipe, as short
// as possible.
const word = `(?:\\\||[^|])+?`

// linkWord additionally stops at the closing bracket.
const linkWord = `(?:\\\||[^|\]])+`

func expand(pattern string) string {
	return strings.NewReplacer("WORD", word, "LINK", linkWord).Replace(pattern)
}

// BlockRules are the dotclear block constructs, in priority order.
var BlockRules = []Rule{
	{
		Kinds:   []Kind{KindSpecial, KindXMP},
		Pattern: `(?:^\s*///\s*(?<macro>html)?\s*(?(macro)(?<special>(?:(?!///$)(?:.|\n))*)|(?<xmp>(?:(?!///$)(?:.|\n))*))///)`,
	},
	{
		Kinds:   []Kind{KindPre},
		Pattern: `(?<pre>(?:(?<=\n\n)|^)(?:^[ ].+(?:\n|$))+)`,
	},
	{
		// Matched whole; the items are split later. A list must start with a
		// single marker.
		Kinds:   []Kind{KindList},
		Pattern: `(?<list>^[ \t]*(?:[*][^*#]|[#][^#*]).*$(?:\n[ \t]*[*#]+.*$)*)`,
	},
	{
		Kinds:   []Kind{KindHead},
		Pattern: `^\s*(?<head>(?<head_level>!{1,4})(?<head_value>.*?))\s*$`,
	},
	{
		Kinds:   []Kind{KindHR},
		Pattern: `(?<hr>^\s*----\s*$)`,
	},
	{
		Kinds:   []Kind{KindBlockquote},
		Pattern: `^(?<blockquote>>(?:.|\n)+?)(?=^[^>]|^$|\z)`,
	},
	{
		Kinds:   []Kind{KindParagraph},
		Pattern: `(?<p>^(?:.+\n(?!\n))*.+$\n?)`,
	},
	{
		Kinds:   []Kind{KindNewline},
		Pattern: `(?<nl>^\s*$)`,
	},
}

// InlineRules are the dotclear inline constructs, in priority order.
var InlineRules = []Rule{
	{
		Kinds:   []Kind{KindURI},
		Pattern: `(?<uri>[a-zA-Z]+:/{0,3}[A-Za-z0-9\-.]+/?[%;/?:@&=+$,\[\]A-Za-z0-9\-_.!~*'()\w#]*)`,
	},
	{
		Kinds:   []Kind{KindImage},
		Pattern: expand(`(?<img>\(\((?<img_src>WORD)(?:\|(?<img_alt>WORD)(?:\|(?<img_align>WORD)(?:\|(?<img_desc>WORD))?)?)?\)\))`),
	},
	{
		Kinds:   []Kind{KindEscape},
		Pattern: `(?<escape>\\(?<escaped_char>\S))`,
	},
	{
		Kinds:   []Kind{KindEmphasis},
		Pattern: `''(?<em>.+?)(?<!\\)''`,
	},
	{
		Kinds:   []Kind{KindStrong},
		Pattern: `__(?<strong>.+?)(?<!\\)__`,
	},
	{
		Kinds:   []Kind{KindBreak},
		Pattern: `(?<br>%%%)`,
	},
	{
		Kinds:   []Kind{KindAnchor},
		Pattern: `~\s*(?<anchor>.+?)\s*(?<!\\)~`,
	},
	{
		Kinds:   []Kind{KindLink},
		Pattern: expand(`(?<a>\[(?:(?<a_value>LINK)(?<!\\)\|)?(?<a_href>LINK)(?:\|(?<a_lang>LINK)(?:\|(?<a_title>LINK))?)?\])`),
	},
	{
		Kinds:   []Kind{KindAcronym},
		Pattern: `\?\?\s*?(?<acronym>(?<acronym_value>.+?)\s*?(?:\|\s*?(?<acronym_title>.+?)\s*?|\|)?)\s*?(?<!\\)\?\?`,
	},
	{
		Kinds:   []Kind{KindCite},
		Pattern: expand(`(?<cite>\{\{(?<cite_value>WORD)(?:\|(?<cite_lang>WORD)(?:\|(?<cite_cite>WORD))?)?\}\})`),
	},
	{
		Kinds:   []Kind{KindCode},
		Pattern: `@@(?<code>.+?)(?<!\\)@@`,
	},
	{
		Kinds:   []Kind{KindInsert},
		Pattern: `\+\+(?<ins>.+?)(?<!\\)\+\+`,
	},
	{
		Kinds:   []Kind{KindDelete},
		Pattern: `--(?<del>.+?)(?<!\\)--`,
	},
	{
		Kinds:   []Kind{KindFootnote},
		Pattern: `(?<![\s\\])\$\$(?<footnote>(?:\\\$|[^$]|\$(?!\$))+)\$\$`,
	},
}

// inlineGuard keeps a backslash-escaped opener from starting a construct.
const inlineGuard = `(?<!\\)`

// Block compiles the block grammar.
func Block() (*Grammar, error) {
	return Compile("block", "", BlockRules)
}

// Inline compiles the inline grammar.
func Inline() (*Grammar, error) {
	return Compile("inline", inlineGuard, InlineRules)
}
