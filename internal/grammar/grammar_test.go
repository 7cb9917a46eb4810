package grammar

import (
	"testing"
)

func mustBlock(t *testing.T) *Grammar {
	t.Helper()
	g, err := Block()
	if err != nil {
		t.Fatalf("Block grammar failed to compile: %v", err)
	}
	return g
}

func mustInline(t *testing.T) *Grammar {
	t.Helper()
	g, err := Inline()
	if err != nil {
		t.Fatalf("Inline grammar failed to compile: %v", err)
	}
	return g
}

func kinds(matches []Match) []Kind {
	out := make([]Kind, len(matches))
	for i, m := range matches {
		out[i] = m.Kind
	}
	return out
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{name: "no rules", rules: nil},
		{name: "rule without kind", rules: []Rule{{Pattern: `(?<x>x)`}}},
		{name: "kind without group", rules: []Rule{{Kinds: []Kind{"y"}, Pattern: `(?<x>x)`}}},
		{name: "bad pattern", rules: []Rule{{Kinds: []Kind{"x"}, Pattern: `(?<x>x`}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile("test", "", tt.rules); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestKindsAndDefines(t *testing.T) {
	g := mustBlock(t)

	if !g.Defines(KindList) || !g.Defines(KindXMP) || !g.Defines(KindSpecial) {
		t.Error("Expected block grammar to define list, xmp and special")
	}
	if g.Defines(KindEmphasis) {
		t.Error("Expected block grammar not to define em")
	}
	if got := len(g.Kinds()); got != 9 {
		t.Errorf("Expected 9 block kinds, got %d", got)
	}
	if got := len(mustInline(t).Kinds()); got != 14 {
		t.Errorf("Expected 14 inline kinds, got %d", got)
	}
}

func TestBlockScan(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Kind
	}{
		{name: "paragraphs", input: "Paragraphe 1.\n\nParagraphe 2.", expected: []Kind{KindParagraph, KindNewline, KindParagraph}},
		{name: "head", input: "!!!Titre", expected: []Kind{KindHead}},
		{name: "hr", input: "----", expected: []Kind{KindHR}},
		{name: "pre", input: " un\n deux", expected: []Kind{KindPre}},
		{name: "xmp", input: "///\nraw\n///", expected: []Kind{KindXMP}},
		{name: "special", input: "/// html\n<b>x</b>\n///", expected: []Kind{KindSpecial}},
		{name: "list", input: "* a\n** b\n* c", expected: []Kind{KindList}},
		{name: "ordered list", input: "# a\n# b", expected: []Kind{KindList}},
		// The trailing newline ends the quote and leaves an empty last line.
		{name: "blockquote", input: "> a\n>\n> b\n", expected: []Kind{KindBlockquote, KindNewline}},
		{name: "blockquote without newline", input: "> a", expected: []Kind{KindBlockquote}},
	}

	g := mustBlock(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := g.Scan(tt.input)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			got := kinds(matches)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Match %d: expected %s, got %s", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestBlockFields(t *testing.T) {
	g := mustBlock(t)

	matches, err := g.Scan("!!Titre")
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected one match, got %d (%v)", len(matches), err)
	}
	if got := matches[0].Field("head_level"); got != "!!" {
		t.Errorf("Expected head_level !!, got %q", got)
	}
	if got := matches[0].Field("head_value"); got != "Titre" {
		t.Errorf("Expected head_value Titre, got %q", got)
	}

	matches, err = g.Scan("/// html\n<b>x</b>\n///")
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected one match, got %d (%v)", len(matches), err)
	}
	if got := matches[0].Field("macro"); got != "html" {
		t.Errorf("Expected macro html, got %q", got)
	}
	if _, ok := matches[0].Lookup("xmp"); ok {
		t.Error("Expected xmp field to be absent in a macro block")
	}
}

func TestInlineScan(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   Kind
		fields map[string]string
	}{
		{name: "em", input: "''emphase''", kind: KindEmphasis, fields: map[string]string{"em": "emphase"}},
		{name: "strong", input: "__forte__", kind: KindStrong, fields: map[string]string{"strong": "forte"}},
		{name: "code", input: "@@code@@", kind: KindCode, fields: map[string]string{"code": "code"}},
		{name: "ins", input: "++insert++", kind: KindInsert, fields: map[string]string{"ins": "insert"}},
		{name: "del", input: "--suppression--", kind: KindDelete, fields: map[string]string{"del": "suppression"}},
		{name: "br", input: "%%%", kind: KindBreak},
		{name: "anchor", input: "~ ancre ~", kind: KindAnchor, fields: map[string]string{"anchor": "ancre"}},
		{name: "escape", input: `\*`, kind: KindEscape, fields: map[string]string{"escaped_char": "*"}},
		{
			name:   "acronym",
			input:  "??acronyme|titre??",
			kind:   KindAcronym,
			fields: map[string]string{"acronym_value": "acronyme", "acronym_title": "titre"},
		},
		{name: "link href only", input: "[url]", kind: KindLink, fields: map[string]string{"a_href": "url"}},
		{
			name:   "link full",
			input:  "[nom|url|langue|titre]",
			kind:   KindLink,
			fields: map[string]string{"a_value": "nom", "a_href": "url", "a_lang": "langue", "a_title": "titre"},
		},
		{
			name:   "image",
			input:  "((url|alt|C|desc))",
			kind:   KindImage,
			fields: map[string]string{"img_src": "url", "img_alt": "alt", "img_align": "C", "img_desc": "desc"},
		},
		{
			name:   "cite",
			input:  "{{citation|langue|source}}",
			kind:   KindCite,
			fields: map[string]string{"cite_value": "citation", "cite_lang": "langue", "cite_cite": "source"},
		},
		{
			name:   "uri",
			input:  "http://www.example.net/?this=is+an%20automated#url",
			kind:   KindURI,
			fields: map[string]string{"uri": "http://www.example.net/?this=is+an%20automated#url"},
		},
		{name: "footnote", input: "texte$$note$$", kind: KindFootnote, fields: map[string]string{"footnote": "note"}},
	}

	g := mustInline(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := g.Scan(tt.input)
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if len(matches) != 1 {
				t.Fatalf("Expected 1 match, got %d: %v", len(matches), kinds(matches))
			}
			m := matches[0]
			if m.Kind != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, m.Kind)
			}
			for name, want := range tt.fields {
				if got := m.Field(name); got != want {
					t.Errorf("Field %s: expected %q, got %q", name, want, got)
				}
			}
		})
	}
}

func TestInlineNonGreedy(t *testing.T) {
	g := mustInline(t)

	matches, err := g.Scan("''a'' and ''b'' [x] [y]")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	got := kinds(matches)
	expected := []Kind{KindEmphasis, KindEmphasis, KindLink, KindLink}
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Match %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
}

func TestInlineEscapedOpener(t *testing.T) {
	g := mustInline(t)

	matches, err := g.Scan(`\''pas emphase''`)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	for _, m := range matches {
		if m.Kind == KindEmphasis && m.Start == 1 {
			t.Error("Expected an escaped opener not to start emphasis")
		}
	}
}

func TestScanAtOffsets(t *testing.T) {
	g := mustInline(t)

	matches, err := g.ScanAt("é ''x''", 10)
	if err != nil {
		t.Fatalf("ScanAt failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Start != 12 || m.End != 17 {
		t.Errorf("Expected rune span [12,17), got [%d,%d)", m.Start, m.End)
	}
	f, ok := m.Lookup("em")
	if !ok || f.Start != 14 || f.End != 15 {
		t.Errorf("Expected em field at [14,15), got %+v (%v)", f, ok)
	}
}

func TestNewMatch(t *testing.T) {
	m := NewMatch("foo", 3, "raw", map[string]string{"x": "y"})

	if m.End != 6 || m.Text != "raw" || m.Kind != "foo" {
		t.Errorf("Unexpected match: %+v", m)
	}
	if m.Field("x") != "y" || m.Field("missing") != "" {
		t.Error("Unexpected field values")
	}
}
