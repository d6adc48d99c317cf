package extract

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockTags end the current paragraph when opened or closed.
var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Caption: true, atom.Dd: true, atom.Div: true, atom.Dl: true,
	atom.Dt: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Section: true, atom.Table: true, atom.Td: true,
	atom.Th: true, atom.Title: true, atom.Tr: true, atom.Ul: true,
}

// skipTags hold no prose.
var skipTags = map[atom.Atom]bool{
	atom.Code: true, atom.Math: true, atom.Noscript: true, atom.Pre: true,
	atom.Script: true, atom.Style: true, atom.Svg: true, atom.Template: true,
}

// HTML extracts the text of block elements. <br> also breaks a paragraph.
func HTML(content string) Document {
	z := html.NewTokenizer(strings.NewReader(content))

	var (
		doc       Document
		buf       strings.Builder
		line      = 1 // line of the current token
		startLine int // line of the paragraph's first text, 0 if none yet
		skip      int // depth inside skipTags
	)
	flush := func() {
		if text := normalizeSpace(buf.String()); text != "" {
			doc.Paragraphs = append(doc.Paragraphs, text)
			doc.Lines = append(doc.Lines, startLine)
		}
		buf.Reset()
		startLine = 0
	}

	for {
		tt := z.Next()
		// Raw is only valid until Text or TagName is called.
		raw := z.Raw()
		tokLine := line
		line += bytes.Count(raw, []byte{'\n'})

		switch tt {
		case html.ErrorToken:
			flush()
			return doc

		case html.TextToken:
			if skip > 0 {
				continue
			}
			if startLine == 0 {
				trimmed := bytes.TrimLeftFunc(raw, unicode.IsSpace)
				if len(trimmed) == 0 {
					continue
				}
				startLine = tokLine + bytes.Count(raw[:len(raw)-len(trimmed)], []byte{'\n'})
			}
			buf.Write(z.Text())

		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipTags[a] {
				switch {
				case tt == html.StartTagToken:
					skip++
				case tt == html.EndTagToken && skip > 0:
					skip--
				}
				continue
			}
			if skip == 0 && (a == atom.Br || blockTags[a]) {
				flush()
			}
		}
	}
}

// normalizeSpace collapses whitespace runs left by markup. A run between
// two non-ASCII characters is dropped, since Japanese does not separate
// words; any other run becomes one space.
func normalizeSpace(s string) string {
	s = strings.TrimFunc(s, unicode.IsSpace)
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
			prev = r
			i += size
			continue
		}
		j := i
		for j < len(s) {
			r2, size2 := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsSpace(r2) {
				break
			}
			j += size2
		}
		next, _ := utf8.DecodeRuneInString(s[j:])
		if prev < utf8.RuneSelf || next < utf8.RuneSelf {
			b.WriteByte(' ')
		}
		i = j
	}
	return b.String()
}
