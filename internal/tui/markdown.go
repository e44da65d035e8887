package tui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	codeBlockRe  = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	inlineCodeRe = regexp.MustCompile(`<code>([^<]+)</code>`)
	headingRe    = regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	strongRe     = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emRe         = regexp.MustCompile(`<em>(.*?)</em>`)
	linkRe       = regexp.MustCompile(`<a href="([^"]*)"[^>]*>(.*?)</a>`)
	liRe         = regexp.MustCompile(`<li>(.*?)</li>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	blankRunsRe  = regexp.MustCompile(`\n{3,}`)
)

// MarkdownRenderer turns assistant replies into styled terminal text.
// Plain user messages never go through it.
type MarkdownRenderer struct {
	goldmark.Markdown
	formatter chroma.Formatter
	codeStyle *chroma.Style
	theme     Theme
}

func NewMarkdownRenderer(theme Theme) *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
		goldmark.WithExtensions(
			extension.GFM,
		),
	)
	return &MarkdownRenderer{
		Markdown:  md,
		formatter: formatters.Get("terminal256"),
		codeStyle: styles.Get("monokai"),
		theme:     theme,
	}
}

// Render converts markdown to terminal output fitted to width. On any
// conversion failure the raw content is returned unstyled.
func (r *MarkdownRenderer) Render(content string, width int) string {
	var buf bytes.Buffer
	if err := r.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return r.restyle(buf.String(), width)
}

func (r *MarkdownRenderer) restyle(htmlContent string, width int) string {
	out := htmlContent

	// Code blocks are lifted out first so later passes cannot mangle their
	// highlighted contents.
	var lifted []string
	out = codeBlockRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := codeBlockRe.FindStringSubmatch(m)
		if len(sub) < 3 {
			return m
		}
		code := decodeEntities(sub[2])
		boxWidth := width - 6
		if boxWidth < 20 {
			boxWidth = 20
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(r.theme.Border).
			Padding(0, 1).
			Width(boxWidth).
			Render(r.highlight(code, sub[1]))
		lifted = append(lifted, box)
		return fmt.Sprintf("\n\x00block:%d\x00\n", len(lifted)-1)
	})

	out = inlineCodeRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := inlineCodeRe.FindStringSubmatch(m)
		if len(sub) < 2 {
			return m
		}
		return lipgloss.NewStyle().
			Foreground(r.theme.Accent).
			Render(decodeEntities(sub[1]))
	})

	out = headingRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := headingRe.FindStringSubmatch(m)
		if len(sub) < 3 {
			return m
		}
		text := tagRe.ReplaceAllString(sub[2], "")
		style := lipgloss.NewStyle().Bold(true).Foreground(r.theme.TextPrimary)
		if sub[1] == "1" {
			style = style.Underline(true)
		}
		return style.Render(text) + "\n"
	})

	out = strongRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := strongRe.FindStringSubmatch(m)
		if len(sub) < 2 {
			return m
		}
		return lipgloss.NewStyle().Bold(true).Render(sub[1])
	})

	out = emRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := emRe.FindStringSubmatch(m)
		if len(sub) < 2 {
			return m
		}
		return lipgloss.NewStyle().Italic(true).Render(sub[1])
	})

	out = linkRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		if len(sub) < 3 {
			return m
		}
		label := tagRe.ReplaceAllString(sub[2], "")
		if label == sub[1] {
			return lipgloss.NewStyle().Underline(true).Foreground(r.theme.Accent).Render(label)
		}
		return lipgloss.NewStyle().Underline(true).Foreground(r.theme.Accent).
			Render(fmt.Sprintf("%s (%s)", label, sub[1]))
	})

	out = liRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := liRe.FindStringSubmatch(m)
		if len(sub) < 2 {
			return m
		}
		return "  • " + tagRe.ReplaceAllString(sub[1], "") + "\n"
	})

	out = strings.ReplaceAll(out, "<p>", "")
	out = strings.ReplaceAll(out, "</p>", "\n")
	out = strings.ReplaceAll(out, "<br>", "\n")
	out = strings.ReplaceAll(out, "<br/>", "\n")
	out = strings.ReplaceAll(out, "<br />", "\n")

	out = tagRe.ReplaceAllString(out, "")
	out = decodeEntities(out)

	for i, box := range lifted {
		out = strings.ReplaceAll(out, fmt.Sprintf("\x00block:%d\x00", i), box)
	}

	out = blankRunsRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.codeStyle, it); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

var entityPairs = [...][2]string{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", "\""},
	{"&#39;", "'"},
	{"&#x27;", "'"},
	{"&#x60;", "`"},
	{"&nbsp;", " "},
	{"&hellip;", "..."},
}

func decodeEntities(s string) string {
	for _, p := range entityPairs {
		s = strings.ReplaceAll(s, p[0], p[1])
	}
	return s
}
