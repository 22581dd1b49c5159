// Package markdown renders author-written Markdown to HTML as a templ
// component. All text is HTML-escaped before formatting and every URL goes
// through SafeURL, so raw markup in the source cannot inject into the page.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reImg              = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrderedItem      = regexp.MustCompile(`^\d+\.\s`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		Render(&buf, md)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render writes the HTML representation of md to buf. It is a pure
// transform: no caching, no side effects, same output for the same input.
func Render(buf *bytes.Buffer, md string) {
	imageCount := 0
	inPara := false
	inList := false
	inOrdered := false
	inQuote := false
	inCode := false

	flushPara := func() {
		if inPara {
			buf.WriteString("</p>")
			inPara = false
		}
	}
	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	flushOrdered := func() {
		if inOrdered {
			buf.WriteString("</ol>")
			inOrdered = false
		}
	}
	flushQuote := func() {
		if inQuote {
			buf.WriteString("</blockquote>")
			inQuote = false
		}
	}
	flushBlocks := func() {
		flushPara()
		flushList()
		flushOrdered()
		flushQuote()
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if inCode {
				buf.WriteString("</code></pre>")
				inCode = false
			} else {
				flushBlocks()
				buf.WriteString("<pre class=\"code-block\"><code>")
				inCode = true
			}
			continue
		}
		if inCode {
			buf.WriteString(html.EscapeString(line))
			buf.WriteString("\n")
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushBlocks()
			continue
		}

		switch {
		case strings.HasPrefix(line, "---"):
			flushBlocks()
			buf.WriteString("<hr/>")
		case strings.HasPrefix(line, "### "):
			flushBlocks()
			buf.WriteString("<h3>" + FormatInline(strings.TrimSpace(line[4:]), &imageCount) + "</h3>")
		case strings.HasPrefix(line, "## "):
			flushBlocks()
			buf.WriteString("<h2>" + FormatInline(strings.TrimSpace(line[3:]), &imageCount) + "</h2>")
		case strings.HasPrefix(line, "# "):
			flushBlocks()
			buf.WriteString("<h1>" + FormatInline(strings.TrimSpace(line[2:]), &imageCount) + "</h1>")
		case strings.HasPrefix(line, "- "):
			if !inList {
				flushPara()
				flushOrdered()
				flushQuote()
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>" + FormatInline(strings.TrimSpace(line[2:]), &imageCount) + "</li>")
		case reOrderedItem.MatchString(line):
			if !inOrdered {
				flushPara()
				flushList()
				flushQuote()
				buf.WriteString("<ol>")
				inOrdered = true
			}
			item := reOrderedItem.ReplaceAllString(line, "")
			buf.WriteString("<li>" + FormatInline(strings.TrimSpace(item), &imageCount) + "</li>")
		case strings.HasPrefix(line, "> "):
			if !inQuote {
				flushPara()
				flushList()
				flushOrdered()
				buf.WriteString("<blockquote>")
				inQuote = true
			}
			buf.WriteString(FormatInline(strings.TrimSpace(line[2:]), &imageCount))
		default:
			if !inPara {
				flushList()
				flushOrdered()
				flushQuote()
				buf.WriteString("<p>")
				inPara = true
			} else {
				buf.WriteString(" ")
			}
			buf.WriteString(FormatInline(strings.TrimSpace(line), &imageCount) + "\n")
		}
	}
	flushBlocks()
	if inCode {
		buf.WriteString("</code></pre>")
	}
}

// applyOutsideTags applies fn only to text segments outside HTML tags, so
// the bold/italic regexes never touch URLs inside src/href attributes.
func applyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline applies inline formatting (images, links, code, bold,
// italic) to one already-unwrapped line. imageCount tracks document-wide
// image order so the first image gets fetch priority.
func FormatInline(s string, imageCount *int) string {
	escaped := html.EscapeString(s)

	// Images first: ![alt](url). The link regex would otherwise swallow
	// the bracketed part.
	escaped = reImg.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reImg.FindStringSubmatch(m)
		if len(match) < 3 {
			return m
		}
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}
		*imageCount++
		loadAttr := `loading="lazy"`
		if *imageCount == 1 {
			loadAttr = `fetchpriority="high"`
		}
		return `<img ` + loadAttr + ` alt="` + match[1] + `" src="` + src + `" decoding="async"/>`
	})

	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		if len(match) < 3 {
			return m
		}
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		return `<a href="` + href + `">` + match[1] + `</a>`
	})

	// Inline code: swap for placeholders so bold/italic regexes do not
	// format content inside backticks.
	var codeSpans []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		placeholder := "\x00C" + strconv.Itoa(len(codeSpans)) + "\x00"
		codeSpans = append(codeSpans, "<code>"+match[1]+"</code>")
		return placeholder
	})

	escaped = applyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})

	for i, code := range codeSpans {
		escaped = strings.Replace(escaped, "\x00C"+strconv.Itoa(i)+"\x00", code, 1)
	}
	return escaped
}

// SafeURL validates a URL for use in HTML attributes. Only http, https,
// mailto, tel, relative paths, and fragments pass; everything else renders
// as plain text.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
