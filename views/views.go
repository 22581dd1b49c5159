// Package views renders the site's HTML as templ components. Components
// build their markup into a buffer; all dynamic text is escaped and update
// bodies go through the markdown renderer.
package views

import (
	"bytes"
	"context"
	"html"
	"io"

	"github.com/a-h/templ"

	"github.com/Amit-Sucher/team-updates/composer"
	"github.com/Amit-Sucher/team-updates/markdown"
)

func component(fn func(buf *bytes.Buffer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		fn(&buf)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// page wraps body in the shared layout: head, site header, footer.
func page(site Site, title string, body func(buf *bytes.Buffer)) templ.Component {
	return component(func(buf *bytes.Buffer) {
		buf.WriteString("<!DOCTYPE html><html lang=\"en\"><head>")
		buf.WriteString("<meta charset=\"utf-8\"/>")
		buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"/>")
		buf.WriteString("<title>" + html.EscapeString(title) + "</title>")
		if site.Description != "" {
			buf.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(site.Description) + "\"/>")
		}
		buf.WriteString("<link rel=\"stylesheet\" href=\"/public/site.css\"/>")
		buf.WriteString("<script type=\"application/ld+json\">" + WebsiteJsonLD(site) + "</script>")
		buf.WriteString("</head><body>")
		buf.WriteString("<header class=\"site-header\"><a href=\"/\">" + html.EscapeString(site.Name) + "</a></header>")
		buf.WriteString("<main>")
		body(buf)
		buf.WriteString("</main>")
		buf.WriteString("<footer class=\"site-footer\"><a href=\"/feed.xml\">RSS</a></footer>")
		buf.WriteString("</body></html>")
	})
}

func writeArticle(buf *bytes.Buffer, u Update, linkTitle bool) {
	buf.WriteString("<article class=\"update\">")
	if u.ImageURL != "" {
		if src := markdown.SafeURL(u.ImageURL); src != "" {
			buf.WriteString("<img class=\"featured\" src=\"" + src + "\" alt=\"" + html.EscapeString(u.Title) + "\"/>")
		}
	}
	if linkTitle {
		buf.WriteString("<h2><a href=\"" + u.Permalink() + "\">" + html.EscapeString(u.Title) + "</a></h2>")
	} else {
		buf.WriteString("<h1>" + html.EscapeString(u.Title) + "</h1>")
	}
	buf.WriteString("<div class=\"byline\">" + u.CreatedAt.Format("January 2, 2006"))
	if u.AuthorName != "" {
		buf.WriteString(" by " + html.EscapeString(u.AuthorName))
	}
	buf.WriteString("</div>")
	buf.WriteString("<div class=\"update-body\">")
	markdown.Render(buf, u.Content)
	buf.WriteString("</div></article>")
}

// Home renders the public listing page, newest update first.
func Home(site Site, updates []Update) templ.Component {
	return page(site, site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>" + html.EscapeString(site.Name) + "</h1>")
		if len(updates) == 0 {
			buf.WriteString("<p class=\"empty\">No updates yet.</p>")
			return
		}
		for _, u := range updates {
			writeArticle(buf, u, true)
		}
	})
}

// UpdatePage renders one update's permalink page.
func UpdatePage(site Site, u Update) templ.Component {
	return page(site, u.Title+" - "+site.Name, func(buf *bytes.Buffer) {
		writeArticle(buf, u, false)
		buf.WriteString("<script type=\"application/ld+json\">" + UpdateJsonLD(site, u) + "</script>")
	})
}

func errorBanner(buf *bytes.Buffer, msg string) {
	if msg != "" {
		buf.WriteString("<div class=\"error-banner\">" + html.EscapeString(msg) + "</div>")
	}
}

func csrfField(buf *bytes.Buffer, token string) {
	buf.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + html.EscapeString(token) + "\"/>")
}

// SignIn renders the admin sign-in form.
func SignIn(site Site, errMsg, csrfToken string) templ.Component {
	return page(site, "Sign In - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Sign In</h1>")
		errorBanner(buf, errMsg)
		buf.WriteString("<form method=\"post\" action=\"/admin/login/\" class=\"signin-form\">")
		csrfField(buf, csrfToken)
		buf.WriteString("<label for=\"email\">Email</label>")
		buf.WriteString("<input type=\"email\" id=\"email\" name=\"email\" required/>")
		buf.WriteString("<label for=\"password\">Password</label>")
		buf.WriteString("<input type=\"password\" id=\"password\" name=\"password\" required/>")
		buf.WriteString("<button type=\"submit\">Sign In</button>")
		buf.WriteString("</form>")
	})
}

// Composer renders the add-update form. Field values come from the form
// state machine so a failed submit re-renders everything the user typed.
func Composer(site Site, form composer.Form, authorName, csrfToken string) templ.Component {
	return page(site, "Add New Update - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<div class=\"composer-header\"><h1>Add New Update</h1>")
		buf.WriteString("<form method=\"post\" action=\"/admin/logout/\">")
		csrfField(buf, csrfToken)
		buf.WriteString("<button type=\"submit\" class=\"link\">Sign Out (" + html.EscapeString(authorName) + ")</button>")
		buf.WriteString("</form></div>")
		errorBanner(buf, form.ErrMessage)
		buf.WriteString("<form method=\"post\" action=\"/admin/save/\" class=\"composer-form\">")
		csrfField(buf, csrfToken)
		buf.WriteString("<label for=\"title\">Title</label>")
		buf.WriteString("<input type=\"text\" id=\"title\" name=\"title\" required value=\"" + html.EscapeString(form.Title) + "\"/>")
		buf.WriteString("<label for=\"content\">Content</label>")
		buf.WriteString("<p class=\"hint\">Uploaded images are appended to the end of the content.</p>")
		buf.WriteString("<textarea id=\"content\" name=\"content\" rows=\"12\" required placeholder=\"Write your update here...\">" + html.EscapeString(form.Content) + "</textarea>")
		buf.WriteString("<label for=\"imageUrl\">Featured Image URL (Optional)</label>")
		buf.WriteString("<input type=\"text\" id=\"imageUrl\" name=\"imageUrl\" value=\"" + html.EscapeString(form.ImageURL) + "\"/>")
		if form.ImageURL != "" {
			if src := markdown.SafeURL(form.ImageURL); src != "" {
				buf.WriteString("<img class=\"featured-preview\" src=\"" + src + "\" alt=\"Featured Preview\"/>")
			}
		}
		buf.WriteString("<button type=\"submit\">Submit Update</button>")
		buf.WriteString("</form>")
		buf.WriteString("<script src=\"/public/composer.js\"></script>")
	})
}

// NotFound renders the styled 404 page.
func NotFound(site Site) templ.Component {
	return page(site, "Not Found - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>404</h1><p>That page does not exist.</p><p><a href=\"/\">Back to updates</a></p>")
	})
}

// ServerError renders the styled 500 page.
func ServerError(site Site) templ.Component {
	return page(site, "Something went wrong - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>500</h1><p>Something went wrong. Please try again.</p>")
	})
}
