package views

import (
	"bytes"
	"fmt"
	"html"

	"github.com/a-h/templ"
)

// ImageItem is the view model for one uploaded image in the admin list.
type ImageItem struct {
	Filename string
	URL      string
	Width    int
	Height   int
	Size     int
}

// ImageList renders the admin page listing uploaded images.
func ImageList(site Site, images []ImageItem, csrfToken string) templ.Component {
	return page(site, "Images - "+site.Name, func(buf *bytes.Buffer) {
		buf.WriteString("<h1>Uploaded Images</h1>")
		buf.WriteString("<p><a href=\"/admin/\">Back to composer</a></p>")
		if len(images) == 0 {
			buf.WriteString("<p class=\"empty\">No images uploaded yet.</p>")
			return
		}
		buf.WriteString("<ul class=\"image-list\" data-csrf=\"" + html.EscapeString(csrfToken) + "\">")
		for _, img := range images {
			buf.WriteString("<li data-filename=\"" + html.EscapeString(img.Filename) + "\">")
			buf.WriteString("<img src=\"" + html.EscapeString(img.URL) + "\" alt=\"" + html.EscapeString(img.Filename) + "\" loading=\"lazy\"/>")
			buf.WriteString("<code>" + html.EscapeString(img.URL) + "</code>")
			buf.WriteString(fmt.Sprintf("<span class=\"meta\">%dx%d, %d bytes</span>", img.Width, img.Height, img.Size))
			buf.WriteString("<button type=\"button\" class=\"delete-image\">Delete</button>")
			buf.WriteString("</li>")
		}
		buf.WriteString("</ul>")
		buf.WriteString("<script src=\"/public/composer.js\"></script>")
	})
}
