package teamupdates

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	Author  string `xml:"author,omitempty"`
	PubDate string `xml:"pubDate"`
	GUID    string `xml:"guid"`
}

// handleFeed serves an RSS 2.0 feed of the updates, newest first.
func (a *App) handleFeed(c echo.Context) error {
	updates, err := a.Repo.ListUpdates(c.Request().Context())
	if err != nil {
		return err
	}

	base := a.Config.URL
	items := make([]rssItem, 0, len(updates))
	for _, u := range updates {
		link := BuildURL(base, "updates", u.ID)
		items = append(items, rssItem{
			Title:   u.Title,
			Link:    link,
			Author:  u.AuthorName,
			PubDate: u.CreatedAt.Format(time.RFC1123Z),
			GUID:    link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
