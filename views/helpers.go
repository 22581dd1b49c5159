package views

import (
	"encoding/json"
	"strings"
)

// absoluteURL joins the update's permalink onto the site base URL.
func absoluteURL(site Site, u Update) string {
	return strings.TrimSuffix(site.URL, "/") + u.Permalink()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the site.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      site.URL,
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// UpdateJsonLD produces a Schema.org BlogPosting JSON-LD block for one
// update.
func UpdateJsonLD(site Site, u Update) string {
	updateURL := absoluteURL(site, u)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      u.Title,
		"datePublished": u.CreatedAt.Format("2006-01-02"),
		"url":           updateURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   updateURL,
		},
	}
	if u.AuthorName != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  u.AuthorName,
		}
	}
	if u.ImageURL != "" {
		data["image"] = u.ImageURL
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
