// Package seo builds the sitemap and robots.txt surfaces and audits
// published pages for common on-page problems.
package seo

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/traviworld/editorial/internal/catalog"
	"github.com/traviworld/editorial/internal/models"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	lastModFormat    = "2006-01-02"
)

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap renders the sitemap for published content and destination pages.
func Sitemap(baseURL string, contents []models.Content, destinations []catalog.Destination) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs:  make([]sitemapURL, 0, len(contents)+len(destinations)),
	}

	for i := range contents {
		content := &contents[i]
		if !content.IsPublished() {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     base + content.SitePath(),
			LastMod: content.UpdatedAt.UTC().Format(lastModFormat),
		})
	}

	for i := range destinations {
		set.URLs = append(set.URLs, sitemapURL{
			Loc: base + "/destinations/" + destinations[i].Slug,
		})
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// RobotsTxt renders robots.txt pointing crawlers at the sitemap.
func RobotsTxt(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")

	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/admin\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + base + "/sitemap.xml\n")

	return b.String()
}
