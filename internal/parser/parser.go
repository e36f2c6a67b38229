
package parser

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"docsite-frame-checker/internal/models"
)

// Document wraps a parsed page with the queries the frame checks need.
type Document struct {
	doc *goquery.Document
}

type Alternate = models.Alternate

func Parse(r io.Reader, contentType string) (*Document, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

func (d *Document) Canonical() string {
	return strings.TrimSpace(d.doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
}

// Lang is the lang attribute of <html>.
func (d *Document) Lang() string {
	return strings.TrimSpace(d.doc.Find("html").AttrOr("lang", ""))
}

func (d *Document) BreadcrumbHrefs() []string {
	return hrefs(d.doc.Find(`[data-testid=breadcrumbs] a`))
}

func (d *Document) BumpLinkHrefs() []string {
	return hrefs(d.doc.Find(`[data-testid=bump-link]`))
}

func (d *Document) Alternates() []Alternate {
	var out []Alternate
	d.doc.Find(`link[rel="alternate"][hreflang]`).Each(func(i int, s *goquery.Selection) {
		out = append(out, Alternate{
			Hreflang: s.AttrOr("hreflang", ""),
			Href:     s.AttrOr("href", ""),
		})
	})
	return out
}

// CountAlternateHref counts alternate links pointing at href exactly.
func (d *Document) CountAlternateHref(href string) int {
	n := 0
	d.doc.Find(`link[rel="alternate"]`).Each(func(i int, s *goquery.Selection) {
		if s.AttrOr("href", "") == href {
			n++
		}
	})
	return n
}

// LinkText is the concatenated text of every anchor whose href equals href.
func (d *Document) LinkText(href string) string {
	var parts []string
	d.doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		if s.AttrOr("href", "") == href {
			parts = append(parts, s.Text())
		}
	})
	return strings.Join(parts, "")
}

// Text is the whitespace-collapsed text of <main>, or of <body> when the
// page has no main element.
func (d *Document) Text() string {
	sel := d.doc.Find("main")
	if sel.Length() == 0 {
		sel = d.doc.Find("body")
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func (d *Document) Headings() []string {
	var out []string
	d.doc.Find("h1, h2, h3").Each(func(i int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func (d *Document) ProductCount() int {
	return d.doc.Find(`[data-testid=product]`).Length()
}

func (d *Document) SurveyHeading() string {
	return strings.TrimSpace(d.doc.Find(`[data-testid="survey-form"] h2`).Text())
}

// HeadingAnchorCount counts h2 permalinks pointing at #id.
func (d *Document) HeadingAnchorCount(id string) int {
	want := "#" + id
	n := 0
	d.doc.Find("h2 a[href]").Each(func(i int, s *goquery.Selection) {
		if s.AttrOr("href", "") == want {
			n++
		}
	})
	return n
}

func hrefs(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(i int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			out = append(out, href)
		}
	})
	return out
}
