package site

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// anchorHeadings wraps the text of every h2 and h3 carrying an id in a
// permalink to that id.
func anchorHeadings(body template.HTML) (template.HTML, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	doc.Find("h2[id], h3[id]").Each(func(i int, s *goquery.Selection) {
		if s.Find("a").Length() > 0 {
			return
		}
		s.WrapInnerHtml(`<a href="#` + template.HTMLEscapeString(s.AttrOr("id", "")) + `"></a>`)
	})
	out, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}
