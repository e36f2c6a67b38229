
package classifier

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"docsite-frame-checker/internal/models"
	"docsite-frame-checker/internal/parser"
)

const (
	LabelHomepage     = "homepage"
	LabelReleaseNotes = "release-notes"
	LabelArticle      = "article"
	LabelOther        = "other"
)

type Classifier struct{}

func New() *Classifier { return &Classifier{} }

// simple stopword list (extend as needed)
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {}, "for": {}, "is": {}, "on": {}, "with": {}, "as": {},
	"by": {}, "at": {}, "from": {}, "that": {}, "this": {}, "it": {}, "an": {}, "be": {}, "or": {}, "are": {}, "was": {},
	"will": {}, "has": {}, "have": {}, "had": {}, "but": {}, "not": {}, "your": {}, "you": {}, "we": {}, "our": {},
	"github": {}, "docs": {},
}

var releaseNotesRe = regexp.MustCompile(`/[^/]+@[^/]+/.*release-notes`)

// Classify labels a rendered docs page by the frame markers it carries.
func (c *Classifier) Classify(doc *parser.Document) models.Classification {
	reason := map[string]string{}

	// homepage signals
	if n := doc.ProductCount(); n > 0 {
		reason["product"] = "product marker present"
	}
	if len(doc.BumpLinkHrefs()) > 0 {
		reason["bump-link"] = "homepage bump links present"
	}
	if len(reason) > 0 {
		return models.Classification{Label: LabelHomepage, Reason: reason}
	}

	// release notes signals
	if releaseNotesRe.MatchString(doc.Canonical()) {
		reason["canonical"] = "versioned release-notes canonical"
		return models.Classification{Label: LabelReleaseNotes, Reason: reason}
	}

	if len(doc.BreadcrumbHrefs()) > 0 {
		reason["breadcrumbs"] = "breadcrumb trail present"
		return models.Classification{Label: LabelArticle, Reason: reason}
	}

	return models.Classification{Label: LabelOther, Reason: reason}
}

// TopTopics returns top N keywords by normalized frequency, ignoring stopwords and short tokens.
func (c *Classifier) TopTopics(text string, n int) []string {
	freq := map[string]int{}
	token := func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) }
	words := strings.FieldsFunc(strings.ToLower(text), token)

	for _, w := range words {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		freq[w]++
	}

	type kv struct {
		K string
		V int
	}
	var list []kv
	for k, v := range freq {
		list = append(list, kv{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].V == list[j].V {
			return list[i].K < list[j].K
		}
		return list[i].V > list[j].V
	})
	n = max(0, min(n, len(list)))
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, list[i].K)
	}
	return out
}
