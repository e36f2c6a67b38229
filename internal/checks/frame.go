
package checks

import (
	"context"
	"fmt"
	"strings"
)

func allowsCrawling(_ context.Context, env *Env, lang string) error {
	path := "/" + lang + crawlCheckPath
	return expectEqual("blockIndex("+path+")", false, env.Policy.BlockIndex(path))
}

func breadcrumbsLinkToLang(ctx context.Context, env *Env, lang string) error {
	doc, err := env.DOM.GetDOM(ctx, "/"+lang+breadcrumbPath)
	if err != nil {
		return err
	}
	crumbs := doc.BreadcrumbHrefs()
	if len(crumbs) == 0 {
		return &AssertionError{What: "breadcrumb links", Expected: "at least one", Actual: 0}
	}
	return expectEqual("first breadcrumb href", "/"+lang+sidebarPath, crumbs[0])
}

func homepageLinksLocalized(ctx context.Context, env *Env, lang string) error {
	doc, err := env.DOM.GetDOM(ctx, "/"+lang)
	if err != nil {
		return err
	}
	prefix := "/" + lang + "/"
	for _, href := range doc.BumpLinkHrefs() {
		if !strings.HasPrefix(href, prefix) {
			return &AssertionError{What: "bump link href", Expected: "prefix " + prefix, Actual: href}
		}
	}
	return nil
}

func homepageHreflang(ctx context.Context, env *Env, lang string) error {
	doc, err := env.DOM.GetDOM(ctx, "/"+env.Languages.DefaultCode())
	if err != nil {
		return err
	}
	href := env.siteURL() + "/" + lang
	return expectEqual(fmt.Sprintf("alternate links to %s", href), 1, doc.CountAlternateHref(href))
}

func htmlLangAttribute(ctx context.Context, env *Env, lang string) error {
	doc, err := env.DOM.GetDOM(ctx, "/"+lang)
	if err != nil {
		return err
	}
	return expectEqual("html lang", lang, doc.Lang())
}

func headingIDsInEnglish(ctx context.Context, env *Env, lang string) error {
	doc, err := env.DOM.GetDOM(ctx, "/"+lang+termsPath)
	if err != nil {
		return err
	}
	return expectEqual(`h2 anchors to "#summary"`, 1, doc.HeadingAnchorCount("summary"))
}

func sidebarLocalized(ctx context.Context, env *Env, lang string) error {
	def := env.Languages.DefaultCode()
	enDoc, err := env.DOM.GetDOM(ctx, "/"+def+sidebarPath)
	if err != nil {
		return err
	}
	doc, err := env.DOM.GetDOM(ctx, "/"+lang+sidebarPath)
	if err != nil {
		return err
	}
	enText := enDoc.LinkText("/" + def + sidebarPath)
	href := "/" + lang + sidebarPath
	text := doc.LinkText(href)
	if strings.TrimSpace(text) == "" {
		return &AssertionError{What: "sidebar link " + href, Expected: "link text", Actual: "no link"}
	}
	return expectNotEqual("sidebar text for "+href, enText, text)
}

func surveyLocalized(ctx context.Context, env *Env, lang string) error {
	enDoc, err := env.DOM.GetDOM(ctx, "/"+env.Languages.DefaultCode())
	if err != nil {
		return err
	}
	doc, err := env.DOM.GetDOM(ctx, "/"+lang)
	if err != nil {
		return err
	}
	return expectNotEqual("survey heading", enDoc.SurveyHeading(), doc.SurveyHeading())
}

func productHomepageProducts(ctx context.Context, env *Env, lang string) error {
	doc, err := env.DOM.GetDOM(ctx, "/"+lang+"/"+productHomepage)
	if err != nil {
		return err
	}
	return expectEqual("product markers", 1, doc.ProductCount())
}

func homepageProducts(ctx context.Context, env *Env, lang string) error {
	doc, err := env.DOM.GetDOM(ctx, "/"+lang)
	if err != nil {
		return err
	}
	return expectEqual("product markers", 1, doc.ProductCount())
}
