package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/rotisserie/eris"

	"github.com/sells-group/aeo-cli/internal/model"
)

// DefaultMaxChars caps extracted content.
const DefaultMaxChars = 8000

// Extraction thresholds.
const (
	mainContentMinChars = 200 // a main-content candidate must exceed this
	structuredMinChars  = 150 // below this the structured pass is discarded
	rawLineWidth        = 80
)

const noiseSelector = `script, style, nav, footer, header, iframe, noscript, svg, ` +
	`[role="navigation"], [role="banner"], [role="complementary"], ` +
	`.nav, .footer, .header, .sidebar, .menu, .ad, .advertisement, ` +
	`.cookie-banner, .popup, .modal, .social-share, .comments, ` +
	`#comments, .related-posts, .breadcrumb`

var mainContentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".post-content",
	".entry-content",
	".article-content",
	".page-content",
	"#content",
	"#main-content",
	".content",
	"#main",
}

const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, td, th, blockquote, figcaption, dt, dd"

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	newlinesRe   = regexp.MustCompile(`\n{3,}`)
)

// ExtractContent turns an HTML document into structured plain text.
// Headings become "## " lines, list items "- " and quotes "> ". When that
// pass yields too little text, the readability article is tried, then the
// raw text of the content root. The result is capped at maxChars runes.
func ExtractContent(html, pageURL string, maxChars int) (*model.ExtractedPage, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: parse url %s", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse html")
	}

	title := firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
		strings.TrimSpace(doc.Find("h1").First().Text()),
	)
	brand := firstNonEmpty(
		metaContent(doc, `meta[property="og:site_name"]`),
		metaContent(doc, `meta[name="application-name"]`),
		BrandFromHost(u.Hostname()),
	)

	doc.Find(noiseSelector).Remove()

	root := mainContent(doc)
	content := structuredText(root)

	if len(strings.TrimSpace(content)) < structuredMinChars {
		if article := readableText(html, u); len(article) >= structuredMinChars {
			content = article
		} else {
			content = wrapLines(collapseSpace(root.Text()), rawLineWidth)
		}
	}

	content = newlinesRe.ReplaceAllString(content, "\n\n")
	content = truncateRunes(strings.TrimSpace(content), maxChars)

	return &model.ExtractedPage{
		Title:     title,
		Brand:     brand,
		Content:   content,
		URL:       pageURL,
		WordCount: len(strings.Fields(content)),
	}, nil
}

func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainContentSelectors {
		s := doc.Find(sel)
		if s.Length() > 0 && len(strings.TrimSpace(s.Text())) > mainContentMinChars {
			return s.First()
		}
	}
	return doc.Find("body").First()
}

func structuredText(root *goquery.Selection) string {
	var parts []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		txt := collapseSpace(s.Text())
		if len(txt) < 3 {
			return
		}
		switch tag := goquery.NodeName(s); {
		case len(tag) == 2 && tag[0] == 'h':
			parts = append(parts, "\n## "+txt+"\n")
		case tag == "li":
			parts = append(parts, "- "+txt)
		case tag == "blockquote":
			parts = append(parts, "> "+txt)
		default:
			parts = append(parts, txt)
		}
	})
	return strings.Join(parts, "\n")
}

// readableText runs the readability heuristics over the original document.
func readableText(html string, u *url.URL) string {
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), u)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

// BrandFromHost derives a display brand from a hostname:
// "www.acme-crm.io" becomes "Acme-crm".
func BrandFromHost(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// wrapLines breaks single-line text at the first space after width runes.
func wrapLines(s string, width int) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == ' ' && col >= width {
			b.WriteByte('\n')
			col = 0
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
