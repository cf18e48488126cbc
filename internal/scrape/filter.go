package scrape

import (
	"net/url"
	"path"
	"strings"
)

// defaultExcludePatterns skip results that are documents or media rather
// than pages worth extracting.
var defaultExcludePatterns = []string{
	"*.pdf",
	"*.doc",
	"*.docx",
	"*.xls",
	"*.xlsx",
	"*.ppt",
	"*.pptx",
	"*.zip",
	"*.mp4",
	"/watch",
}

// defaultExcludeHosts are sites whose pages are not competitor content.
var defaultExcludeHosts = []string{
	"youtube.com",
	"facebook.com",
	"instagram.com",
	"x.com",
	"twitter.com",
	"tiktok.com",
	"pinterest.com",
}

// URLFilter drops URLs by host and by glob-style path pattern.
// A pattern with a slash is matched against the whole path, segment aware,
// so "/blog/*" also covers "/blog/a/b". A pattern without a slash is matched
// against the last path element.
type URLFilter struct {
	patterns []string
	hosts    []string
}

// NewURLFilter creates a URLFilter. Nil patterns or hosts fall back to the
// defaults; pass an empty slice to disable a dimension.
func NewURLFilter(patterns, hosts []string) *URLFilter {
	if patterns == nil {
		patterns = defaultExcludePatterns
	}
	if hosts == nil {
		hosts = defaultExcludeHosts
	}
	return &URLFilter{patterns: patterns, hosts: hosts}
}

// WithHosts returns a copy of f that also excludes hosts.
func (f *URLFilter) WithHosts(hosts ...string) *URLFilter {
	merged := make([]string, 0, len(f.hosts)+len(hosts))
	merged = append(merged, f.hosts...)
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			merged = append(merged, h)
		}
	}
	return &URLFilter{patterns: f.patterns, hosts: merged}
}

// IsExcluded reports whether rawURL should be skipped. Unparseable URLs and
// non-HTTP schemes are always excluded.
func (f *URLFilter) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return true
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, h := range f.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return f.isPathExcluded(u.Path)
}

func (f *URLFilter) isPathExcluded(urlPath string) bool {
	urlPath = strings.ToLower(urlPath)
	for _, pattern := range f.patterns {
		pattern = strings.ToLower(pattern)
		if !strings.Contains(pattern, "/") {
			if ok, _ := path.Match(pattern, path.Base(urlPath)); ok {
				return true
			}
			continue
		}
		if matchSegmented(pattern, urlPath) {
			return true
		}
	}
	return false
}

// matchSegmented performs glob matching where a pattern like "/blog/*"
// matches both "/blog/post" and "/blog/deep/nested/path".
func matchSegmented(pattern, urlPath string) bool {
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/") {
			return true
		}
	}
	return false
}
