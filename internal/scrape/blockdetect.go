package scrape

import (
	"fmt"
	"net/http"
	"strings"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// BlockError reports a page that refused to serve readable HTML.
type BlockError struct {
	URL  string
	Type BlockType
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("scrape: %s blocked (%s)", e.URL, e.Type)
}

// NeedsRendering reports whether a browser could plausibly get past the
// block, i.e. the page is an empty client-rendered shell.
func (e *BlockError) NeedsRendering() bool {
	return e.Type == BlockJSShell
}

// spaMountPoints are empty root elements client-side frameworks render into.
var spaMountPoints = []string{
	`<div id="root"></div>`,
	`<div id="__next"></div>`,
	`<div id="app"></div>`,
}

// DetectBlock checks an HTTP response for signs of anti-bot protection or a
// JavaScript-only shell.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	// Cloudflare: 403/503 with cf-* headers.
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("cf-cache-status") != "" {
			return true, BlockCloudflare
		}
		if resp.Header.Get("server") == "cloudflare" {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	// Cloudflare challenge page markers.
	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge") {
		return true, BlockCloudflare
	}

	if strings.Contains(lower, "captcha") {
		return true, BlockCaptcha
	}

	// JS-only shell: small body that mounts a client app or bounces via
	// meta refresh.
	if len(body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `meta http-equiv="refresh"`) {
			return true, BlockJSShell
		}
		for _, mount := range spaMountPoints {
			if strings.Contains(lower, mount) {
				return true, BlockJSShell
			}
		}
	}

	return false, BlockNone
}
