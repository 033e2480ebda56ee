package media

import "strings"

type AssetType string

const (
	AssetTypeProfile   AssetType = "profile"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeBugReport AssetType = "bug_report"
)

// URLPrefix is the public prefix under which stored assets are served.
const URLPrefix = "/media/"

// IsRemoteURL reports whether p is an absolute http(s) URL.
func IsRemoteURL(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// RelativePath turns a spreadsheet-provided image reference into a store
// relative path. Remote URLs are kept as-is and never fetched.
func RelativePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || IsRemoteURL(p) {
		return p
	}
	p = strings.TrimPrefix(p, URLPrefix)
	return p
}

// PublicURL maps a stored relative path back to the URL it is served under.
func PublicURL(p string) string {
	if p == "" || IsRemoteURL(p) {
		return p
	}
	return URLPrefix + strings.TrimPrefix(p, "/")
}
