package analysis

import "strings"

// excludedDomains lists well-known non-competitive sites: general-purpose
// platforms, directories, marketplaces, government and media sites, review
// aggregators. A normalized domain equal to an entry, or inside an entry's
// subdomain tree, never enters the profile accumulator.
var excludedDomains = []string{
	"wikipedia.org",
	"youtube.com",
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"reddit.com",
	"pinterest.com",
	"quora.com",
	"medium.com",
	"amazon.com",
	"ebay.com",
	"gov.uk",
	"bbc.com",
	"google.com",
	"microsoft.com",
	"apple.com",
	"trustpilot.com",
	"yelp.com",
	"glassdoor.com",
	"indeed.com",
}

// NormalizeDomain canonicalizes a raw host taken from a SERP result: the
// scheme and a leading "www." label are stripped and the remainder is
// lowercased. Anything after the first path separator is dropped.
func NormalizeDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}

// Filter decides whether a normalized domain is eligible to be counted as a
// competitor of the target. It is a pure predicate with no side effects and
// is safe to share across requests.
type Filter struct {
	target string
}

// NewFilter builds a filter for the given target domain. The target may
// carry a scheme or www. prefix; it is normalized first.
func NewFilter(targetDomain string) *Filter {
	return &Filter{target: NormalizeDomain(targetDomain)}
}

// Target returns the normalized target domain.
func (f *Filter) Target() string { return f.target }

// Eligible reports whether the normalized domain may be counted as a
// competitor: not the target itself, at least 4 characters, and not on the
// exclusion list.
func (f *Filter) Eligible(domain string) bool {
	if domain == f.target || len(domain) < 4 {
		return false
	}
	for _, skip := range excludedDomains {
		// Match on registrable-domain boundaries only. A bare substring
		// check would let short entries like "x.com" swallow wix.com or
		// netflix.com.
		if domain == skip || strings.HasSuffix(domain, "."+skip) {
			return false
		}
	}
	return true
}
