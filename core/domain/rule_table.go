package domain

import "strings"

// RuleTables holds the static domain lists consulted before ML inference.
// Entries are matched by substring containment on the lowercased host, not
// by exact host match. That means "google.com.evil.net" matches the trusted
// entry "google.com"; this mirrors the original lists' behavior and is kept
// as specified.
type RuleTables struct {
	trusted           []string
	platform          []string
	blacklist         []string
	newDomainKeywords []string
}

// NewRuleTables builds an immutable rule table set. Entries are lowercased
// at construction; nothing is mutated at runtime.
func NewRuleTables(trusted, platform, blacklist, newDomainKeywords []string) *RuleTables {
	return &RuleTables{
		trusted:           lowerAll(trusted),
		platform:          lowerAll(platform),
		blacklist:         lowerAll(blacklist),
		newDomainKeywords: lowerAll(newDomainKeywords),
	}
}

// DefaultRuleTables returns the built-in lists. The blacklist and the
// new-domain keywords are literal stand-ins; there is no live feed behind
// either of them.
func DefaultRuleTables() *RuleTables {
	return NewRuleTables(
		[]string{
			"google.com",
			"youtube.com",
			"facebook.com",
			"wikipedia.org",
			"amazon.com",
			"microsoft.com",
			"apple.com",
			"paypal.com",
			"netflix.com",
			"github.com",
			"linkedin.com",
			"instagram.com",
		},
		[]string{
			"github.io",
			"gitlab.io",
			"vercel.app",
			"netlify.app",
			"herokuapp.com",
			"blogspot.com",
			"wordpress.com",
			"medium.com",
		},
		[]string{
			"free-gift-cards.xyz",
			"secure-paypal-login.com",
			"account-verify-alert.net",
			"bank-update-online.com",
			"login-appleid-check.com",
		},
		[]string{
			"secure",
			"login",
			"verify",
			"update",
		},
	)
}

// MatchBlacklist reports whether any blacklist entry is contained in host.
func (t *RuleTables) MatchBlacklist(host string) (string, bool) {
	return matchSubstring(t.blacklist, host)
}

// MatchTrusted reports whether any trusted-domain entry is contained in host.
func (t *RuleTables) MatchTrusted(host string) (string, bool) {
	return matchSubstring(t.trusted, host)
}

// MatchPlatform reports whether any platform-domain entry is contained in host.
func (t *RuleTables) MatchPlatform(host string) (string, bool) {
	return matchSubstring(t.platform, host)
}

// MatchNewDomainKeyword reports whether the host contains one of the
// simulated new-domain keywords. Advisory only; never terminal.
func (t *RuleTables) MatchNewDomainKeyword(host string) (string, bool) {
	return matchSubstring(t.newDomainKeywords, host)
}

func matchSubstring(entries []string, host string) (string, bool) {
	if host == "" {
		return "", false
	}
	h := strings.ToLower(host)
	for _, entry := range entries {
		if strings.Contains(h, entry) {
			return entry, true
		}
	}
	return "", false
}

func lowerAll(entries []string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = strings.ToLower(strings.TrimSpace(e))
	}
	return out
}
