// Package mailx validates and normalizes email addresses used as account
// identifiers.
//
// The grammar accepted by Validate is the one most web frameworks ship:
// a dot-atom or quoted-string local part, and a domain that is either an
// allowlisted host name, an IP literal in square brackets, or a dotted host
// name ending in a top-level label of at least two characters.
// Internationalized domains are converted to their ASCII form before the
// host name check.
package mailx

import (
	"fmt"
	"net/netip"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"golang.org/x/net/idna"
)

// MaxLength is the longest address Validate accepts.
const MaxLength = 320

var (
	localPartRe = regexp.MustCompile(
		`(?i)^(?:[-!#$%&'*+/=?^_` + "`" + `{}|~0-9A-Z]+(?:\.[-!#$%&'*+/=?^_` + "`" + `{}|~0-9A-Z]+)*` +
			`|"(?:[\x01-\x08\x0b\x0c\x0e-\x1f!#-\[\]-\x7f]|\\[\x01-\x09\x0b\x0c\x0e-\x7f])*")$`)

	hostRe = regexp.MustCompile(`(?i)^(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z0-9-]{2,63}$`)

	literalRe = regexp.MustCompile(`(?i)^\[([A-F0-9:.]+)\]$`)
)

// DomainAllowlist holds domains accepted without the dotted host name check.
var DomainAllowlist = []string{"localhost"}

// ErrInvalidEmail is returned by Validate for every malformed address.
var ErrInvalidEmail = fmt.Errorf("%w: enter a valid email address", common.ErrorInvalidInput)

// Validate reports whether email is a well-formed address. It returns
// ErrInvalidEmail, which wraps common.ErrorInvalidInput, on failure.
func Validate(email string) error {
	if email == "" || len(email) > MaxLength {
		return ErrInvalidEmail
	}

	local, domain, ok := split(email)
	if !ok {
		return ErrInvalidEmail
	}

	if !localPartRe.MatchString(local) {
		return ErrInvalidEmail
	}

	if slices.Contains(DomainAllowlist, domain) || validDomain(domain) {
		return nil
	}

	if ascii, ok := toASCII(domain); ok && validDomain(ascii) {
		return nil
	}

	return ErrInvalidEmail
}

// Normalize trims surrounding whitespace and lower-cases the domain part.
// The local part is left untouched. Normalize(Normalize(s)) == Normalize(s).
func Normalize(email string) string {
	email = strings.TrimSpace(email)
	local, domain, ok := split(email)
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(domain)
}

// split cuts the address at the last "@".
func split(email string) (local, domain string, ok bool) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "", "", false
	}
	return email[:at], email[at+1:], true
}

func validDomain(domain string) bool {
	if hostRe.MatchString(domain) {
		return !strings.HasSuffix(domain, "-")
	}

	m := literalRe.FindStringSubmatch(domain)
	if m == nil {
		return false
	}
	_, err := netip.ParseAddr(m[1])
	return err == nil
}

// toASCII converts an internationalized domain to punycode. Plain ASCII
// domains have nothing to convert and report false.
func toASCII(domain string) (string, bool) {
	if isASCII(domain) {
		return "", false
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", false
	}
	return ascii, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
