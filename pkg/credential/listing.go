package credential

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ListingPrefix starts every credential line of a %CMNG listing.
const ListingPrefix = "%CMNG: "

// ErrMalformedListing is returned for listing lines that cannot be parsed.
var ErrMalformedListing = errors.New("malformed %CMNG line")

// ParseListing parses one listing line of the form
//
//	%CMNG: <tag>,<type>,"<sha>"
//
// The prefix is optional and spaces around fields are ignored.
func ParseListing(line string) (Credential, error) {
	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ListingPrefix))
	fields := strings.SplitN(body, ",", 3)
	if len(fields) < 2 {
		return Credential{}, fmt.Errorf("%w: %q", ErrMalformedListing, line)
	}
	tag, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: tag in %q", ErrMalformedListing, line)
	}
	code, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Credential{}, fmt.Errorf("%w: type in %q", ErrMalformedListing, line)
	}
	c := Credential{Tag: uint32(tag), Type: Type(code)}
	if len(fields) == 3 {
		c.SHA = Unquote(fields[2])
	}
	return c, nil
}

// Unquote trims surrounding whitespace and one pair of double quotes.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
