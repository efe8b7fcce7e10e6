package validate

import (
	"encoding/json"
	"net/http"
	"regexp"
)

// Phone numbers must carry a 3-3-4 digit grouping with any non-digit
// separators in between, optionally followed by more digits. This is a
// deliberately loose match, not E.164.
var phonePattern = regexp.MustCompile(`^(\d{3})\D*(\d{3})\D*(\d{4})\D*(\d*)$`)

// Emails must look like local@domain.tld. The pattern is anchored at the
// start only, so trailing content after a valid prefix still passes.
var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

// Request is the transport-free view of an incoming request that the
// validators operate on: the HTTP method and the decoded JSON body.
// Fields is nil when the body was absent or unparseable.
type Request struct {
	Method string
	Fields map[string]json.RawMessage
}

// Phone reports whether s contains a valid phone number.
func Phone(s string) bool {
	return phonePattern.MatchString(s)
}

// Email reports whether s contains a valid email address.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Payload reports whether the request body carries the fields its method
// requires: memberID for GET and DELETE, name/email/phone for PUT.
// A missing or unparseable body always fails.
func Payload(req Request) bool {
	if req.Fields == nil {
		return false
	}

	switch req.Method {
	case http.MethodGet, http.MethodDelete:
		_, ok := req.Fields["memberID"]
		return ok
	case http.MethodPut:
		for _, field := range []string{"name", "email", "phone"} {
			if _, ok := req.Fields[field]; !ok {
				return false
			}
		}
		return true
	default:
		return true
	}
}
