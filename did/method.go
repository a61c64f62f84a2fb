package did

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	// ErrUnsupportedMethod is returned for DID methods the sandbox cannot handle.
	ErrUnsupportedMethod = errors.New("DID Method not supported in this sandbox")
	// ErrDomainRequired is returned when a did:web is requested without a domain.
	ErrDomainRequired = errors.New("domain is required for did:web")
	// ErrInvalidDID is returned for strings that are not of the form did:<method>:<id>.
	ErrInvalidDID = errors.New("invalid DID")
)

const prefix = "did:"

// GeneratableMethods lists the methods Generator.GenerateDID accepts.
var GeneratableMethods = []Method{MethodKey, MethodWeb, MethodEthr}

// ParseMethod converts a user supplied method name, with or without the
// "did:" prefix, into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimPrefix(s, prefix)))
	if !slices.Contains(GeneratableMethods, m) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
	}
	return m, nil
}

// Parse splits a DID into its method and method-specific identifier.
// The method is not checked against the supported set.
func Parse(d string) (Method, string, error) {
	rest, ok := strings.CutPrefix(d, prefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q must start with %q", ErrInvalidDID, d, prefix)
	}
	method, id, found := strings.Cut(rest, ":")
	if !found || method == "" || id == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDID, d)
	}
	return Method(method), id, nil
}

// Prefix returns "did:<method>:".
func (m Method) Prefix() string {
	return prefix + string(m) + ":"
}

func (m Method) String() string {
	return string(m)
}

// VerificationMethodID returns the id of the owner verification method of d.
func VerificationMethodID(d string) string {
	return d + "#" + OwnerFragment
}
