// Package auth builds the transport-level credentials used to talk to a
// device. Policies are swappable without touching the device client.
package auth

// Scheme names an HTTP authentication scheme.
type Scheme string

const (
	// SchemeDigest is RFC 7616 HTTP Digest, the ISAPI default.
	SchemeDigest Scheme = "digest"
	// SchemeBasic is RFC 7617 HTTP Basic.
	SchemeBasic Scheme = "basic"
)

// Params are the credentials and scheme attached to every request.
type Params struct {
	Username string
	Password string
	Scheme   Scheme
}

// Authenticator turns configured credentials into transport parameters.
type Authenticator interface {
	BuildAuthParams(username, password string) Params
}

// Digest authenticates with HTTP Digest.
type Digest struct{}

// BuildAuthParams implements Authenticator.
func (Digest) BuildAuthParams(username, password string) Params {
	return Params{Username: username, Password: password, Scheme: SchemeDigest}
}

// Basic authenticates with HTTP Basic. Some firmware accepts it over HTTPS.
type Basic struct{}

// BuildAuthParams implements Authenticator.
func (Basic) BuildAuthParams(username, password string) Params {
	return Params{Username: username, Password: password, Scheme: SchemeBasic}
}

// ForScheme returns the authenticator for a configured scheme name. Unknown
// or empty names select Digest.
func ForScheme(name string) Authenticator {
	if Scheme(name) == SchemeBasic {
		return Basic{}
	}
	return Digest{}
}
