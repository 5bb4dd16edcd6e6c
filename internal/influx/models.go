package influx

import "strings"

// Credentials identify and authorize a connection to an InfluxDB 2.x instance.
// The zero value is a valid, empty form.
type Credentials struct {
	URL   string `json:"url" yaml:"url"`
	Org   string `json:"org" yaml:"org"`
	Token string `json:"token" yaml:"token"`
}

// Normalized returns a copy ready for persistence: URL and Org are trimmed of
// surrounding whitespace, Token is passed through unmodified.
func (c Credentials) Normalized() Credentials {
	return Credentials{
		URL:   strings.TrimSpace(c.URL),
		Org:   strings.TrimSpace(c.Org),
		Token: c.Token,
	}
}

// IsZero reports whether every field is empty.
func (c Credentials) IsZero() bool {
	return c.URL == "" && c.Org == "" && c.Token == ""
}

// Validate checks that a credential set is complete enough to talk to InfluxDB.
func (c Credentials) Validate() error {
	switch {
	case strings.TrimSpace(c.URL) == "":
		return NewValidationError("url is required")
	case strings.TrimSpace(c.Org) == "":
		return NewValidationError("org is required")
	case c.Token == "":
		return NewValidationError("token is required")
	}
	if u := strings.TrimSpace(c.URL); !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return NewValidationError("url must start with http:// or https://")
	}
	return nil
}

// Bucket is a named data container in an InfluxDB organization.
type Bucket struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
