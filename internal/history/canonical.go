package history

import "net/url"

// CanonicalURL reduces a product URL to its identity key: origin plus
// path, with query and fragment stripped. Every caller into history
// and alert operations must canonicalize first. Unparseable input is
// returned as-is rather than rejected.
func CanonicalURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return raw
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path
}
