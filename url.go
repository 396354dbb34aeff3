package civicmeet

import "net/url"

// AbsoluteURL resolves ref against base. Backends hand out relative document
// paths freely; canonical records always carry absolute URLs. An unparseable
// base or ref is returned as-is.
func AbsoluteURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
