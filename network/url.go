package network

import (
	"net/url"
	"strings"
)

// ResolveURL builds the absolute URL for req:
//  1. a path starting with a scheme ("scheme://") must parse as an absolute
//     URL with a host and is used directly;
//  2. otherwise base is required;
//  3. path is appended verbatim to the base path (an empty path leaves it
//     unchanged); dot segments and repeated slashes are kept as given;
//  4. query parameters are merged in and encoded sorted by key.
//
// Any failure yields KindInvalidURL.
func ResolveURL(base *url.URL, req Request) (*url.URL, error) {
	target, err := resolvePath(base, req.path)
	if err != nil {
		return nil, err
	}

	if len(req.query) > 0 {
		values := target.Query()
		for k, v := range req.query {
			values.Set(k, v)
		}
		// url.Values.Encode sorts by key
		target.RawQuery = values.Encode()
	}

	final, err := url.Parse(target.String())
	if err != nil {
		return nil, newKindError(KindInvalidURL, err)
	}
	return final, nil
}

func resolvePath(base *url.URL, path string) (*url.URL, error) {
	if hasScheme(path) {
		abs, err := url.Parse(path)
		if err != nil {
			return nil, newKindError(KindInvalidURL, err)
		}
		if !abs.IsAbs() || abs.Host == "" {
			return nil, &Error{Kind: KindInvalidURL}
		}
		return abs, nil
	}

	if base == nil {
		return nil, &Error{Kind: KindInvalidURL}
	}

	target := *base
	if target.User != nil {
		u := *target.User
		target.User = &u
	}
	if path == "" {
		return &target, nil
	}

	rel, query, _ := strings.Cut(path, "?")
	escaped := strings.TrimSuffix(target.EscapedPath(), "/") + "/" + strings.TrimPrefix(rel, "/")
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, newKindError(KindInvalidURL, err)
	}
	target.Path, target.RawPath = unescaped, escaped
	if query != "" {
		target.RawQuery = mergeRawQuery(target.RawQuery, query)
	}
	if target.Host == "" {
		return nil, &Error{Kind: KindInvalidURL}
	}
	return &target, nil
}

// hasScheme reports whether path begins with "scheme://". A "://" after the
// first '/', '?' or '#' belongs to a path segment or the query.
func hasScheme(path string) bool {
	scheme, _, found := strings.Cut(path, "://")
	return found && !strings.ContainsAny(scheme, "/?#")
}

func mergeRawQuery(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "&" + extra
}
