package formsync

import (
	"fmt"
	"net/url"
	"strings"
)

// ListRoute is the provider listing.
const ListRoute = "/settings/providers"

// NewSegment is the path segment of the create route.
const NewSegment = "new"

// Route is a parsed editor location: either the create route with its query
// parameters or the edit route of one saved provider.
type Route struct {
	IsNew      bool
	ProviderID string
	Query      url.Values
}

// NewRoute returns the create route with an optional preselected type and
// source provider to copy.
func NewRoute(providerType, copyFrom string) Route {
	q := url.Values{}
	if providerType != "" {
		q.Set("type", providerType)
	}
	if copyFrom != "" {
		q.Set("id", copyFrom)
	}
	return Route{IsNew: true, Query: q}
}

// EditRoute returns the edit route of provider id.
func EditRoute(id string) Route {
	return Route{ProviderID: id}
}

// ParseRoute parses "/settings/providers/new?type=&id=" or
// "/settings/providers/<id>".
func ParseRoute(s string) (Route, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Route{}, fmt.Errorf("formsync: parse route %q: %w", s, err)
	}

	rest, ok := strings.CutPrefix(strings.TrimSuffix(u.Path, "/"), ListRoute+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return Route{}, fmt.Errorf("formsync: not an editor route: %q", s)
	}

	if rest == NewSegment {
		return Route{IsNew: true, Query: u.Query()}, nil
	}
	return Route{ProviderID: rest, Query: u.Query()}, nil
}

// Key identifies the editor page a route opens, ignoring query parameters.
func (r Route) Key() string {
	if r.IsNew {
		return NewSegment
	}
	return r.ProviderID
}

func (r Route) String() string {
	path := ListRoute + "/" + r.Key()
	if len(r.Query) == 0 {
		return path
	}
	return path + "?" + r.Query.Encode()
}

// WithQuery returns r with its query replaced by q.
func (r Route) WithQuery(q url.Values) Route {
	r.Query = q
	return r
}
