package gapi

import (
	"strings"

	discovery "google.golang.org/api/discovery/v1"
)

// node is one level of an API surface: a set of nested resources and the methods on it.
// The root node is the API itself.
type node struct {
	resources map[string]discovery.RestResource
	methods   map[string]discovery.RestMethod
}

func rootNode(d *discovery.RestDescription) node {
	return node{resources: d.Resources, methods: d.Methods}
}

func (n node) child(name string) (node, bool) {
	r, ok := n.resources[name]
	if !ok {
		return node{}, false
	}
	return node{resources: r.Resources, methods: r.Methods}, true
}

func (n node) method(name string) (discovery.RestMethod, bool) {
	m, ok := n.methods[name]
	return m, ok
}

// Resolve walks a dotted method path (eg- `projects.secrets.versions.access`) on an API surface.
// Every segment but the last must name a nested resource, and the last must name a method on it.
func Resolve(d *discovery.RestDescription, method string) (*Operation, error) {
	segments := strings.Split(method, ".")
	cur := rootNode(d)

	for i, seg := range segments[:len(segments)-1] {
		next, ok := cur.child(seg)
		if !ok {
			return nil, &InvalidMethodPathError{
				Method: method,
				Prefix: strings.Join(segments[:i+1], "."),
			}
		}
		cur = next
	}

	last := segments[len(segments)-1]
	m, ok := cur.method(last)
	if !ok {
		return nil, &NotCallableError{Method: method, Segment: last}
	}

	return &Operation{
		Name:    method,
		BaseURL: d.RootUrl + d.ServicePath,
		method:  m,
	}, nil
}
