package gapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	discovery "google.golang.org/api/discovery/v1"
	"google.golang.org/api/googleapi"
)

// RequestBodyParam is the parameter whose value is sent as the JSON request body.
const RequestBodyParam = "requestBody"

// Operation is a callable method resolved from a discovery document.
type Operation struct {
	// Name is the dotted method path the operation was resolved from.
	Name string
	// BaseURL is the API root the method's path is relative to.
	BaseURL string

	method discovery.RestMethod
}

// HTTPMethod returns the HTTP verb of the operation.
func (o *Operation) HTTPMethod() string {
	return o.method.HttpMethod
}

// Call invokes the operation with the given parameters using an authenticated client.
// Path parameters are expanded into the URL template, RequestBodyParam becomes the JSON body,
// and everything else is sent as query parameters.
// JSON responses are returned as json.RawMessage, anything else as raw bytes.
func (o *Operation) Call(ctx context.Context, hc *http.Client, params map[string]any) (any, error) {
	expansions := map[string]string{}
	query := url.Values{}
	var body io.Reader

	// iterate in a stable order so repeated calls produce identical requests
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := params[name]
		if name == RequestBodyParam {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, &ParameterError{Name: name, Reason: fmt.Sprintf("cannot be encoded as JSON: %v", err)}
			}
			body = bytes.NewReader(b)
			continue
		}

		if p, known := o.method.Parameters[name]; known && p.Location == "path" {
			s, err := paramString(v)
			if err != nil {
				return nil, &ParameterError{Name: name, Reason: err.Error()}
			}
			expansions[name] = s
			continue
		}

		if err := addQueryParam(query, name, v); err != nil {
			return nil, &ParameterError{Name: name, Reason: err.Error()}
		}
	}

	for name, p := range o.method.Parameters {
		if p.Location != "path" || !p.Required {
			continue
		}
		if _, ok := expansions[name]; !ok {
			return nil, &ParameterError{Name: name, Reason: "required path parameter is missing"}
		}
	}

	if !query.Has("alt") {
		query.Set("alt", "json")
	}
	query.Set("prettyPrint", "false")

	urls := googleapi.ResolveRelative(o.BaseURL, o.method.Path)
	urls += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, o.method.HttpMethod, urls, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", o.Name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	googleapi.Expand(req.URL, expansions)

	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", o.Name, err)
	}
	defer googleapi.CloseBody(res)

	if err := googleapi.CheckResponse(res); err != nil {
		return nil, err
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", o.Name, err)
	}
	if isJSON(res.Header.Get("Content-Type")) || len(b) == 0 {
		return json.RawMessage(b), nil
	}
	return b, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json"
}

// maxExactInteger is the largest magnitude a float64 holds without losing integer precision.
const maxExactInteger = 1 << 53

// paramString renders a scalar parameter value the way it appears in a URL.
func paramString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		if t == math.Trunc(t) && math.Abs(t) > maxExactInteger {
			return "", fmt.Errorf("integer %s is too large to be represented exactly, send it as a string",
				strconv.FormatFloat(t, 'f', -1, 64))
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case nil:
		return "", fmt.Errorf("must not be null")
	}
	return "", fmt.Errorf("unsupported value of type %T, expected a string, number or boolean", v)
}

func addQueryParam(q url.Values, name string, v any) error {
	if list, ok := v.([]any); ok {
		for _, item := range list {
			s, err := paramString(item)
			if err != nil {
				return err
			}
			q.Add(name, s)
		}
		return nil
	}
	s, err := paramString(v)
	if err != nil {
		return err
	}
	q.Set(name, s)
	return nil
}
