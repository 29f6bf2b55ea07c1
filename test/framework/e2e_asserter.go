// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// e2eHttpAsserter is an HTTP asserter for end-to-end tests.
type e2eHttpAsserter struct {
	e2e      *E2E
	url      string
	method   string
	body     []byte
	response *e2eResponseAsserter
	schema   *openapi3.T
	router   routers.Router
}

// e2eResponseAsserter holds the expected response result and an asserter function.
type e2eResponseAsserter struct {
	want     any
	asserter func(body []byte) error
}

// HttpAssertion creates a new HTTP assertion for the given URL.
// Without [e2eHttpAsserter.WithRequest] a GET request is sent.
func (e *E2E) HttpAssertion(u string) *e2eHttpAsserter {
	return &e2eHttpAsserter{e2e: e, url: u, method: http.MethodGet}
}

// WithRequest sets the method of the request and a body that is sent JSON encoded.
// A nil body sends no body.
func (a *e2eHttpAsserter) WithRequest(method string, body any) *e2eHttpAsserter {
	a.e2e.t.Helper()
	a.method = method
	a.body = nil
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.e2e.t.Fatalf("Failed to encode request body: %v", err)
		}
		a.body = b
	}
	return a
}

// Assert asserts the status code and then runs schema and response validations.
func (a *e2eHttpAsserter) Assert(status int) {
	a.e2e.t.Helper()
	if !a.e2e.isRunning() {
		a.e2e.t.Fatal("e2eHttpAsserter.Assert must be called after E2E.Run")
	}

	req, err := a.newRequest()
	if err != nil {
		a.e2e.t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := a.e2e.client.Do(req)
	if err != nil {
		a.e2e.t.Errorf("Failed to %s %s: %v", a.method, a.url, err)
		return
	}
	defer resp.Body.Close()

	assert.Equal(a.e2e.t, status, resp.StatusCode, "Unexpected status code for %s %s", a.method, a.url)
	a.e2e.t.Logf("Got status code %d for %s %s", resp.StatusCode, a.method, a.url)

	if resp.StatusCode != http.StatusOK {
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		a.e2e.t.Errorf("Failed to read response body: %v", err)
		return
	}

	if a.schema != nil && a.router != nil {
		if err = a.assertSchema(resp, data); err != nil {
			a.e2e.t.Errorf("Response from %q does not match schema: %v", a.url, err)
		}
	}

	if a.response != nil {
		if err = a.response.asserter(data); err != nil {
			a.e2e.t.Errorf("Failed to assert response: %v", err)
		}
	}
}

// WithSchema fetches the OpenAPI schema and creates a router for response validation.
func (a *e2eHttpAsserter) WithSchema() *e2eHttpAsserter {
	a.e2e.t.Helper()
	schema, err := a.fetchSchema()
	if err != nil {
		a.e2e.t.Fatalf("Failed to fetch OpenAPI schema: %v", err)
	}

	router, err := legacy.NewRouter(schema)
	if err != nil {
		a.e2e.t.Fatalf("Failed to create router from OpenAPI schema: %v", err)
	}

	a.schema = schema
	a.router = router
	return a
}

// WithLines expects the response body to consist of exactly the given lines.
func (a *e2eHttpAsserter) WithLines(lines ...string) *e2eHttpAsserter {
	a.response = &e2eResponseAsserter{
		want:     lines,
		asserter: a.assertLines,
	}
	return a
}

// WithJSON expects the response body to be the JSON encoding of want.
func (a *e2eHttpAsserter) WithJSON(want any) *e2eHttpAsserter {
	a.response = &e2eResponseAsserter{
		want:     want,
		asserter: a.assertJSON,
	}
	return a
}

func (a *e2eHttpAsserter) newRequest() (*http.Request, error) {
	var body io.Reader = http.NoBody
	if a.body != nil {
		body = bytes.NewReader(a.body)
	}

	req, err := http.NewRequestWithContext(context.Background(), a.method, a.url, body)
	if err != nil {
		return nil, err
	}
	if a.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// fetchSchema retrieves the OpenAPI schema from the server.
func (a *e2eHttpAsserter) fetchSchema() (*openapi3.T, error) {
	ctx := context.Background()
	u, err := url.Parse(a.url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	u.Path = "/openapi"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.e2e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET OpenAPI schema: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI schema: %w", err)
	}

	loader := openapi3.NewLoader()
	schema, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI schema: %w", err)
	}

	if err = schema.Validate(ctx); err != nil {
		return nil, fmt.Errorf("OpenAPI schema validation error: %w", err)
	}

	return schema, nil
}

// assertSchema validates the response body against the OpenAPI schema
// of the media type the response was sent with.
func (a *e2eHttpAsserter) assertSchema(resp *http.Response, data []byte) error {
	req, err := a.newRequest()
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	route, _, err := a.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("failed to find route: %w", err)
	}

	responseRef := route.Operation.Responses.Status(resp.StatusCode)
	if responseRef == nil || responseRef.Value == nil {
		return fmt.Errorf("no response defined in OpenAPI schema for status code %d", resp.StatusCode)
	}

	contentType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return fmt.Errorf("invalid Content-Type %q: %w", resp.Header.Get("Content-Type"), err)
	}
	mediaType := responseRef.Value.Content.Get(contentType)
	if mediaType == nil || mediaType.Schema == nil || mediaType.Schema.Value == nil {
		return fmt.Errorf("no media type defined in OpenAPI schema for Content-Type %q", contentType)
	}

	var body any
	switch contentType {
	case "application/json":
		if err = json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	default:
		body = string(data)
	}

	if err = mediaType.Schema.Value.VisitJSON(body); err != nil {
		return fmt.Errorf("response body does not match schema: %w", err)
	}
	return nil
}

// assertLines compares the lines of the body with the expected lines.
func (a *e2eHttpAsserter) assertLines(data []byte) error {
	want, ok := a.response.want.([]string)
	if !ok {
		return fmt.Errorf("invalid expected lines type: %T", a.response.want)
	}

	got := []string{}
	if trimmed := strings.TrimSuffix(string(data), "\n"); trimmed != "" {
		got = strings.Split(trimmed, "\n")
	}
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	return nil
}

// assertJSON compares the decoded body with the expected value.
// Both sides are compared in their generic JSON form.
func (a *e2eHttpAsserter) assertJSON(data []byte) error {
	raw, err := json.Marshal(a.response.want)
	if err != nil {
		return fmt.Errorf("failed to encode expected value: %w", err)
	}
	var want, got any
	if err = json.Unmarshal(raw, &want); err != nil {
		return fmt.Errorf("failed to decode expected value: %w", err)
	}
	if err = json.Unmarshal(data, &got); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	return nil
}
