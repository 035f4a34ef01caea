// Package testhelpers provides shared helpers for mcp-gcp tests.
package testhelpers

import (
	"reflect"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
}

// AssertEqual fails the test if expected and actual are not deeply equal.
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertNotNil fails the test if v is nil.
func AssertNotNil(t *testing.T, v any) {
	t.Helper()
	if v == nil {
		t.Fatal("Expected non-nil value")
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		if rv.IsNil() {
			t.Fatal("Expected non-nil value")
		}
	}
}

// AssertTrue fails the test with msg if cond is false.
func AssertTrue(t *testing.T, cond bool, msg string) {
	t.Helper()
	if !cond {
		t.Error(msg)
	}
}

// CommandAnnotationTest is an expected cobra command annotation.
type CommandAnnotationTest struct {
	Key      string
	Expected string
}

// TestCommandAnnotations checks cobra command annotations against expectations.
func TestCommandAnnotations(t *testing.T, annotations map[string]string, tests []CommandAnnotationTest) {
	t.Helper()
	for _, tt := range tests {
		if got := annotations[tt.Key]; got != tt.Expected {
			t.Errorf("Expected annotation %s to be %q, got %q", tt.Key, tt.Expected, got)
		}
	}
}

// ResultText returns the text of the single text content item of a tool result.
func ResultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil {
		t.Fatal("Expected a tool result, got nil")
	}
	if len(res.Content) != 1 {
		t.Fatalf("Expected exactly 1 content item, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", res.Content[0])
	}
	if tc.Type != "text" {
		t.Errorf("Expected content type text, got %s", tc.Type)
	}
	return tc.Text
}
