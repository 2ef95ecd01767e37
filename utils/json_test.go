package utils

import (
	"strings"
	"testing"
)

func TestJsonString(t *testing.T) {
	got := JsonString(map[string]string{"serial": "ABC123"})
	if got != `{"serial":"ABC123"}` {
		t.Errorf("JsonString = %s", got)
	}
}

func TestJsonIndent(t *testing.T) {
	got := JsonIndent([]string{"com.foo", "android"})
	if !strings.Contains(got, "\n  ") {
		t.Errorf("JsonIndent not indented: %s", got)
	}
}
