package util

import "testing"

func TestGetSafeContentType(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"image/png", "image/png"},
		{" IMAGE/JPEG ", "image/jpeg"},
		{"video/mp4", "video/mp4"},
		{"audio/mpeg", "audio/mpeg"},
		{"application/pdf", "application/pdf"},
		{"text/html", ""},
		{"noslash", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := GetSafeContentType(c.in); got != c.want {
			t.Errorf("GetSafeContentType(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := TruncateRunes("hello", 3); got != "hel" {
		t.Errorf("got %q, want hel", got)
	}
	// 多字节字符按字符数截断，不截断在字节中间
	if got := TruncateRunes("你好世界", 2); got != "你好" {
		t.Errorf("got %q, want 你好", got)
	}
}
