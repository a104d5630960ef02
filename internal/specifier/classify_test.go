package specifier

import "testing"

func TestIsReserved(t *testing.T) {
	cases := []struct {
		spec string
		want bool
	}{
		{"/abs/path.js", false},
		{"./a.js", false},
		{"../a.js", false},
		{"file:///a/b.js", false},
		{"file://", false},
		{"file://evil", false},
		{"file://../../x", false},
		{"lodash", true},
		{"@scope/pkg", true},
		{"", true},
		{".", true},
		{"..", true},
		{".../a.js", true},
		{"http://example.com/x", true},
		{"FILE:///a.js", true},
		{"file:/a.js", true},
		{".\\a.js", true},
		{"%2E/a.js", true},
	}
	for _, tc := range cases {
		if got := IsReserved(tc.spec); got != tc.want {
			t.Errorf("IsReserved(%q) = %v, want %v", tc.spec, got, tc.want)
		}
		if got := IsReserved(tc.spec); got != tc.want {
			t.Errorf("IsReserved(%q) not stable across calls", tc.spec)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		spec string
		want Class
	}{
		{"./a.js", ClassRelative},
		{"../a.js", ClassParent},
		{"/a.js", ClassRoot},
		{"file:///a.js", ClassFileURL},
		{"http://example.com/x", ClassURL},
		{"node:fs", ClassURL},
		{"lodash", ClassBare},
		{"@scope/pkg", ClassBare},
		{"", ClassBare},
		{"c:", ClassBare},
		{"1http://x", ClassBare},
	}
	for _, tc := range cases {
		got := Classify(tc.spec)
		if got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.spec, got, tc.want)
		}
		if got.Reserved() != IsReserved(tc.spec) {
			t.Errorf("Classify(%q).Reserved() disagrees with IsReserved", tc.spec)
		}
	}
}
