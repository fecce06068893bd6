package scan

import "testing"

func TestTextSentinelFilter(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"HomeNet", true},
		{"x00hidden", false},
		{"x00", false},
		{"x0", true},
		{"ax00", true},          // sentinel only matches as a prefix
		{"\x00hidden", true},    // a real NUL byte is not the text sentinel
		{"x00\x00", false},
	}
	for _, c := range cases {
		if got := TextSentinelFilter(c.line); got != c.want {
			t.Errorf("TextSentinelFilter(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func TestNulPrefixFilter(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{"HomeNet", true},
		{"x00hidden", true}, // the text literal is ordinary data here
		{"\x00hidden", false},
		{"", true}, // empty lines are the sampler's concern, not the filter's
	}
	for _, c := range cases {
		if got := NulPrefixFilter(c.line); got != c.want {
			t.Errorf("NulPrefixFilter(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func TestParseFilterPolicy(t *testing.T) {
	f, err := ParseFilterPolicy("text-sentinel")
	if err != nil {
		t.Fatal(err)
	}
	if f("x00hidden") {
		t.Error("text-sentinel policy accepted sentinel line")
	}

	f, err = ParseFilterPolicy("nul-prefix")
	if err != nil {
		t.Fatal(err)
	}
	if !f("x00hidden") {
		t.Error("nul-prefix policy rejected text-literal line")
	}

	if _, err := ParseFilterPolicy("whatever"); err == nil {
		t.Error("ParseFilterPolicy accepted unknown policy")
	}
}
