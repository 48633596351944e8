package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"movie.mp4", "movie.mp4"},
		{"a/b\\c:d", "a-b-c-d"},
		{`what?"<>|`, "what"},
		{"  padded  ", "padded"},
		{"José", "Jose"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFileToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Frodo", "Frodo"},
		{"Frodo Baggins", "Frodo_Baggins"},
		{"José-María", "Jose-Maria"},
		{"../../etc/passwd", "etcpasswd"},
		{"???", "user"},
		{"", "user"},
	}
	for _, tc := range cases {
		if got := FileToken(tc.in); got != tc.want {
			t.Fatalf("FileToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
