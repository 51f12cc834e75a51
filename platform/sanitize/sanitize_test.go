package sanitize

import "testing"

func TestFileNameStripsDirectoriesAndUnsafeChars(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":   "passwd",
		`C:\Users\me\ic.jpg`: "ic.jpg",
		"my photo (1).jpeg":  "my_photo_1_.jpeg",
		"..":                 "file",
		"":                   "file",
	}
	for in, want := range cases {
		if got := FileName(in); got != want {
			t.Fatalf("FileName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestStripHTMLRemovesEncodedTags(t *testing.T) {
	got := StripHTML("Ali &lt;script&gt;x&lt;/script&gt;")
	if got != "Ali x" {
		t.Fatalf("expected tags removed, got %q", got)
	}
}
