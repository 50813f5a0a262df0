package fs

import "testing"

// The underscore-prefixed base layouts need the all: embed form; the plain
// directory form silently skips them and template parsing breaks downstream.
func TestFS_embedsBaseTemplates(t *testing.T) {
	files := []string{
		"templates/email/_base.txt",
		"templates/email/_base.gohtml",
		"templates/email/welcome.txt",
		"templates/email/welcome.gohtml",
		"migrations/00001_initial.sql",
	}
	for _, name := range files {
		data, err := FS.ReadFile(name)
		if err != nil {
			t.Errorf("ReadFile(%q): %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("ReadFile(%q) returned an empty file", name)
		}
	}
}
