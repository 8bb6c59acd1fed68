package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"segnalibro/internal/domain"
)

func sampleTree() *domain.Node {
	added := time.Unix(1700000000, 0)
	return &domain.Node{
		ID: "0",
		Children: []*domain.Node{
			{
				ID:        "1",
				Title:     "Dev & Tools",
				DateAdded: added,
				Children: []*domain.Node{
					{
						ID:        "10",
						Title:     "GitHub",
						URL:       "https://github.com/?q=a&b",
						DateAdded: added,
					},
					{ID: "11", Title: "Empty", Children: []*domain.Node{}},
				},
			},
			{ID: "2", Title: "News", URL: "https://news.ycombinator.com"},
		},
	}
}

func TestNetscapeLayout(t *testing.T) {
	var sb strings.Builder
	if err := Netscape(&sb, sampleTree()); err != nil {
		t.Fatalf("Netscape() error = %v", err)
	}
	got := sb.String()

	if !strings.HasPrefix(got, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Errorf("missing doctype, got:\n%s", got)
	}

	wantLines := []string{
		`    <DT><H3 ADD_DATE="1700000000">Dev &amp; Tools</H3>`,
		`        <DT><A HREF="https://github.com/?q=a&amp;b" ADD_DATE="1700000000">GitHub</A>`,
		`        <DT><H3>Empty</H3>`,
		`    <DT><A HREF="https://news.ycombinator.com">News</A>`,
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, got)
		}
	}

	// Each <DL> list is closed.
	if opens, closes := strings.Count(got, "<DL><p>"), strings.Count(got, "</DL><p>"); opens != closes {
		t.Errorf("unbalanced lists: %d opened, %d closed", opens, closes)
	}

	// The folder's bookmark nests inside the folder, before the sibling.
	folder := strings.Index(got, "Dev &amp; Tools")
	inner := strings.Index(got, "GitHub")
	sibling := strings.Index(got, "News")
	if !(folder < inner && inner < sibling) {
		t.Errorf("entries out of order in:\n%s", got)
	}
}

func TestNetscapeNilRoot(t *testing.T) {
	var sb strings.Builder
	if err := Netscape(&sb, nil); err == nil {
		t.Error("Netscape(nil) expected error")
	}
}

func TestNetscapeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "bookmarks.html")

	if err := NetscapeFile(path, sampleTree()); err != nil {
		t.Fatalf("NetscapeFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.HasPrefix(string(content), "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Errorf("unexpected export content:\n%s", content)
	}
}

func TestDefaultFilename(t *testing.T) {
	name := DefaultFilename()
	if !strings.HasPrefix(name, "bookmarks_") || !strings.HasSuffix(name, ".html") {
		t.Errorf("DefaultFilename() = %q", name)
	}
}
