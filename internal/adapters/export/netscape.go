// Package export renders bookmark trees in the Netscape bookmark-file
// format, the interchange format browsers import.
package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"segnalibro/internal/domain"
)

const header = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file.
     It will be read and overwritten.
     DO NOT EDIT! -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
`

// Netscape writes the tree rooted at root to w. The root node itself is
// not emitted, only its contents; pass the whole tree or any folder.
func Netscape(w io.Writer, root *domain.Node) error {
	if root == nil {
		return fmt.Errorf("nothing to export")
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	return writeList(w, root.Children, 0)
}

// NetscapeFile renders the tree to path, creating parent directories as
// needed.
func NetscapeFile(path string, root *domain.Node) error {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[1:])
	}

	var buf bytes.Buffer
	if err := Netscape(&buf, root); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// DefaultFilename returns a timestamped name for exports in the current
// directory.
func DefaultFilename() string {
	return fmt.Sprintf("bookmarks_%s.html", time.Now().Format("2006-01-02_15-04-05"))
}

func writeList(w io.Writer, children []*domain.Node, depth int) error {
	indent := strings.Repeat("    ", depth)
	if _, err := fmt.Fprintf(w, "%s<DL><p>\n", indent); err != nil {
		return err
	}

	for _, child := range children {
		if child == nil {
			continue
		}
		if child.IsFolder() {
			if _, err := fmt.Fprintf(w, "%s    <DT><H3%s>%s</H3>\n",
				indent, addDate(child), html.EscapeString(child.Title)); err != nil {
				return err
			}
			if err := writeList(w, child.Children, depth+1); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s    <DT><A HREF=\"%s\"%s>%s</A>\n",
			indent, html.EscapeString(child.URL), addDate(child), html.EscapeString(child.Title)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s</DL><p>\n", indent)
	return err
}

func addDate(n *domain.Node) string {
	if n.DateAdded.IsZero() {
		return ""
	}
	return fmt.Sprintf(" ADD_DATE=\"%d\"", n.DateAdded.Unix())
}
