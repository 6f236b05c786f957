// Package render turns structured data (directory entries, file metadata,
// decoded text) into HTML pages. It knows nothing about sockets or the
// filesystem.
package render

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"webshare/internal/fsutil"
)

// ListingPage renders the browse page for one directory. rel is the
// slash-separated path of the directory relative to the share root ("" for
// the root itself).
func ListingPage(rel string, entries []fsutil.Entry) string {
	var b strings.Builder
	title := "/" + rel
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(title))
	b.WriteString(listingStyle)
	b.WriteString("</head><body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))

	fmt.Fprintf(&b,
		"<form method=\"post\" enctype=\"multipart/form-data\" action=\"/?action=upload&amp;path=%s\">"+
			"<input type=\"file\" name=\"file\"> <input type=\"submit\" value=\"Upload\"></form>\n",
		queryEscape(rel))

	b.WriteString("<table>\n<tr><th>Name</th><th>Size</th><th>Modified</th><th></th></tr>\n")
	if rel != "" {
		parent := parentOf(rel)
		fmt.Fprintf(&b, "<tr><td><a href=\"%s\">..</a></td><td></td><td></td><td></td></tr>\n",
			pathHref(parent))
	}
	for _, e := range entries {
		childRel := joinRel(rel, e.Name)
		name := html.EscapeString(e.Name)
		href := pathHref(childRel)

		b.WriteString("<tr><td>")
		if e.IsDir {
			fmt.Fprintf(&b, "<a href=\"%s\">%s/</a>", href, name)
		} else {
			fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", href, name)
		}
		b.WriteString("</td><td>")
		if !e.IsDir {
			b.WriteString(humanSize(e.Size))
		}
		b.WriteString("</td><td>")
		b.WriteString(e.Mtime.Format("2006-01-02 15:04"))
		b.WriteString("</td><td class=\"ops\">")
		if !e.IsDir {
			if fsutil.IsRangeable(e.Name) {
				fmt.Fprintf(&b, "<a href=\"%s?view=video\">play</a> ", href)
			} else if fsutil.IsImage(e.Name) {
				fmt.Fprintf(&b, "<a href=\"%s?view=thumb\">thumb</a> ", href)
			} else {
				fmt.Fprintf(&b, "<a href=\"%s?view=text\">view</a> ", href)
			}
		}
		fmt.Fprintf(&b, "<a href=\"#\" onclick=\"renameEntry('%s','%s');return false\">rename</a> ",
			jsEscape(rel), jsEscape(e.Name))
		fmt.Fprintf(&b,
			"<form class=\"inline\" method=\"post\" action=\"/?action=delete&amp;path=%s\">"+
				"<input type=\"submit\" value=\"delete\"></form>",
			queryEscape(childRel))
		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</table>\n")
	b.WriteString(renameScript)
	b.WriteString("</body></html>\n")
	return b.String()
}

// TextPage renders the text viewer for an already-decoded file.
func TextPage(name, content string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(name))
	b.WriteString("</head><body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(name))
	fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(content))
	b.WriteString("</body></html>\n")
	return b.String()
}

// VideoPage renders the video viewer; src is the escaped URL path of the
// media file, which the browser fetches with Range requests.
func VideoPage(name, src string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(name))
	b.WriteString("</head><body style=\"margin:0;background:#000\">\n")
	fmt.Fprintf(&b, "<video controls autoplay style=\"width:100%%;height:100vh\" src=\"%s\"></video>\n", src)
	b.WriteString("</body></html>\n")
	return b.String()
}

const listingStyle = `<style>
body{font-family:sans-serif;margin:2em}
table{border-collapse:collapse;min-width:40em}
td,th{text-align:left;padding:.2em .8em}
tr:hover{background:#f0f0f0}
form.inline{display:inline}
td.ops{white-space:nowrap}
</style>`

const renameScript = `<script>
function renameEntry(dir, oldName) {
  var n = prompt('New name', oldName);
  if (!n || n === oldName) return;
  var f = document.createElement('form');
  f.method = 'POST';
  f.action = '/?action=rename&path=' + encodeURIComponent(dir) +
    '&old_name=' + encodeURIComponent(oldName) +
    '&new_name=' + encodeURIComponent(n);
  document.body.appendChild(f);
  f.submit();
}
</script>`

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func parentOf(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[:i]
	}
	return ""
}

// pathHref escapes a root-relative slash path for use in href attributes.
func pathHref(rel string) string {
	if rel == "" {
		return "/"
	}
	segs := strings.Split(rel, "/")
	for i := range segs {
		segs[i] = url.PathEscape(segs[i])
	}
	return "/" + strings.Join(segs, "/")
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}

func jsEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "</", `<\/`)
	return s
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
