package render

import (
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// DecodeText converts raw file bytes to UTF-8 using the encoding label from
// the viewer's encoding query parameter (any label htmlindex knows: gbk,
// shift_jis, iso-8859-1, ...). An empty, unknown, or failing label falls back
// to treating the bytes as UTF-8.
func DecodeText(b []byte, label string) string {
	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, "utf-8") {
		return string(b)
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return string(b)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
