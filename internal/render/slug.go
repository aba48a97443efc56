// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "github.com/gosimple/slug"

// untitled is used when a title has no sluggable characters.
const untitled = "untitled"

// dropped symbols become separators instead of the English words
// ("and", "at") slug.Make would spell out.
var dropped = map[string]string{
	"&": " ",
	"@": " ",
}

// Slug derives the lowercase, hyphenated file name stem for a card title,
// e.g. "Fix Login Bug" becomes "fix-login-bug". The result is deterministic.
func Slug(title string) string {
	s := slug.Make(slug.Substitute(title, dropped))
	if s == "" {
		return untitled
	}
	return s
}

// FileName returns the PDF file name for a card title.
func FileName(title string) string {
	return Slug(title) + ".pdf"
}
