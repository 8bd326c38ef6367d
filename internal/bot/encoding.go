// internal/bot/encoding.go
package bot

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// fixEncoding чинит текст, пришедший не в UTF-8: старые клиенты шлют
// Windows-1252 (ç, ã, é и т.п.).
func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	fixed, err := charmap.Windows1252.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}
