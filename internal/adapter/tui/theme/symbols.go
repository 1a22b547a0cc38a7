package theme

import (
	"os"
	"strings"
)

// glyph pairs a Unicode symbol with the ASCII text drawn in its place.
type glyph struct {
	unicode string
	ascii   string
}

// glyphs maps every Symbol* variable to its two renderings.
var glyphs = map[*string]glyph{
	&SymbolSuccess:  {"✓", "[OK]"},
	&SymbolError:    {"✗", "[ERR]"},
	&SymbolWarning:  {"⚠", "[!]"},
	&SymbolInfo:     {"●", "[i]"},
	&SymbolSpinner:  {"⏳", "[...]"},
	&SymbolArrowR:   {"→", "->"},
	&SymbolBullet:   {"•", "*"},
	&SymbolEllipsis: {"…", "..."},
}

// UseASCII switches every symbol to its ASCII fallback, or back to Unicode.
func UseASCII(ascii bool) {
	for sym, g := range glyphs {
		*sym = g.unicode
		if ascii {
			*sym = g.ascii
		}
	}
}

// wantASCII reports whether the terminal environment asks for ASCII symbols:
// CASEDESK_ASCII_SYMBOLS is set to 1/true, TERM is "dumb", or the effective
// locale names a charset other than UTF-8.
func wantASCII(getenv func(string) string) bool {
	if v := getenv("CASEDESK_ASCII_SYMBOLS"); v == "1" || strings.EqualFold(v, "true") {
		return true
	}
	if getenv("TERM") == "dumb" {
		return true
	}
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := strings.ToLower(getenv(key)); v != "" {
			return !strings.Contains(v, "utf-8") && !strings.Contains(v, "utf8")
		}
	}
	return false
}

func init() {
	UseASCII(wantASCII(os.Getenv))
}
