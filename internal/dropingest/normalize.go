package dropingest

import (
	"net/url"
	"regexp"
	"strings"
)

const fileScheme = "file://"

var driveLetterPrefix = regexp.MustCompile(`^/[A-Za-z]:`)

// NormalizePath converts a file URI into a filesystem path. The scheme is
// stripped, the remainder percent-decoded, and a separator ahead of a Windows
// drive letter ("/C:/...") removed. Strings without the file scheme are
// returned unchanged.
func NormalizePath(value string) string {
	if !hasFileScheme(value) {
		return value
	}
	decoded := percentDecode(value[len(fileScheme):])
	if driveLetterPrefix.MatchString(decoded) {
		decoded = decoded[1:]
	}
	return decoded
}

func hasFileScheme(value string) bool {
	return len(value) >= len(fileScheme) && strings.EqualFold(value[:len(fileScheme)], fileScheme)
}

// percentDecode decodes %XX escapes. Malformed escapes are kept verbatim
// rather than failing the whole string.
func percentDecode(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
