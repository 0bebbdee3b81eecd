package vocab

import "encoding/hex"

// Escape renders a token definition as it appears on a vocabulary line.
//
// Bytes 0x21 through 0x7e other than '\' and '#' are written as is; every
// other byte becomes a backslash followed by two lowercase hex digits.
func Escape(def []byte) []byte {
	out := make([]byte, 0, len(def))
	for _, c := range def {
		if c >= 0x21 && c <= 0x7e && c != '\\' && c != '#' {
			out = append(out, c)
			continue
		}
		var buf [2]byte
		hex.Encode(buf[:], []byte{c})
		out = append(out, '\\', buf[0], buf[1])
	}
	return out
}

// Unescape decodes a vocabulary line into the definition bytes.
//
// A backslash followed by two hex digits is one byte and the two characters
// `\n` are a newline. Anything else, including a backslash that starts
// neither form, is copied verbatim.
func Unescape(line []byte) []byte {
	out := make([]byte, 0, len(line))
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 < len(line) && line[i+1] == 'n' {
			out = append(out, '\n')
			i++
			continue
		}
		if i+2 < len(line) && isHex(line[i+1]) && isHex(line[i+2]) {
			out = append(out, hexValue(line[i+1])<<4|hexValue(line[i+2]))
			i += 2
			continue
		}
		out = append(out, c)
	}
	return out
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	}
	return c - '0'
}
