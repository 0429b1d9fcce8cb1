package core

import (
	"math/rand"
	"strings"
	"sync/atomic"
	"time"
)

var reqIDSeq atomic.Uint64

// newReqID returns a short, roughly sortable request id: base36
// timestamp plus a process-local sequence and two random characters.
func newReqID() string {
	seq := reqIDSeq.Add(1)
	return base36(time.Now().UnixNano()) + "-" + base36(int64(seq)) + randSuffix(2)
}

const b36chars = "0123456789abcdefghijklmnopqrstuvwxyz"

func randSuffix(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(b36chars[rand.Intn(len(b36chars))])
	}
	return b.String()
}

func base36(v int64) string {
	if v < 0 {
		v = -v
	}
	if v == 0 {
		return "0"
	}
	var buf [32]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = b36chars[v%36]
		v /= 36
	}
	return string(buf[i:])
}

// tokenizeCommandLine splits command text into tokens. Single and
// double quotes group words, backslash escapes the next byte:
//
//	/cmd a "b c" --k=v
func tokenizeCommandLine(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var (
		out     []string
		tok     strings.Builder
		quote   byte
		escaped bool
	)
	emit := func() {
		if tok.Len() > 0 {
			out = append(out, tok.String())
			tok.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			tok.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				tok.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			emit()
		default:
			tok.WriteByte(c)
		}
	}
	emit()
	return out
}

// parseFlags separates raw args into positionals, valued flags, and
// boolean flags.
//
// Supported forms:
//
//	--k=v, --k v, --flag (bool)
//	-k=v, -k v, -abc (bool flags a,b,c)
func parseFlags(args []string) (pos []string, flags map[string]string, bools map[string]bool) {
	flags = map[string]string{}
	bools = map[string]bool{}

	// looksLikeValue reports whether args[i+1] can serve as a flag value.
	looksLikeValue := func(i int) bool {
		return i+1 < len(args) && !strings.HasPrefix(args[i+1], "-")
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			key := arg[2:]
			if eq := strings.IndexByte(key, '='); eq >= 0 {
				flags[key[:eq]] = key[eq+1:]
			} else if looksLikeValue(i) {
				flags[key] = args[i+1]
				i++
			} else {
				bools[key] = true
			}

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			key := arg[1:]
			switch eq := strings.IndexByte(key, '='); {
			case eq >= 0:
				flags[key[:eq]] = key[eq+1:]
			case len(key) == 1:
				if looksLikeValue(i) {
					flags[key] = args[i+1]
					i++
				} else {
					bools[key] = true
				}
			default:
				// clustered short bools: -abc
				for j := 0; j < len(key); j++ {
					bools[string(key[j])] = true
				}
			}

		default:
			pos = append(pos, arg)
		}
	}
	return pos, flags, bools
}
