package jsast

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanner turns JavaScript source into a flat token slice. Comments are
// collected separately so that suppression directives can be resolved later.
type scanner struct {
	file     *token.File
	src      []byte
	pos      int
	newline  bool
	tokens   []Token
	comments []*Comment
}

func scan(file *token.File, src []byte) ([]Token, []*Comment, error) {
	s := &scanner{file: file, src: src}
	for {
		if err := s.skipTrivia(); err != nil {
			return nil, nil, err
		}
		if s.pos >= len(s.src) {
			s.tokens = append(s.tokens, Token{
				Kind:          EOF,
				Pos:           len(s.src),
				End:           len(s.src),
				NewlineBefore: true,
			})
			return s.tokens, s.comments, nil
		}
		if err := s.scanToken(); err != nil {
			return nil, nil, err
		}
	}
}

func (s *scanner) errorAt(offset int, msg string) error {
	if offset > len(s.src) {
		offset = len(s.src)
	}
	return &SyntaxError{Pos: s.file.Position(s.file.Pos(offset)), Msg: msg}
}

func (s *scanner) emit(kind TokenKind, start, end int) {
	s.tokens = append(s.tokens, Token{
		Kind:          kind,
		Value:         string(s.src[start:end]),
		Pos:           start,
		End:           end,
		NewlineBefore: s.newline,
	})
	s.newline = false
	s.pos = end
}

// skipTrivia skips whitespace, line terminators and comments.
func (s *scanner) skipTrivia() error {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n' || c == '\r':
			s.newline = true
			s.pos++
		case c == ' ' || c == '\t' || c == '\v' || c == '\f':
			s.pos++
		case c == '#' && s.pos == 0 && s.peekByte(1) == '!':
			s.pos = s.lineEnd(s.pos)
		case c == '/' && s.peekByte(1) == '/':
			end := s.lineEnd(s.pos)
			s.comments = append(s.comments, &Comment{
				Span: Span{From: s.pos, To: end},
				Text: string(s.src[s.pos:end]),
			})
			s.pos = end
		case c == '/' && s.peekByte(1) == '*':
			idx := strings.Index(string(s.src[s.pos+2:]), "*/")
			if idx < 0 {
				return s.errorAt(s.pos, "unterminated block comment")
			}
			end := s.pos + 2 + idx + 2
			text := string(s.src[s.pos:end])
			if strings.ContainsAny(text, "\n\r\u2028\u2029") {
				s.newline = true
			}
			s.comments = append(s.comments, &Comment{
				Span:  Span{From: s.pos, To: end},
				Text:  text,
				Block: true,
			})
			s.pos = end
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(s.src[s.pos:])
			switch {
			case r == '\u2028' || r == '\u2029':
				s.newline = true
			case unicode.IsSpace(r) || r == '\ufeff':
			default:
				return nil
			}
			s.pos += size
		default:
			return nil
		}
	}
	return nil
}

func (s *scanner) peekByte(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) lineEnd(i int) int {
	for i < len(s.src) && s.src[i] != '\n' && s.src[i] != '\r' {
		i++
	}
	return i
}

func (s *scanner) scanToken() error {
	start := s.pos
	c := s.src[start]

	switch {
	case isIdentStart(c):
		s.emit(IdentToken, start, s.skipIdent(start+1))
		return nil
	case c >= utf8.RuneSelf:
		r, size := utf8.DecodeRune(s.src[start:])
		if !unicode.IsLetter(r) {
			return s.errorAt(start, "unexpected character "+string(r))
		}
		s.emit(IdentToken, start, s.skipIdent(start+size))
		return nil
	case c == '#':
		if start+1 >= len(s.src) || !isIdentStart(s.src[start+1]) {
			return s.errorAt(start, "unexpected character #")
		}
		s.emit(PrivateName, start, s.skipIdent(start+2))
		return nil
	case isDigit(c) || (c == '.' && isDigit(s.peekByte(1))):
		s.emit(Number, start, s.skipNumber(start))
		return nil
	case c == '"' || c == '\'':
		end, err := s.skipString(start, c)
		if err != nil {
			return err
		}
		s.emit(String, start, end)
		return nil
	case c == '`':
		end, err := s.skipTemplate(start)
		if err != nil {
			return err
		}
		s.emit(Template, start, end)
		return nil
	case c == '/' && s.regexpAllowed():
		end, err := s.skipRegexp(start)
		if err != nil {
			return err
		}
		s.emit(Regexp, start, end)
		return nil
	}

	rest := string(s.src[start:min(start+4, len(s.src))])
	for _, p := range punctuators {
		if !strings.HasPrefix(rest, p) {
			continue
		}
		// "a?.5:b" is a conditional, not optional chaining
		if p == "?." && isDigit(s.peekByte(2)) {
			continue
		}
		s.emit(Punct, start, start+len(p))
		return nil
	}
	return s.errorAt(start, "unexpected character "+string(c))
}

// regexpAllowed decides whether a slash begins a regular expression,
// based on the previous significant token.
func (s *scanner) regexpAllowed() bool {
	if len(s.tokens) == 0 {
		return true
	}
	prev := s.tokens[len(s.tokens)-1]
	switch prev.Kind {
	case Punct:
		switch prev.Value {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	case IdentToken:
		return regexpAfterWord[prev.Value]
	default:
		return false
	}
}

func (s *scanner) skipIdent(i int) int {
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case isIdentPart(c):
			i++
		case c == '\\':
			// unicode escape: \uXXXX or \u{X...}
			i += 2
			if i < len(s.src) && s.src[i] == '{' {
				for i < len(s.src) && s.src[i] != '}' {
					i++
				}
				i++
			} else {
				i += 4
			}
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(s.src[i:])
			if !isUnicodeIdentPart(r) {
				return i
			}
			i += size
		default:
			return i
		}
	}
	return min(i, len(s.src))
}

func (s *scanner) skipNumber(i int) int {
	n := len(s.src)
	if s.src[i] == '0' && i+1 < n && strings.IndexByte("xXoObB", s.src[i+1]) >= 0 {
		i += 2
		for i < n && (isHexDigit(s.src[i]) || s.src[i] == '_') {
			i++
		}
		if i < n && s.src[i] == 'n' {
			i++
		}
		return i
	}
	digits := func() {
		for i < n && (isDigit(s.src[i]) || s.src[i] == '_') {
			i++
		}
	}
	digits()
	if i < n && s.src[i] == '.' {
		i++
		digits()
	}
	if i < n && (s.src[i] == 'e' || s.src[i] == 'E') {
		j := i + 1
		if j < n && (s.src[j] == '+' || s.src[j] == '-') {
			j++
		}
		if j < n && isDigit(s.src[j]) {
			i = j
			digits()
		}
	}
	if i < n && s.src[i] == 'n' {
		i++
	}
	return i
}

func (s *scanner) skipString(start int, quote byte) (int, error) {
	i := start + 1
	for i < len(s.src) {
		switch s.src[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1, nil
		case '\n', '\r':
			return 0, s.errorAt(start, "unterminated string literal")
		default:
			i++
		}
	}
	return 0, s.errorAt(start, "unterminated string literal")
}

// skipTemplate skips a template literal, including any nested
// substitutions, and returns the offset after the closing backtick.
func (s *scanner) skipTemplate(start int) (int, error) {
	i := start + 1
	for i < len(s.src) {
		switch s.src[i] {
		case '\\':
			i += 2
		case '`':
			return i + 1, nil
		case '$':
			if i+1 < len(s.src) && s.src[i+1] == '{' {
				end, err := s.skipSubstitution(i + 2)
				if err != nil {
					return 0, err
				}
				i = end
				continue
			}
			i++
		default:
			i++
		}
	}
	return 0, s.errorAt(start, "unterminated template literal")
}

func (s *scanner) skipSubstitution(i int) (int, error) {
	start := i
	depth := 1
	for i < len(s.src) {
		c := s.src[i]
		switch {
		case c == '{':
			depth++
			i++
		case c == '}':
			depth--
			i++
			if depth == 0 {
				return i, nil
			}
		case c == '"' || c == '\'':
			end, err := s.skipString(i, c)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '`':
			end, err := s.skipTemplate(i)
			if err != nil {
				return 0, err
			}
			i = end
		case c == '/' && i+1 < len(s.src) && s.src[i+1] == '/':
			i = s.lineEnd(i)
		case c == '/' && i+1 < len(s.src) && s.src[i+1] == '*':
			idx := strings.Index(string(s.src[i+2:]), "*/")
			if idx < 0 {
				return 0, s.errorAt(i, "unterminated block comment")
			}
			i += 2 + idx + 2
		default:
			i++
		}
	}
	return 0, s.errorAt(start, "unterminated template substitution")
}

func (s *scanner) skipRegexp(start int) (int, error) {
	i := start + 1
	inClass := false
	for {
		if i >= len(s.src) {
			return 0, s.errorAt(start, "unterminated regular expression")
		}
		c := s.src[i]
		if c == '\n' || c == '\r' {
			return 0, s.errorAt(start, "unterminated regular expression")
		}
		i++
		switch {
		case c == '\\':
			i++
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			for i < len(s.src) && isIdentPart(s.src[i]) {
				i++
			}
			return i, nil
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '$' || c == '_' || c == '\\' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return c == '$' || c == '_' || isDigit(c) || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isUnicodeIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) ||
		unicode.Is(unicode.Pc, r) || r == '\u200c' || r == '\u200d'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
