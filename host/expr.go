// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Expression syntax:
//
//	$1F 0x1F    hexadecimal literals
//	%1010       binary literal
//	123         decimal literal (hexadecimal when hex mode is on)
//	'c'         character literal
//	hl pc .     identifiers, resolved by the caller
//	- + ~       unary operators
//	* / %       multiplicative operators
//	+ -         additive operators
//	<< >>       shift operators
//	& ^ |       bitwise operators
//	( )         grouping

var (
	errExprParse   = errors.New("expression syntax error")
	errDivideZero  = errors.New("divide by zero")
	errParenthesis = errors.New("mismatched parentheses")
)

type resolver interface {
	resolveIdentifier(s string) (int64, error)
}

type exprParser struct {
	hexMode bool
}

func newExprParser() *exprParser {
	return &exprParser{}
}

type binaryOp struct {
	symbol string
	prec   int
	eval   func(a, b int64) (int64, error)
}

// Two-character operators precede their one-character prefixes.
var binaryOps = []binaryOp{
	{"<<", 4, func(a, b int64) (int64, error) { return a << uint64(b&63), nil }},
	{">>", 4, func(a, b int64) (int64, error) { return a >> uint64(b&63), nil }},
	{"*", 6, func(a, b int64) (int64, error) { return a * b, nil }},
	{"/", 6, func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideZero
		}
		return a / b, nil
	}},
	{"%", 6, func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivideZero
		}
		return a % b, nil
	}},
	{"+", 5, func(a, b int64) (int64, error) { return a + b, nil }},
	{"-", 5, func(a, b int64) (int64, error) { return a - b, nil }},
	{"&", 3, func(a, b int64) (int64, error) { return a & b, nil }},
	{"^", 2, func(a, b int64) (int64, error) { return a ^ b, nil }},
	{"|", 1, func(a, b int64) (int64, error) { return a | b, nil }},
}

// Parse evaluates the expression, calling r to resolve identifiers.
func (p *exprParser) Parse(expr string, r resolver) (int64, error) {
	s := &exprScanner{in: expr, hexMode: p.hexMode, r: r}
	v, err := s.parseBinary(1)
	if err != nil {
		return 0, err
	}
	s.skipSpace()
	if s.pos < len(s.in) {
		if s.in[s.pos] == ')' {
			return 0, errParenthesis
		}
		return 0, fmt.Errorf("unexpected '%s' in expression", s.in[s.pos:])
	}
	return v, nil
}

type exprScanner struct {
	in      string
	pos     int
	hexMode bool
	r       resolver
}

func (s *exprScanner) skipSpace() {
	for s.pos < len(s.in) && (s.in[s.pos] == ' ' || s.in[s.pos] == '\t') {
		s.pos++
	}
}

func (s *exprScanner) peekOp() *binaryOp {
	s.skipSpace()
	for i := range binaryOps {
		if strings.HasPrefix(s.in[s.pos:], binaryOps[i].symbol) {
			return &binaryOps[i]
		}
	}
	return nil
}

func (s *exprScanner) parseBinary(minPrec int) (int64, error) {
	lhs, err := s.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		op := s.peekOp()
		if op == nil || op.prec < minPrec {
			return lhs, nil
		}
		s.pos += len(op.symbol)

		rhs, err := s.parseBinary(op.prec + 1)
		if err != nil {
			return 0, err
		}
		if lhs, err = op.eval(lhs, rhs); err != nil {
			return 0, err
		}
	}
}

func (s *exprScanner) parseUnary() (int64, error) {
	s.skipSpace()
	if s.pos >= len(s.in) {
		return 0, errExprParse
	}

	c := s.in[s.pos]
	switch {
	case c == '-' || c == '+' || c == '~':
		s.pos++
		v, err := s.parseUnary()
		if err != nil {
			return 0, err
		}
		switch c {
		case '-':
			return -v, nil
		case '~':
			return ^v, nil
		}
		return v, nil

	case c == '(':
		s.pos++
		v, err := s.parseBinary(1)
		if err != nil {
			return 0, err
		}
		s.skipSpace()
		if s.pos >= len(s.in) || s.in[s.pos] != ')' {
			return 0, errParenthesis
		}
		s.pos++
		return v, nil

	case c == '$':
		s.pos++
		return s.parseNumber(16)

	case c == '%':
		s.pos++
		return s.parseNumber(2)

	case c == '\'':
		if s.pos+2 >= len(s.in) || s.in[s.pos+2] != '\'' {
			return 0, errExprParse
		}
		v := int64(s.in[s.pos+1])
		s.pos += 3
		return v, nil

	case isDigit(c):
		if strings.HasPrefix(s.in[s.pos:], "0x") || strings.HasPrefix(s.in[s.pos:], "0X") {
			s.pos += 2
			return s.parseNumber(16)
		}
		if s.hexMode {
			return s.parseNumber(16)
		}
		return s.parseNumber(10)

	case c == '.' || isIdentStart(c):
		start := s.pos
		s.pos++
		for s.pos < len(s.in) && isIdentChar(s.in[s.pos]) {
			s.pos++
		}
		if s.pos < len(s.in) && s.in[s.pos] == '\'' {
			s.pos++ // shadow register, e.g. hl'
		}
		if s.r == nil {
			return 0, fmt.Errorf("identifier '%s' not found", s.in[start:s.pos])
		}
		return s.r.resolveIdentifier(s.in[start:s.pos])

	default:
		return 0, errExprParse
	}
}

func (s *exprScanner) parseNumber(base int) (int64, error) {
	start := s.pos
	for s.pos < len(s.in) && isIdentChar(s.in[s.pos]) {
		s.pos++
	}
	if start == s.pos {
		return 0, errExprParse
	}
	v, err := strconv.ParseInt(s.in[start:s.pos], base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s.in[start:s.pos])
	}
	return v, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
