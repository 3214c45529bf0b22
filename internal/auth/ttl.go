package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unit is the granularity a TTL was expressed in.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
)

func (u Unit) seconds() int64 {
	switch u {
	case Minute:
		return 60
	case Hour:
		return 60 * 60
	case Day:
		return 24 * 60 * 60
	default:
		return 1
	}
}

func (u Unit) suffix() string {
	switch u {
	case Minute:
		return "m"
	case Hour:
		return "h"
	case Day:
		return "d"
	default:
		return "s"
	}
}

// TTL is a token lifetime: an amount of a fixed unit.
type TTL struct {
	amount int64
	unit   Unit
}

// DefaultTTL is the session lifetime used when nothing else is configured.
var DefaultTTL = Days(7)

func Seconds(n int64) TTL { return TTL{amount: n, unit: Second} }
func Minutes(n int64) TTL { return TTL{amount: n, unit: Minute} }
func Hours(n int64) TTL   { return TTL{amount: n, unit: Hour} }
func Days(n int64) TTL    { return TTL{amount: n, unit: Day} }

// Seconds returns the lifetime in whole seconds. It may be negative.
func (t TTL) Seconds() int64 { return t.amount * t.unit.seconds() }

func (t TTL) Duration() time.Duration { return time.Duration(t.Seconds()) * time.Second }

func (t TTL) String() string {
	return strconv.FormatInt(t.amount, 10) + t.unit.suffix()
}

// ParseTTL reads "604800" (seconds) or a number followed by one of s, m, h, d.
func ParseTTL(s string) (TTL, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TTL{}, fmt.Errorf("%w: empty value", ErrInvalidTTL)
	}
	unit := Second
	num := s
	switch s[len(s)-1] {
	case 's':
		num = s[:len(s)-1]
	case 'm':
		unit, num = Minute, s[:len(s)-1]
	case 'h':
		unit, num = Hour, s[:len(s)-1]
	case 'd':
		unit, num = Day, s[:len(s)-1]
	}
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return TTL{}, fmt.Errorf("%w: %q", ErrInvalidTTL, s)
	}
	return TTL{amount: n, unit: unit}, nil
}
