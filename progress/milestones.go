package progress

import "bytes"

// Milestone maps a case-insensitive log substring to the minimum percentage
// its presence guarantees.
type Milestone struct {
	Pattern string
	Percent uint32
}

// DefaultMilestones follows the standard Windows Installer action sequence as
// it shows up in a verbose (/l*v) log. Order is informational only; matches
// are aggregated with max.
var DefaultMilestones = []Milestone{
	{"action start", 15},
	{"costfinalize", 20},
	{"installvalidate", 25},
	{"installinitialize", 30},
	{"removeexistingproducts", 35},
	{"installfiles", 40},
	{"writeregistryvalues", 60},
	{"createshortcuts", 70},
	{"registerproduct", 80},
	{"publishproduct", 85},
	{"installfinalize", 90},
	{"installation completed", Max},
}

// scanner matches milestones against an append-only byte stream. It keeps
// the tail of the previous chunk so a pattern split across two reads is
// still found.
type scanner struct {
	patterns [][]byte
	percents []uint32
	carry    []byte
	keep     int
}

func newScanner(milestones []Milestone) *scanner {
	s := &scanner{
		patterns: make([][]byte, 0, len(milestones)),
		percents: make([]uint32, 0, len(milestones)),
	}
	for _, m := range milestones {
		if m.Pattern == "" {
			continue
		}
		p := bytes.ToLower([]byte(m.Pattern))
		s.patterns = append(s.patterns, p)
		s.percents = append(s.percents, m.Percent)
		if len(p)-1 > s.keep {
			s.keep = len(p) - 1
		}
	}
	return s
}

// scan returns the highest milestone percentage present in carry+chunk.
func (s *scanner) scan(chunk []byte) uint32 {
	text := append(s.carry, normalize(chunk)...)
	text = bytes.ToLower(text)

	var floor uint32
	for i, p := range s.patterns {
		if s.percents[i] > floor && bytes.Contains(text, p) {
			floor = s.percents[i]
		}
	}

	if len(text) > s.keep {
		text = text[len(text)-s.keep:]
	}
	s.carry = append(s.carry[:0], text...)
	return floor
}

// normalize drops NUL bytes so UTF-16LE logs (which msiexec writes on some
// systems) match the same ASCII patterns as ANSI logs.
func normalize(b []byte) []byte {
	if bytes.IndexByte(b, 0) < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c != 0 {
			out = append(out, c)
		}
	}
	return out
}

// Floor returns the highest milestone percentage found anywhere in text.
func Floor(text []byte, milestones []Milestone) uint32 {
	return newScanner(milestones).scan(text)
}
