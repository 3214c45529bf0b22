// Package question loads the question deck and serves it over HTTP.
package question

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sort"
	"strconv"
	"strings"
)

//go:embed data/questions.csv
var defaultDeck string

const fieldCount = 14

// Bank is an immutable, in-memory question deck.
type Bank struct {
	byID    map[int]Question
	ordered []Question
	roots   []Question
	// Skipped counts data rows dropped as malformed.
	Skipped int
	intN    func(n int) int
}

// Default returns the deck shipped with the binary.
func Default() (*Bank, error) {
	return Load(strings.NewReader(defaultDeck))
}

// LoadFile reads a deck from path.
func LoadFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a ';'-separated deck. The first line is a header. Blank lines,
// rows with fewer than 14 fields and rows with non-integer numeric fields are
// skipped. A later row with the same id replaces an earlier one.
func Load(r io.Reader) (*Bank, error) {
	b := &Bank{byID: map[int]Question{}, intN: rand.IntN}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		q, ok := parseRow(strings.Split(line, ";"))
		if !ok {
			b.Skipped++
			continue
		}
		b.byID[q.ID] = q
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	b.index()
	return b, nil
}

func parseRow(parts []string) (Question, bool) {
	if len(parts) < fieldCount {
		return Question{}, false
	}
	var nums [11]int
	for i, idx := range []int{0, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13} {
		n, err := strconv.Atoi(strings.TrimSpace(parts[idx]))
		if err != nil {
			return Question{}, false
		}
		nums[i] = n
	}
	return Question{
		ID:          nums[0],
		Question:    parts[1],
		ChoixGauche: parts[2],
		ChoixDroite: parts[3],
		NextIDG:     nums[1],
		NextIDD:     nums[2],
		GPlanete:    nums[3],
		GInclusion:  nums[4],
		GSecurite:   nums[5],
		GBudget:     nums[6],
		DPlanete:    nums[7],
		DInclusion:  nums[8],
		DSecurite:   nums[9],
		DBudget:     nums[10],
	}, true
}

// index builds the id-ordered list and the set of entry points: questions no
// other question leads to.
func (b *Bank) index() {
	linked := map[int]bool{}
	for _, q := range b.byID {
		b.ordered = append(b.ordered, q)
		if q.NextIDG != 0 {
			linked[q.NextIDG] = true
		}
		if q.NextIDD != 0 {
			linked[q.NextIDD] = true
		}
	}
	sort.Slice(b.ordered, func(i, j int) bool { return b.ordered[i].ID < b.ordered[j].ID })
	for _, q := range b.ordered {
		if !linked[q.ID] {
			b.roots = append(b.roots, q)
		}
	}
}

func (b *Bank) Len() int { return len(b.ordered) }

func (b *Bank) Get(id int) (Question, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// All returns every question ordered by id.
func (b *Bank) All() []Question {
	out := make([]Question, len(b.ordered))
	copy(out, b.ordered)
	return out
}

// Search returns questions whose text contains query, ignoring case. An empty
// query matches everything.
func (b *Bank) Search(query string) []Question {
	needle := strings.ToLower(query)
	out := []Question{}
	for _, q := range b.ordered {
		if strings.Contains(strings.ToLower(q.Question), needle) {
			out = append(out, q)
		}
	}
	return out
}

// Random picks an entry-point question, or any question when every question
// is linked from another. ok is false for an empty deck.
func (b *Bank) Random() (Question, bool) {
	pool := b.roots
	if len(pool) == 0 {
		pool = b.ordered
	}
	if len(pool) == 0 {
		return Question{}, false
	}
	return pool[b.intN(len(pool))], true
}
