package words

import (
	"bufio"
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"strings"
	"sync"
)

var ErrNoWords = errors.New("word source is empty")

var defaultWords = []string{
	"apple", "anchor", "balloon", "bamboo", "beach", "blizzard", "bonfire",
	"butterfly", "cactus", "candle", "canyon", "carnival", "castle", "cherry",
	"cinnamon", "coral", "crayon", "desert", "dragon", "emerald", "ember",
	"feather", "flamingo", "forest", "galaxy", "glacier", "grape", "harbor",
	"honey", "iceberg", "jungle", "lagoon", "lantern", "lava", "lemon",
	"lighthouse", "meadow", "mint", "moss", "neon", "ocean", "olive",
	"orchid", "parrot", "peach", "pumpkin", "rainbow", "river", "rose",
	"ruby", "saffron", "sapphire", "sky", "smoke", "snow", "sunflower",
	"sunset", "tangerine", "tiger", "tomato", "violet", "volcano", "wheat",
}

// Pool draws words uniformly from a fixed list, never repeating the
// previous draw when it has a choice.
type Pool struct {
	mu    sync.Mutex
	words []string
	last  string
}

// NewPool returns a pool over words, or the built-in list when words is empty.
func NewPool(words []string) *Pool {
	if len(words) == 0 {
		words = defaultWords
	}
	return &Pool{words: append([]string(nil), words...)}
}

// LoadPool reads one word per line from path. Blank lines and lines
// starting with # are skipped.
func LoadPool(path string) (*Pool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return NewPool(words), nil
}

func (p *Pool) NextWord(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.words) == 0 {
		return "", ErrNoWords
	}
	word := p.words[rand.IntN(len(p.words))]
	if word == p.last && len(p.words) > 1 {
		word = p.words[(indexOf(p.words, word)+1+rand.IntN(len(p.words)-1))%len(p.words)]
	}
	p.last = word
	return word, nil
}

func (p *Pool) Len() int {
	return len(p.words)
}

func indexOf(words []string, word string) int {
	for i, w := range words {
		if w == word {
			return i
		}
	}
	return 0
}
