// Package shuffle randomizes the position of the correct answer in quiz
// questions so that models biased toward option "a" do not produce
// guessable quizzes.
package shuffle

import (
	"math/rand/v2"
	"sync"

	"github.com/examlens/salvage/core/record"
)

// Shuffler permutes quiz options. It is safe for concurrent use.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Shuffler with a deterministic source seeded by seed.
func New(seed uint64) *Shuffler {
	return NewWithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewWithSource returns a Shuffler drawing from src.
func NewWithSource(src rand.Source) *Shuffler {
	return &Shuffler{rng: rand.New(src)}
}

// Random returns a Shuffler with a randomly seeded source.
func Random() *Shuffler {
	return NewWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Questions shuffles every question with a randomly seeded source.
func Questions(qs []record.QuizQuestion) []record.QuizQuestion {
	return Random().All(qs)
}

// Options returns a copy of q with its options uniformly permuted, ids
// reassigned to the canonical sequence and CorrectAnswer rebound to the
// moved correct option. A question whose correct option cannot be located,
// or that has fewer than two options, is returned unchanged.
func (s *Shuffler) Options(q record.QuizQuestion) record.QuizQuestion {
	if len(q.Options) < 2 {
		return q
	}
	correct := -1
	for i, opt := range q.Options {
		if opt.ID == q.CorrectAnswer {
			correct = i
			break
		}
	}
	if correct < 0 {
		return q
	}

	order := make([]int, len(q.Options))
	for i := range order {
		order[i] = i
	}
	s.mu.Lock()
	s.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	s.mu.Unlock()

	out := q
	out.Options = make([]record.Option, len(order))
	for pos, from := range order {
		out.Options[pos] = record.Option{ID: record.OptionID(pos), Text: q.Options[from].Text}
		if from == correct {
			out.CorrectAnswer = out.Options[pos].ID
		}
	}
	return out
}

// All shuffles each question of qs into a new slice. qs is not modified.
func (s *Shuffler) All(qs []record.QuizQuestion) []record.QuizQuestion {
	if qs == nil {
		return nil
	}
	out := make([]record.QuizQuestion, len(qs))
	for i, q := range qs {
		out[i] = s.Options(q)
	}
	return out
}
