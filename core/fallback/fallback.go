// Package fallback builds placeholder quiz questions for callers that must
// return something when extraction recovers nothing. The extractor never
// calls it itself.
package fallback

import (
	"strconv"
	"strings"

	"github.com/examlens/salvage/core/record"
)

// GeneralTopic names the topic used when no topics are given.
const GeneralTopic = "general topic"

// PlaceholderQuestions returns one placeholder question per topic, for at
// most n topics. A non-positive n means every topic. Blank topics are
// skipped; with no usable topic a single generic question is returned.
func PlaceholderQuestions(topics []string, n int) []record.QuizQuestion {
	var usable []string
	for _, topic := range topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			usable = append(usable, topic)
		}
	}
	if n > 0 && len(usable) > n {
		usable = usable[:n]
	}

	if len(usable) == 0 {
		q := placeholder(1, GeneralTopic)
		q.Topic = record.DefaultQuestionTopic
		q.Explanation = "This is a placeholder question"
		return []record.QuizQuestion{q}
	}

	questions := make([]record.QuizQuestion, 0, len(usable))
	for i, topic := range usable {
		questions = append(questions, placeholder(i+1, topic))
	}
	return questions
}

func placeholder(id int, topic string) record.QuizQuestion {
	return record.QuizQuestion{
		ID:   strconv.Itoa(id),
		Text: "Test question about " + topic,
		Options: []record.Option{
			{ID: record.OptionID(0), Text: "Option A"},
			{ID: record.OptionID(1), Text: "Option B"},
			{ID: record.OptionID(2), Text: "Option C"},
			{ID: record.OptionID(3), Text: "Option D"},
		},
		CorrectAnswer: record.OptionID(0),
		Explanation:   "This is a placeholder question about " + topic,
		Topic:         topic,
	}
}
