package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/examlens/salvage/core/record"
	"github.com/examlens/salvage/providers/observability"
	"github.com/examlens/salvage/providers/observability/slogobs"
)

const fencedQuiz = "Here you go:\n```json\n" +
	`[{"id":"1","text":"What is 2+2?","options":[{"id":"a","text":"3"},{"id":"b","text":"4"}],"correctAnswer":"b","explanation":"basic math","topic":"Math"}]` +
	"\n```\nGood luck!"

func TestQuestions_FencedBlock(t *testing.T) {
	got := Questions(fencedQuiz)
	want := []record.QuizQuestion{{
		ID:            "1",
		Text:          "What is 2+2?",
		Options:       []record.Option{{ID: "a", Text: "3"}, {ID: "b", Text: "4"}},
		CorrectAnswer: "b",
		Explanation:   "basic math",
		Topic:         "Math",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Questions() = %+v, want %+v", got, want)
	}

	if _, tier := Raw(fencedQuiz, record.SchemaQuestions); tier != TierFence {
		t.Errorf("Raw() tier = %v, want %v", tier, TierFence)
	}
}

func TestExtract_Empty(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "I could not generate any questions, sorry."} {
		if got := Questions(input); len(got) != 0 {
			t.Errorf("Questions(%q) = %+v, want empty", input, got)
		}
		if got := Errors(input); len(got) != 0 {
			t.Errorf("Errors(%q) = %+v, want empty", input, got)
		}
		if _, tier := Raw(input, record.SchemaQuestions); tier != TierNone {
			t.Errorf("Raw(%q) tier = %v, want %v", input, tier, TierNone)
		}
	}
}

func quizRecord(n int) string {
	return fmt.Sprintf(`{"id":"%d","text":"What is %d plus %d?","options":[{"id":"a","text":"%d"},{"id":"b","text":"%d"}],"correctAnswer":"a"}`,
		n, n, n, 2*n, 2*n+1)
}

func TestQuestions_TruncatedArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "cut inside the third record",
			input: "[" + quizRecord(1) + ", " + quizRecord(2) + `, {"id":"3","text":"What is 3 plus`,
			want:  2,
		},
		{
			name:  "cut inside a wrapper",
			input: `{"questions": [` + quizRecord(1) + ", " + quizRecord(2) + ", " + quizRecord(3) + `, {"id":"4","opt`,
			want:  3,
		},
		{
			name:  "cut inside the options of the second record",
			input: "```json\n[" + quizRecord(1) + `, {"id":"2","text":"What is 2 plus 2?","options":[{"id":"a","te`,
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Questions(tt.input)
			if len(got) != tt.want {
				t.Fatalf("Questions() returned %d records, want %d: %+v", len(got), tt.want, got)
			}
			for i, q := range got {
				if q.ID != fmt.Sprint(i+1) {
					t.Errorf("record %d has id %q, want %q", i, q.ID, fmt.Sprint(i+1))
				}
			}
			if _, tier := Raw(tt.input, record.SchemaQuestions); tier != TierSalvage {
				t.Errorf("Raw() tier = %v, want %v", tier, TierSalvage)
			}
		})
	}
}

func TestErrors_ProseEmbeddedArray(t *testing.T) {
	input := `I reviewed questions [1, 2] carefully. Results:
[{"question": 1, "yourAnswer": "4", "correctAnswer": "5", "topic": "Arithmetic", "feedback": "Off by one."},
 {"question": 2, "yourAnswer": "x", "correctAnswer": "y", "topic": "Algebra", "feedback": "Wrong variable."}]
Let me know if you have questions about [these].`

	got := Errors(input)
	if len(got) != 2 {
		t.Fatalf("Errors() returned %d records, want 2: %+v", len(got), got)
	}
	if got[0].Question != 1 || got[1].Question != 2 {
		t.Errorf("question numbers = %d, %d, want 1, 2", got[0].Question, got[1].Question)
	}
	if got[1].Topic != "Algebra" || got[1].Feedback != "Wrong variable." {
		t.Errorf("second record = %+v", got[1])
	}
	if _, tier := Raw(input, record.SchemaErrors); tier != TierLargestArray {
		t.Errorf("Raw() tier = %v, want %v", tier, TierLargestArray)
	}
}

func TestErrors_RepairedSyntax(t *testing.T) {
	input := "[\n" +
		"  {\"question\": 1, // first one\n" +
		"   \"yourAnswer\": \"a\", \"correctAnswer\": \"b\", \"feedback\": \"Line one\nline two\",},\n" +
		"]"

	got := Errors(input)
	if len(got) != 1 {
		t.Fatalf("Errors() returned %d records, want 1: %+v", len(got), got)
	}
	if got[0].Feedback != "Line one\nline two" {
		t.Errorf("Feedback = %q, want %q", got[0].Feedback, "Line one\nline two")
	}
}

func TestErrors_CorrectnessFromMarks(t *testing.T) {
	input := `[
		{"question": 1, "yourAnswer": "a", "marksReceived": 5, "totalMarks": 5},
		{"question": 2, "yourAnswer": "b", "marksReceived": 3, "totalMarks": 5},
		{"question": 3, "yourAnswer": "c", "marksReceived": 0, "totalMarks": 5},
		{"question": 4, "yourAnswer": "d"}
	]`

	got := Errors(input)
	want := []record.Correctness{record.Correct, record.PartiallyCorrect, record.Incorrect, record.Incorrect}
	if len(got) != len(want) {
		t.Fatalf("Errors() returned %d records, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Correctness != w {
			t.Errorf("record %d correctness = %q, want %q", i, got[i].Correctness, w)
		}
	}
}

func TestErrors_WithoutQuestionNumber(t *testing.T) {
	input := `[{"topic":"Algebra","feedback":"Sign error when expanding","marksReceived":0,"totalMarks":5}]`

	got := Errors(input)
	if len(got) != 1 {
		t.Fatalf("Errors() returned %d records, want 1: %+v", len(got), got)
	}
	if got[0].Question != 0 || got[0].Topic != "Algebra" || got[0].Correctness != record.Incorrect {
		t.Errorf("record = %+v, want question 0, topic Algebra, incorrect", got[0])
	}
}

func TestErrors_DelimitersInStrings(t *testing.T) {
	input := `Result: [{"question": 1, "yourAnswer": "}{][", "correctAnswer": "\"x\" ]"}] done`

	got := Errors(input)
	if len(got) != 1 {
		t.Fatalf("Errors() returned %d records, want 1", len(got))
	}
	if got[0].YourAnswer != "}{][" || got[0].CorrectAnswer != `"x" ]` {
		t.Errorf("record = %+v", got[0])
	}
}

func TestExtract_Container(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		schema record.Schema
		want   int
	}{
		{
			name:   "lone error object",
			input:  `  {"question": 3, "yourAnswer": "x", "correctAnswer": "y"}  `,
			schema: record.SchemaErrors,
			want:   1,
		},
		{
			name:   "lone question object",
			input:  `{"question": "Which metal is liquid at room temperature?", "choices": ["Mercury", "Iron"], "answer": "Mercury"}`,
			schema: record.SchemaQuestions,
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws, tier := Raw(tt.input, tt.schema)
			if tier != TierContainer {
				t.Errorf("Raw() tier = %v, want %v", tier, TierContainer)
			}
			if len(raws) != tt.want {
				t.Errorf("Raw() returned %d candidates, want %d", len(raws), tt.want)
			}
		})
	}
}

func TestContainerRecords(t *testing.T) {
	item := map[string]any{"text": "q"}
	tests := []struct {
		name string
		obj  map[string]any
		want int
	}{
		{"direct key", map[string]any{"questions": []any{item, item}}, 2},
		{"alternate key", map[string]any{"quiz": []any{item}}, 1},
		{"nested key", map[string]any{"quiz": map[string]any{"questions": []any{item}}}, 1},
		{"wrapper", map[string]any{"data": map[string]any{"items": []any{item, "skip"}}}, 1},
		{"no key", map[string]any{"data": []any{item}}, 0},
		{"too deep", map[string]any{"a": map[string]any{"b": map[string]any{"c": map[string]any{"questions": []any{item}}}}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := containerRecords(tt.obj, record.SchemaQuestions, maxContainerDepth)
			if len(got) != tt.want {
				t.Errorf("containerRecords() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestQuestions_TextHeuristic(t *testing.T) {
	input := "Question 1: What is the powerhouse of the cell in biology?\n" +
		"Question 2: Too short\n" +
		"Q3: Which gas do plants absorb from the atmosphere?"

	got := Questions(input)
	if len(got) != 2 {
		t.Fatalf("Questions() returned %d records, want 2: %+v", len(got), got)
	}
	if got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("ids = %q, %q, want 1, 3", got[0].ID, got[1].ID)
	}
	if got[0].Text != "What is the powerhouse of the cell in biology?" {
		t.Errorf("Text = %q", got[0].Text)
	}
	wantOptions := []record.Option{
		{ID: "a", Text: "Option A"},
		{ID: "b", Text: "Option B"},
		{ID: "c", Text: "Option C"},
		{ID: "d", Text: "Option D"},
	}
	if !reflect.DeepEqual(got[1].Options, wantOptions) || got[1].CorrectAnswer != "a" {
		t.Errorf("placeholder options = %+v, correct %q", got[1].Options, got[1].CorrectAnswer)
	}
	if got[1].Topic != record.DefaultQuestionTopic {
		t.Errorf("Topic = %q, want %q", got[1].Topic, record.DefaultQuestionTopic)
	}
}

func TestQuestions_TextHeuristicTruncates(t *testing.T) {
	input := "Question 1: " + strings.Repeat("word ", 100)
	got := Questions(input)
	if len(got) != 1 {
		t.Fatalf("Questions() returned %d records, want 1", len(got))
	}
	if n := len([]rune(got[0].Text)); n > maxHeuristicQuestion {
		t.Errorf("Text has %d characters, want at most %d", n, maxHeuristicQuestion)
	}
}

func TestErrors_TextHeuristic(t *testing.T) {
	input := "question: 1\nyourAnswer: 4\ncorrectAnswer: 5\ntopic: Arithmetic\nfeedback: Off by one.\n\n" +
		"question: 2\nyour answer: x\ncorrect answer: y\ntopic: Algebra\nfeedback: Wrong variable."

	got := Errors(input)
	want := []record.AssessmentError{
		{Question: 1, YourAnswer: "4", CorrectAnswer: "5", Topic: "Arithmetic", Feedback: "Off by one.", Correctness: record.Incorrect},
		{Question: 2, YourAnswer: "x", CorrectAnswer: "y", Topic: "Algebra", Feedback: "Wrong variable.", Correctness: record.Incorrect},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Errors() = %+v, want %+v", got, want)
	}
}

func TestExtract_AdversarialInput(t *testing.T) {
	inputs := map[string]string{
		"open brackets": strings.Repeat("[", 200000),
		"open braces":   strings.Repeat("{", 200000),
		"mixed":         strings.Repeat(`[{"a":"`, 50000),
		"quotes":        strings.Repeat(`"`, 100000) + "[{",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			if got := Questions(input); len(got) != 0 {
				t.Errorf("Questions() = %d records, want 0", len(got))
			}
			if got := Errors(input); len(got) != 0 {
				t.Errorf("Errors() = %d records, want 0", len(got))
			}
		})
	}
}

func TestExtract_BudgetExhaustion(t *testing.T) {
	var b strings.Builder
	b.WriteString(strings.Repeat("{", 1000))
	b.WriteString("[")
	for i := 1; i <= 20; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		b.WriteString(quizRecord(i))
	}
	b.WriteString("]")
	input := b.String()

	if got := New().Questions(context.Background(), input); len(got) != 20 {
		t.Errorf("default budget recovered %d records, want 20", len(got))
	}

	small := New(WithScanBudget(2000), WithMaxStarts(8))
	got := small.Questions(context.Background(), input)
	if len(got) > 20 {
		t.Errorf("small budget recovered %d records, want at most 20", len(got))
	}
}

func TestExtractor_Observability(t *testing.T) {
	var buf bytes.Buffer
	obs := slogobs.New(
		slogobs.WithOutput(&buf),
		slogobs.WithLevel(slog.LevelDebug),
		slogobs.WithFormat(slogobs.FormatJSON),
	)
	e := New(WithObserver(obs))

	e.Questions(context.Background(), fencedQuiz)
	e.Questions(context.Background(), "nothing here")

	counts := map[string]int64{}
	for _, m := range obs.Snapshot() {
		counts[m.Name] = m.Count
	}
	checks := map[string]int64{
		observability.MetricExtractCount:         2,
		observability.MetricExtractEmpty:         1,
		observability.MetricTierPrefix + "fence": 1,
		observability.MetricRecordsRecovered:     1,
		observability.MetricExtractDuration:      2,
	}
	for name, want := range checks {
		if counts[name] != want {
			t.Errorf("metric %s = %d, want %d", name, counts[name], want)
		}
	}

	out := buf.String()
	if !strings.Contains(out, "No records recovered from model output") {
		t.Errorf("log output missing empty-result warning:\n%s", out)
	}
	if !strings.Contains(out, `"salvage.tier":"fence"`) {
		t.Errorf("log output missing tier attribute:\n%s", out)
	}
}

func TestExtractor_ObserverFromContext(t *testing.T) {
	var buf bytes.Buffer
	obs := slogobs.New(
		slogobs.WithOutput(&buf),
		slogobs.WithLevel(slog.LevelDebug),
		slogobs.WithFormat(slogobs.FormatJSON),
	)
	ctx := observability.ContextWithObserver(context.Background(), obs)

	got := New().Questions(ctx, fencedQuiz)
	if len(got) != 1 {
		t.Fatalf("Questions() returned %d records, want 1", len(got))
	}

	counts := map[string]int64{}
	for _, m := range obs.Snapshot() {
		counts[m.Name] = m.Count
	}
	if counts[observability.MetricExtractCount] != 1 {
		t.Errorf("metric %s = %d, want 1", observability.MetricExtractCount, counts[observability.MetricExtractCount])
	}
	if !strings.Contains(buf.String(), "Records extracted") {
		t.Errorf("log output missing extraction line:\n%s", buf.String())
	}
}

func TestExtractor_LogsParseStageAndDrops(t *testing.T) {
	tests := []struct {
		name   string
		schema record.Schema
		input  string
		want   []string
	}{
		{
			name:   "strict fence",
			schema: record.SchemaQuestions,
			input:  fencedQuiz,
			want:   []string{`"salvage.parse.stage":"strict"`},
		},
		{
			name:   "repaired array",
			schema: record.SchemaErrors,
			input:  "[{\"question\": 1, // note\n \"yourAnswer\": \"a\",},]",
			want:   []string{`"salvage.parse.stage":"repaired"`},
		},
		{
			name:   "dropped candidate",
			schema: record.SchemaQuestions,
			input:  `[{"text": "What is the capital of France?", "options": ["Paris", "Rome"]}, {"text": "short", "options": ["a", "b"]}]`,
			want:   []string{"Candidates dropped during normalization", `"salvage.dropped":1`, `"salvage.records":1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := New(WithObserver(slogobs.New(
				slogobs.WithOutput(&buf),
				slogobs.WithLevel(slog.LevelDebug),
				slogobs.WithFormat(slogobs.FormatJSON),
			)))
			switch tt.schema {
			case record.SchemaErrors:
				e.Errors(context.Background(), tt.input)
			default:
				e.Questions(context.Background(), tt.input)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("log output missing %s:\n%s", want, out)
				}
			}
		})
	}
}

func TestTier_String(t *testing.T) {
	if TierLargestArray.String() != "largest-array" {
		t.Errorf("TierLargestArray = %q", TierLargestArray.String())
	}
	if Tier(42).String() != "tier(42)" {
		t.Errorf("Tier(42) = %q", Tier(42).String())
	}
}
