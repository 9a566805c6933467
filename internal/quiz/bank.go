package quiz

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BankKind               = "quiz_bank"
	SupportedSchemaVersion = 1
)

// Question is a single multiple-choice comprehension check shown at a
// partition checkpoint.
type Question struct {
	Prompt        string   `yaml:"prompt"`
	Options       []string `yaml:"options"`
	Answer        int      `yaml:"answer"`
	ExplanationMD string   `yaml:"explanation_md"`
}

func (q Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("at least 2 options are required")
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return fmt.Errorf("answer %d out of range for %d options", q.Answer, len(q.Options))
	}
	return nil
}

type bankFile struct {
	Kind          string     `yaml:"kind"`
	SchemaVersion int        `yaml:"schema_version"`
	Questions     []Question `yaml:"questions"`
}

func (f bankFile) Validate() error {
	if f.Kind != BankKind {
		return fmt.Errorf("kind must be %q", BankKind)
	}
	if f.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if f.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (max supported %d)", f.SchemaVersion, SupportedSchemaVersion)
	}
	if len(f.Questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}
	for i, q := range f.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("questions[%d]: %w", i, err)
		}
	}
	return nil
}

// Bank is an immutable set of questions for one session.
type Bank struct {
	questions []Question
}

func New(questions []Question) (*Bank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("at least one question is required")
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("questions[%d]: %w", i, err)
		}
	}
	return &Bank{questions: questions}, nil
}

// Load reads a quiz bank from a YAML file.
func Load(path string) (*Bank, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file bankFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("load quiz bank %s: %w", path, err)
	}
	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("load quiz bank %s: %w", path, err)
	}
	return &Bank{questions: file.Questions}, nil
}

func (b *Bank) Len() int { return len(b.questions) }

func (b *Bank) At(i int) Question { return b.questions[i] }

// Order returns the presentation order of the bank's questions. With shuffle
// off it is the identity; otherwise a permutation derived from seed, so a
// replayed session asks the same questions in the same spots.
func (b *Bank) Order(seed int64, shuffle bool) []int {
	if !shuffle {
		order := make([]int, len(b.questions))
		for i := range order {
			order[i] = i
		}
		return order
	}
	return rand.New(rand.NewSource(seed)).Perm(len(b.questions))
}

// Default returns the built-in quicksort bank used when no file is supplied.
func Default() *Bank {
	return &Bank{questions: []Question{
		{
			Prompt: "After a partition completes, where does the pivot element end up?",
			Options: []string{
				"At its final sorted position",
				"At the start of the range",
				"At a random position",
				"Wherever the left cursor started",
			},
			Answer:        0,
			ExplanationMD: "The pivot is swapped to the boundary between the low and high sides, which is exactly where it belongs in the sorted array. It never moves again.",
		},
		{
			Prompt: "Which elements end up on the left side of the pivot after partitioning?",
			Options: []string{
				"Elements less than or equal to the pivot",
				"Elements strictly greater than the pivot",
				"The smallest half of the array",
				"Elements that were already in order",
			},
			Answer:        0,
			ExplanationMD: "Partitioning only compares against the pivot value. Everything `<=` the pivot is kept or swapped to the low side; the left side is not necessarily sorted yet.",
		},
		{
			Prompt: "What is the worst-case time complexity of quicksort?",
			Options: []string{
				"O(n log n)",
				"O(n^2)",
				"O(n)",
				"O(log n)",
			},
			Answer:        1,
			ExplanationMD: "When every partition is maximally unbalanced, for example on already sorted input with a last-element pivot, each pass removes only one element and the total work is quadratic.",
		},
		{
			Prompt: "Why does this visualization keep a stack of ranges instead of recursing?",
			Options: []string{
				"So each partition can be advanced one small step at a time",
				"Recursion is impossible for quicksort",
				"The stack makes the sort faster",
				"To use less memory than recursion",
			},
			Answer:        0,
			ExplanationMD: "An explicit stack of pending ranges lets the engine pause between comparisons and swaps. A recursive call could not be suspended mid-partition to draw a frame or ask a question.",
		},
	}}
}
