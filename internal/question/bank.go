package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Bank is the ordered, shuffled sequence of questions a quiz is played from.
// It is immutable once built.
type Bank struct {
	dir       string
	questions []Question
	problems  []error
}

// NewBank creates a Bank from questions in the given order. No shuffle is
// applied. Questions are normalized but not validated.
func NewBank(questions []Question) *Bank {
	qs := make([]Question, len(questions))
	for i, q := range questions {
		q.normalize()
		qs[i] = q
	}
	return &Bank{questions: qs}
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// At returns the question at position i. It panics if i is out of range.
func (b *Bank) At(i int) Question {
	return b.questions[i]
}

// All returns a copy of the questions in presentation order.
func (b *Bank) All() []Question {
	return slices.Clone(b.questions)
}

// Dir returns the directory the bank was loaded from, if any.
func (b *Bank) Dir() string {
	return b.dir
}

// Problems returns the errors that were skipped while loading with
// WithSkipInvalid. It is always empty for banks loaded with the default
// abort policy.
func (b *Bank) Problems() []error {
	return slices.Clone(b.problems)
}

// Head returns a bank holding at most the first n questions. n <= 0 keeps all.
func (b *Bank) Head(n int) *Bank {
	if n <= 0 || n >= len(b.questions) {
		return b
	}
	return &Bank{
		dir:       b.dir,
		questions: slices.Clone(b.questions[:n]),
		problems:  b.problems,
	}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	skipInvalid bool
	rng         *rand.Rand
	logger      *zap.Logger
}

// WithSkipInvalid makes Load record unparsable files and malformed questions
// in Bank.Problems instead of failing.
func WithSkipInvalid(skip bool) LoadOption {
	return func(o *loadOptions) { o.skipInvalid = skip }
}

// WithRand sets the source used for the shuffle.
func WithRand(r *rand.Rand) LoadOption {
	return func(o *loadOptions) { o.rng = r }
}

// WithLogger sets the logger used to report skipped files.
func WithLogger(l *zap.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// Load reads every .json file in dir, concatenates their "qcm" arrays and
// shuffles the result.
//
// An unreadable directory returns *LoadError. A file that is not valid JSON
// or has no "qcm" array returns *ParseError, and an entry that is missing a
// field or breaks an invariant returns *MalformedQuestionError, unless
// WithSkipInvalid is set.
func Load(dir string, opts ...LoadOption) (*Bank, error) {
	o := loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Dir: dir, Err: err}
	}

	bank := &Bank{dir: dir}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		qs, problems, err := loadFile(filepath.Join(dir, e.Name()), o.skipInvalid)
		if err != nil {
			if !o.skipInvalid {
				return nil, err
			}
			problems = append(problems, err)
		}
		for _, p := range problems {
			o.logger.Warn("skipping invalid question data", zap.String("file", e.Name()), zap.Error(p))
		}
		bank.problems = append(bank.problems, problems...)
		bank.questions = append(bank.questions, qs...)
	}

	shuffle(bank.questions, o.rng)

	o.logger.Info("questions loaded",
		zap.String("dir", dir),
		zap.Int("count", len(bank.questions)),
		zap.Int("skipped", len(bank.problems)),
	)
	return bank, nil
}

func loadFile(path string, skipInvalid bool) ([]Question, []error, error) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &ParseError{File: name, Err: err}
	}
	return parse(name, data, skipInvalid)
}

// Parse decodes the contents of one QCM file; name is recorded as the
// questions' Source and in errors. With WithSkipInvalid, malformed entries
// are returned as problems and the remaining questions are kept; otherwise
// the first malformed entry is returned as the error.
func Parse(name string, data []byte, opts ...LoadOption) ([]Question, []error, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	return parse(name, data, o.skipInvalid)
}

func parse(name string, data []byte, skipInvalid bool) ([]Question, []error, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, &ParseError{File: name, Err: err}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, nil, &ParseError{File: name, Err: errors.New("top-level value is not an object")}
	}
	items, ok := obj["qcm"].([]any)
	if !ok {
		return nil, nil, &ParseError{File: name, Err: errors.New(`missing "qcm" array`)}
	}

	var (
		questions []Question
		problems  []error
	)
	for i, item := range items {
		q, err := decodeItem(item)
		if err != nil {
			var mq *MalformedQuestionError
			if errors.As(err, &mq) {
				mq.File = name
				mq.Index = i
			} else {
				err = fmt.Errorf("%s: question #%d: %w", name, i, err)
			}
			if !skipInvalid {
				return nil, nil, err
			}
			problems = append(problems, err)
			continue
		}
		q.Source = name
		questions = append(questions, q)
	}
	return questions, problems, nil
}

func shuffle(qs []Question, r *rand.Rand) {
	swap := func(i, j int) { qs[i], qs[j] = qs[j], qs[i] }
	if r != nil {
		r.Shuffle(len(qs), swap)
		return
	}
	rand.Shuffle(len(qs), swap)
}

// WriteFile writes questions to path in the QCM file format, creating the
// parent directory if needed.
func WriteFile(path string, questions []Question) error {
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question #%d: %w", i, err)
		}
	}

	data, err := json.MarshalIndent(File{QCM: questions}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
