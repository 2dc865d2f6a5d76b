// Package scoring compares a learner's submitted answers against the answer key.
package scoring

import (
	"math"
	"sort"
	"strconv"
)

// Letter is a multiple-choice answer letter.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
)

// Valid reports whether l is one of A, B, C or D.
func (l Letter) Valid() bool {
	switch l {
	case LetterA, LetterB, LetterC, LetterD:
		return true
	}
	return false
}

// AnswerKey maps a question ID to its correct letter.
type AnswerKey map[int]Letter

// IDs returns the question IDs of the key in ascending order.
func (k AnswerKey) IDs() []int {
	ids := make([]int, 0, len(k))
	for id := range k {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Submission maps a question ID to the letter the learner picked.
// Questions the learner skipped are absent.
type Submission map[int]Letter

// ParseSubmission turns raw form fields into a Submission. Only field names
// written exactly as a positive decimal ID ("3", not "03", "+3" or " 3") name
// a question; everything else is dropped. Values are kept verbatim, so an
// unexpected letter is scored as incorrect rather than rejected. An empty
// value counts as unanswered.
func ParseSubmission(form map[string]string) Submission {
	sub := make(Submission, len(form))
	for key, value := range form {
		id, err := strconv.Atoi(key)
		if err != nil || id <= 0 || strconv.Itoa(id) != key {
			continue
		}
		if value == "" {
			continue
		}
		sub[id] = Letter(value)
	}
	return sub
}

// Detail is the outcome for a single question.
type Detail struct {
	QuestionID int
	Submitted  *Letter
	Correct    Letter
	IsCorrect  bool
}

// Answered reports whether the learner picked anything for the question.
func (d Detail) Answered() bool {
	return d.Submitted != nil
}

// Answer returns the submitted letter, or "" when unanswered.
func (d Detail) Answer() string {
	if d.Submitted == nil {
		return ""
	}
	return string(*d.Submitted)
}

// Report is the scored result of one submission.
type Report struct {
	Correct int
	Total   int
	Percent float64
	Details []Detail
}

// Score grades sub against key. The key drives the iteration so every known
// question is reported, answered or not, in ascending question ID order.
func Score(key AnswerKey, sub Submission) Report {
	ids := key.IDs()
	report := Report{
		Total:   len(ids),
		Details: make([]Detail, 0, len(ids)),
	}

	for _, id := range ids {
		correct := key[id]
		detail := Detail{QuestionID: id, Correct: correct}
		if letter, ok := sub[id]; ok {
			detail.Submitted = &letter
			detail.IsCorrect = letter == correct
		}
		if detail.IsCorrect {
			report.Correct++
		}
		report.Details = append(report.Details, detail)
	}

	report.Percent = Percent(report.Correct, report.Total)
	return report
}

// Percent returns correct/total as a percentage rounded to one decimal place.
// A zero total yields 0.
func Percent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
