// Package quiz walks a student through the question bank one question at a
// time: Presenting -> Submitted -> Presenting(next), wrapping around after
// the last question for an endless practice loop.
package quiz

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core/question"
)

// States
const (
	StatePresenting = "presenting"
	StateSubmitted  = "submitted"
)

var (
	// errors
	ErrNoQuestions         = errors.New("no questions available")
	ErrNoSelection         = errors.New("no answer selected")
	ErrInvalidLabel        = errors.New("invalid answer label")
	ErrAlreadySubmitted    = errors.New("answer already submitted")
	ErrNotSubmitted        = errors.New("no submitted answer to advance from")
	ErrQuestionUnavailable = errors.New("question no longer available")
)

type (
	Session struct {
		mu        sync.Mutex
		id        string
		studentID int
		bank      question.Service

		questions []question.Question
		index     int
		selection string
		state     string
		verdict   *question.Verdict
	}

	// Snapshot is the client-visible view of a session. Stats are the
	// student's cumulative aggregates, not session-scoped.
	Snapshot struct {
		SessionID string                `json:"session_id"`
		State     string                `json:"state"`
		Index     int                   `json:"index"`
		Total     int                   `json:"total"`
		Question  question.Question     `json:"question"`
		Selection string                `json:"selection,omitempty"`
		Verdict   *question.Verdict     `json:"verdict,omitempty"`
		Stats     question.StudentStats `json:"stats"`
	}
)

func newSession(id string, studentID int, bank question.Service) (*Session, error) {
	questions, err := bank.QueryAll()
	if err != nil {
		return nil, errors.Wrap(err, "loading questions")
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{
		id:        id,
		studentID: studentID,
		bank:      bank,
		questions: questions,
		state:     StatePresenting,
	}, nil
}

func (s *Session) ID() string     { return s.id }
func (s *Session) StudentID() int { return s.studentID }

// Select records a pending selection. No side effect until Submit.
func (s *Session) Select(label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePresenting {
		return ErrAlreadySubmitted
	}
	if !question.ValidLabel(label) {
		return ErrInvalidLabel
	}
	s.selection = label
	return nil
}

// Submit scores the pending selection against the bank. If the current
// question was deleted since the session loaded it, the session recovers by
// refreshing its question list and stays in Presenting; the caller gets
// ErrQuestionUnavailable.
func (s *Session) Submit() (question.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePresenting {
		return question.Verdict{}, ErrAlreadySubmitted
	}
	if s.selection == "" {
		return question.Verdict{}, ErrNoSelection
	}

	verdict, err := s.bank.SubmitAnswer(s.studentID, s.questions[s.index].ID, s.selection)
	if err != nil {
		if errors.Cause(err) == question.ErrNotFound {
			if rerr := s.refresh(); rerr != nil {
				return question.Verdict{}, rerr
			}
			return question.Verdict{}, ErrQuestionUnavailable
		}
		return question.Verdict{}, err
	}

	s.verdict = &verdict
	s.state = StateSubmitted
	return verdict, nil
}

// Next advances to the following question, wrapping to the first after the
// last, and clears the pending selection.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSubmitted {
		return ErrNotSubmitted
	}
	s.index = (s.index + 1) % len(s.questions)
	s.selection = ""
	s.verdict = nil
	s.state = StatePresenting
	return nil
}

// View returns the current snapshot, including the student's cumulative
// stats so the displayed accuracy refreshes after each submission.
func (s *Session) View() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.bank.StudentStats(s.studentID)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "loading student stats")
	}
	return Snapshot{
		SessionID: s.id,
		State:     s.state,
		Index:     s.index,
		Total:     len(s.questions),
		Question:  s.questions[s.index],
		Selection: s.selection,
		Verdict:   s.verdict,
		Stats:     stats,
	}, nil
}

// refresh re-reads the question list, clamps the cursor and resets to
// Presenting with the selection cleared. Caller holds the lock.
func (s *Session) refresh() error {
	questions, err := s.bank.QueryAll()
	if err != nil {
		return errors.Wrap(err, "reloading questions")
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.questions = questions
	if s.index >= len(questions) {
		s.index = 0
	}
	s.selection = ""
	s.verdict = nil
	s.state = StatePresenting
	return nil
}
