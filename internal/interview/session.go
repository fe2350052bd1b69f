package interview

import "time"

// Exchange is one answered question
type Exchange struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Session is the server-held state of one mock interview
type Session struct {
	ID            string     `json:"sessionId"`
	JobRole       string     `json:"jobRole"`
	ResumeText    string     `json:"resumeText"`
	Stage         Stage      `json:"stage"`
	History       []Exchange `json:"history"`
	QuestionCount int        `json:"questionCount"`
	LastQuestion  string     `json:"lastQuestion"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// clone returns a copy that shares no mutable state with s
func (s Session) clone() Session {
	out := s
	out.History = make([]Exchange, len(s.History))
	copy(out.History, s.History)
	return out
}

// Outcome records how an interview ended
type Outcome string

const (
	// OutcomeCompleted means every stage was answered
	OutcomeCompleted Outcome = "completed"
	// OutcomeFinished means the caller ended the interview early
	OutcomeFinished Outcome = "finished"
	// OutcomeExpired means the session was swept after going idle
	OutcomeExpired Outcome = "expired"
)

// Transcript is the record of an ended interview handed to the Archiver
type Transcript struct {
	SessionID     string
	JobRole       string
	ResumeText    string
	Stage         Stage
	QuestionCount int
	History       []Exchange
	Feedback      string
	Outcome       Outcome
	StartedAt     time.Time
	EndedAt       time.Time
}
