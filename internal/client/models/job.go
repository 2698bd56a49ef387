package models

import "time"

type Company struct {
	Name          string `json:"name"`
	LogoURL       string `json:"logo_url,omitempty"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	Website       string `json:"website,omitempty"`
	Email         string `json:"email,omitempty"`
}

type JobConstraints struct {
	Location         string `json:"location"`
	EmploymentType   string `json:"employment_type"`
	SalaryRange      []int  `json:"salary_range"`
	ExperienceYears  int    `json:"experience_years"`
	Equity           string `json:"equity,omitempty"`
	TeamSize         int    `json:"team_size,omitempty"`
	WorkMode         string `json:"work_mode,omitempty"`
	NoticePeriodDays int    `json:"notice_period_days,omitempty"`
}

// Job is a posting shown in the swipe queue.
type Job struct {
	ID               string          `json:"id"`
	ProblemStatement string          `json:"problem_statement"`
	Expectations     string          `json:"expectations,omitempty"`
	SkillsRequired   []string        `json:"skills_required,omitempty"`
	Constraints      *JobConstraints `json:"constraints,omitempty"`
	Company          Company         `json:"company"`
}

// Key identifies the job inside optimistic lists.
func (j Job) Key() string { return j.ID }

// JobFeed is the /jobs/feed payload: Jobs is the personalised queue, All the
// unfiltered catalogue.
type JobFeed struct {
	Jobs []Job `json:"jobs"`
	All  []Job `json:"all"`
}

type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

type SwipeRequest struct {
	JobID     string    `json:"job_id"`
	Direction Direction `json:"direction"`
}

type Message struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Explainability struct {
	Score        float64 `json:"score,omitempty"`
	MatchQuality string  `json:"match_quality,omitempty"`
	Reason       string  `json:"reason"`
}

type MatchCandidate struct {
	Name       string   `json:"name"`
	PhotoURL   string   `json:"photo_url,omitempty"`
	IntentText string   `json:"intent_text,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

// Match is a mutual interest between a candidate and a job.
type Match struct {
	ID                 string          `json:"id"`
	CandidateID        string          `json:"candidate_id"`
	JobID              string          `json:"job_id"`
	RevealStatus       bool            `json:"reveal_status"`
	ExplainabilityJSON Explainability  `json:"explainability_json"`
	CreatedAt          time.Time       `json:"created_at"`
	Candidate          *MatchCandidate `json:"candidate,omitempty"`
	Job                *Job            `json:"job,omitempty"`
	Messages           []Message       `json:"messages,omitempty"`
}

// SwipeKind tags a SwipeResult.
type SwipeKind int

const (
	SwipeAck SwipeKind = iota
	SwipeMatch
)

func (k SwipeKind) String() string {
	switch k {
	case SwipeAck:
		return "ack"
	case SwipeMatch:
		return "match"
	default:
		return "unknown"
	}
}

// SwipeResult is the outcome of POST /jobs/swipe: either a plain
// acknowledgment or a Match. Match is non-nil iff Kind == SwipeMatch.
type SwipeResult struct {
	Kind    SwipeKind
	Success bool
	Match   *Match
}

func (r SwipeResult) IsMatch() bool {
	return r.Kind == SwipeMatch && r.Match != nil
}
