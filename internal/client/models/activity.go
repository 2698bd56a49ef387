package models

import "time"

type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	JobID     string    `json:"job_id"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Job       *Job      `json:"job,omitempty"`
}

// Key is the job id: a job is bookmarked at most once and the backend
// deletes bookmarks by job.
func (b Bookmark) Key() string { return b.JobID }

type CreateBookmarkRequest struct {
	JobID string `json:"job_id"`
	Notes string `json:"notes"`
}

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusReviewing ApplicationStatus = "reviewing"
	StatusInterview ApplicationStatus = "interview"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusRejected  ApplicationStatus = "rejected"
	StatusWithdrawn ApplicationStatus = "withdrawn"
)

// StatusAll is the filter value meaning "no status filter".
const StatusAll ApplicationStatus = "all"

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusInterview, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

type Application struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	JobID     string            `json:"job_id"`
	Status    ApplicationStatus `json:"status"`
	CoverNote string            `json:"cover_note,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Job       *Job              `json:"job,omitempty"`
}

func (a Application) Key() string { return a.ID }

type ApplicationBreakdown struct {
	Status ApplicationStatus `json:"status"`
	Count  int               `json:"count"`
}

type CandidateAnalytics struct {
	TotalMatches          int                    `json:"total_matches"`
	TotalApplications     int                    `json:"total_applications"`
	ApplicationsBreakdown []ApplicationBreakdown `json:"applications_breakdown"`
	SwipesMade            int                    `json:"swipes_made"`
	ProfileViews          int                    `json:"profile_views"`
}

// Article is an entry of the third-party tech news feed.
type Article struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Image       string `json:"image"`
}

type FeedResponse struct {
	Count    int       `json:"count"`
	Articles []Article `json:"articles"`
}
