package models

import "time"

// Leaderboard source constants. Source tags where the entries came from so
// consumers can branch on provenance instead of guessing.
const (
	SourceRemoteSummary = "remote-summary"
	SourceBallots       = "ballots"
	SourceLocal         = "local"
)

// MaxPopularRanking is the maximum number of projects a voter may rank.
const MaxPopularRanking = 5

// Request types

type UpdateScoresRequest struct {
	Scores SliderScores `json:"scores"`
}

type UpdateReadinessRequest struct {
	Readiness bool `json:"readiness"`
}

type UpdateCommentRequest struct {
	Comment string `json:"comment"`
}

type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

type UpdateRankingRequest struct {
	Ranking []string `json:"ranking"`
}

type SetOwnProjectRequest struct {
	ProjectID string `json:"project_id"`
}

// Response types

type SubmitResponse struct {
	Synced      bool      `json:"synced"`
	QueuedCount int       `json:"queued_count"`
	SubmittedAt time.Time `json:"submitted_at"`
	Message     string    `json:"message"`
}

type SyncStatusResponse struct {
	QueuedCount     int        `json:"queued_count"`
	PendingChanges  bool       `json:"pending_changes"`
	LastSubmittedAt *time.Time `json:"last_submitted_at,omitempty"`
}

type ProjectsResponse struct {
	Projects     []Project `json:"projects"`
	Ranking      []string  `json:"ranking"`
	OwnProjectID string    `json:"own_project_id,omitempty"`
}

type FlushResponse struct {
	Flushed     bool   `json:"flushed"`
	QueuedCount int    `json:"queued_count"`
	Message     string `json:"message,omitempty"`
}

type LeaderboardResponse struct {
	LeaderboardState
	IsLoading bool   `json:"is_loading"`
	Error     string `json:"error,omitempty"`
}

// Domain types
//
// JSON tags on Ballot, Summary and their nested types are the remote wire
// format: they must stay camelCase for compatibility with the homeserver
// objects written by other clients.

// SliderScores holds the four 0..10 slider components of a single rating.
type SliderScores struct {
	Complexity   int `json:"complexity"`
	Creativity   int `json:"creativity"`
	Presentation int `json:"presentation"`
	Feedback     int `json:"feedback"`
}

// Project is one catalogue entry plus the voter's editable draft state.
type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
	Scores      SliderScores `json:"scores"`
	Readiness   bool         `json:"readiness"`
	Comment     string       `json:"comment,omitempty"`
	UserTags    []string     `json:"userTags,omitempty"`
	AIScore     *float64     `json:"aiScore,omitempty"` // 0..100, externally supplied
}

// BallotScore is one project's rating inside a ballot.
type BallotScore struct {
	ProjectID string       `json:"projectId"`
	Scores    SliderScores `json:"scores"`
	Readiness bool         `json:"readiness"`
	Comment   string       `json:"comment,omitempty"`
	Tags      []string     `json:"tags,omitempty"`
}

// Ballot is one voter's complete scoring submission across all projects.
// SubmittedAt is an RFC 3339 string as written to the remote namespace;
// only the most recent ballot per voter counts during aggregation.
type Ballot struct {
	VoterID        string        `json:"voterId"`
	SubmittedAt    string        `json:"submittedAt"`
	Scores         []BallotScore `json:"scores"`
	PopularRanking []string      `json:"popularRanking,omitempty"`
}

// OutboxItem is one queued submission awaiting delivery. Path is the
// precomputed canonical remote path so delivery does not depend on the
// session state at flush time.
type OutboxItem struct {
	ID        string    `json:"id"`
	Payload   Ballot    `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
	Path      string    `json:"path"`
}

// Components holds the seven normalized score components, each 0..100.
type Components struct {
	Complexity   float64 `json:"complexity"`
	Creativity   float64 `json:"creativity"`
	Readiness    float64 `json:"readiness"`
	Presentation float64 `json:"presentation"`
	Feedback     float64 `json:"feedback"`
	Popular      float64 `json:"popular"`
	AI           float64 `json:"ai"`
}

// LeaderboardEntry is one project's aggregated breakdown and weighted total.
type LeaderboardEntry struct {
	ProjectID   string     `json:"projectId"`
	ProjectName string     `json:"projectName"`
	Total       float64    `json:"total"`
	Components  Components `json:"components"`
}

// LeaderboardState is a complete leaderboard snapshot, recomputed wholesale
// on every aggregation pass. Entries are sorted by descending total; ties
// keep encounter order.
type LeaderboardState struct {
	Entries     []LeaderboardEntry `json:"entries"`
	TotalVoters int                `json:"totalVoters"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Source      string             `json:"source"`
}

// SummaryEntry is one project inside a precomputed remote summary.
type SummaryEntry struct {
	ProjectID   string     `json:"projectId"`
	ProjectName string     `json:"projectName,omitempty"`
	Components  Components `json:"components"`
	Total       float64    `json:"total"`
}

// Summary is the precomputed leaderboard artifact produced by a collaborator
// outside this service and consumed directly when present.
type Summary struct {
	GeneratedAt string         `json:"generatedAt"`
	TotalVoters int            `json:"totalVoters"`
	Entries     []SummaryEntry `json:"entries"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
