package domain

import "time"

// TournamentState is the Tournament Manager's state machine position for
// one event (see internal/manager).
type TournamentState string

const (
	NotStarted  TournamentState = "NotStarted"
	Initializing TournamentState = "Initializing"
	InProgress  TournamentState = "InProgress"
	Paused      TournamentState = "Paused"
	Stopping    TournamentState = "Stopping"
	Completed   TournamentState = "Completed"
	Aborted     TournamentState = "Aborted"
)

// Group is one group-stage bracket: an ordered roster and the standings
// ranking computed over matches played within it.
type Group struct {
	GroupID   string
	GroupLabel string
	EventID   string
	EventName string
	Bots      []string // TeamNames, in serpentine-assignment order
	Rankings  []*TournamentStanding
}

// TournamentInfo is the single-writer record the Tournament Manager owns
// for the event currently in flight (or most recently finished).
type TournamentInfo struct {
	TournamentID  string
	GameType      GameType
	State         TournamentState
	Bots          []string
	MatchResults  []MatchResult // append-only
	TotalRounds   int
	StartTime     time.Time
	EndTime       time.Time
	HasEndTime    bool
}

// Clone returns a value-safe snapshot for publishing externally.
func (t *TournamentInfo) Clone() *TournamentInfo {
	clone := *t
	clone.Bots = append([]string(nil), t.Bots...)
	clone.MatchResults = append([]MatchResult(nil), t.MatchResults...)
	return &clone
}
