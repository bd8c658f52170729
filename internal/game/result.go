package game

// FailureCode classifies why a command was rejected. Rejections are values,
// never panics: an illegal command leaves the table untouched.
type FailureCode int

const (
	FailureNone FailureCode = iota
	IllegalTurn
	UnknownCard
	WrongPhase
	BetAlreadyPending
	NoPendingBet
	NotEligibleTeam
	NotInGame
	EnvidoUnavailable
	FlorUnavailable
	PerrosUnavailable
	GameOver
)

// String returns the string representation of a failure code
func (c FailureCode) String() string {
	switch c {
	case FailureNone:
		return "ok"
	case IllegalTurn:
		return "illegal_turn"
	case UnknownCard:
		return "unknown_card"
	case WrongPhase:
		return "wrong_phase"
	case BetAlreadyPending:
		return "bet_already_pending"
	case NoPendingBet:
		return "no_pending_bet"
	case NotEligibleTeam:
		return "not_eligible_team"
	case NotInGame:
		return "not_in_game"
	case EnvidoUnavailable:
		return "envido_unavailable"
	case FlorUnavailable:
		return "flor_unavailable"
	case PerrosUnavailable:
		return "perros_unavailable"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Result is the outcome of a table command.
type Result struct {
	OK     bool
	Code   FailureCode
	Reason string
}

// Success is the result of a command that was applied.
var Success = Result{OK: true}

func fail(code FailureCode, reason string) Result {
	return Result{Code: code, Reason: reason}
}
