package game

// TrucoLevel is a rung of the truco escalation ladder.
type TrucoLevel int

const (
	Truco TrucoLevel = iota + 1
	Retruco
	ValeCuatro
)

// String returns the string representation of a truco level
func (l TrucoLevel) String() string {
	switch l {
	case Truco:
		return "truco"
	case Retruco:
		return "retruco"
	case ValeCuatro:
		return "vale cuatro"
	default:
		return "?"
	}
}

// Value is the round stake once the level is accepted.
func (l TrucoLevel) Value() int {
	return int(l) + 1
}

// DeclineValue is what the caller's team collects when the level is turned
// down: the value guaranteed before the call, never the at-stake value.
func (l TrucoLevel) DeclineValue() int {
	return int(l)
}

// TrucoBet is the single open truco-family call, if any.
type TrucoBet struct {
	Level      TrucoLevel
	CallerTeam int
}

// EnvidoKind is one of the envido-family calls.
type EnvidoKind int

const (
	Envido EnvidoKind = iota + 1
	RealEnvido
	FaltaEnvido
	EnvidoCargado
)

// String returns the string representation of an envido kind
func (k EnvidoKind) String() string {
	switch k {
	case Envido:
		return "envido"
	case RealEnvido:
		return "real envido"
	case FaltaEnvido:
		return "falta envido"
	case EnvidoCargado:
		return "envido cargado"
	default:
		return "?"
	}
}

// EnvidoCall is one rung of an envido stack.
type EnvidoCall struct {
	Kind  EnvidoKind
	Team  int
	Stake int // 0 for falta envido, resolved at accept time
}

// EnvidoBet accumulates stacked envido-family calls. Declining pays only
// what was guaranteed before the latest call.
type EnvidoBet struct {
	Calls       []EnvidoCall
	CallerTeam  int // team of the most recent call
	Accumulated int // points if accepted, falta excluded
	Guaranteed  int // points if declined
	HasFalta    bool
}

// FlorLevel is a rung of the flor response ladder.
type FlorLevel int

const (
	Flor FlorLevel = iota + 1
	ConFlorEnvido
	ContraFlor
	ContraFlorAlResto
)

// String returns the string representation of a flor level
func (l FlorLevel) String() string {
	switch l {
	case Flor:
		return "flor"
	case ConFlorEnvido:
		return "con flor envido"
	case ContraFlor:
		return "contra flor"
	case ContraFlorAlResto:
		return "contra flor al resto"
	default:
		return "?"
	}
}

// Value is the stake once the level is accepted. ContraFlorAlResto is
// dynamic and resolved against the remaining points to win.
func (l FlorLevel) Value() int {
	switch l {
	case Flor:
		return 3
	case ConFlorEnvido:
		return 6
	case ContraFlor:
		return 9
	default:
		return 0
	}
}

// FlorBet is the open flor declaration and any escalation on top of it.
type FlorBet struct {
	Level      FlorLevel
	CallerTeam int
	Guaranteed int      // points if a raise is declined
	Declarers  []string // player ids that declared flor
}

// PerrosBet is the compound "echar los perros" call: an independent
// flor-or-falta leg and an independent truco leg, answered together.
type PerrosBet struct {
	CallerTeam int
	WithFlor   bool // caller leg is a flor showdown rather than falta envido
}
