package game

// TurnStage distinguishes the two sub-stages of a normal or final turn.
type TurnStage string

const (
	StageAwaitingInitialAction  TurnStage = "awaitingInitialAction"
	StageAwaitingPostDrawAction TurnStage = "awaitingPostDrawAction"
)

// RecoveryReason explains why the machine is parked in PhaseRecovering.
type RecoveryReason string

const (
	RecoveryDeckEmpty          RecoveryReason = "deckEmpty"
	RecoveryPlayerDisconnected RecoveryReason = "playerDisconnected"
)

// Phase is the tagged union of top-level machine states. Each variant
// carries only the fields meaningful to it; the orchestrator switches on
// the concrete type exhaustively.
type Phase interface {
	phase()
	// Name returns a stable identifier used in logs and client views.
	Name() string
}

// PhaseAwaitingPlayers is the pre-round lobby state.
type PhaseAwaitingPlayers struct{}

// PhaseInitialPeek is the timed window in which every player privately
// views their first two cards.
type PhaseInitialPeek struct{}

// PhasePlay is the normal turn cycle.
type PhasePlay struct {
	Stage TurnStage
}

// PhaseMatching is the open matching opportunity following a discard.
type PhaseMatching struct{}

// PhaseAbilityResolution is active while pendingAbilities is non-empty.
type PhaseAbilityResolution struct{}

// PhaseFinalTurns is the single lap every other player takes after check.
type PhaseFinalTurns struct {
	Stage TurnStage
}

// PhaseScoring holds the round's final result until a reset is requested.
type PhaseScoring struct{}

// PhaseRecovering parks the machine on a recoverable fault (empty deck,
// or the active actor disconnecting). Parked remembers the state to
// restore once the fault clears.
type PhaseRecovering struct {
	Reason RecoveryReason
	Parked Phase
}

// PhaseFailed is the terminal state after unrecoverable connectivity
// flapping; only an explicit reset leaves it.
type PhaseFailed struct{}

func (PhaseAwaitingPlayers) phase()   {}
func (PhaseInitialPeek) phase()       {}
func (PhasePlay) phase()              {}
func (PhaseMatching) phase()          {}
func (PhaseAbilityResolution) phase() {}
func (PhaseFinalTurns) phase()        {}
func (PhaseScoring) phase()           {}
func (PhaseRecovering) phase()        {}
func (PhaseFailed) phase()            {}

func (PhaseAwaitingPlayers) Name() string   { return "awaitingPlayers" }
func (PhaseInitialPeek) Name() string       { return "initialPeekPhase" }
func (p PhasePlay) Name() string            { return "playPhase." + string(p.Stage) }
func (PhaseMatching) Name() string          { return "matchingStage" }
func (PhaseAbilityResolution) Name() string { return "abilityResolutionPhase" }
func (p PhaseFinalTurns) Name() string      { return "finalTurnsPhase." + string(p.Stage) }
func (PhaseScoring) Name() string           { return "scoringPhase" }
func (p PhaseRecovering) Name() string      { return "recovering." + string(p.Reason) }
func (PhaseFailed) Name() string            { return "failed" }
