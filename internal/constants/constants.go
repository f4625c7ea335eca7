package constants

// Environment variable keys. The config package binds most of these through
// struct tags; the names are repeated here for the binaries that read them
// directly.
const (
	EnvConfigPath     = "CHIMERA_CONFIG"
	EnvAddr           = "CHIMERA_ADDR"
	EnvDB             = "CHIMERA_DB"
	EnvLogLevel       = "CHIMERA_LOG_LEVEL"
	EnvPacing         = "CHIMERA_PACING"
	EnvIdleTimeout    = "CHIMERA_IDLE_TIMEOUT"
	EnvEvalWebhook    = "CHIMERA_EVAL_WEBHOOK"
	EnvHealthcheckURL = "CHIMERA_HEALTHCHECK_URL"

	DefaultConfigPath = "./chimera.yaml"
	DefaultAddr       = ":8080"
	DefaultDBPath     = "./data/chimera.db"
)

// HTTP headers and content types
const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteRuns          = "/runs"
	RouteRunByID       = "/runs/:runID"
	RouteRunBattles    = "/runs/:runID/battles"
	RouteBattleByID    = "/battles/:battleID"
	RouteBattleLog     = "/battles/:battleID/log"
	RouteBattlePlay    = "/battles/:battleID/play"
	RouteBattleEndTurn = "/battles/:battleID/end-turn"
	RouteBattleAbandon = "/battles/:battleID/abandon"
	RouteLeaderboard   = "/leaderboard"
	RoutePlayerByName  = "/players/:name"
	RouteVersion       = "/version"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrRunNotFound            = "Run not found"
	ErrRunDead                = "Run has ended"
	ErrBattleNotFound         = "Battle not found"
	ErrBattleInProgress       = "Run already has a battle in progress"
	ErrBattleOver             = "Battle is over"
	ErrBattleBusy             = "Battle is resolving another command"
	ErrNotPlayerTurn          = "Not the player's turn"
	ErrInvalidHandIndex       = "Invalid hand index"
	ErrCardMismatch           = "Card does not match hand position"
	ErrInsufficientEnergy     = "Not enough energy"
	ErrUnknownCharacter       = "Unknown character"
	ErrInvalidTalent          = "Invalid talent selection"
	ErrUnknownLoadout         = "Unknown equipment, companion or difficulty id"
	ErrNoAdversaries          = "No adversaries available"
	ErrFailedCreateRun        = "Failed to create run"
	ErrFailedStartBattle      = "Failed to start battle"
	ErrFailedCommand          = "Failed to apply command"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrPlayerNotFound         = "Player not found"
)

// Logging field names
const (
	LogFieldRunID     = "run_id"
	LogFieldBattleID  = "battle_id"
	LogFieldPlayer    = "player"
	LogFieldCharacter = "character"
	LogFieldAdversary = "adversary"
	LogFieldTier      = "tier"
	LogFieldOutcome   = "outcome"
	LogFieldTurn      = "turn"
	LogFieldEvaluator = "evaluator"
	LogFieldSource    = "source"
	LogFieldKey       = "key"
	LogFieldAddr      = "addr"
	LogFieldPath      = "path"
	LogFieldIdle      = "idle"
)
