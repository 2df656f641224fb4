package services

// Service errors. Each one rejects an action without changing anything.
var (
	ErrTeamsNeedPlayers  = &ServiceError{Message: "both teams need at least one player to start a game"}
	ErrGameNotActive     = &ServiceError{Message: "no game is in progress"}
	ErrSecondHalfStarted = &ServiceError{Message: "the second half has already started"}
	ErrEmptyNote         = &ServiceError{Message: "note content is required"}
	ErrEmptyPlayerName   = &ServiceError{Message: "player name is required"}
	ErrInvalidColor      = &ServiceError{Message: "invalid team color"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}
