// internal/game/errors.go
package game

// ErrorKind classifies a failed game operation so the transport can map it to a response.
type ErrorKind int

const (
	KindAuthorization ErrorKind = iota
	KindValidation
	KindRule
	KindLifecycle
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindRule:
		return "rule"
	case KindLifecycle:
		return "lifecycle"
	default:
		return "unknown"
	}
}

// RuleError is returned for every ordinary rejection. A failed operation never changes game state.
type RuleError struct {
	Kind ErrorKind
	Msg  string
}

func (e *RuleError) Error() string {
	return e.Msg
}

func authErr(msg string) *RuleError { return &RuleError{Kind: KindAuthorization, Msg: msg} }
func validationErr(msg string) *RuleError { return &RuleError{Kind: KindValidation, Msg: msg} }
func ruleErr(msg string) *RuleError { return &RuleError{Kind: KindRule, Msg: msg} }
func lifecycleErr(msg string) *RuleError { return &RuleError{Kind: KindLifecycle, Msg: msg} }

var (
	ErrPlayerNotFound = authErr("Not authorized to view game")

	ErrEmptyName         = validationErr("Name not supplied")
	ErrInvalidVisibility = validationErr("Invalid game type parameter")
	ErrUnknownKind       = validationErr("Unknown card type")
	ErrDuplicateCard     = validationErr("Card listed more than once")
	ErrMalformedRequest  = validationErr("Incorrect JSON data")

	ErrNotRunning        = ruleErr("Game is not running")
	ErrInvalidMove       = ruleErr("Invalid move")
	ErrNotYourTurn       = ruleErr("It is not your turn")
	ErrPendingCards      = ruleErr("Pending cards must be planted first")
	ErrInvalidField      = ruleErr("Invalid field index")
	ErrFieldNotBought    = ruleErr("Field not yet bought")
	ErrCardNotFound      = ruleErr("No card in that spot")
	ErrHandEmpty         = ruleErr("Hand is empty")
	ErrMarketNotEmpty    = ruleErr("Cannot draw cards until market is empty")
	ErrInsufficientCoins = ruleErr("Not enough coins to buy field")
	ErrFieldOwned        = ruleErr("Field already bought")
	ErrNotHost           = ruleErr("Only host can start game")
	ErrTargetNotFound    = ruleErr("Trade partner does not exist")
	ErrTradeWithSelf     = ruleErr("Cannot trade with yourself")
	ErrEmptyTrade        = ruleErr("Trade offers and wants nothing")
	ErrTradeMismatch     = ruleErr("Did not send cards requested")
	ErrTradeNotFound     = ruleErr("Trade does not exist")
	ErrNotTradeTarget    = ruleErr("Trade was not offered to you")
	ErrTradeStale        = ruleErr("Offered cards are no longer available")

	ErrAlreadyStarted   = lifecycleErr("Game has already started")
	ErrGameClosed       = lifecycleErr("Game has already started or ended")
	ErrGameFull         = lifecycleErr("Game is full")
	ErrNameTaken        = lifecycleErr("User already exists with that name")
	ErrNotEnoughPlayers = lifecycleErr("At least two players are needed to start")
	ErrGameCompleted    = lifecycleErr("Game already completed")
)
