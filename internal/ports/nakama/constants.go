package nakama

// RPC ids clients call on the Nakama runtime.
const (
	RpcIDCreateGame   = "create_game"
	RpcIDGetGame      = "get_game"
	RpcIDListGames    = "list_games"
	RpcIDSubmitRound  = "submit_round"
	RpcIDCompleteGame = "complete_game"
	RpcIDDeleteGame   = "delete_game"
)

// Storage layout: one JSON document per game, owned by the creating user.
const (
	gamesCollection = "games"
)

// gRPC status codes used with runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeUnauthenticated    = 16
	codeInternal           = 13
)

// Notification codes sent to clients.
const (
	NotificationCodeGameCompleted = 101
)
