package nakama

// RPC ids registered with Nakama.
const (
	RpcNewGame     = "crazy_eights_new_game"
	RpcGetGame     = "crazy_eights_get_game"
	RpcPlayCard    = "crazy_eights_play_card"
	RpcDrawCard    = "crazy_eights_draw_card"
	RpcCancelGame  = "crazy_eights_cancel_game"
	RpcGameHistory = "crazy_eights_game_history"
)

// Storage collections.
const (
	gamesCollection  = "crazy_eights_games"
	scoresCollection = "crazy_eights_scores"
)

// Nakama runtime error codes (gRPC status codes).
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codePermissionDenied   = 7
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)

const (
	gameConfigPath = "data/crazy_eights.json"
	snapshotIssuer = "crazy-eights"
)
