package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crazyeights/internal/app"
	"crazyeights/internal/bot"
	"crazyeights/internal/config"
	"crazyeights/internal/domain"
	"crazyeights/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

var errInvalidPayload = errors.New("invalid payload")

// rpcFunc is an RPC body once the caller has been identified.
type rpcFunc func(ctx context.Context, logger runtime.Logger, store StorageAPI, userID, payload string) (any, error)

// gameRPC serves the Crazy Eights RPCs. Games live in storage between calls,
// so it holds no per-game state.
type gameRPC struct {
	cfg    *config.GameConfig
	sealer *app.ViewSealer
	// rng supplies the randomness of each call. It returns nil for a
	// time-seeded source.
	rng func() app.Random
}

func newGameRPC(cfg *config.GameConfig) *gameRPC {
	return &gameRPC{
		cfg:    cfg,
		sealer: app.NewViewSealer(cfg.SnapshotSecret, snapshotIssuer, 24*time.Hour),
		rng:    func() app.Random { return nil },
	}
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, h *gameRPC) error {
	rpcs := []struct {
		id string
		fn rpcFunc
	}{
		{RpcNewGame, h.newGame},
		{RpcGetGame, h.getGame},
		{RpcPlayCard, h.playCard},
		{RpcDrawCard, h.drawCard},
		{RpcCancelGame, h.cancelGame},
		{RpcGameHistory, h.gameHistory},
	}
	for _, rpc := range rpcs {
		if err := initializer.RegisterRpc(rpc.id, h.wrap(rpc.id, rpc.fn)); err != nil {
			return fmt.Errorf("failed to register rpc %s: %w", rpc.id, err)
		}
	}
	return nil
}

// wrap resolves the caller, runs fn and encodes its response as JSON.
func (h *gameRPC) wrap(id string, fn rpcFunc) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if userID == "" {
			return "", runtime.NewError("Authentication required", codeUnauthenticated)
		}
		return h.call(ctx, logger, nk, id, userID, payload, fn)
	}
}

func (h *gameRPC) call(ctx context.Context, logger runtime.Logger, store StorageAPI, id, userID, payload string, fn rpcFunc) (string, error) {
	resp, err := fn(ctx, logger, store, userID, payload)
	if err != nil {
		logger.Warn("%s [User:%s]: %v", id, userID, err)
		return "", toRuntimeError(err)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		logger.Error("%s [User:%s]: Failed to marshal response: %v", id, userID, err)
		return "", runtime.NewError("Internal error", codeInternal)
	}
	return string(out), nil
}

func (h *gameRPC) service(logger runtime.Logger, results ports.Scoreboard) *app.Service {
	opts := []app.Option{
		app.WithLogger(newServiceLogger(logger, h.cfg.LogLevel)),
		app.WithScoreboard(results),
	}
	if h.cfg.RandomStart() {
		opts = append(opts, app.WithStartPolicy(app.StartRandom))
	}
	return app.NewService(h.rng(), opts...)
}

func (h *gameRPC) sessions(store StorageAPI) ports.SessionStore {
	return NewStorageSessionStore(store)
}

// pendingResults holds the results reported during one call. They are written
// only once the game itself was saved, so a call that loses a race on the
// game records no score.
type pendingResults struct {
	results []ports.Result
}

func (p *pendingResults) RecordResult(ctx context.Context, r ports.Result) error {
	p.results = append(p.results, r)
	return nil
}

func (p *pendingResults) flush(ctx context.Context, logger runtime.Logger, sb ports.Scoreboard) {
	for _, r := range p.results {
		if err := sb.RecordResult(ctx, r); err != nil {
			logger.Error("flush [Game:%s]: Failed to record result: %v", r.GameID, err)
		}
	}
	p.results = nil
}

// save writes game back at version and then records any result of the call.
func (h *gameRPC) save(ctx context.Context, logger runtime.Logger, store StorageAPI, game *domain.Session, version string, results *pendingResults) error {
	if err := h.sessions(store).Save(ctx, game, version); err != nil {
		return err
	}
	results.flush(ctx, logger, NewStorageScoreboard(store))
	return nil
}

type gameRequest struct {
	GameID string `json:"game_id"`
}

type newGameRequest struct {
	OpponentID string `json:"opponent_id"`
	VsComputer bool   `json:"vs_computer"`
}

type playCardRequest struct {
	GameID       string `json:"game_id"`
	Suit         string `json:"suit"`
	Rank         string `json:"rank"`
	DeclaredSuit string `json:"declared_suit"`
}

type getGameResponse struct {
	View     app.View `json:"view"`
	Snapshot string   `json:"snapshot"`
}

type drawCardResponse struct {
	View  app.View    `json:"view"`
	Drawn domain.Card `json:"drawn"`
}

type historyResponse struct {
	GameID    string        `json:"game_id"`
	Players   [2]string     `json:"players"`
	Status    domain.Status `json:"status"`
	Winner    string        `json:"winner,omitempty"`
	Moves     []domain.Move `json:"moves"`
	CreatedAt time.Time     `json:"created_at"`
}

func decode(payload string, v any) error {
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}

func (h *gameRPC) newGame(ctx context.Context, logger runtime.Logger, store StorageAPI, userID, payload string) (any, error) {
	var req newGameRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	opponent := req.OpponentID
	if req.VsComputer {
		opponent = h.cfg.ComputerUserID
	}

	results := &pendingResults{}
	svc := h.service(logger, results)
	game, _, err := svc.NewGame(userID, opponent)
	if err != nil {
		return nil, err
	}
	if err := h.computerMoves(ctx, logger, svc, game); err != nil {
		return nil, err
	}
	if err := h.save(ctx, logger, store, game, "", results); err != nil {
		return nil, err
	}

	logger.Info("RpcNewGame [User:%s]: Created game %s against %s", userID, game.ID, opponent)
	return app.NewView(game, userID)
}

func (h *gameRPC) getGame(ctx context.Context, logger runtime.Logger, store StorageAPI, userID, payload string) (any, error) {
	game, _, err := h.load(ctx, store, payload)
	if err != nil {
		return nil, err
	}
	view, err := app.NewView(game, userID)
	if err != nil {
		return nil, err
	}
	snapshot, err := h.sealer.Seal(userID, view)
	if err != nil {
		return nil, err
	}
	return getGameResponse{View: view, Snapshot: snapshot}, nil
}

func (h *gameRPC) playCard(ctx context.Context, logger runtime.Logger, store StorageAPI, userID, payload string) (any, error) {
	var req playCardRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	game, version, err := h.sessions(store).Load(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	results := &pendingResults{}
	svc := h.service(logger, results)
	if _, _, err := svc.Play(ctx, game, userID, req.Suit, req.Rank, req.DeclaredSuit); err != nil {
		return nil, err
	}
	if err := h.computerMoves(ctx, logger, svc, game); err != nil {
		return nil, err
	}
	if err := h.save(ctx, logger, store, game, version, results); err != nil {
		return nil, err
	}
	return app.NewView(game, userID)
}

func (h *gameRPC) drawCard(ctx context.Context, logger runtime.Logger, store StorageAPI, userID, payload string) (any, error) {
	var req gameRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	game, version, err := h.sessions(store).Load(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	results := &pendingResults{}
	drawn, _, err := h.service(logger, results).Draw(game, userID)
	if err != nil {
		return nil, err
	}
	if err := h.save(ctx, logger, store, game, version, results); err != nil {
		return nil, err
	}
	view, err := app.NewView(game, userID)
	if err != nil {
		return nil, err
	}
	return drawCardResponse{View: view, Drawn: drawn}, nil
}

func (h *gameRPC) cancelGame(ctx context.Context, logger runtime.Logger, store StorageAPI, userID, payload string) (any, error) {
	var req gameRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	game, version, err := h.sessions(store).Load(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	if _, err := game.SeatOf(userID); err != nil {
		return nil, err
	}

	results := &pendingResults{}
	if _, err := h.service(logger, results).Cancel(game); err != nil {
		return nil, err
	}
	if err := h.save(ctx, logger, store, game, version, results); err != nil {
		return nil, err
	}
	logger.Info("RpcCancelGame [User:%s]: Cancelled game %s", userID, game.ID)
	return app.NewView(game, userID)
}

func (h *gameRPC) gameHistory(ctx context.Context, logger runtime.Logger, store StorageAPI, userID, payload string) (any, error) {
	game, _, err := h.load(ctx, store, payload)
	if err != nil {
		return nil, err
	}
	if _, err := game.SeatOf(userID); err != nil {
		return nil, err
	}
	return historyResponse{
		GameID:    game.ID,
		Players:   game.Players,
		Status:    game.Status,
		Winner:    game.WinnerID(),
		Moves:     game.Moves,
		CreatedAt: game.CreatedAt,
	}, nil
}

func (h *gameRPC) load(ctx context.Context, store StorageAPI, payload string) (*domain.Session, string, error) {
	var req gameRequest
	if err := decode(payload, &req); err != nil {
		return nil, "", err
	}
	return h.sessions(store).Load(ctx, req.GameID)
}

// computerMoves lets the configured computer user take its turn when it is up.
// A computer that cannot move leaves the game waiting; it is logged, not failed.
func (h *gameRPC) computerMoves(ctx context.Context, logger runtime.Logger, svc *app.Service, game *domain.Session) error {
	if !game.InProgress() || game.CurrentPlayer() != h.cfg.ComputerUserID {
		return nil
	}
	brain, err := bot.NewBrain(bot.LevelHeuristic, nil)
	if err != nil {
		return err
	}
	agent := bot.NewAgent(h.cfg.ComputerUserID, brain)

	_, _, err = svc.ComputerTurn(ctx, game, agent, h.cfg.MaxComputerDraws)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNoLegalMoveAndNoDrawPossible), errors.Is(err, app.ErrDrawLimit):
		logger.Warn("computerMoves [Game:%s]: Computer cannot move: %v", game.ID, err)
		return nil
	default:
		return err
	}
}

// toRuntimeError maps service errors onto Nakama error codes. Anything
// unexpected is reported as an internal error without details.
func toRuntimeError(err error) error {
	switch {
	case errors.Is(err, errInvalidPayload),
		errors.Is(err, domain.ErrUnknownCard),
		errors.Is(err, domain.ErrUnknownSuit),
		errors.Is(err, domain.ErrMissingDeclaredSuit),
		errors.Is(err, domain.ErrInvalidPlayers),
		errors.Is(err, domain.ErrIllegalPlay),
		errors.Is(err, domain.ErrCardNotHeld):
		return runtime.NewError(err.Error(), codeInvalidArgument)
	case errors.Is(err, ports.ErrSessionNotFound):
		return runtime.NewError(err.Error(), codeNotFound)
	case errors.Is(err, domain.ErrUnknownPlayer):
		return runtime.NewError(err.Error(), codePermissionDenied)
	case errors.Is(err, domain.ErrNotPlayersTurn),
		errors.Is(err, domain.ErrGameNotInProgress),
		errors.Is(err, ports.ErrSessionConflict),
		errors.Is(err, domain.ErrNoLegalMoveAndNoDrawPossible):
		return runtime.NewError(err.Error(), codeFailedPrecondition)
	default:
		return runtime.NewError("Internal error", codeInternal)
	}
}
