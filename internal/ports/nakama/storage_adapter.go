package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crazyeights/internal/domain"
	"crazyeights/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// StorageAPI is the part of runtime.NakamaModule the storage adapters use.
type StorageAPI interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

var (
	_ ports.SessionStore = (*StorageSessionStore)(nil)
	_ ports.Scoreboard   = (*StorageScoreboard)(nil)
)

// StorageSessionStore implements ports.SessionStore on Nakama storage. Games
// are owned by the system user and are never readable by clients directly.
type StorageSessionStore struct {
	nk StorageAPI
}

// NewStorageSessionStore creates a new session store.
func NewStorageSessionStore(nk StorageAPI) *StorageSessionStore {
	return &StorageSessionStore{nk: nk}
}

// Save stores the session under its game ID as long as the stored object is
// still at version. An empty version only creates.
func (s *StorageSessionStore) Save(ctx context.Context, game *domain.Session, version string) error {
	if game.ID == "" {
		return fmt.Errorf("game ID is required")
	}
	value, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", game.ID, err)
	}

	if version == "" {
		version = "*"
	}
	writes := []*runtime.StorageWrite{
		{
			Collection:      gamesCollection,
			Key:             game.ID,
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}
	if _, err := s.nk.StorageWrite(ctx, writes); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return fmt.Errorf("%w: game %s", ports.ErrSessionConflict, game.ID)
		}
		return fmt.Errorf("failed to write game %s: %w", game.ID, err)
	}
	return nil
}

// Load reads and validates the session stored under gameID and returns it
// with its storage version.
func (s *StorageSessionStore) Load(ctx context.Context, gameID string) (*domain.Session, string, error) {
	if gameID == "" {
		return nil, "", fmt.Errorf("%w: empty game ID", ports.ErrSessionNotFound)
	}
	objects, err := s.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: gamesCollection, Key: gameID},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read game %s: %w", gameID, err)
	}
	if len(objects) == 0 {
		return nil, "", fmt.Errorf("%w: %s", ports.ErrSessionNotFound, gameID)
	}

	var game domain.Session
	if err := json.Unmarshal([]byte(objects[0].Value), &game); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrCorruptSession, err)
	}
	if err := game.Validate(); err != nil {
		return nil, "", err
	}
	return &game, objects[0].Version, nil
}

// playerResult is the per-player copy of a score record.
type playerResult struct {
	GameID   string `json:"game_id"`
	Opponent string `json:"opponent"`
	Won      bool   `json:"won"`
	At       string `json:"at"`
}

// StorageScoreboard implements ports.Scoreboard on Nakama storage. Each result
// is written once: a system record plus a copy readable by each player.
type StorageScoreboard struct {
	nk StorageAPI
}

// NewStorageScoreboard creates a new scoreboard adapter.
func NewStorageScoreboard(nk StorageAPI) *StorageScoreboard {
	return &StorageScoreboard{nk: nk}
}

// RecordResult writes the result. Recording the same game twice is a no-op.
func (b *StorageScoreboard) RecordResult(ctx context.Context, r ports.Result) error {
	if r.GameID == "" || r.Winner == "" || r.Loser == "" {
		return fmt.Errorf("incomplete result %+v", r)
	}
	at := r.At.UTC().Format(time.RFC3339)

	record, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	winnerCopy, err := json.Marshal(playerResult{GameID: r.GameID, Opponent: r.Loser, Won: true, At: at})
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	loserCopy, err := json.Marshal(playerResult{GameID: r.GameID, Opponent: r.Winner, Won: false, At: at})
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      scoresCollection,
			Key:             r.GameID,
			Value:           string(record),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
		{
			Collection:      scoresCollection,
			Key:             r.GameID,
			UserID:          r.Winner,
			Value:           string(winnerCopy),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
		{
			Collection:      scoresCollection,
			Key:             r.GameID,
			UserID:          r.Loser,
			Value:           string(loserCopy),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}
	if _, err := b.nk.StorageWrite(ctx, writes); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return nil
		}
		return fmt.Errorf("failed to record result for game %s: %w", r.GameID, err)
	}
	return nil
}
