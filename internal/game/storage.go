package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/wealth-sprint/internal/types"
)

// GameStateStorage handles persistence of game state
type GameStateStorage struct {
	savePath  string
	stateLock sync.RWMutex
}

// NewGameStateStorage creates a new game state storage
func NewGameStateStorage(savePath string) *GameStateStorage {
	if savePath == "" {
		savePath = "./data/game_state.json"
	}
	return &GameStateStorage{
		savePath: savePath,
	}
}

// Path returns the save file location
func (gss *GameStateStorage) Path() string {
	return gss.savePath
}

// SaveGameState writes the game state to disk, replacing the previous save
// only once the new one is fully written
func (gss *GameStateStorage) SaveGameState(state *types.GameState) error {
	gss.stateLock.Lock()
	defer gss.stateLock.Unlock()

	// Create directory if it doesn't exist
	dir := filepath.Dir(gss.savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	state.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	tmp := gss.savePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if err := os.Rename(tmp, gss.savePath); err != nil {
		return fmt.Errorf("failed to replace game state: %w", err)
	}

	return nil
}

// LoadGameState loads the game state from disk. It returns nil without an
// error when no save exists.
func (gss *GameStateStorage) LoadGameState() (*types.GameState, error) {
	gss.stateLock.RLock()
	defer gss.stateLock.RUnlock()

	data, err := os.ReadFile(gss.savePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game state file: %w", err)
	}

	var state types.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse game state: %w", err)
	}

	// Ensure all slices are initialized
	if state.Finance.Liabilities == nil {
		state.Finance.Liabilities = make([]types.Liability, 0)
	}
	if state.Finance.TransactionHistory == nil {
		state.Finance.TransactionHistory = make([]types.Transaction, 0)
	}
	if state.Holdings == nil {
		state.Holdings = make([]types.Holding, 0)
	}
	if state.FixedIncome == nil {
		state.FixedIncome = make([]types.FixedIncome, 0)
	}
	if state.Team.Members == nil {
		state.Team.Members = make([]types.TeamMember, 0)
	}
	if state.Team.Applicants == nil {
		state.Team.Applicants = make([]types.JobApplicant, 0)
	}

	return &state, nil
}
