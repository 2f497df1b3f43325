package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/user/wealth-sprint/internal/team"
	"github.com/user/wealth-sprint/internal/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DataLoader handles loading game data from files
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// LoadInstruments loads the market listing from instruments.yaml
func (dl *DataLoader) LoadInstruments() ([]types.Instrument, error) {
	var doc struct {
		Instruments []types.Instrument `yaml:"instruments"`
	}
	if err := dl.load("instruments.yaml", &doc); err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}

	seen := make(map[string]bool, len(doc.Instruments))
	for _, inst := range doc.Instruments {
		if inst.Code == "" {
			return nil, errors.New("instrument without a code")
		}
		if seen[inst.Code] {
			return nil, fmt.Errorf("duplicate instrument %q", inst.Code)
		}
		if inst.Price <= 0 || inst.Volatility < 0 {
			return nil, fmt.Errorf("instrument %q has invalid price or volatility", inst.Code)
		}
		seen[inst.Code] = true
	}
	return doc.Instruments, nil
}

// LoadRoleTemplates loads the hiring catalogue from roles.yaml
func (dl *DataLoader) LoadRoleTemplates() ([]types.RoleTemplate, error) {
	var doc struct {
		Roles []types.RoleTemplate `yaml:"roles"`
	}
	if err := dl.load("roles.yaml", &doc); err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	for _, role := range doc.Roles {
		if role.Role == "" {
			return nil, fmt.Errorf("role with base salary %d has no name", role.BaseSalary)
		}
		if role.BaseSalary < team.MinBaseSalary {
			return nil, fmt.Errorf("role %q base salary %d is below %d", role.Role, role.BaseSalary, team.MinBaseSalary)
		}
		for _, q := range role.Questions {
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return nil, fmt.Errorf("role %q question %q has no valid answer", role.Role, q.Question)
			}
		}
	}
	return doc.Roles, nil
}

// LoadGameData loads both data files, keeping built-in defaults for any
// file that is missing
func (dl *DataLoader) LoadGameData() (GameData, error) {
	var data GameData

	instruments, err := dl.LoadInstruments()
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return data, err
	default:
		data.Instruments = instruments
	}

	roles, err := dl.LoadRoleTemplates()
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return data, err
	default:
		data.Roles = roles
	}

	return data, nil
}

func (dl *DataLoader) load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(dl.basePath, name))
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// DiceRoller is the game's random stream
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a dice roller. A zero seed seeds from the clock.
func NewDiceRoller(seed int64) *DiceRoller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Roll rolls a dice with the specified number of sides
func (dr *DiceRoller) Roll(sides int) int {
	return dr.rng.Intn(sides) + 1
}

// Float64 returns a value in [0, 1)
func (dr *DiceRoller) Float64() float64 {
	return dr.rng.Float64()
}

// Intn returns a value in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	return dr.rng.Intn(n)
}

// DayScheduler advances the game one day per cron trigger
type DayScheduler struct {
	gameManager   *GameManager
	cron          *cron.Cron
	spec          string
	autosaveEvery int
	mu            sync.Mutex
	daysRun       int
}

// NewDayScheduler creates a scheduler firing on the given cron spec
func NewDayScheduler(gameManager *GameManager, spec string, autosaveEvery int) *DayScheduler {
	return &DayScheduler{
		gameManager:   gameManager,
		cron:          cron.New(cron.WithSeconds()),
		spec:          spec,
		autosaveEvery: autosaveEvery,
	}
}

// Start registers the day task and starts the cron runner
func (ds *DayScheduler) Start() error {
	if _, err := ds.cron.AddFunc(ds.spec, ds.runDay); err != nil {
		return fmt.Errorf("register day task: %w", err)
	}
	ds.cron.Start()
	ds.gameManager.Logger.Info("Day scheduler started", zap.String("spec", ds.spec))
	return nil
}

// Stop halts the scheduler and waits for a running day to finish
func (ds *DayScheduler) Stop() {
	<-ds.cron.Stop().Done()
	ds.gameManager.Logger.Info("Day scheduler stopped")
}

// runDay advances one day and autosaves on the configured cadence
func (ds *DayScheduler) runDay() {
	report, err := ds.gameManager.AdvanceDay(context.Background())
	if errors.Is(err, types.ErrTerminalState) {
		ds.gameManager.Logger.Info("Game has ended, stopping day scheduler")
		ds.cron.Stop()
		return
	}
	if err != nil {
		ds.gameManager.Logger.Error("Failed to advance day", zap.Error(err))
		return
	}

	ds.mu.Lock()
	ds.daysRun++
	due := ds.autosaveEvery > 0 && ds.daysRun%ds.autosaveEvery == 0
	ds.mu.Unlock()

	if due || report.Ended {
		if err := ds.gameManager.Save(); err != nil {
			ds.gameManager.Logger.Error("Autosave failed", zap.Error(err))
		}
	}
}
