package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDataLoader(t *testing.T) {
	// Setup
	dir := t.TempDir()
	loader := NewDataLoader(dir)

	// Test case 1: no files falls back to built-in data
	data, err := loader.LoadGameData()
	require.NoError(t, err)
	assert.Empty(t, data.Instruments)
	assert.Empty(t, data.Roles)

	// Test case 2: valid files
	writeFile(t, dir, "instruments.yaml", `
instruments:
  - code: ACME
    name: Acme Corp
    sector: Industrials
    price: 120.5
    volatility: 3
`)
	writeFile(t, dir, "roles.yaml", `
roles:
  - role: Analyst
    base_salary: 50000
    skills: [Excel]
    questions:
      - question: "2 + 2?"
        options: ["3", "4"]
        correct_answer: 1
`)
	data, err = loader.LoadGameData()
	require.NoError(t, err)
	require.Len(t, data.Instruments, 1)
	assert.Equal(t, "ACME", data.Instruments[0].Code)
	assert.Equal(t, 120.5, data.Instruments[0].Price)
	require.Len(t, data.Roles, 1)
	assert.Equal(t, int64(50000), data.Roles[0].BaseSalary)
	assert.Equal(t, 1, data.Roles[0].Questions[0].CorrectAnswer)

	// Test case 3: invalid entries are rejected
	writeFile(t, dir, "instruments.yaml", `
instruments:
  - code: ACME
    price: 10
  - code: ACME
    price: 11
`)
	_, err = loader.LoadInstruments()
	assert.ErrorContains(t, err, "duplicate")

	writeFile(t, dir, "roles.yaml", `
roles:
  - role: Analyst
    base_salary: 50000
    questions:
      - question: "2 + 2?"
        options: ["3", "4"]
        correct_answer: 2
`)
	_, err = loader.LoadRoleTemplates()
	assert.Error(t, err)

	writeFile(t, dir, "roles.yaml", `
roles:
  - role: Intern
    base_salary: 5000
`)
	_, err = loader.LoadRoleTemplates()
	assert.ErrorContains(t, err, "below")
}

func TestBundledDataFiles(t *testing.T) {
	data, err := NewDataLoader(filepath.Join("..", "..", "assets", "data")).LoadGameData()
	require.NoError(t, err)
	assert.Len(t, data.Instruments, 6)
	assert.Len(t, data.Roles, 8)
}

func TestDiceRoller(t *testing.T) {
	a := NewDiceRoller(99)
	b := NewDiceRoller(99)
	for i := 0; i < 50; i++ {
		roll := a.Roll(6)
		assert.Equal(t, roll, b.Roll(6))
		assert.GreaterOrEqual(t, roll, 1)
		assert.LessOrEqual(t, roll, 6)
	}
	f := a.Float64()
	assert.GreaterOrEqual(t, f, 0.0)
	assert.Less(t, f, 1.0)
}

func TestDayScheduler(t *testing.T) {
	// Setup
	cfg := testConfig(t)
	cfg.Engine.MaxYears = 1
	gameManager := NewGameManager(cfg, GameData{})
	scheduler := NewDayScheduler(gameManager, "@every 1h", 2)

	// Test case 1: each run advances one day and autosaves on cadence
	scheduler.runDay()
	_, err := os.Stat(cfg.Storage.SavePath)
	assert.True(t, os.IsNotExist(err))

	scheduler.runDay()
	assert.Equal(t, 2, gameManager.Snapshot().Day)
	_, err = os.Stat(cfg.Storage.SavePath)
	assert.NoError(t, err)

	// Test case 2: an ended game stops advancing
	state := gameManager.Export()
	state.Clock.IsEnded = true
	require.NoError(t, gameManager.Import(state))
	scheduler.runDay()
	assert.Equal(t, 2, gameManager.Snapshot().Day)

	// Test case 3: invalid cron spec
	bad := NewDayScheduler(gameManager, "not a spec", 1)
	assert.Error(t, bad.Start())
}

