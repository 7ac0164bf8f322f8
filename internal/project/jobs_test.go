package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadJob(t *testing.T) {
	dir := t.TempDir()

	job := model.NewJob()
	job.Name = "Paper order"
	job.Demands = []model.Demand{model.NewDemand("A", 30, 10)}
	job.Parent = model.NewParentStock("Roll", 100, 5)
	job.Settings.Algorithm = model.StrategyDirect
	job.Result = &model.Result{
		StatusName:   "OPTIMAL",
		NumRollsUsed: 1,
		Solutions:    []model.RollAssignment{{Unused: 10, Cuts: []float64{30, 30, 30}}},
	}

	path, err := SaveJob(filepath.Join(dir, "order"), job)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "order"+JobExt), path)

	loaded, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, job.ID, loaded.ID)
	assert.Equal(t, "Paper order", loaded.Name)
	assert.Equal(t, job.Demands, loaded.Demands)
	assert.Equal(t, 100.0, loaded.Parent.Width)
	assert.Equal(t, model.StrategyDirect, loaded.Settings.Algorithm)
	require.NotNil(t, loaded.Result)
	assert.Equal(t, []float64{30, 30, 30}, loaded.Result.Solutions[0].Cuts)
}

func TestSaveJobKeepsExtension(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveJob(filepath.Join(dir, "x"+JobExt), model.NewJob())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x"+JobExt), path)
}

func TestLoadJobDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare"+JobExt)
	require.NoError(t, os.WriteFile(path, []byte(`{"parent":{"width":100}}`), 0644))

	job, err := LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "bare", job.Name)
	assert.NotNil(t, job.Demands)
	assert.Nil(t, job.Result)
	assert.Equal(t, model.DefaultSettings().MaxIterations, job.Settings.MaxIterations)
}

func TestLoadJobErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadJob(filepath.Join(dir, "missing"+JobExt))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad"+JobExt)
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadJob(bad)
	assert.Error(t, err)
}
