package growth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cropcal/entities"
)

func TestLookup_CaseInsensitiveVariety(t *testing.T) {
	r := Default(nil)

	m, err := r.Lookup("  Maize ", "H614")
	require.NoError(t, err)
	assert.Equal(t, "maize", m.Crop)
	assert.Equal(t, "h614", m.Variety)
	assert.Equal(t, 120, m.MaturityDays)
	assert.False(t, m.DegradedPrecision)
	assert.Equal(t, 20, m.CriticalPractices["first_weeding"].DayOffset)
}

func TestLookup_UnknownVarietyFallsBackDegraded(t *testing.T) {
	r := Default(nil)

	m, err := r.Lookup("maize", "some-local-landrace")
	require.NoError(t, err)
	assert.True(t, m.DegradedPrecision)
	assert.Equal(t, 120, m.MaturityDays)
	assert.Equal(t, "some-local-landrace", m.Variety)
}

func TestLookup_EmptyVarietyIsBaseNotDegraded(t *testing.T) {
	m, err := Default(nil).Lookup("beans", "")
	require.NoError(t, err)
	assert.False(t, m.DegradedPrecision)
	_, hasStaking := m.CriticalPractices["staking"]
	assert.False(t, hasStaking)
}

func TestLookup_UnknownCrop(t *testing.T) {
	_, err := Default(nil).Lookup("quinoa", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	var nf *entities.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "crop", nf.Kind)
}

func TestLookup_ClimbingBeansAddStaking(t *testing.T) {
	m, err := Default(nil).Lookup("Beans", "Climbing")
	require.NoError(t, err)
	staking, ok := m.CriticalPractices["staking"]
	require.True(t, ok)
	assert.Equal(t, entities.CategoryStaking, staking.Category)
	assert.Equal(t, 95, m.MaturityDays)
	// base practices survive the merge
	assert.Contains(t, m.CriticalPractices, "first_weeding")
}

func TestLookup_DoesNotLeakCatalogMutations(t *testing.T) {
	r := Default(nil)
	m, err := r.Lookup("maize", "h614")
	require.NoError(t, err)
	delete(m.CriticalPractices, "first_weeding")
	m.Stages[0].Name = "mutated"

	again, err := r.Lookup("maize", "h614")
	require.NoError(t, err)
	assert.Contains(t, again.CriticalPractices, "first_weeding")
	assert.Equal(t, "emergence", again.Stages[0].Name)
}

func TestMerge_RemoveAndReplace(t *testing.T) {
	base := entities.GrowthModel{
		Crop:         "x",
		MaturityDays: 100,
		CriticalPractices: map[string]entities.CriticalPractice{
			"a": {DayOffset: 1},
			"b": {DayOffset: 2},
		},
	}
	out := Merge(base, "v", VarietyOverride{
		MaturityDays:    intp(80),
		RemovePractices: []string{"A"},
		Practices:       map[string]entities.CriticalPractice{"b": {DayOffset: 5}},
	})
	assert.Equal(t, 80, out.MaturityDays)
	assert.NotContains(t, out.CriticalPractices, "a")
	assert.Equal(t, 5, out.CriticalPractices["b"].DayOffset)
	assert.Equal(t, 100, base.MaturityDays)
	assert.Len(t, base.CriticalPractices, 2)
}

func TestMerge_DoesNotShareOverrideMethods(t *testing.T) {
	o := VarietyOverride{Practices: map[string]entities.CriticalPractice{
		"staking": {DayOffset: 14, LocalMethods: []string{"sticks"}, CommercialMethods: []string{"twine"}},
	}}
	out := Merge(entities.GrowthModel{Crop: "beans", MaturityDays: 90}, "climbing", o)

	p := out.CriticalPractices["staking"]
	p.LocalMethods[0] = "changed"
	p.CommercialMethods[0] = "changed"
	assert.Equal(t, []string{"sticks"}, o.Practices["staking"].LocalMethods)
	assert.Equal(t, []string{"twine"}, o.Practices["staking"].CommercialMethods)
}

func TestLoadPracticesCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "practices.csv")
	csv := "Crop,Variety,Practice Key,Day-Offset,Labor Hours,Priority,Category,Local Methods\n" +
		"maize,h614,second_top_dressing,55,3,high,fertilizer,urine;compost tea\n" +
		"maize,,thinning,15,2,low,,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	r := Default(nil)
	require.NoError(t, r.LoadPracticesCSV(path))

	m, err := r.Lookup("maize", "h614")
	require.NoError(t, err)
	p := m.CriticalPractices["second_top_dressing"]
	assert.Equal(t, 55, p.DayOffset)
	assert.Equal(t, entities.PriorityHigh, p.Priority)
	assert.Equal(t, []string{"urine", "compost tea"}, p.LocalMethods)

	base, err := r.Lookup("maize", "")
	require.NoError(t, err)
	assert.Equal(t, 15, base.CriticalPractices["thinning"].DayOffset)
	assert.NotContains(t, base.CriticalPractices, "second_top_dressing")
}

func TestLoadPracticesCSV_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("crop,notes\nmaize,x\n"), 0o644))
	err := Default(nil).LoadPracticesCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestLoadPracticesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "practices.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"crop", "variety", "practice", "day_offset", "labor_hours", "priority"},
		{"tomato", "anna f1", "pruning", 45, 4, "moderate"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	r := Default(nil)
	require.NoError(t, r.LoadPracticesXLSX(path))
	m, err := r.Lookup("tomato", "Anna F1")
	require.NoError(t, err)
	assert.Equal(t, 45, m.CriticalPractices["pruning"].DayOffset)
	assert.Equal(t, 4.0, m.CriticalPractices["pruning"].LaborHoursEstimate)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
crops:
  - crop: Sorghum
    maturity_days: 100
    harvest_tolerance_days: 8
    stages:
      - {name: emergence, start_day: 0, end_day: 10}
      - {name: heading, start_day: 60, end_day: 80, major: true}
    critical_practices:
      First_Weeding: {day_offset: 18, labor_hours: 6, priority: high}
    varieties:
      gadam:
        maturity_days: 90
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	r := Default(nil)
	require.NoError(t, r.LoadYAML(path))

	m, err := r.Lookup("sorghum", "GADAM")
	require.NoError(t, err)
	assert.Equal(t, 90, m.MaturityDays)
	assert.Equal(t, 8, m.HarvestToleranceDays)
	assert.Equal(t, 18, m.CriticalPractices["first_weeding"].DayOffset)
	assert.True(t, m.Stages[1].Major)
	assert.Contains(t, r.Crops(), "sorghum")
}

func TestLoadYAML_RejectsMissingMaturity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crops:\n  - crop: millet\n"), 0o644))
	assert.Error(t, Default(nil).LoadYAML(path))
}
