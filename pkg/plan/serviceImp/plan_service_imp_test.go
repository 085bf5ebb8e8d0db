package serviceImp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcal/database"
	"cropcal/entities"
	advisoryRepoImp "cropcal/pkg/advisory/repositoryImp"
	advisorySvcImp "cropcal/pkg/advisory/serviceImp"
	"cropcal/pkg/climate"
	"cropcal/pkg/growth"
	obsRepoImp "cropcal/pkg/observation/repositoryImp"
	obsSvcImp "cropcal/pkg/observation/serviceImp"
	planRepoImp "cropcal/pkg/plan/repositoryImp"
	plotRepoImp "cropcal/pkg/plot/repositoryImp"
	plotrepo "cropcal/pkg/plot/repository"
	schedRepoImp "cropcal/pkg/schedule/repositoryImp"
	schedSvcImp "cropcal/pkg/schedule/serviceImp"
	"cropcal/pkg/weather"
)

var (
	ctx   = context.Background()
	today = time.Date(2025, 11, 10, 6, 0, 0, 0, time.UTC)
)

func day(s string) time.Time {
	d, err := entities.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	svc      *PlanSvc
	plots    plotrepo.PlotRepository
	advisory *advisorySvcImp.Svc
	obs      interface {
		Record(context.Context, *entities.Observation) (*entities.Observation, error)
	}
}

func newFixture(t *testing.T, provider weather.Provider) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "plan.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	plots := plotRepoImp.New(db)
	sched := schedSvcImp.NewScheduleService(schedRepoImp.New(db), plots, climate.DefaultConfig(), nil)
	obs := obsSvcImp.NewObservationService(obsRepoImp.New(db))
	adv := advisorySvcImp.New(advisoryRepoImp.New(db), advisorySvcImp.Options{}, nil)

	svc := NewPlanService(Deps{
		Plots:        plots,
		Models:       growth.Default(nil),
		Schedule:     sched,
		Weather:      provider,
		Repo:         planRepoImp.New(db),
		Observations: obs,
		Advisory:     adv,
		SweepLimit:   2,
	})
	svc.now = func() time.Time { return today }
	return &fixture{svc: svc, plots: plots, advisory: adv, obs: obs}
}

func (f *fixture) addPlot(t *testing.T, id, crop, variety string, soil *entities.SoilSummary) {
	t.Helper()
	require.NoError(t, f.plots.Create(ctx, &entities.Plot{
		ID: id, FarmerID: "farmer-1", CropName: crop, Variety: variety,
		PlantingDate: day("2025-10-24"), Location: entities.Location{Lat: -0.5, Lon: 37.4}, Soil: soil,
	}))
}

func rainySignal() *entities.WeatherSignal {
	sig := &entities.WeatherSignal{ReferenceDate: day("2025-11-10")}
	for i, mm := range []float64{0, 0, 3, 26, 21, 0, 0} {
		sig.Forecast = append(sig.Forecast, entities.ForecastDay{Date: day("2025-11-10").AddDate(0, 0, i), RainMm: mm})
	}
	return sig
}

var goodSoil = &entities.SoilSummary{Fertility: entities.FertilityMedium, DrainageClass: "well drained"}

func find(evs []entities.ScheduledEvent, key string) *entities.ScheduledEvent {
	for i := range evs {
		if evs[i].PracticeKey == key {
			return &evs[i]
		}
	}
	return nil
}

func TestGenerateCalendar_AdjustsAndMergesIdempotently(t *testing.T) {
	f := newFixture(t, weather.NewStatic(rainySignal()))
	f.addPlot(t, "plot-1", "maize", "H614", goodSoil)
	_, err := f.advisory.Ingest(ctx, "Maize H614 agronomy guide", "maize", "Plant H614 at 75 by 25 cm.", "https://example.org/h614")
	require.NoError(t, err)

	first, err := f.svc.GenerateCalendar(ctx, "plot-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, first.Confidence)
	assert.Empty(t, first.Warnings)
	assert.Positive(t, first.Inserted)
	require.Len(t, first.Changed, 1)
	require.Len(t, first.Advisories, 1)
	assert.Equal(t, "https://example.org/h614", first.Advisories[0].URL)

	weeding := find(first.Events, "first_weeding")
	require.NotNil(t, weeding)
	assert.Equal(t, "2025-11-15", weeding.ScheduledDate.Format(entities.DateLayout))
	assert.Equal(t, entities.SourceWeatherAdjusted, weeding.Source)
	assert.Equal(t, "2026-02-21", first.Harvest.Target.Format(entities.DateLayout))

	again, err := f.svc.GenerateCalendar(ctx, "plot-1", nil)
	require.NoError(t, err)
	assert.Zero(t, again.Inserted)
	assert.Zero(t, again.Cancelled)
	assert.Equal(t, first.Inserted, again.Kept)
	assert.Empty(t, again.Changed)
	assert.Len(t, again.Events, len(first.Events))
}

func TestGenerateCalendar_ConfidencePenalties(t *testing.T) {
	f := newFixture(t, weather.NewStatic(nil))
	f.addPlot(t, "with-soil", "maize", "h614", goodSoil)
	f.addPlot(t, "no-soil", "maize", "h614", nil)
	f.addPlot(t, "unknown-variety", "maize", "katumani", nil)

	cases := map[string]float64{
		"with-soil":       0.85,
		"no-soil":         0.75,
		"unknown-variety": 0.55,
	}
	for id, want := range cases {
		res, err := f.svc.GenerateCalendar(ctx, id, nil)
		require.NoError(t, err, id)
		assert.InDelta(t, want, res.Confidence, 1e-9, id)
		codes := map[string]bool{}
		for _, w := range res.Warnings {
			codes[w.Code] = true
		}
		assert.True(t, codes[entities.WarnWeatherUnavailable], id)
	}
}

func TestGenerateCalendar_UnknownCropAndPlot(t *testing.T) {
	f := newFixture(t, nil)
	f.addPlot(t, "cassava-plot", "cassava", "", nil)

	_, err := f.svc.GenerateCalendar(ctx, "cassava-plot", nil)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	var nf *entities.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "crop", nf.Kind)

	_, err = f.svc.GenerateCalendar(ctx, "missing", nil)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestAdjustForWeather_RecordsLog(t *testing.T) {
	f := newFixture(t, weather.NewStatic(nil))
	f.addPlot(t, "plot-1", "maize", "h614", goodSoil)
	_, err := f.svc.GenerateCalendar(ctx, "plot-1", nil)
	require.NoError(t, err)

	rep, err := f.svc.AdjustForWeather(ctx, "plot-1", rainySignal())
	require.NoError(t, err)
	require.Len(t, rep.Changed, 1)
	assert.Equal(t, "2025-11-15", find(rep.Events, "first_weeding").ScheduledDate.Format(entities.DateLayout))

	// forecast clears up: the event returns to its original date
	rep, err = f.svc.AdjustForWeather(ctx, "plot-1", &entities.WeatherSignal{
		ReferenceDate: day("2025-11-10"),
		Forecast:      []entities.ForecastDay{{Date: day("2025-11-13"), RainMm: 1}},
	})
	require.NoError(t, err)
	require.Len(t, rep.Changed, 1)
	w := find(rep.Events, "first_weeding")
	assert.Equal(t, "2025-11-13", w.ScheduledDate.Format(entities.DateLayout))
	assert.Nil(t, w.OriginalDate)
	assert.Equal(t, entities.SourceAutoGenerated, w.Source)

	logs, err := f.svc.Adjustments(ctx, "plot-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Len(t, logs[0].Changed, 1)
}

func TestRefineHarvest_UsesObservations(t *testing.T) {
	f := newFixture(t, nil)
	f.addPlot(t, "plot-1", "maize", "h614", goodSoil)

	rep, err := f.svc.RefineHarvest(ctx, "plot-1")
	require.NoError(t, err)
	assert.Equal(t, rep.Original, rep.Estimate.Window)
	assert.InDelta(t, 0.3, rep.Estimate.Confidence, 1e-9)

	_, err = f.obs.Record(ctx, &entities.Observation{
		PlotID: "plot-1", ObservedAt: day("2025-12-23"), MaturityPct: 50, HealthTrend: entities.TrendStable,
	})
	require.NoError(t, err)

	rep, err = f.svc.RefineHarvest(ctx, "plot-1")
	require.NoError(t, err)
	assert.True(t, rep.Original.Contains(rep.Estimate.Window))
	assert.Equal(t, "2026-02-21", rep.Estimate.Window.Target.Format(entities.DateLayout))
	assert.InDelta(t, 0.7, rep.Estimate.Confidence, 1e-9)
}

func TestScheduleTreatment_UsesForecast(t *testing.T) {
	sig := &entities.WeatherSignal{ReferenceDate: day("2025-11-10")}
	for i := 0; i < 14; i++ {
		mm := 0.0
		if i == 7 {
			mm = 30
		}
		sig.Forecast = append(sig.Forecast, entities.ForecastDay{Date: day("2025-11-10").AddDate(0, 0, i), RainMm: mm})
	}
	f := newFixture(t, weather.NewStatic(sig))
	f.addPlot(t, "plot-1", "maize", "h614", goodSoil)

	plan := entities.TreatmentPlan{
		DiagnosisID: "diag-1",
		Issue:       "fall armyworm",
		Treatments:  []entities.Treatment{{Product: "emamectin benzoate", FrequencyDays: 7, TotalApplications: 2}},
	}
	res, err := f.svc.ScheduleTreatment(ctx, "plot-1", plan, day("2025-11-10"))
	require.NoError(t, err)
	require.Len(t, res.Events, 3)
	var dates []string
	for _, ev := range res.Events {
		dates = append(dates, ev.ScheduledDate.Format(entities.DateLayout))
	}
	assert.Equal(t, []string{"2025-11-10", "2025-11-18", "2025-11-25"}, dates)

	cancelled, err := f.svc.CancelTreatment(ctx, "plot-1", "diag-1", "")
	require.NoError(t, err)
	assert.Len(t, cancelled, 3)
}

func TestSweepPlots_ReportsPerPlot(t *testing.T) {
	f := newFixture(t, weather.NewStatic(rainySignal()))
	for _, id := range []string{"a", "b", "c"} {
		f.addPlot(t, id, "maize", "h614", goodSoil)
	}

	all, err := f.svc.SweepPlots(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, r := range all {
		assert.Empty(t, r.Err, r.PlotID)
	}

	res, err := f.svc.SweepPlots(ctx, []string{"a", "ghost"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].PlotID)
	assert.Empty(t, res[0].Err)
	assert.Equal(t, "ghost", res[1].PlotID)
	assert.Contains(t, res[1].Err, "not found")
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 1.0, confidence(false, nil))
	assert.InDelta(t, 0.55, confidence(true, []entities.Warning{
		{Code: entities.WarnWeatherMalformed}, {Code: entities.WarnSoilMissing}, {Code: entities.WarnWeatherUnavailable},
	}), 1e-9)
}
