// Package app wires the stores, services and controllers shared by the HTTP
// server and the CLI.
package app

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cropcal/config"
	"cropcal/database"
	advCtrlImp "cropcal/pkg/advisory/controllerImp"
	advRepoImp "cropcal/pkg/advisory/repositoryImp"
	advSvcImp "cropcal/pkg/advisory/serviceImp"
	authCtrlImp "cropcal/pkg/auth/controllerImp"
	"cropcal/pkg/climate"
	"cropcal/pkg/growth"
	healthCtrlImp "cropcal/pkg/health/controllerImp"
	obsCtrlImp "cropcal/pkg/observation/controllerImp"
	obsRepoImp "cropcal/pkg/observation/repositoryImp"
	obsSvcImp "cropcal/pkg/observation/serviceImp"
	planCtrlImp "cropcal/pkg/plan/controllerImp"
	planRepoImp "cropcal/pkg/plan/repositoryImp"
	planSvcImp "cropcal/pkg/plan/serviceImp"
	plotCtrlImp "cropcal/pkg/plot/controllerImp"
	plotRepoImp "cropcal/pkg/plot/repositoryImp"
	plotsvc "cropcal/pkg/plot/service"
	plotSvcImp "cropcal/pkg/plot/serviceImp"
	schedCtrlImp "cropcal/pkg/schedule/controllerImp"
	schedRepoImp "cropcal/pkg/schedule/repositoryImp"
	schedSvcImp "cropcal/pkg/schedule/serviceImp"
	"cropcal/pkg/weather"
	"cropcal/router"
)

type App struct {
	DB     *gorm.DB
	Models *growth.Registry
	Plots  plotsvc.PlotService
	Plan   *planSvcImp.PlanSvc

	Controllers router.Controllers
}

// LoadModels builds the growth registry from the built-in catalog plus any
// configured YAML, CSV or XLSX sources.
func LoadModels(cfg config.AppConfig, log *zap.Logger) (*growth.Registry, error) {
	reg := growth.Default(log)
	if cfg.GrowthCatalogYAML != "" {
		if err := reg.LoadYAML(cfg.GrowthCatalogYAML); err != nil {
			return nil, fmt.Errorf("growth catalog: %w", err)
		}
	}
	if cfg.GrowthPracticesCSV != "" {
		if err := reg.LoadPracticesCSV(cfg.GrowthPracticesCSV); err != nil {
			return nil, fmt.Errorf("growth practices csv: %w", err)
		}
	}
	if cfg.GrowthPracticesXLSX != "" {
		if err := reg.LoadPracticesXLSX(cfg.GrowthPracticesXLSX); err != nil {
			return nil, fmt.Errorf("growth practices xlsx: %w", err)
		}
	}
	return reg, nil
}

func Provider(cfg config.AppConfig, log *zap.Logger) weather.Provider {
	if cfg.WeatherEndpoint == "" {
		log.Info("no weather endpoint configured; calendars are built without forecasts")
		return weather.NewStatic(nil)
	}
	return weather.NewHTTP(cfg.WeatherEndpoint, cfg.WeatherTimeout, log)
}

func Build(cfg config.AppConfig, log *zap.Logger) (*App, error) {
	models, err := LoadModels(cfg, log)
	if err != nil {
		return nil, err
	}
	db, err := database.OpenSQLite(cfg.DBPath, log)
	if err != nil {
		return nil, err
	}

	plotRepo := plotRepoImp.New(db)
	plots := plotSvcImp.NewPlotService(plotRepo, models)
	sched := schedSvcImp.NewScheduleService(schedRepoImp.New(db), plotRepo, cfg.Climate, log)
	obs := obsSvcImp.NewObservationService(obsRepoImp.New(db))
	adv := advSvcImp.New(advRepoImp.New(db), advSvcImp.Options{
		AllowedDomains: cfg.AdvisoryAllowDomains,
		MaxBytes:       cfg.AdvisoryMaxBytes,
	}, log)
	plan := planSvcImp.NewPlanService(planSvcImp.Deps{
		Plots:        plotRepo,
		Models:       models,
		Schedule:     sched,
		Adjuster:     climate.NewAdjuster(cfg.Climate, log),
		Weather:      Provider(cfg, log),
		Repo:         planRepoImp.New(db),
		Observations: obs,
		Advisory:     adv,
		SweepLimit:   cfg.SweepParallel,
		Log:          log,
	})

	return &App{
		DB:     db,
		Models: models,
		Plots:  plots,
		Plan:   plan,
		Controllers: router.Controllers{
			Plot:        plotCtrlImp.New(plots),
			Plan:        planCtrlImp.NewPlanCtrl(plan, plots),
			Schedule:    schedCtrlImp.New(sched, plots),
			Observation: obsCtrlImp.New(obs, plots),
			Advisory:    advCtrlImp.New(adv),
			Auth:        authCtrlImp.NewAuthController(),
			Health:      healthCtrlImp.NewHealthCtrl(db, models),
		},
	}, nil
}

func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
