package main

import (
	"context"

	"evshare/internal/groups/handler"
	"evshare/internal/groups/repository"
	"evshare/internal/groups/service"
	"evshare/internal/groups/validator"
	"evshare/pkg/app"
	"evshare/pkg/config"
)

const ServiceName = "groups"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Groups service")
	groupService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewGroupHandler(groupService, cfg.Log),
	)
	serverApp.OnShutdown(cfg.Client.GracefulShutdown)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.GroupService {
	groupRepo := repository.NewMongoGroupRepository(cfg)
	ensureIndexes(cfg, groupRepo)

	groupValidator := validator.NewGroupValidator(cfg.Log)
	groupService := service.NewGroupService(
		groupRepo,
		groupValidator,
		cfg,
	)

	cfg.Log.Info("Group service initialized", "database", cfg.MongoDatabaseName)
	return groupService
}

func ensureIndexes(cfg *config.Config, groupRepo repository.GroupRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	if err := groupRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create group indexes", "error", err)
	}
}
