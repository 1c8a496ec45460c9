package database

import (
	"context"
	"fmt"
	"log/slog"

	"levelup/internal/config"
	"levelup/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeAuto = "auto"
	SchemaModeNone = "none"
)

func normalizedSchemaMode(cfg *config.Config) string {
	if cfg.DBSchemaMode == "" {
		return SchemaModeAuto
	}
	return cfg.DBSchemaMode
}

// schemaPolicy reports whether AutoMigrate should run. Production needs an
// explicit opt-in before gorm touches the schema.
func schemaPolicy(cfg *config.Config) (runAuto bool, err error) {
	switch mode := normalizedSchemaMode(cfg); mode {
	case SchemaModeNone:
		return false, nil
	case SchemaModeAuto:
		if cfg.IsProduction() && !cfg.DBAllowProdAutoMigrate {
			return false, nil
		}
		return true, nil
	default:
		return false, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", mode)
	}
}

// ApplySchema runs AutoMigrate over PersistentModels when the policy allows it.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return err
	}
	if !runAuto {
		middleware.Logger.Info("Skipping AutoMigrate", slog.String("mode", normalizedSchemaMode(cfg)), slog.String("env", cfg.Env))
		return nil
	}

	middleware.Logger.Info("Running GORM AutoMigrate", slog.String("env", cfg.Env))
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// SchemaStatus describes what ApplySchema would do and which tables exist.
type SchemaStatus struct {
	Mode               string
	Environment        string
	WillRunAutoMigrate bool
	MissingTables      []string
}

// GetSchemaStatus reports the schema policy and any model tables not yet created.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	runAuto, err := schemaPolicy(cfg)
	if err != nil {
		return nil, err
	}
	status := &SchemaStatus{
		Mode:               normalizedSchemaMode(cfg),
		Environment:        cfg.Env,
		WillRunAutoMigrate: runAuto,
	}

	migrator := db.WithContext(ctx).Migrator()
	for _, model := range PersistentModels() {
		if migrator.HasTable(model) {
			continue
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		status.MissingTables = append(status.MissingTables, stmt.Schema.Table)
	}
	return status, nil
}
