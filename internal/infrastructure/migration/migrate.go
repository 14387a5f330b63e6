package migration

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
)

// Migrator aplica migraciones SQL con golang-migrate.
type Migrator struct {
	migrate *migrate.Migrate
	log     zerolog.Logger
}

// New construye el migrator desde el DSN y el directorio de migraciones.
func New(databaseURL, migrationsPath string, log zerolog.Logger) (*Migrator, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("crear migrate: %w", err)
	}
	return &Migrator{migrate: m, log: log}, nil
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up() error {
	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("sin migraciones pendientes")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, _ := m.migrate.Version()
	m.log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// Down revierte todas las migraciones.
func (m *Migrator) Down() error {
	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("nada que revertir")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	m.log.Info().Msg("migraciones revertidas")
	return nil
}

// Steps aplica n migraciones (positivo sube, negativo baja).
func (m *Migrator) Steps(n int) error {
	err := m.migrate.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info().Msg("sin cambios")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate steps: %w", err)
	}
	return nil
}

// Version devuelve la versión actual (0 si no hay migraciones aplicadas).
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("leer versión: %w", err)
	}
	return version, dirty, nil
}

// Force fija la versión sin ejecutar migraciones (reparar estado dirty).
func (m *Migrator) Force(version int) error {
	m.log.Warn().Int("version", version).Msg("forzando versión de migración")
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("forzar versión %d: %w", version, err)
	}
	return nil
}

// Close libera los recursos del migrator.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return sourceErr
	}
	return dbErr
}
