package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dfmorales/puntoventa-api/internal/infrastructure/migration"
	"github.com/dfmorales/puntoventa-api/pkg/config"
	"github.com/dfmorales/puntoventa-api/pkg/logger"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "migrations", "directorio de migraciones")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	m, err := migration.New(cfg.DB.ConnectionString(), migrationsPath, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrator")
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("migrate up")
		}
	case "down":
		if err := m.Down(); err != nil {
			log.Fatal().Err(err).Msg("migrate down")
		}
	case "step":
		if len(args) < 2 {
			log.Fatal().Msg("uso: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal().Str("valor", args[1]).Msg("n inválido")
		}
		if err := m.Steps(n); err != nil {
			log.Fatal().Err(err).Msg("migrate step")
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("leer versión")
		}
		if version == 0 {
			log.Info().Msg("sin migraciones aplicadas")
		} else {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual")
		}
	case "force":
		if len(args) < 2 {
			log.Fatal().Msg("uso: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal().Str("valor", args[1]).Msg("versión inválida")
		}
		if err := m.Force(version); err != nil {
			log.Fatal().Err(err).Msg("migrate force")
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Herramienta de migraciones

Uso:
  migrate [-path dir] <comando> [argumentos]

Comandos:
  up               Aplica todas las migraciones pendientes
  down             Revierte todas las migraciones
  step <n>         Aplica n migraciones (negativo baja)
  version          Muestra la versión actual
  force <version>  Fija la versión sin migrar (reparar estado dirty)`)
}
