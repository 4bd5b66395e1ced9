// Comando reconcile: recalcula los saldos desde el log de movimientos y reporta (o corrige con
// -apply) los que no coinciden.
//
// Códigos de salida: 0 sin diferencias o corregidas, 1 error, 2 diferencias sin corregir.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/resortes-api/internal/application/inventory"
	"github.com/jhoicas/resortes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/resortes-api/pkg/config"
	"github.com/jhoicas/resortes-api/pkg/logger"
)

func main() {
	apply := flag.Bool("apply", false, "sobrescribir los saldos distintos con el valor recalculado")
	timeout := flag.Duration("timeout", 2*time.Minute, "tiempo máximo de ejecución")
	flag.Parse()
	os.Exit(run(*apply, *timeout))
}

func run(apply bool, timeout time.Duration) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if cfg.Store.Driver != "postgres" {
		log.Error().Str("store", cfg.Store.Driver).Msg("reconcile solo aplica al ledger PostgreSQL")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return 1
	}
	defer pool.Close()

	uc := inventory.NewStockUseCase(postgres.NewLedgerRepository(pool), nil, nil, inventory.Options{}, log.Zerolog())
	res, err := uc.Reconcile(ctx, apply)
	if err != nil {
		return 1
	}
	for _, d := range res.Drift {
		fmt.Printf("%s\tguardado=%d\trecalculado=%d\n", d.PartID, d.Stored, d.Replayed)
	}
	if len(res.Drift) > 0 && !apply {
		return 2
	}
	return 0
}
