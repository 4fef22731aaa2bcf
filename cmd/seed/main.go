// seed crea el usuario administrador y carga el catálogo inicial de proveedores y productos desde CSV.
//
// Uso: go run ./cmd/seed [-latin1] [-admin admin] [catalogo.csv]
// La contraseña del administrador se lee de SEED_ADMIN_PASSWORD. Sin CSV solo crea el administrador.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Farmacia-api/internal/infrastructure/seed"
	"github.com/jhoicas/Farmacia-api/internal/infrastructure/storage"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

func main() {
	adminUser := flag.String("admin", "admin", "usuario administrador a crear")
	adminName := flag.String("admin-name", "Administrador", "nombre visible del administrador")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1 (exportación de Excel)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir base de datos: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if password := os.Getenv("SEED_ADMIN_PASSWORD"); password != "" {
		created, err := seed.EnsureAdmin(ctx, store.Users, *adminUser, password, *adminName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear administrador: %v\n", err)
			os.Exit(1)
		}
		if created {
			fmt.Printf("Administrador %q creado\n", *adminUser)
		} else {
			fmt.Printf("Administrador %q ya existía\n", *adminUser)
		}
	} else {
		fmt.Println("SEED_ADMIN_PASSWORD vacío: no se crea administrador")
	}

	if flag.NArg() == 0 {
		return
	}
	csvPath := flag.Arg(0)
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	res, err := seed.NewLoader(store.Products, store.Suppliers, log).LoadCatalog(ctx, f, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar catálogo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cargado %s: %d proveedores, %d productos, %d filas omitidas\n", csvPath, res.Suppliers, res.Products, res.Skipped)
}
