// Seeder creates an initial master license so a fresh deployment has a
// working key. Usage: seeder <email>
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/config"
	"github.com/rayyanz/wa-blast-backend/internal/license"
	"github.com/rayyanz/wa-blast-backend/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: seeder <email>")
	}
	email := os.Args[1]

	_ = godotenv.Load()
	cfg := config.Load()

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	storeCfg := store.Config{Driver: cfg.StoreDriver, DataDir: cfg.DataDir}
	if cfg.StoreDriver == "postgres" {
		storeCfg.DSN = config.PostgresDSN()
	}
	st, err := store.Open(storeCfg, zl)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	svc := license.NewService(st, zl)
	if err := svc.Load(); err != nil {
		log.Fatal(err)
	}

	lic, err := svc.Add(email, 1)
	if err != nil {
		log.Fatalf("failed to seed license: %v", err)
	}
	fmt.Printf("Seeded master license: %s\n", lic.LicenseKey)
}
