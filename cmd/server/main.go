package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rayyanz/wa-blast-backend/internal/campaign"
	"github.com/rayyanz/wa-blast-backend/internal/config"
	"github.com/rayyanz/wa-blast-backend/internal/followup"
	"github.com/rayyanz/wa-blast-backend/internal/handler"
	"github.com/rayyanz/wa-blast-backend/internal/keyword"
	"github.com/rayyanz/wa-blast-backend/internal/leads"
	"github.com/rayyanz/wa-blast-backend/internal/license"
	"github.com/rayyanz/wa-blast-backend/internal/phone"
	"github.com/rayyanz/wa-blast-backend/internal/queue"
	"github.com/rayyanz/wa-blast-backend/internal/session"
	"github.com/rayyanz/wa-blast-backend/internal/store"
	"github.com/rayyanz/wa-blast-backend/internal/transport/simulated"
)

func main() {
	// Load .env when present; otherwise rely on OS environment variables.
	_ = godotenv.Load()
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	// Durable collection store.
	storeCfg := store.Config{Driver: cfg.StoreDriver, DataDir: cfg.DataDir}
	if cfg.StoreDriver == "postgres" {
		storeCfg.DSN = config.PostgresDSN()
	}
	st, err := store.Open(storeCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	norm := phone.New(cfg.CountryCode, cfg.TrunkPrefix)

	// Collections.
	fuQueue := followup.NewQueue(st, norm, log)
	if err := fuQueue.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load follow-up queue; starting empty")
	}
	journal := campaign.NewJournal(st, log)
	if err := journal.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load broadcast log; starting empty")
	}
	licenses := license.NewService(st, log)
	if err := licenses.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load licenses; starting empty")
	}
	keywords := keyword.NewService(st, log)
	if err := keywords.Load(); err != nil {
		log.Error().Err(err).Msg("failed to load keywords; starting empty")
	}

	// Sessions over the messaging transport.
	factory := simulated.NewFactory(simulated.Options{
		ScanDelay: cfg.SimScanDelay,
		FailRate:  cfg.SimFailRate,
	}, log)
	sessions := session.NewManager(factory, log)

	// Inbound stop-keyword handling.
	notifier := leads.NewNotifier(cfg.LeadsURL, log)
	inbound := followup.NewInboundHandler(fuQueue, norm, notifier, log)
	sessions.OnMessage(inbound.HandleMessage)

	sessions.Ensure(cfg.DefaultDevice)

	// Campaign engine behind the job queue.
	engine := campaign.NewEngine(sessions, fuQueue, journal, norm, nil, cfg.FallbackNames, log)

	jobs, err := queue.Open(queue.Config{Driver: cfg.QueueDriver, URL: cfg.AMQPURL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open job queue")
	}
	defer jobs.Close()

	if err := jobs.Subscribe(handler.BroadcastTopic, func(payload []byte) error {
		var req campaign.Request
		if err := json.Unmarshal(payload, &req); err != nil {
			log.Error().Err(err).Msg("dropping undecodable broadcast job")
			return nil
		}
		res, err := engine.Run(context.Background(), req)
		if err != nil {
			return err
		}
		log.Info().Int("sent", res.Sent).Int("failed", res.Failed).Int("skipped", res.Skipped).Msg("broadcast finished")
		return nil
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe broadcast consumer")
	}

	// Follow-up scheduler.
	scheduler := followup.NewScheduler(fuQueue, sessions, cfg.FollowupTick, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start follow-up scheduler")
	}
	defer scheduler.Stop()

	r := handler.NewRouter(handler.Deps{
		Device:    &handler.DeviceHandler{Sessions: sessions, QRSize: cfg.QRSize, Log: log},
		Message:   &handler.MessageHandler{Engine: engine, Log: log},
		Broadcast: &handler.BroadcastHandler{Jobs: jobs, Log: log},
		License:   &handler.LicenseHandler{Service: licenses, Log: log},
		Keyword:   &handler.KeywordHandler{Service: keywords, Sender: sessions, Norm: norm, Log: log},
	})

	log.Info().Str("port", cfg.Port).Msg("server running")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
