package main

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/truthfi/truthfi/internal/adapters/http/api"
	service "github.com/truthfi/truthfi/internal/app"
	"github.com/truthfi/truthfi/internal/config"
)

func TestMainComponents(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When loading configuration from the environment", func() {
			t.Setenv("TRUTHFI_ADDR", ":8080")
			t.Setenv("TRUTHFI_QUEUE_SIZE", "500")
			t.Setenv("TRUTHFI_WORKER_COUNT", "4")

			cfg, err := config.Load(context.Background())

			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
		})

		convey.Convey("When creating the service", func() {
			convey.So(service.New(), convey.ShouldNotBeNil)
			convey.So(service.New(
				service.WithWorkerCount(8),
				service.WithQueueSize(2000),
				service.WithDedupeSize(1000),
			), convey.ShouldNotBeNil)
		})

		convey.Convey("When creating the HTTP server", func() {
			convey.So(api.NewServer(service.New()), convey.ShouldNotBeNil)
		})

		convey.Convey("When running the system metrics updater", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
