package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/truthfi/truthfi/internal/config"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		ctx := context.Background()

		// Each leaf reruns this closure; clear the override variables so
		// env set by an earlier leaf never bleeds into a later one.
		for _, key := range []string{"TRUTHFI_ADDR", "TRUTHFI_WORKER_COUNT", "TRUTHFI_CONFIG"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		Convey("When nothing overrides the defaults", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults come back", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8000")
				So(cfg.DefaultPostLimit, ShouldEqual, 100)
				So(cfg.MaxBatchTokens, ShouldEqual, 10)
				So(cfg.Weights.Content, ShouldEqual, 0.40)
			})
		})

		Convey("When environment variables override fields", func() {
			t.Setenv("TRUTHFI_ADDR", ":9999")
			t.Setenv("TRUTHFI_WORKER_COUNT", "4")
			cfg, err := config.Load(ctx)

			Convey("Then env values win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9999")
				So(cfg.WorkerCount, ShouldEqual, 4)
			})
		})

		Convey("When a YAML file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			So(os.WriteFile(path, []byte("addr: \":7070\"\nqueue_size: 25\n"), 0o600), ShouldBeNil)
			t.Setenv("TRUTHFI_CONFIG", path)

			cfg, err := config.Load(ctx)

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.QueueSize, ShouldEqual, 25)
				So(cfg.DefaultPostLimit, ShouldEqual, 100)
			})

			Convey("And env still wins over the file", func() {
				t.Setenv("TRUTHFI_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
			})
		})

		Convey("When the config file does not exist", func() {
			t.Setenv("TRUTHFI_CONFIG", "/nonexistent/config.yaml")
			_, err := config.Load(ctx)

			Convey("Then loading fails with the load sentinel", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When validation fails", func() {
			Convey("An empty addr is rejected", func() {
				t.Setenv("TRUTHFI_ADDR", "")
				_, err := config.Load(ctx)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})

			Convey("Weights that do not sum to one are rejected", func() {
				dir := t.TempDir()
				path := filepath.Join(dir, "config.yaml")
				So(os.WriteFile(path, []byte("weights:\n  content: 0.9\n"), 0o600), ShouldBeNil)
				t.Setenv("TRUTHFI_CONFIG", path)
				_, err := config.Load(ctx)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When a later pass runs with no overrides of its own", func() {
			cfg, err := config.Load(ctx)

			Convey("Then earlier passes left no env behind", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8000")
				So(cfg.QueueSize, ShouldEqual, 1_000)
			})
		})
	})
}
