package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger with a capture buffer", t, func() {
		var buf bytes.Buffer
		Init(&buf)
		ctx := context.Background()

		Convey("When an info message with fields is logged", func() {
			Get().Info(ctx, "analysis done", String("token", "BTC"), Int("posts", 12))

			Convey("Then the output carries message and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "analysis done")
				So(out, ShouldContainSubstring, "token=BTC")
				So(out, ShouldContainSubstring, "posts=12")
			})
		})

		Convey("When a named logger is used", func() {
			Named("collector").Warn(ctx, "slow response", Float64("seconds", 2.5))

			Convey("Then fields are grouped under the name", func() {
				So(buf.String(), ShouldContainSubstring, "collector.seconds=2.5")
			})
		})

		Convey("When an error field is attached", func() {
			Get().Error(ctx, "request failed", Error(errors.New("boom")))

			So(buf.String(), ShouldContainSubstring, "error=boom")
		})

		Convey("When the level is raised to error", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(ctx, "should be invisible")

			Convey("Then info messages are suppressed", func() {
				So(buf.String(), ShouldNotContainSubstring, "should be invisible")
			})

			SetLevel(slog.LevelInfo)
		})

		Convey("When an unknown level string is applied", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
