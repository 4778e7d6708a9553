package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/truthfi/truthfi/internal/domain/dedupe"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given an in-memory deduper", t, func() {
		ctx := context.Background()
		d := dedupe.New()

		Convey("When an ID is recorded for the first time", func() {
			seen := d.SeenAndRecord(ctx, "abc")

			Convey("Then it reports unseen and tracks it", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the same ID is recorded twice", func() {
			d.SeenAndRecord(ctx, "abc")
			seen := d.SeenAndRecord(ctx, "abc")

			Convey("Then the second call reports seen without growing", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When distinct IDs are recorded", func() {
			for i := 0; i < 5; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i)), ShouldBeFalse)
			}

			Convey("Then all are tracked", func() {
				So(d.Size(), ShouldEqual, 5)
			})
		})
	})
}

func TestEviction(t *testing.T) {
	Convey("Given a deduper bounded to three IDs", t, func() {
		ctx := context.Background()
		d := dedupe.New(dedupe.WithMaxSize(3))

		Convey("When a fourth ID arrives", func() {
			for _, id := range []string{"a", "b", "c", "d"} {
				d.SeenAndRecord(ctx, id)
			}

			Convey("Then the oldest ID is forgotten", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
			})
		})

		Convey("When eviction cycles through the full window", func() {
			for i := 0; i < 50; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
			}

			Convey("Then only the newest window survives", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "id-49"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "id-0"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a zero max size option", t, func() {
		Convey("Then the deduper is unbounded", func() {
			d := dedupe.New(dedupe.WithMaxSize(0))
			ctx := context.Background()
			for i := 0; i < 100; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
			}
			So(d.Size(), ShouldEqual, 100)
		})
	})
}

func TestConcurrentRecord(t *testing.T) {
	Convey("Given concurrent writers", t, func() {
		ctx := context.Background()
		d := dedupe.New()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					d.SeenAndRecord(ctx, fmt.Sprintf("id-%d", i))
				}
			}()
		}
		wg.Wait()

		Convey("Then each ID is counted once", func() {
			So(d.Size(), ShouldEqual, 100)
		})
	})
}
