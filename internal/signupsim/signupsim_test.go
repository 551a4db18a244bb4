package signupsim

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mergington/activities/internal/adapters/http/api"
	service "github.com/mergington/activities/internal/app"
	"github.com/mergington/activities/pkg/logger"
)

func newTestServer(opts ...service.Option) (*httptest.Server, *service.Service) {
	svc := service.New(opts...)
	mux := http.NewServeMux()
	api.NewServer(svc, svc, nil).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:  baseURL,
		Activity: "Programming Class",
		Students: 40,
		Repeats:  3,
		Workers:  8,
		Timeout:  5 * time.Second,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running activities server", t, func() {
		So(logger.Init(logger.WithOutput(io.Discard)), ShouldBeNil)
		srv, svc := newTestServer()
		defer srv.Close()
		ctx := context.Background()

		Convey("When a simulation runs to completion", func() {
			cfg := testConfig(srv.URL)
			cfg.OutputFile = filepath.Join(t.TempDir(), "out", "emails.txt")
			stats, err := Run(ctx, cfg)

			Convey("Then every student should have been accepted exactly once per phase", func() {
				So(err, ShouldBeNil)
				So(stats.StudentsGenerated, ShouldEqual, 40)
				So(stats.Signups.OK, ShouldEqual, 40)
				So(stats.Signups.Duplicate, ShouldEqual, 80)
				So(stats.Unregisters.OK, ShouldEqual, 40)
				So(stats.Unregisters.NotFound, ShouldEqual, 80)
			})

			Convey("And the registry should be back to its seed roster", func() {
				all, err := svc.ListActivities(ctx)
				So(err, ShouldBeNil)
				So(all["Programming Class"].Participants, ShouldResemble,
					[]string{"emma@mergington.edu", "sophia@mergington.edu"})
			})

			Convey("And the generated emails should be saved", func() {
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)
				So(len(strings.Fields(string(data))), ShouldEqual, 40)
			})
		})

		Convey("When the activity does not exist", func() {
			cfg := testConfig(srv.URL)
			cfg.Activity = "Underwater Basket Weaving"
			_, err := Run(ctx, cfg)
			So(err, ShouldNotBeNil)
		})

		Convey("When the config is invalid", func() {
			cfg := testConfig(srv.URL)
			cfg.Workers = 0
			_, err := Run(ctx, cfg)
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a server enforcing a small capacity", t, func() {
		So(logger.Init(logger.WithOutput(io.Discard)), ShouldBeNil)
		srv, _ := newTestServer(service.WithCapacityEnforcement(true))
		defer srv.Close()

		Convey("When more students than seats sign up", func() {
			cfg := testConfig(srv.URL)
			cfg.Activity = "Math Club"
			_, err := Run(context.Background(), cfg)

			Convey("Then verification should report the capacity hits", func() {
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "capacity")
			})
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given server replies", t, func() {
		So(classify(http.StatusOK, []byte(`{"message":"Signed up"}`)), ShouldEqual, ResultOK)
		So(classify(http.StatusBadRequest, []byte(`{"detail":"a@b is already signed up for this activity"}`)), ShouldEqual, ResultDuplicate)
		So(classify(http.StatusBadRequest, []byte(`{"detail":"Activity is full"}`)), ShouldEqual, ResultFull)
		So(classify(http.StatusNotFound, []byte(`{"detail":"Activity not found"}`)), ShouldEqual, ResultNotFound)
		So(classify(http.StatusBadRequest, []byte(`garbage`)), ShouldEqual, ResultFailed)
		So(classify(http.StatusInternalServerError, nil), ShouldEqual, ResultFailed)
	})
}

func TestVerification(t *testing.T) {
	Convey("Given a roster", t, func() {
		roster := []string{"a@x", "b@x", "c@x"}

		Convey("Then presence should require each email exactly once", func() {
			So(verifyPresent(roster, []string{"a@x", "c@x"}), ShouldBeNil)
			So(errors.Is(verifyPresent(roster, []string{"z@x"}), ErrVerification), ShouldBeTrue)
			So(errors.Is(verifyPresent(append(roster, "a@x"), []string{"a@x"}), ErrVerification), ShouldBeTrue)
		})

		Convey("And absence should reject leftovers", func() {
			So(verifyAbsent(roster, []string{"z@x"}), ShouldBeNil)
			So(errors.Is(verifyAbsent(roster, []string{"b@x"}), ErrVerification), ShouldBeTrue)
		})

		Convey("And tallies should demand one acceptance per student", func() {
			So(verifyTally("signup", Tally{Submitted: 6, OK: 3, Duplicate: 3}, 3, 2), ShouldBeNil)
			So(verifyTally("signup", Tally{Submitted: 6, OK: 4, Duplicate: 2}, 3, 2), ShouldNotBeNil)
			So(verifyTally("signup", Tally{Submitted: 6, OK: 3, Duplicate: 2, Failed: 1}, 3, 2), ShouldNotBeNil)
		})
	})
}

func TestGeneration(t *testing.T) {
	Convey("Given generated students", t, func() {
		So(logger.Init(logger.WithOutput(io.Discard)), ShouldBeNil)
		emails := generateStudents(context.Background(), 50)

		Convey("Then every email should be distinct and on the school domain", func() {
			seen := map[string]bool{}
			for _, e := range emails {
				So(e, ShouldEndWith, "@"+EmailDomain)
				So(seen[e], ShouldBeFalse)
				seen[e] = true
			}
		})

		Convey("And expand should repeat each email per round", func() {
			out := expand(emails[:2], 3)
			So(out, ShouldResemble, []string{emails[0], emails[1], emails[0], emails[1], emails[0], emails[1]})
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var b strings.Builder
		ShowHelp(&b)
		So(b.String(), ShouldContainSubstring, "-students")
		So(b.String(), ShouldContainSubstring, "-activity")
	})
}
