package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/hirefair/hirefair/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a config loader", t, func() {
		ctx := context.Background()

		Convey("When loading without overrides", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then defaults are applied", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.Store, ShouldEqual, config.StoreMemory)
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.DefaultRating, ShouldEqual, 3)
				So(cfg.SpecialMinRating, ShouldEqual, 5)
				So(cfg.MaxRoundCount, ShouldEqual, 20)
			})
		})

		Convey("When env vars override defaults", func() {
			_ = os.Setenv("HIREFAIR_ADDR", ":7070")
			_ = os.Setenv("HIREFAIR_STORE", "sqlite")
			_ = os.Setenv("HIREFAIR_MAX_ROUND_COUNT", "5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then the env values win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.Store, ShouldEqual, config.StoreSQLite)
				So(cfg.MaxRoundCount, ShouldEqual, 5)
			})
		})

		Convey("When a config file is provided", func() {
			path := createTempConfigFile("addr: \":6060\"\nspecial_min_rating: 4\n")
			defer func() { _ = os.Remove(path) }()
			_ = os.Setenv("HIREFAIR_CONFIG", path)
			defer clearConfigEnvVars()

			Convey("Then file values override defaults", func() {
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.SpecialMinRating, ShouldEqual, 4)
				So(cfg.Store, ShouldEqual, config.StoreMemory)
			})

			Convey("And env still wins over the file", func() {
				_ = os.Setenv("HIREFAIR_ADDR", ":5050")

				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
				So(cfg.SpecialMinRating, ShouldEqual, 4)
			})
		})

		Convey("When the config file is missing", func() {
			_ = os.Setenv("HIREFAIR_CONFIG", "/non/existent/hirefair.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then loading fails with ErrLoadFile", func() {
				So(err, ShouldWrap, config.ErrLoadFile)
			})
		})

		Convey("When values are invalid", func() {
			Convey("Then an unknown store is rejected", func() {
				_ = os.Setenv("HIREFAIR_STORE", "postgres")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})

			Convey("And an out-of-range default rating is rejected", func() {
				_ = os.Setenv("HIREFAIR_DEFAULT_RATING", "9")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})

			Convey("And a non-positive round cap is rejected", func() {
				_ = os.Setenv("HIREFAIR_MAX_ROUND_COUNT", "0")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				So(err, ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"HIREFAIR_CONFIG",
		"HIREFAIR_ADDR",
		"HIREFAIR_STORE",
		"HIREFAIR_SQLITE_PATH",
		"HIREFAIR_LOG_LEVEL",
		"HIREFAIR_LOG_JSON",
		"HIREFAIR_DEFAULT_RATING",
		"HIREFAIR_SPECIAL_MIN_RATING",
		"HIREFAIR_MAX_ROUND_COUNT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "hirefair-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
