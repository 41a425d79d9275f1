package repository_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/hirefair/hirefair/internal/adapters/repository"
	"github.com/hirefair/hirefair/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleRoster() model.Roster {
	return model.Roster{
		EventID: "ev-1",
		Candidates: []model.Candidate{
			{ID: "c1", Name: "Tanaka", Kana: "タナカ", Seat: "A-1"},
			{ID: "c2", Name: "Sato", Kana: "サトウ", Seat: "A-2"},
		},
		Companies: []model.Company{
			{ID: "k1", Name: "Acme"},
			{ID: "k2", Name: "Beta Inc"},
		},
	}
}

func sampleSession(id string, createdAt time.Time) (model.Session, []model.ResultRow) {
	sess := model.Session{
		ID:              id,
		EventID:         "ev-1",
		CreatedAt:       createdAt,
		RoundCount:      1,
		CompanyWeight:   1,
		CandidateWeight: 1,
		Warnings:        []string{"note"},
	}
	rows := []model.ResultRow{
		{SessionID: id, Round: 1, SeatNumber: "A-1", CandidateID: "c1", CandidateName: "Tanaka",
			CandidateKana: "タナカ", CompanyID: "k1", CompanyName: "Acme", CombinedScore: 6},
		{SessionID: id, Round: 1, SeatNumber: "A-2", CandidateID: "c2", CandidateName: "Sato",
			CandidateKana: "サトウ", CompanyID: "k2", CompanyName: "Beta Inc", CombinedScore: 6, SpecialInterview: true},
	}
	return sess, rows
}

func TestMemoryStore_Snapshots(t *testing.T) {
	Convey("Given an empty memory store", t, func() {
		s := repository.NewMemoryStore()
		ctx := context.Background()

		Convey("When no roster exists", func() {
			_, err := s.Roster(ctx, "ev-1")

			Convey("Then Roster fails with ErrNotFound", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When a roster is stored", func() {
			So(s.PutRoster(ctx, sampleRoster()), ShouldBeNil)

			Convey("Then it round-trips", func() {
				got, err := s.Roster(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(got, ShouldResemble, sampleRoster())
			})

			Convey("And mutating the returned copy leaves the store intact", func() {
				got, err := s.Roster(ctx, "ev-1")
				So(err, ShouldBeNil)
				got.Candidates[0].Name = "mutated"

				again, err := s.Roster(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(again.Candidates[0].Name, ShouldEqual, "Tanaka")
			})
		})

		Convey("When no ratings exist", func() {
			snap, err := s.Ratings(ctx, "ev-1")

			Convey("Then an empty snapshot is returned without error", func() {
				So(err, ShouldBeNil)
				So(snap.CandidateRatings, ShouldBeEmpty)
				So(snap.CompanyRatings, ShouldBeEmpty)
			})
		})

		Convey("When the same triple is rated twice", func() {
			So(s.PutRatings(ctx, model.RatingSnapshot{
				EventID: "ev-1",
				CandidateRatings: []model.CandidateRating{
					{CandidateID: "c1", CompanyID: "k1", Score: 2, Comment: "first"},
					{CandidateID: "c1", CompanyID: "k1", Score: 5, Comment: "second"},
				},
			}), ShouldBeNil)

			Convey("Then the latest write wins", func() {
				snap, err := s.Ratings(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(snap.CandidateRatings, ShouldHaveLength, 1)
				So(snap.CandidateRatings[0].Score, ShouldEqual, 5)
				So(snap.CandidateRatings[0].Comment, ShouldEqual, "second")
			})
		})
	})
}

func TestMemoryStore_Sessions(t *testing.T) {
	Convey("Given a memory store with a roster", t, func() {
		s := repository.NewMemoryStore()
		ctx := context.Background()
		So(s.PutRoster(ctx, sampleRoster()), ShouldBeNil)

		Convey("When an event has a roster but no sessions", func() {
			got, err := s.Sessions(ctx, "ev-1")

			Convey("Then Sessions returns an empty list", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When an event is fully unknown", func() {
			_, err := s.Sessions(ctx, "ghost")

			Convey("Then Sessions fails with ErrNotFound", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When sessions are created", func() {
			now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
			first, firstRows := sampleSession("s-1", now)
			second, secondRows := sampleSession("s-2", now.Add(time.Minute))
			So(s.CreateSession(ctx, first, firstRows), ShouldBeNil)
			So(s.CreateSession(ctx, second, secondRows), ShouldBeNil)

			Convey("Then Sessions lists newest first", func() {
				got, err := s.Sessions(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].ID, ShouldEqual, "s-2")
				So(got[1].ID, ShouldEqual, "s-1")
			})

			Convey("And Results returns the persisted rows", func() {
				rows, err := s.Results(ctx, "s-1")
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, firstRows)
			})

			Convey("And a duplicate id is rejected", func() {
				err := s.CreateSession(ctx, first, firstRows)
				So(err, ShouldWrap, repository.ErrAlreadyExists)
			})

			Convey("And mutating returned rows leaves the store intact", func() {
				rows, err := s.Results(ctx, "s-1")
				So(err, ShouldBeNil)
				rows[0].CandidateName = "mutated"

				again, err := s.Results(ctx, "s-1")
				So(err, ShouldBeNil)
				So(again[0].CandidateName, ShouldEqual, "Tanaka")
			})
		})

		Convey("When querying an unknown session", func() {
			_, err := s.Results(ctx, "ghost")

			Convey("Then Results fails with ErrNotFound", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})
	})
}
