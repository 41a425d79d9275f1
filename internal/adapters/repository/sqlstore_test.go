package repository_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/hirefair/hirefair/internal/adapters/repository"
	"github.com/hirefair/hirefair/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newSQLStore(t *testing.T) *repository.SQLStore {
	t.Helper()
	s, err := repository.NewSQLStore(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLStore_Snapshots(t *testing.T) {
	Convey("Given an in-memory sqlite store", t, func() {
		s := newSQLStore(t)
		ctx := context.Background()

		Convey("When no roster exists", func() {
			_, err := s.Roster(ctx, "ev-1")

			Convey("Then Roster fails with ErrNotFound", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When a roster is stored twice", func() {
			So(s.PutRoster(ctx, sampleRoster()), ShouldBeNil)
			replacement := sampleRoster()
			replacement.Candidates = replacement.Candidates[:1]
			So(s.PutRoster(ctx, replacement), ShouldBeNil)

			Convey("Then the second snapshot replaces the first", func() {
				got, err := s.Roster(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(got.Candidates, ShouldHaveLength, 1)
				So(got.Companies, ShouldHaveLength, 2)
			})
		})

		Convey("When ratings contain duplicate triples", func() {
			So(s.PutRatings(ctx, model.RatingSnapshot{
				EventID: "ev-1",
				CandidateRatings: []model.CandidateRating{
					{CandidateID: "c1", CompanyID: "k1", Score: 2},
					{CandidateID: "c1", CompanyID: "k1", Score: 4, Comment: "updated"},
				},
				CompanyRatings: []model.CompanyRating{
					{CompanyID: "k1", CandidateID: "c1", Score: 3, RecruiterID: "r-1"},
				},
			}), ShouldBeNil)

			Convey("Then the latest write wins", func() {
				snap, err := s.Ratings(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(snap.CandidateRatings, ShouldHaveLength, 1)
				So(snap.CandidateRatings[0].Score, ShouldEqual, 4)
				So(snap.CandidateRatings[0].Comment, ShouldEqual, "updated")
				So(snap.CompanyRatings, ShouldHaveLength, 1)
				So(snap.CompanyRatings[0].RecruiterID, ShouldEqual, "r-1")
			})
		})
	})
}

func TestSQLStore_Sessions(t *testing.T) {
	Convey("Given an in-memory sqlite store with a roster", t, func() {
		s := newSQLStore(t)
		ctx := context.Background()
		So(s.PutRoster(ctx, sampleRoster()), ShouldBeNil)

		Convey("When no sessions exist", func() {
			got, err := s.Sessions(ctx, "ev-1")

			Convey("Then Sessions returns an empty list", func() {
				So(err, ShouldBeNil)
				So(got, ShouldBeEmpty)
			})
		})

		Convey("When the event is fully unknown", func() {
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

			Convey("Then Sessions lists newest first with warnings intact", func() {
				got, err := s.Sessions(ctx, "ev-1")
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].ID, ShouldEqual, "s-2")
				So(got[0].CreatedAt.Equal(now.Add(time.Minute)), ShouldBeTrue)
				So(got[0].Warnings, ShouldResemble, []string{"note"})
				So(got[1].ID, ShouldEqual, "s-1")
			})

			Convey("And Results returns rows ordered by round, seat, candidate", func() {
				rows, err := s.Results(ctx, "s-1")
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, firstRows)
				So(rows[1].SpecialInterview, ShouldBeTrue)
			})

			Convey("And a duplicate id leaves the original untouched", func() {
				conflict, conflictRows := sampleSession("s-1", now.Add(time.Hour))
				err := s.CreateSession(ctx, conflict, conflictRows)
				So(err, ShouldWrap, repository.ErrAlreadyExists)

				rows, err := s.Results(ctx, "s-1")
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
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
