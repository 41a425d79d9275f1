package assign_test

import (
	"testing"

	assign "github.com/hirefair/hirefair/internal/domain/assign"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAssigner_Round(t *testing.T) {
	Convey("Given a new assigner", t, func() {
		a := assign.NewAssigner()

		Convey("When the weight matrix rewards a non-greedy matching", func() {
			// Greedy would take (0,0)=10 then be stuck with (1,1)=1 for 11.
			// The optimal total is (0,1)+(1,0) = 16.
			weights := [][]float64{
				{10, 8},
				{8, 1},
			}

			Convey("Then it should return the globally optimal matching", func() {
				res, err := a.Round(weights, nil)
				So(err, ShouldBeNil)
				So(res.Pairs, ShouldResemble, []assign.Pair{
					{Row: 0, Col: 1},
					{Row: 1, Col: 0},
				})
				So(res.Relaxed, ShouldBeEmpty)
			})
		})

		Convey("When all weights are equal", func() {
			weights := [][]float64{
				{3, 3, 3},
				{3, 3, 3},
				{3, 3, 3},
			}

			Convey("Then ties resolve toward the identity matching", func() {
				res, err := a.Round(weights, nil)
				So(err, ShouldBeNil)
				So(res.Pairs, ShouldResemble, []assign.Pair{
					{Row: 0, Col: 0},
					{Row: 1, Col: 1},
					{Row: 2, Col: 2},
				})
			})

			Convey("And repeated solves return the same matching", func() {
				first, err := a.Round(weights, nil)
				So(err, ShouldBeNil)
				for i := 0; i < 50; i++ {
					again, err := a.Round(weights, nil)
					So(err, ShouldBeNil)
					So(again, ShouldResemble, first)
				}
			})
		})

		Convey("When a pair is forbidden", func() {
			weights := [][]float64{
				{5, 5},
				{5, 5},
			}
			forbidden := map[assign.Pair]bool{{Row: 0, Col: 0}: true}

			Convey("Then the matching avoids it when alternatives exist", func() {
				res, err := a.Round(weights, forbidden)
				So(err, ShouldBeNil)
				So(res.Pairs, ShouldResemble, []assign.Pair{
					{Row: 0, Col: 1},
					{Row: 1, Col: 0},
				})
				So(res.Relaxed, ShouldBeEmpty)
			})
		})

		Convey("When a forbidden pair is the only option", func() {
			weights := [][]float64{{4}}
			forbidden := map[assign.Pair]bool{{Row: 0, Col: 0}: true}

			Convey("Then it is used and reported as relaxed", func() {
				res, err := a.Round(weights, forbidden)
				So(err, ShouldBeNil)
				So(res.Pairs, ShouldResemble, []assign.Pair{{Row: 0, Col: 0}})
				So(res.Relaxed, ShouldResemble, []assign.Pair{{Row: 0, Col: 0}})
			})
		})

		Convey("When there are more companies than candidates", func() {
			weights := [][]float64{
				{1, 9, 2},
				{1, 8, 2},
			}

			Convey("Then every candidate is matched to a distinct company", func() {
				res, err := a.Round(weights, nil)
				So(err, ShouldBeNil)
				So(res.Pairs, ShouldHaveLength, 2)
				So(res.Pairs[0].Col, ShouldNotEqual, res.Pairs[1].Col)
				// Optimal: (0,1)=9 and (1,2)=2 for 11 beats (0,2)+(1,1)=10.
				So(res.Pairs, ShouldResemble, []assign.Pair{
					{Row: 0, Col: 1},
					{Row: 1, Col: 2},
				})
			})
		})

		Convey("When there are more candidates than companies", func() {
			weights := [][]float64{
				{1, 1},
				{9, 1},
				{2, 8},
			}

			Convey("Then only the scarcer side's count of pairs is produced", func() {
				res, err := a.Round(weights, nil)
				So(err, ShouldBeNil)
				So(res.Pairs, ShouldResemble, []assign.Pair{
					{Row: 1, Col: 0},
					{Row: 2, Col: 1},
				})
			})
		})

		Convey("When the matrix is empty", func() {
			Convey("Then it should fail with ErrNoFeasibleMatching", func() {
				_, err := a.Round(nil, nil)
				So(err, ShouldWrap, assign.ErrNoFeasibleMatching)

				_, err = a.Round([][]float64{{}}, nil)
				So(err, ShouldWrap, assign.ErrNoFeasibleMatching)
			})
		})
	})
}

func TestAssigner_ForbiddenPenalty(t *testing.T) {
	Convey("Given an assigner with a custom penalty", t, func() {
		a := assign.NewAssigner(assign.WithForbiddenPenalty(1000))

		Convey("When a forbidden edge carries a huge weight", func() {
			weights := [][]float64{
				{900, 1},
				{1, 1},
			}
			forbidden := map[assign.Pair]bool{{Row: 0, Col: 0}: true}

			Convey("Then the penalty still demotes it below the alternatives", func() {
				res, err := a.Round(weights, forbidden)
				So(err, ShouldBeNil)
				So(res.Pairs, ShouldResemble, []assign.Pair{
					{Row: 0, Col: 1},
					{Row: 1, Col: 0},
				})
			})
		})
	})
}
