package reviews

import (
	"context"
	"strings"
	"testing"
	"time"

	"villfinder-backend/internal/application/listings"
	"villfinder-backend/internal/domain"
	"villfinder-backend/internal/infrastructure/cache"
	"villfinder-backend/internal/pkg/apperrors"
	"villfinder-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc    *Service
	db     *gorm.DB
	mr     *miniredis.Miniredis
	author *domain.UserProfile
	other  *domain.UserProfile
	rental *domain.Rental
	food   *domain.FoodEstablishment
}

func setupReviewsTest(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)
	owner := testutil.SeedProfile(t, db, "owner")
	f := &fixture{
		db:     db,
		mr:     mr,
		author: testutil.SeedProfile(t, db, "author"),
		other:  testutil.SeedProfile(t, db, "other"),
		rental: testutil.SeedRental(t, db, testutil.PlaceSeed{Owner: owner.ID, Name: "Bayview Rooms"}),
		food:   testutil.SeedFood(t, db, testutil.PlaceSeed{Owner: owner.ID, Name: "Lola's Kitchen"}),
	}
	f.svc = &Service{
		DB:       db,
		Listings: &listings.Service{DB: db},
		Counts:   &cache.Redis{Client: rdb},
		CountTTL: time.Hour,
		PageSize: 2,
	}
	return f
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func (f *fixture) rentalRef() domain.TargetRef {
	return domain.TargetRef{Kind: domain.KindRental, ID: f.rental.ID}
}

func TestUpsert_CreatesThenUpdatesInPlace(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()

	first, created, err := f.svc.Upsert(ctx, UpsertInput{
		ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID,
		Stars: intp(5), Comment: strp("Great place, very clean and friendly owner"),
	})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.SentimentLabel)
	assert.Equal(t, LabelPositive, *first.SentimentLabel)

	second, created, err := f.svc.Upsert(ctx, UpsertInput{
		ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID,
		Comment: strp("Turned out dirty and noisy, terrible"),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Turned out dirty and noisy, terrible", *second.Comment)
	assert.Equal(t, LabelNegative, *second.SentimentLabel)
	require.NotNil(t, second.Stars)
	assert.Equal(t, 5, *second.Stars, "stars are kept when omitted on update")

	var n int64
	f.db.Model(&domain.Review{}).Where("user_profile_id = ?", f.author.ID).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestUpsert_StarsBounds(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()

	for _, bad := range []int{0, 6} {
		_, _, err := f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(bad)})
		assert.True(t, apperrors.IsValidation(err), "stars=%d", bad)
	}
	_, _, err := f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(1)})
	require.NoError(t, err)
	_, _, err = f.svc.Upsert(ctx, UpsertInput{ProfileID: f.other.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(5)})
	require.NoError(t, err)
}

func TestUpsert_Validation(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()

	_, _, err := f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "hotel", TargetID: 1, Stars: intp(3)})
	assert.True(t, apperrors.IsValidation(err))

	_, _, err = f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Comment: strp("   ")})
	assert.True(t, apperrors.IsValidation(err), "needs stars or comment")

	f.svc.CommentMaxLength = 10
	_, _, err = f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Comment: strp(strings.Repeat("a", 11))})
	assert.True(t, apperrors.IsValidation(err))

	_, _, err = f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "foodestablishment", TargetID: 999, Stars: intp(3)})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpsert_StarsOnlyHasNoSentiment(t *testing.T) {
	f := setupReviewsTest(t)
	r, _, err := f.svc.Upsert(context.Background(), UpsertInput{ProfileID: f.author.ID, TargetKind: "food-establishment", TargetID: f.food.ID, Stars: intp(4)})
	require.NoError(t, err)
	assert.Equal(t, domain.KindFoodEstablishment, r.TargetKind)
	assert.Nil(t, r.Comment)
	assert.Nil(t, r.SentimentLabel)
	assert.Nil(t, r.SentimentScore)
}

func TestAggregates(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()
	ref := f.rentalRef()

	has, err := f.svc.HasReviewed(ctx, f.author.ID, ref)
	require.NoError(t, err)
	assert.False(t, has)
	got, err := f.svc.GetReview(ctx, f.author.ID, ref)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, _, err = f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(4)})
	require.NoError(t, err)

	has, err = f.svc.HasReviewed(ctx, f.author.ID, ref)
	require.NoError(t, err)
	assert.True(t, has)
	got, err = f.svc.GetReview(ctx, f.author.ID, ref)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, *got.Stars)

	n, err := f.svc.CountReviews(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.True(t, f.mr.Exists(countKey(ref)))

	counts, err := f.svc.CountsByTargets(ctx, domain.KindRental, []uint{f.rental.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[f.rental.ID])
	assert.Zero(t, counts[999])

	mine, err := f.svc.ByAuthorForTargets(ctx, f.author.ID, domain.KindRental, []uint{f.rental.ID})
	require.NoError(t, err)
	assert.Contains(t, mine, f.rental.ID)
}

func TestCountReviews_InvalidatedOnWrite(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()
	ref := f.rentalRef()

	n, err := f.svc.CountReviews(ctx, ref)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, f.mr.Exists(countKey(ref)))

	r, _, err := f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(2)})
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(countKey(ref)))

	n, err = f.svc.CountReviews(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, f.svc.Delete(ctx, r.ID, f.author.ID))
	n, err = f.svc.CountReviews(ctx, ref)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCountReviews_ForgottenWhenListingDeleted(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()
	ref := f.rentalRef()
	f.svc.Listings.OnDelete = append(f.svc.Listings.OnDelete, f.svc.ForgetTarget)

	_, _, err := f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(4)})
	require.NoError(t, err)
	n, err := f.svc.CountReviews(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.True(t, f.mr.Exists(countKey(ref)))

	require.NoError(t, f.svc.Listings.Delete(ctx, ref, f.rental.UserProfileID))
	assert.False(t, f.mr.Exists(countKey(ref)))
}

func TestDelete_OnlyAuthor(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()
	r, _, err := f.svc.Upsert(ctx, UpsertInput{ProfileID: f.author.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(3)})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, r.ID, f.other.ID)
	assert.True(t, apperrors.IsPermission(err))

	require.NoError(t, f.svc.Delete(ctx, r.ID, f.author.ID))
	err = f.svc.Delete(ctx, r.ID, f.author.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListByTargetAndSummary(t *testing.T) {
	f := setupReviewsTest(t)
	ctx := context.Background()
	third := testutil.SeedProfile(t, f.db, "third")
	for i, p := range []*domain.UserProfile{f.author, f.other, third} {
		_, _, err := f.svc.Upsert(ctx, UpsertInput{ProfileID: p.ID, TargetKind: "rental", TargetID: f.rental.ID, Stars: intp(3 + i)})
		require.NoError(t, err)
	}

	page, err := f.svc.ListByTarget(ctx, f.rentalRef(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	assert.Len(t, page.Results, 2)
	require.NotNil(t, page.Next)

	page2, err := f.svc.ListByTarget(ctx, f.rentalRef(), 2)
	require.NoError(t, err)
	assert.Len(t, page2.Results, 1)
	assert.Nil(t, page2.Next)

	sum, err := f.svc.Summary(ctx, f.rentalRef())
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum.Count)
	require.NotNil(t, sum.Average)
	assert.InDelta(t, 4.0, *sum.Average, 1e-9)
	assert.Equal(t, "Positive", *sum.Label)

	mine, err := f.svc.ListMine(ctx, f.author.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Count)

	empty, err := f.svc.Summary(ctx, domain.TargetRef{Kind: domain.KindFoodEstablishment, ID: f.food.ID})
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Nil(t, empty.Average)
	assert.Nil(t, empty.Label)
}
