package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SokolovEgor954/TheLastShelter/models"
)

func TestReviewAdd(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	dish := createMenuItem(t, db, "Borscht", 120, true)

	review, err := svc.Add(alice.ID, dish.ID, 5, "Best in town")
	require.NoError(t, err)
	require.NotNil(t, review.Comment)
	assert.Equal(t, "Best in town", *review.Comment)

	// A blank comment stays NULL rather than empty string.
	bob := createUser(t, db, "bob", models.RoleUser)
	review, err = svc.Add(bob.ID, dish.ID, 3, "")
	require.NoError(t, err)
	assert.Nil(t, review.Comment)
}

func TestReviewAddRatingBounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	dish := createMenuItem(t, db, "Borscht", 120, true)

	_, err := svc.Add(alice.ID, dish.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Add(alice.ID, dish.ID, 6, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewAddInactiveDish(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	retired := createMenuItem(t, db, "Retired dish", 500, false)

	_, err := svc.Add(alice.ID, retired.ID, 4, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewAddDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	dish := createMenuItem(t, db, "Borscht", 120, true)

	_, err := svc.Add(alice.ID, dish.ID, 5, "")
	require.NoError(t, err)

	_, err = svc.Add(alice.ID, dish.ID, 2, "changed my mind")
	assert.ErrorIs(t, err, ErrDuplicateReview)
}

func TestReviewDeletePermissions(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)
	admin := createUser(t, db, "boss", models.RoleAdmin)
	dish := createMenuItem(t, db, "Borscht", 120, true)

	review, err := svc.Add(alice.ID, dish.ID, 5, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(review.ID, bob), ErrForbidden)
	require.NoError(t, svc.Delete(review.ID, alice))

	// Once gone, the author can review again; an admin can remove that too.
	review, err = svc.Add(alice.ID, dish.ID, 4, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(review.ID, admin))

	assert.ErrorIs(t, svc.Delete(review.ID, admin), ErrNotFound)
}

func TestReviewAverage(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)
	dish := createMenuItem(t, db, "Borscht", 120, true)

	views, avg, err := svc.ForItem(dish.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Nil(t, avg)

	_, err = svc.Add(alice.ID, dish.ID, 5, "")
	require.NoError(t, err)
	_, err = svc.Add(bob.ID, dish.ID, 4, "")
	require.NoError(t, err)

	views, avg, err = svc.ForItem(dish.ID)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	require.NotNil(t, avg)
	assert.InDelta(t, 4.5, *avg, 0.001)

	reviewed, err := svc.HasReviewed(alice.ID, dish.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)
}
