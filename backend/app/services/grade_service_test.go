package services

import (
	"context"
	"gradebook/backend/app/apperr"
	"gradebook/backend/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scores(v ...int) models.Scores {
	return models.Scores{PureMaths: v[0], Chemistry: v[1], Biology: v[2], ComputerScience: v[3], Physics: v[4]}
}

func TestGradeService_Upsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	a := f.create(t, models.RoleStudent, "ada", "pw")

	_, err := f.gradeSvc.ForStudent(ctx, a.ID)
	requireCode(t, err, apperr.CodeNotFound)

	created, err := f.gradeSvc.Upsert(ctx, a.ID, scores(1, 2, 3, 4, 5))
	require.NoError(t, err)
	assert.Equal(t, scores(1, 2, 3, 4, 5), created.Scores)

	updated, err := f.gradeSvc.Upsert(ctx, a.ID, scores(20, 0, 19, 1, 18))
	require.NoError(t, err)
	assert.Equal(t, scores(20, 0, 19, 1, 18), updated.Scores)

	got, err := f.gradeSvc.ForStudent(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, scores(20, 0, 19, 1, 18), got.Scores)

	for _, bad := range []models.Scores{scores(21, 0, 0, 0, 0), scores(0, 0, 0, 0, -1), scores(0, 0, 100, 0, 0)} {
		_, err := f.gradeSvc.Upsert(ctx, a.ID, bad)
		requireCode(t, err, apperr.CodeRangeViolation)
		assert.Equal(t, "Grade value exceeds the allowed range (0-20).", apperr.Message(err))
	}

	got, err = f.gradeSvc.ForStudent(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, scores(20, 0, 19, 1, 18), got.Scores, "rejected upserts leave data unchanged")

	t.Run("unknown student", func(t *testing.T) {
		_, err := f.gradeSvc.Upsert(ctx, a.ID+100, scores(1, 1, 1, 1, 1))
		requireCode(t, err, apperr.CodeNotFound)
	})
}

func TestGradeService_TopStudents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	marks := map[string]models.Scores{
		"a": scores(10, 10, 10, 10, 10),
		"b": scores(20, 20, 20, 20, 19),
		"c": scores(5, 5, 5, 5, 5),
		"d": scores(15, 15, 15, 15, 15),
		"e": scores(18, 15, 12, 20, 16),
		"f": scores(0, 0, 0, 0, 1),
	}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		acct := f.create(t, models.RoleStudent, name, "pw")
		_, err := f.gradeSvc.Upsert(ctx, acct.ID, marks[name])
		require.NoError(t, err)
	}
	f.create(t, models.RoleStudent, "nograde", "pw")

	top, err := f.gradeSvc.TopStudents(ctx)
	require.NoError(t, err)
	require.Len(t, top, TopStudentsLimit)

	var order []string
	for i, r := range top {
		order = append(order, r.Username)
		if i > 0 {
			assert.GreaterOrEqual(t, top[i-1].AverageMarks, r.AverageMarks)
		}
	}
	assert.Equal(t, []string{"b", "e", "d", "a", "c"}, order)
	assert.InDelta(t, 16.2, top[1].AverageMarks, 1e-9)

	all, err := f.gradeSvc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
