package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"prep_admin_backend/internal/model"
	"prep_admin_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func appendSection(t *testing.T, db *gorm.DB, lessonID uint, title string) *model.TestSection {
	t.Helper()
	section := &model.TestSection{LessonID: lessonID, Title: title, Type: model.SectionReadingPassage}
	err := AppendOrdered(context.Background(), db, SectionOrder, ParentScope(lessonID), section,
		func(s *model.TestSection, order int) { s.Order = order })
	require.NoError(t, err)
	return section
}

func sectionOrders(t *testing.T, db *gorm.DB, lessonID uint) map[uint]int {
	t.Helper()
	var sections []model.TestSection
	require.NoError(t, db.Where("lesson_id = ?", lessonID).Find(&sections).Error)
	out := make(map[uint]int, len(sections))
	for _, s := range sections {
		out[s.ID] = s.Order
	}
	return out
}

func titlesInOrder(t *testing.T, db *gorm.DB, lessonID uint) []string {
	t.Helper()
	var sections []model.TestSection
	require.NoError(t, db.Where("lesson_id = ?", lessonID).Order("sort_order").Find(&sections).Error)
	var titles []string
	for _, s := range sections {
		titles = append(titles, s.Title)
	}
	return titles
}

func assertDense(t *testing.T, orders []int) {
	t.Helper()
	sort.Ints(orders)
	for i, o := range orders {
		assert.Equal(t, i+1, o, "orders must be exactly 1..N: %v", orders)
	}
}

func TestAppendOrderedAssignsNextPosition(t *testing.T) {
	db := testutil.DB(t)
	lesson := testutil.CreateLesson(t, db, "Part 7")
	other := testutil.CreateLesson(t, db, "Part 5")

	first := appendSection(t, db, lesson.ID, "A")
	second := appendSection(t, db, lesson.ID, "B")
	elsewhere := appendSection(t, db, other.ID, "X")

	assert.Equal(t, 1, first.Order)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, 1, elsewhere.Order)
}

func TestAppendOrderedUsesMaxNotCount(t *testing.T) {
	db := testutil.DB(t)
	lesson := testutil.CreateLesson(t, db, "gappy")

	// a legacy row left a gap at 1..2
	require.NoError(t, db.Create(&model.TestSection{LessonID: lesson.ID, Title: "legacy", Type: model.SectionMCQGroup, Order: 3}).Error)

	next := appendSection(t, db, lesson.ID, "new")
	assert.Equal(t, 4, next.Order)
}

func TestAppendOrderedMissingParent(t *testing.T) {
	db := testutil.DB(t)
	section := &model.TestSection{LessonID: 999, Title: "orphan", Type: model.SectionMCQGroup}
	err := AppendOrdered(context.Background(), db, SectionOrder, ParentScope(999), section,
		func(s *model.TestSection, order int) { s.Order = order })
	require.ErrorIs(t, err, ErrParentNotFound)

	var count int64
	db.Model(&model.TestSection{}).Count(&count)
	assert.Zero(t, count)
}

func runConcurrentAppends(t *testing.T, db *gorm.DB, lessonID uint, n int) {
	t.Helper()
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			section := &model.TestSection{LessonID: lessonID, Title: fmt.Sprintf("s%d", i), Type: model.SectionMCQGroup}
			errs <- AppendOrdered(context.Background(), db, SectionOrder, ParentScope(lessonID), section,
				func(s *model.TestSection, order int) { s.Order = order })
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var orders []int
	require.NoError(t, db.Model(&model.TestSection{}).Where("lesson_id = ?", lessonID).Pluck("sort_order", &orders).Error)
	require.Len(t, orders, n)
	assertDense(t, orders)
}

func TestAppendOrderedConcurrentAppendsAreDense(t *testing.T) {
	db := testutil.DB(t)
	lesson := testutil.CreateLesson(t, db, "race")
	runConcurrentAppends(t, db, lesson.ID, 25)
}

func TestAppendOrderedConcurrentAppendsPostgres(t *testing.T) {
	db := testutil.PostgresDB(t)
	lesson := testutil.CreateLesson(t, db, "race")
	runConcurrentAppends(t, db, lesson.ID, 50)
}

func TestWeekScopeSeparatesWeeks(t *testing.T) {
	db := testutil.DB(t)
	path := testutil.CreatePath(t, db, "IELTS 6.5")

	add := func(week *int, title string) *model.CurriculumItem {
		item := &model.CurriculumItem{LearningPathID: path.ID, WeekNumber: week, Title: title}
		err := AppendOrdered(context.Background(), db, CurriculumOrder, WeekScope(path.ID, week), item,
			func(c *model.CurriculumItem, order int) { c.OrderIndex = model.IntPtr(order) })
		require.NoError(t, err)
		return item
	}

	w1a := add(model.IntPtr(1), "w1a")
	w1b := add(model.IntPtr(1), "w1b")
	w2a := add(model.IntPtr(2), "w2a")
	none := add(nil, "unscheduled")
	none2 := add(nil, "unscheduled 2")

	assert.Equal(t, 1, w1a.Order())
	assert.Equal(t, 2, w1b.Order())
	assert.Equal(t, 1, w2a.Order())
	assert.Equal(t, 1, none.Order())
	assert.Equal(t, 2, none2.Order())
}

func TestReorderOrdered(t *testing.T) {
	db := testutil.DB(t)
	lesson := testutil.CreateLesson(t, db, "reorder")
	a := appendSection(t, db, lesson.ID, "A")
	b := appendSection(t, db, lesson.ID, "B")
	c := appendSection(t, db, lesson.ID, "C")

	ctx := context.Background()
	require.NoError(t, ReorderOrdered(ctx, db, SectionOrder, ParentScope(lesson.ID), []uint{c.ID, a.ID, b.ID}))
	assert.Equal(t, []string{"C", "A", "B"}, titlesInOrder(t, db, lesson.ID))
	assert.Equal(t, map[uint]int{c.ID: 1, a.ID: 2, b.ID: 3}, sectionOrders(t, db, lesson.ID))

	err := ReorderOrdered(ctx, db, SectionOrder, ParentScope(lesson.ID), []uint{a.ID, b.ID})
	assert.ErrorIs(t, err, ErrOrderMismatch)
	err = ReorderOrdered(ctx, db, SectionOrder, ParentScope(lesson.ID), []uint{a.ID, a.ID, b.ID})
	assert.ErrorIs(t, err, ErrOrderMismatch)
	assert.Equal(t, []string{"C", "A", "B"}, titlesInOrder(t, db, lesson.ID))
}

func TestMoveOrdered(t *testing.T) {
	db := testutil.DB(t)
	lesson := testutil.CreateLesson(t, db, "move")
	a := appendSection(t, db, lesson.ID, "A")
	appendSection(t, db, lesson.ID, "B")
	c := appendSection(t, db, lesson.ID, "C")

	ctx := context.Background()
	scope := ParentScope(lesson.ID)

	require.NoError(t, MoveOrdered(ctx, db, SectionOrder, scope, a.ID, 1))
	assert.Equal(t, []string{"B", "A", "C"}, titlesInOrder(t, db, lesson.ID))

	require.NoError(t, MoveOrdered(ctx, db, SectionOrder, scope, c.ID, -10))
	assert.Equal(t, []string{"C", "B", "A"}, titlesInOrder(t, db, lesson.ID))

	// already last, clamped
	require.NoError(t, MoveOrdered(ctx, db, SectionOrder, scope, a.ID, 1))
	assert.Equal(t, []string{"C", "B", "A"}, titlesInOrder(t, db, lesson.ID))

	err := MoveOrdered(ctx, db, SectionOrder, scope, 12345, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemoveOrderedClosesGapAndRunsCascade(t *testing.T) {
	db := testutil.DB(t)
	lesson := testutil.CreateLesson(t, db, "remove")
	a := appendSection(t, db, lesson.ID, "A")
	b := appendSection(t, db, lesson.ID, "B")
	c := appendSection(t, db, lesson.ID, "C")

	require.NoError(t, db.Create(&model.Question{SectionID: b.ID, QuestionText: "q", Order: 1}).Error)

	cascaded := false
	err := RemoveOrdered(context.Background(), db, SectionOrder, ParentScope(lesson.ID), b.ID, func(tx *gorm.DB) error {
		cascaded = true
		return tx.Where("section_id = ?", b.ID).Delete(&model.Question{}).Error
	})
	require.NoError(t, err)
	assert.True(t, cascaded)

	assert.Equal(t, map[uint]int{a.ID: 1, c.ID: 2}, sectionOrders(t, db, lesson.ID))
	var questions int64
	db.Model(&model.Question{}).Where("section_id = ?", b.ID).Count(&questions)
	assert.Zero(t, questions)

	next := appendSection(t, db, lesson.ID, "D")
	assert.Equal(t, 3, next.Order)
}

func TestRemoveOrderedCascadeFailureRollsBack(t *testing.T) {
	db := testutil.DB(t)
	lesson := testutil.CreateLesson(t, db, "rollback")
	a := appendSection(t, db, lesson.ID, "A")
	appendSection(t, db, lesson.ID, "B")

	boom := fmt.Errorf("boom")
	err := RemoveOrdered(context.Background(), db, SectionOrder, ParentScope(lesson.ID), a.ID, func(tx *gorm.DB) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"A", "B"}, titlesInOrder(t, db, lesson.ID))
}

func TestRelocateOrderedMovesBetweenWeeks(t *testing.T) {
	db := testutil.DB(t)
	path := testutil.CreatePath(t, db, "TOEIC 750")
	ctx := context.Background()

	var week1 []*model.CurriculumItem
	for i := 0; i < 3; i++ {
		item := &model.CurriculumItem{LearningPathID: path.ID, WeekNumber: model.IntPtr(1), Title: fmt.Sprintf("w1-%d", i)}
		require.NoError(t, AppendOrdered(ctx, db, CurriculumOrder, WeekScope(path.ID, item.WeekNumber), item,
			func(c *model.CurriculumItem, order int) { c.OrderIndex = model.IntPtr(order) }))
		week1 = append(week1, item)
	}
	w2 := &model.CurriculumItem{LearningPathID: path.ID, WeekNumber: model.IntPtr(2), Title: "w2-0"}
	require.NoError(t, AppendOrdered(ctx, db, CurriculumOrder, WeekScope(path.ID, w2.WeekNumber), w2,
		func(c *model.CurriculumItem, order int) { c.OrderIndex = model.IntPtr(order) }))

	moving := week1[0]
	err := RelocateOrdered(ctx, db, CurriculumOrder, WeekScope(path.ID, model.IntPtr(1)), WeekScope(path.ID, model.IntPtr(2)), moving.ID,
		func(tx *gorm.DB, order int) error {
			return tx.Model(&model.CurriculumItem{}).Where("id = ?", moving.ID).
				Updates(map[string]interface{}{"week_number": 2, "order_index": order}).Error
		})
	require.NoError(t, err)

	var items []model.CurriculumItem
	require.NoError(t, db.Where("learning_path_id = ?", path.ID).Find(&items).Error)
	got := map[string][2]int{}
	for _, it := range items {
		got[it.Title] = [2]int{it.Week(), it.Order()}
	}
	assert.Equal(t, map[string][2]int{
		"w1-0": {2, 2},
		"w1-1": {1, 1},
		"w1-2": {1, 2},
		"w2-0": {2, 1},
	}, got)
}

func TestMoveID(t *testing.T) {
	ids := []uint{1, 2, 3, 4}
	assert.Equal(t, []uint{2, 3, 1, 4}, moveID(ids, 0, 2))
	assert.Equal(t, []uint{1, 4, 2, 3}, moveID(ids, 3, 1))
	assert.Equal(t, []uint{1, 2, 3, 4}, ids)
}
