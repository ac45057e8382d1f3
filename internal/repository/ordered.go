package repository

import (
	"context"
	"fmt"

	"prep_admin_backend/pkg/monitoring"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrParentNotFound is returned when the parent row of an ordered child is absent.
	ErrParentNotFound = errors.New("parent row not found")
	// ErrOrderMismatch is returned when a reorder request is not a permutation of the scope.
	ErrOrderMismatch = errors.New("ordered ids do not match the collection")
)

// OrderedCollection describes a child table whose rows carry a 1..N position
// within their parent.
type OrderedCollection struct {
	Name         string
	Table        string
	ParentTable  string
	ParentColumn string
	OrderColumn  string
}

var (
	SectionOrder = OrderedCollection{
		Name:         "test_sections",
		Table:        "test_sections",
		ParentTable:  "lessons",
		ParentColumn: "lesson_id",
		OrderColumn:  "sort_order",
	}
	QuestionOrder = OrderedCollection{
		Name:         "questions",
		Table:        "questions",
		ParentTable:  "test_sections",
		ParentColumn: "section_id",
		OrderColumn:  "sort_order",
	}
	PathItemOrder = OrderedCollection{
		Name:         "path_items",
		Table:        "path_items",
		ParentTable:  "learning_paths",
		ParentColumn: "path_id",
		OrderColumn:  "item_order",
	}
	CurriculumOrder = OrderedCollection{
		Name:         "curriculum_items",
		Table:        "curriculum_items",
		ParentTable:  "learning_paths",
		ParentColumn: "learning_path_id",
		OrderColumn:  "order_index",
	}
	ExerciseQuestionOrder = OrderedCollection{
		Name:         "exercise_questions",
		Table:        "exercise_questions",
		ParentTable:  "exercises",
		ParentColumn: "exercise_id",
		OrderColumn:  "sort_order",
	}
)

// OrderScope selects the siblings a position is counted among: every child
// of ParentID matching the Extra predicates.
type OrderScope struct {
	ParentID uint
	Extra    []clause.Expression
}

func ParentScope(parentID uint) OrderScope {
	return OrderScope{ParentID: parentID}
}

// WeekScope narrows a curriculum scope to one week; a nil week matches rows
// stored without a week.
func WeekScope(pathID uint, week *int) OrderScope {
	var value interface{}
	if week != nil {
		value = *week
	}
	return OrderScope{
		ParentID: pathID,
		Extra:    []clause.Expression{clause.Eq{Column: clause.Column{Name: "week_number"}, Value: value}},
	}
}

func (c OrderedCollection) scoped(tx *gorm.DB, scope OrderScope) *gorm.DB {
	q := tx.Table(c.Table).Where(clause.Eq{Column: clause.Column{Name: c.ParentColumn}, Value: scope.ParentID})
	for _, expr := range scope.Extra {
		q = q.Where(expr)
	}
	return q
}

// lockParent takes a row lock on the parent so concurrent writers on the same
// parent queue behind each other. sqlite ignores the FOR UPDATE clause and
// serialises writers on its own.
func (c OrderedCollection) lockParent(tx *gorm.DB, parentID uint) error {
	var ids []uint
	err := tx.Table(c.ParentTable).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", parentID).
		Pluck("id", &ids).Error
	if err != nil {
		return errors.Wrapf(err, "lock %s %d", c.ParentTable, parentID)
	}
	if len(ids) == 0 {
		return ErrParentNotFound
	}
	return nil
}

func (c OrderedCollection) maxOrder(tx *gorm.DB, scope OrderScope) (int, error) {
	var max int
	row := c.scoped(tx, scope).Select(fmt.Sprintf("COALESCE(MAX(%s), 0)", c.OrderColumn)).Row()
	if err := row.Scan(&max); err != nil {
		return 0, errors.Wrapf(err, "read max %s of %s", c.OrderColumn, c.Table)
	}
	return max, nil
}

func (c OrderedCollection) orderedIDs(tx *gorm.DB, scope OrderScope) ([]uint, error) {
	var ids []uint
	err := c.scoped(tx, scope).Order(c.OrderColumn+" ASC").Order("id ASC").Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", c.Table)
	}
	return ids, nil
}

// renumber assigns 1..N following ids. Rows first move to negative staging
// values so the unique (parent, order) index never sees a transient clash.
func (c OrderedCollection) renumber(tx *gorm.DB, ids []uint) error {
	for i, id := range ids {
		if err := tx.Table(c.Table).Where("id = ?", id).UpdateColumn(c.OrderColumn, -(i + 1)).Error; err != nil {
			return errors.Wrapf(err, "stage %s %d", c.Table, id)
		}
	}
	for i, id := range ids {
		if err := tx.Table(c.Table).Where("id = ?", id).UpdateColumn(c.OrderColumn, i+1).Error; err != nil {
			return errors.Wrapf(err, "renumber %s %d", c.Table, id)
		}
	}
	return nil
}

// AppendOrdered inserts row as the last child of scope. The next position is
// MAX(order)+1 read under a lock on the parent row, inside the same
// transaction as the insert, so concurrent appends produce exactly 1..N.
func AppendOrdered[T any](ctx context.Context, db *gorm.DB, coll OrderedCollection, scope OrderScope, row *T, assign func(*T, int)) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := coll.lockParent(tx, scope.ParentID); err != nil {
			return err
		}
		max, err := coll.maxOrder(tx, scope)
		if err != nil {
			return err
		}
		assign(row, max+1)
		if err := tx.Create(row).Error; err != nil {
			return errors.Wrapf(err, "insert %s", coll.Table)
		}
		return nil
	})

	result := "ok"
	if err != nil {
		result = "error"
	}
	monitoring.OrderedAppendTotal.WithLabelValues(coll.Name, result).Inc()
	return err
}

// ReorderOrdered renumbers the scope to follow orderedIDs, which must list
// every child of the scope exactly once.
func ReorderOrdered(ctx context.Context, db *gorm.DB, coll OrderedCollection, scope OrderScope, orderedIDs []uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := coll.lockParent(tx, scope.ParentID); err != nil {
			return err
		}
		current, err := coll.orderedIDs(tx, scope)
		if err != nil {
			return err
		}
		if !isPermutation(current, orderedIDs) {
			return ErrOrderMismatch
		}
		return coll.renumber(tx, orderedIDs)
	})
}

// MoveOrdered shifts one child delta positions, clamped to the ends of the scope.
func MoveOrdered(ctx context.Context, db *gorm.DB, coll OrderedCollection, scope OrderScope, id uint, delta int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := coll.lockParent(tx, scope.ParentID); err != nil {
			return err
		}
		ids, err := coll.orderedIDs(tx, scope)
		if err != nil {
			return err
		}
		from := indexOf(ids, id)
		if from < 0 {
			return gorm.ErrRecordNotFound
		}
		to := from + delta
		if to < 0 {
			to = 0
		}
		if to > len(ids)-1 {
			to = len(ids) - 1
		}
		if to == from {
			return nil
		}
		return coll.renumber(tx, moveID(ids, from, to))
	})
}

// RemoveOrdered deletes one child and closes the gap it leaves. before runs
// inside the transaction ahead of the delete, for cascading child rows.
func RemoveOrdered(ctx context.Context, db *gorm.DB, coll OrderedCollection, scope OrderScope, id uint, before func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := coll.lockParent(tx, scope.ParentID); err != nil {
			return err
		}
		ids, err := coll.orderedIDs(tx, scope)
		if err != nil {
			return err
		}
		at := indexOf(ids, id)
		if at < 0 {
			return gorm.ErrRecordNotFound
		}
		if before != nil {
			if err := before(tx); err != nil {
				return err
			}
		}
		if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", coll.Table), id).Error; err != nil {
			return errors.Wrapf(err, "delete %s %d", coll.Table, id)
		}
		rest := append(append([]uint{}, ids[:at]...), ids[at+1:]...)
		return coll.renumber(tx, rest)
	})
}

// RelocateOrdered moves a child from one scope to the end of another under
// the same parent (a curriculum item changing week). update writes the row
// with its new position; the source scope is then renumbered.
func RelocateOrdered(ctx context.Context, db *gorm.DB, coll OrderedCollection, from, to OrderScope, id uint, update func(tx *gorm.DB, order int) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := coll.lockParent(tx, from.ParentID); err != nil {
			return err
		}
		ids, err := coll.orderedIDs(tx, from)
		if err != nil {
			return err
		}
		at := indexOf(ids, id)
		if at < 0 {
			return gorm.ErrRecordNotFound
		}
		max, err := coll.maxOrder(tx, to)
		if err != nil {
			return err
		}
		if err := update(tx, max+1); err != nil {
			return err
		}
		rest := append(append([]uint{}, ids[:at]...), ids[at+1:]...)
		return coll.renumber(tx, rest)
	})
}

func indexOf(ids []uint, id uint) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func moveID(ids []uint, from, to int) []uint {
	out := make([]uint, 0, len(ids))
	moved := ids[from]
	for i, v := range ids {
		if i == from {
			continue
		}
		if i == to && to < from {
			out = append(out, moved)
		}
		out = append(out, v)
		if i == to && to > from {
			out = append(out, moved)
		}
	}
	return out
}

func isPermutation(current, proposed []uint) bool {
	if len(current) != len(proposed) {
		return false
	}
	seen := make(map[uint]bool, len(current))
	for _, id := range current {
		seen[id] = true
	}
	for _, id := range proposed {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}
