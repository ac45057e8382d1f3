package service

import (
	"sort"

	"prep_admin_backend/internal/model"
)

// WeekGroup is the curriculum of one week, in display order.
type WeekGroup struct {
	Week  int                    `json:"week"`
	Items []model.CurriculumItem `json:"items"`
}

// GroupCurriculumByWeek groups items by week ascending, items without a week
// falling into week 0, and sorts each week by order index (NULL as 0).
// Items with equal order index keep their input order.
func GroupCurriculumByWeek(items []model.CurriculumItem) []WeekGroup {
	byWeek := make(map[int][]model.CurriculumItem)
	for _, item := range items {
		w := item.Week()
		byWeek[w] = append(byWeek[w], item)
	}

	weeks := make([]int, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	groups := make([]WeekGroup, 0, len(weeks))
	for _, w := range weeks {
		list := byWeek[w]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Order() < list[j].Order()
		})
		groups = append(groups, WeekGroup{Week: w, Items: list})
	}
	return groups
}

// FlattenWeekGroups lists the items of groups in display order.
func FlattenWeekGroups(groups []WeekGroup) []model.CurriculumItem {
	var out []model.CurriculumItem
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}

// CurriculumWeekMap is the grouping keyed by week number.
func CurriculumWeekMap(items []model.CurriculumItem) map[int][]model.CurriculumItem {
	groups := GroupCurriculumByWeek(items)
	out := make(map[int][]model.CurriculumItem, len(groups))
	for _, g := range groups {
		out[g.Week] = g.Items
	}
	return out
}
