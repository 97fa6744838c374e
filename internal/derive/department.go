package derive

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/trygginn/trygginn/internal/domain"
)

// NoDepartment labels children whose group name is unknown.
const NoDepartment = "Uten avdeling"

// x/text has no Bokmål tailoring and falls back to root order for "nb";
// Nynorsk carries the Norwegian Æ, Ø, Å rules.
var norwegian = language.MustParse("nn")

// DepartmentGroup is one card in the staff overview.
type DepartmentGroup struct {
	Name     string
	Children []domain.StaffChild
}

// In counts children currently checked in.
func (g DepartmentGroup) In() int {
	n := 0
	for _, c := range g.Children {
		if c.Presence == domain.PresenceIn {
			n++
		}
	}
	return n
}

// GroupByDepartment partitions rows by group name. Groups and the children
// inside each group are ordered with Norwegian collation, so Æ, Ø and Å
// sort after Z.
func GroupByDepartment(rows []domain.StaffChild) []DepartmentGroup {
	col := collate.New(norwegian)
	index := map[string]int{}
	var groups []DepartmentGroup
	for _, r := range rows {
		name := r.GroupName
		if name == "" {
			name = NoDepartment
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, DepartmentGroup{Name: name})
		}
		groups[i].Children = append(groups[i].Children, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return col.CompareString(groups[i].Name, groups[j].Name) < 0
	})
	for _, g := range groups {
		sort.SliceStable(g.Children, func(i, j int) bool {
			return col.CompareString(g.Children[i].Name, g.Children[j].Name) < 0
		})
	}
	return groups
}

// SortStaffRows orders the flat list by group name, then child name.
func SortStaffRows(rows []domain.StaffChild) {
	col := collate.New(norwegian)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].GroupName, rows[j].GroupName); c != 0 {
			return c < 0
		}
		return col.CompareString(rows[i].Name, rows[j].Name) < 0
	})
}
