package models

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
)

func ref(id int64) *int64 { return &id }

func cat(id int64, parent *int64) Category {
	return Category{ID: id, ParentID: parent, Title: "c"}
}

func ids(nodes []*CategoryNode) []int64 {
	out := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestBuildCategoryTreeNesting(t *testing.T) {
	c := qt.New(t)

	input := []Category{
		cat(1, nil),
		cat(2, ref(1)),
		cat(3, nil),
		cat(4, ref(2)),
		cat(5, ref(1)),
	}

	roots := BuildCategoryTree(input)
	c.Assert(ids(roots), qt.DeepEquals, []int64{1, 3})
	c.Assert(ids(roots[0].Children), qt.DeepEquals, []int64{2, 5})
	c.Assert(ids(roots[0].Children[0].Children), qt.DeepEquals, []int64{4})
	c.Assert(roots[1].Children, qt.HasLen, 0)
	c.Assert(Count(roots), qt.Equals, len(input))
}

func TestBuildCategoryTreeChildBeforeParent(t *testing.T) {
	c := qt.New(t)

	roots := BuildCategoryTree([]Category{cat(7, ref(9)), cat(9, nil)})
	c.Assert(ids(roots), qt.DeepEquals, []int64{9})
	c.Assert(ids(roots[0].Children), qt.DeepEquals, []int64{7})
}

func TestBuildCategoryTreeOrphanPromotedToRoot(t *testing.T) {
	c := qt.New(t)

	// category 2 was filtered out upstream, so 5 has nowhere to hang
	input := []Category{cat(1, nil), cat(5, ref(2)), cat(6, ref(5))}

	roots := BuildCategoryTree(input)
	c.Assert(ids(roots), qt.DeepEquals, []int64{1, 5})
	c.Assert(ids(roots[1].Children), qt.DeepEquals, []int64{6})
	c.Assert(Count(roots), qt.Equals, 3)
}

func TestBuildCategoryTreeSelfParent(t *testing.T) {
	c := qt.New(t)

	roots := BuildCategoryTree([]Category{cat(1, ref(1))})
	c.Assert(ids(roots), qt.DeepEquals, []int64{1})
}

func TestBuildCategoryTreeBreaksCycles(t *testing.T) {
	c := qt.New(t)

	input := []Category{
		cat(1, ref(3)),
		cat(2, ref(1)),
		cat(3, ref(2)),
		cat(4, ref(2)),
		cat(10, nil),
	}

	roots := BuildCategoryTree(input)
	c.Assert(Count(roots), qt.Equals, len(input))
	c.Assert(ids(roots), qt.DeepEquals, []int64{10, 1})
	c.Assert(ids(roots[1].Children), qt.DeepEquals, []int64{2})
	c.Assert(ids(roots[1].Children[0].Children), qt.DeepEquals, []int64{3, 4})
	c.Assert(roots[1].Children[0].Children[0].Children, qt.HasLen, 0)
}

func TestBuildCategoryTreeEmpty(t *testing.T) {
	c := qt.New(t)

	roots := BuildCategoryTree(nil)
	c.Assert(roots, qt.HasLen, 0)

	out, err := json.Marshal(roots)
	c.Assert(err, qt.IsNil)
	c.Assert(string(out), qt.Equals, "[]")
}

func TestCategoryNodeJSONFlattensCategory(t *testing.T) {
	c := qt.New(t)

	roots := BuildCategoryTree([]Category{{ID: 1, Title: "Fruit", Slug: "fruit", Status: StatusActive}})
	out, err := json.Marshal(roots[0])
	c.Assert(err, qt.IsNil)

	var decoded map[string]any
	c.Assert(json.Unmarshal(out, &decoded), qt.IsNil)
	c.Assert(decoded["title"], qt.Equals, "Fruit")
	c.Assert(decoded["slug"], qt.Equals, "fruit")
	c.Assert(decoded["children"], qt.DeepEquals, []any{})
}

func TestValidStatus(t *testing.T) {
	c := qt.New(t)
	c.Assert(ValidStatus("active", CatalogStatuses), qt.IsTrue)
	c.Assert(ValidStatus("banned", CatalogStatuses), qt.IsFalse)
	c.Assert(ValidStatus("banned", UserStatuses), qt.IsTrue)
	c.Assert(ValidStatus("superadmin", UserStatuses), qt.IsFalse)
}
