package model

import "testing"

func TestActivity_CanHaveChildren(t *testing.T) {
	tests := []struct {
		level int
		want  bool
	}{
		{0, true},
		{1, true},
		{2, false},
	}

	for _, test := range tests {
		a := &Activity{Level: test.level}
		if got := a.CanHaveChildren(); got != test.want {
			t.Errorf("level %d: CanHaveChildren() = %v, want %v", test.level, got, test.want)
		}
	}
}

func TestActivity_IsRoot(t *testing.T) {
	parentID := "parent"

	root := &Activity{ID: "a"}
	child := &Activity{ID: "b", ParentID: &parentID}

	if !root.IsRoot() {
		t.Error("activity without parent should be root")
	}
	if child.IsRoot() {
		t.Error("activity with parent should not be root")
	}
}

func TestBuildActivityTree(t *testing.T) {
	food := &Activity{ID: "food", Name: "Food", Level: 0}
	meat := &Activity{ID: "meat", Name: "Meat", ParentID: &food.ID, Level: 1}
	dairy := &Activity{ID: "dairy", Name: "Dairy", ParentID: &food.ID, Level: 1}
	cheese := &Activity{ID: "cheese", Name: "Cheese", ParentID: &dairy.ID, Level: 2}
	cars := &Activity{ID: "cars", Name: "Cars", Level: 0}

	roots := BuildActivityTree([]*Activity{food, meat, dairy, cheese, cars})

	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].ID != "food" || roots[1].ID != "cars" {
		t.Errorf("unexpected root order: %s, %s", roots[0].ID, roots[1].ID)
	}

	if len(food.Children) != 2 {
		t.Fatalf("expected 2 children under food, got %d", len(food.Children))
	}
	if food.Children[0].ID != "meat" || food.Children[1].ID != "dairy" {
		t.Errorf("unexpected food children: %s, %s", food.Children[0].ID, food.Children[1].ID)
	}

	if len(dairy.Children) != 1 || dairy.Children[0].ID != "cheese" {
		t.Errorf("cheese should be nested under dairy")
	}

	if len(cars.Children) != 0 {
		t.Errorf("cars should have no children")
	}
}

func TestBuildActivityTree_OrphanSurfacesAsRoot(t *testing.T) {
	missing := "missing-parent"
	orphan := &Activity{ID: "orphan", ParentID: &missing, Level: 1}

	roots := BuildActivityTree([]*Activity{orphan})

	if len(roots) != 1 || roots[0].ID != "orphan" {
		t.Fatalf("orphan should surface as root, got %d roots", len(roots))
	}
}

func TestBuildActivityTree_Empty(t *testing.T) {
	if roots := BuildActivityTree(nil); len(roots) != 0 {
		t.Errorf("expected no roots for empty input, got %d", len(roots))
	}
}
