package model

import "time"

// MaxActivityDepth is the maximum number of levels in the activity tree.
// Levels are zero-based: 0 (root), 1, 2.
const MaxActivityDepth = 3

// Activity represents a category of business activity.
// Activities form a tree at most MaxActivityDepth levels deep.
type Activity struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	ParentID  *string     `json:"parent_id,omitempty"`
	Level     int         `json:"level"`
	Children  []*Activity `json:"children,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsRoot reports whether the activity has no parent.
func (a *Activity) IsRoot() bool {
	return a.ParentID == nil
}

// CanHaveChildren reports whether a child activity may be created
// under this one without exceeding the depth limit.
func (a *Activity) CanHaveChildren() bool {
	return a.Level < MaxActivityDepth-1
}

// BuildActivityTree assembles a flat activity list into a forest of
// root activities with nested children. Input order is preserved for
// siblings.
func BuildActivityTree(flat []*Activity) []*Activity {
	byID := make(map[string]*Activity, len(flat))
	for _, a := range flat {
		byID[a.ID] = a
	}

	var roots []*Activity
	for _, a := range flat {
		if a.ParentID == nil {
			roots = append(roots, a)
			continue
		}
		parent, ok := byID[*a.ParentID]
		if !ok {
			// Orphaned node (parent filtered out) - surface it as a root
			// rather than dropping it silently.
			roots = append(roots, a)
			continue
		}
		parent.Children = append(parent.Children, a)
	}

	return roots
}
