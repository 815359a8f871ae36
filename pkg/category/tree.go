package category

import (
	"time"

	"befin/models"
)

// Node is one root category with its children, shaped for the API.
type Node struct {
	ID        uint                `json:"id"`
	Name      string              `json:"name"`
	Type      models.CategoryType `json:"type"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Children  []ChildNode         `json:"children"`
}

// ChildNode is a leaf category inside a Node.
type ChildNode struct {
	ID        uint                `json:"id"`
	Name      string              `json:"name"`
	Type      models.CategoryType `json:"type"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// buildTree assembles a flat, creation-ordered category list into two-level
// trees. A child whose parent is not in the list is silently omitted; the
// write paths guarantee that never happens, this is purely defensive.
func buildTree(cats []models.Category) []Node {
	nodes := make([]Node, 0, len(cats))
	index := make(map[uint]int, len(cats))
	for _, c := range cats {
		if c.ParentID != nil {
			continue
		}
		index[c.ID] = len(nodes)
		nodes = append(nodes, Node{
			ID:        c.ID,
			Name:      c.Name,
			Type:      c.Type,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Children:  []ChildNode{},
		})
	}
	for _, c := range cats {
		if c.ParentID == nil {
			continue
		}
		i, ok := index[*c.ParentID]
		if !ok {
			continue // orphan
		}
		nodes[i].Children = append(nodes[i].Children, ChildNode{
			ID:        c.ID,
			Name:      c.Name,
			Type:      c.Type,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return nodes
}
