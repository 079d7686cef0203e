package tracker

import "github.com/google/uuid"

// CategoryList is the ordered category registry. Order is display order.
type CategoryList []Category

// DefaultCategories returns one category per palette colour.
func DefaultCategories() CategoryList {
	labels := []string{"Important", "Exercise", "Reading", "Health", "Work", "Leisure"}
	out := make(CategoryList, len(Colors))
	for i, c := range Colors {
		out[i] = Category{ID: CategoryID(c), Label: labels[i], Color: c}
	}
	return out
}

// Index returns the position of id, or -1.
func (l CategoryList) Index(id CategoryID) int {
	for i, c := range l {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (l CategoryList) Get(id CategoryID) (Category, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Category{}, false
}

func (l CategoryList) Has(id CategoryID) bool {
	return l.Index(id) >= 0
}

// Relabel renames a category. Labels need not be unique.
func (l CategoryList) Relabel(id CategoryID, label string) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l[i].Label = label
	return true
}

// Swap exchanges the positions of a and b. Nothing changes unless both exist.
func (l CategoryList) Swap(a, b CategoryID) bool {
	i, j := l.Index(a), l.Index(b)
	if i < 0 || j < 0 {
		return false
	}
	l[i], l[j] = l[j], l[i]
	return true
}

// Add appends a category with a fresh id.
func (l *CategoryList) Add(label string, color Color) Category {
	c := Category{ID: CategoryID(uuid.NewString()), Label: label, Color: color}
	*l = append(*l, c)
	return c
}

// Remove drops a category. Records that reference it are kept and simply no
// longer count.
func (l *CategoryList) Remove(id CategoryID) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	*l = append((*l)[:i:i], (*l)[i+1:]...)
	return true
}

func (l CategoryList) Clone() CategoryList {
	if l == nil {
		return nil
	}
	return append(CategoryList(nil), l...)
}
