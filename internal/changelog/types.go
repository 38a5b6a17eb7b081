package changelog

import "strings"

// Category is one of the fixed changelog buckets. The numeric order of the
// constants is the order sections are emitted in.
type Category int

const (
	Added Category = iota
	Changed
	Fixed
	Documentation
	Security
)

var (
	categoryNames  = [...]string{"added", "changed", "fixed", "documentation", "security"}
	categoryTitles = [...]string{"Added", "Changed", "Fixed", "Documentation", "Security"}
)

// String returns the lowercase category name (e.g., "added").
func (c Category) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return categoryNames[c]
}

// Title returns the section title used in "### <Title>" headers.
func (c Category) Title() string {
	if !c.Valid() {
		return ""
	}
	return categoryTitles[c]
}

// Valid reports whether c is a member of the fixed enumeration.
func (c Category) Valid() bool {
	return c >= Added && c <= Security
}

// Categories returns all categories in emission order.
func Categories() []Category {
	return []Category{Added, Changed, Fixed, Documentation, Security}
}

// ParseCategory looks up a category by its lowercase name.
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return Changed, false
}

// Header is the structured view of a conventional commit subject
// "type(scope)!: description".
type Header struct {
	Type        string
	Scope       string // parsed but not used for categorization
	Breaking    bool
	Description string
}

// Entry is a single classified changelog line.
type Entry struct {
	Category    Category
	Description string
}

// Changes groups bullet texts by category, preserving classification order
// within each bucket. Empty buckets are omitted when rendering.
type Changes struct {
	Added         []string `yaml:"added,omitempty"`
	Changed       []string `yaml:"changed,omitempty"`
	Fixed         []string `yaml:"fixed,omitempty"`
	Documentation []string `yaml:"documentation,omitempty"`
	Security      []string `yaml:"security,omitempty"`
}

// Add appends text to the bucket for category c. Invalid categories are ignored.
func (c *Changes) Add(category Category, text string) {
	if bucket := c.bucket(category); bucket != nil {
		*bucket = append(*bucket, text)
	}
}

// For returns the entries filed under category.
func (c Changes) For(category Category) []string {
	if bucket := c.bucket(category); bucket != nil {
		return *bucket
	}
	return nil
}

func (c *Changes) bucket(category Category) *[]string {
	switch category {
	case Added:
		return &c.Added
	case Changed:
		return &c.Changed
	case Fixed:
		return &c.Fixed
	case Documentation:
		return &c.Documentation
	case Security:
		return &c.Security
	default:
		return nil
	}
}

// IsEmpty returns true if no category has entries.
func (c Changes) IsEmpty() bool {
	return c.Count() == 0
}

// Count returns the total number of entries across all categories.
func (c Changes) Count() int {
	return len(c.Added) +
		len(c.Changed) +
		len(c.Fixed) +
		len(c.Documentation) +
		len(c.Security)
}

// Entries returns a flattened list of all entries in category order.
func (c Changes) Entries() []Entry {
	entries := make([]Entry, 0, c.Count())
	for _, cat := range Categories() {
		for _, text := range c.For(cat) {
			entries = append(entries, Entry{Category: cat, Description: text})
		}
	}
	return entries
}
