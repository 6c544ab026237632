package models

// CategoryUncategorized is the fallback category when no mapping, keyword,
// or AI suggestion applies.
const CategoryUncategorized = "Uncategorized"

// Category is a reference record used to classify recurring payments.
// Categories are loaded from YAML and matched against merchant patterns
// by keyword.
type Category struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords,omitempty"`
}

// CategoriesConfig is the top-level YAML structure of the categories file.
type CategoriesConfig struct {
	Categories []Category `yaml:"categories"`
}

// UncategorizedCategory returns the fallback category.
func UncategorizedCategory() Category {
	return Category{ID: "uncategorized", Name: CategoryUncategorized}
}
