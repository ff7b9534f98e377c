package dataprocessing

// Category is a broad outcome category derived from the final outcome of an
// incident. The set of categories is fixed.
type Category string

const (
	CategoryNoFurtherAction Category = "No Further Action"
	CategoryNonCriminal     Category = "Non-criminal Outcome"
	CategoryPublicInterest  Category = "Public Interest Consideration"
	CategoryUnknown         Category = "Unknown"
)

// CategoryRule maps a set of outcome labels to one category. Rules are
// evaluated in order and the first match wins; the default rule set keeps the
// label sets disjoint so ordering never matters in practice.
type CategoryRule struct {
	Labels   []string `yaml:"labels"`
	Category Category `yaml:"category"`
}

// DefaultCategoryRules returns the built-in classification table for
// police.uk outcome labels.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{
			Category: CategoryNoFurtherAction,
			Labels: []string{
				"Unable to prosecute suspect",
				"Investigation complete; no suspect identified",
				"Status update unavailable",
			},
		},
		{
			Category: CategoryNonCriminal,
			Labels: []string{
				"Local resolution",
				"Offender given a caution",
				"Action to be taken by another organisation",
				"Awaiting court outcome",
			},
		},
		{
			Category: CategoryPublicInterest,
			Labels: []string{
				"Further investigation is not in the public interest",
				"Further action is not in the public interest",
				"Formal action is not in the public interest",
			},
		},
	}
}

// Classifier classifies final outcomes into broad categories using an ordered
// rule table.
type Classifier struct {
	rules []CategoryRule
	index map[string]Category
}

// NewClassifier builds a classifier from the given rules. First match wins
// when a label appears in more than one rule.
func NewClassifier(rules []CategoryRule) *Classifier {
	index := make(map[string]Category)
	for _, rule := range rules {
		for _, label := range rule.Labels {
			if _, exists := index[label]; !exists {
				index[label] = rule.Category
			}
		}
	}
	return &Classifier{rules: rules, index: index}
}

// DefaultClassifier returns a classifier over the built-in rule table.
func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultCategoryRules())
}

// Categorize maps a final outcome to its broad category. It is total: every
// input, including nil, maps to exactly one category. Anything outside the
// rule table is Unknown.
func (c *Classifier) Categorize(outcome *string) Category {
	if outcome == nil {
		return CategoryUnknown
	}
	if category, ok := c.index[*outcome]; ok {
		return category
	}
	return CategoryUnknown
}

// Categories returns every category the classifier can produce, in rule order
// with Unknown last.
func (c *Classifier) Categories() []Category {
	seen := make(map[Category]bool)
	categories := make([]Category, 0, len(c.rules)+1)
	for _, rule := range c.rules {
		if !seen[rule.Category] {
			seen[rule.Category] = true
			categories = append(categories, rule.Category)
		}
	}
	if !seen[CategoryUnknown] {
		categories = append(categories, CategoryUnknown)
	}
	return categories
}

// IsKnownCategory reports whether the label is one this classifier produces.
func (c *Classifier) IsKnownCategory(label string) bool {
	for _, category := range c.Categories() {
		if string(category) == label {
			return true
		}
	}
	return false
}
