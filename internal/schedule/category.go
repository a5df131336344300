package schedule

// Category drives an event's display color.
type Category int

const (
	CategoryLearning Category = iota
	CategoryPractice
	CategoryReview
	CategoryExamPrep
	CategoryOther
)

type categoryInfo struct {
	tag   string
	label string
	color string
}

var categories = [...]categoryInfo{
	CategoryLearning: {"learning", "Initial Learning", "#3B82F6"},
	CategoryPractice: {"practice", "Practice", "#22C55E"},
	CategoryReview:   {"review", "Review", "#A855F7"},
	CategoryExamPrep: {"exam-prep", "Exam Prep", "#F97316"},
	CategoryOther:    {"other", "Other", "#6B7280"},
}

// Categories lists every category in legend order.
func Categories() []Category {
	return []Category{CategoryLearning, CategoryPractice, CategoryReview, CategoryExamPrep, CategoryOther}
}

func (c Category) valid() bool {
	return c >= CategoryLearning && c <= CategoryOther
}

func (c Category) info() categoryInfo {
	if !c.valid() {
		return categories[CategoryOther]
	}
	return categories[c]
}

func (c Category) String() string { return c.info().tag }
func (c Category) Label() string  { return c.info().label }
func (c Category) Color() string  { return c.info().color }

// ParseCategory resolves a tag produced by Category.String. Unknown tags map
// to CategoryOther.
func ParseCategory(tag string) Category {
	for _, c := range Categories() {
		if categories[c].tag == tag {
			return c
		}
	}
	return CategoryOther
}

// SessionType is the semantic kind of a study session in the domain store.
type SessionType string

const (
	SessionInitialLearning SessionType = "initial-learning"
	SessionReview          SessionType = "review"
	SessionPractice        SessionType = "practice"
	SessionExamPrep        SessionType = "exam-prep"
	SessionOther           SessionType = "other"
)

var sessionCategories = map[SessionType]Category{
	SessionInitialLearning: CategoryLearning,
	SessionReview:          CategoryReview,
	SessionPractice:        CategoryPractice,
	SessionExamPrep:        CategoryExamPrep,
	SessionOther:           CategoryOther,
}

var categorySessions = [...]SessionType{
	CategoryLearning: SessionInitialLearning,
	CategoryPractice: SessionPractice,
	CategoryReview:   SessionReview,
	CategoryExamPrep: SessionExamPrep,
	CategoryOther:    SessionOther,
}

// CategoryFor maps a session type to its category. Unknown types are Other.
func CategoryFor(t SessionType) Category {
	if c, ok := sessionCategories[t]; ok {
		return c
	}
	return CategoryOther
}

// SessionTypeFor is the inverse of CategoryFor.
func SessionTypeFor(c Category) SessionType {
	if !c.valid() {
		return SessionOther
	}
	return categorySessions[c]
}
