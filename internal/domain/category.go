package domain

// Category: однобуквенный код категории расхода
type Category string

const (
	CategoryFood       Category = "A"
	CategoryHealth     Category = "S"
	CategoryHousing    Category = "M"
	CategoryTransport  Category = "T"
	CategoryEducation  Category = "E"
	CategoryLeisure    Category = "L"
	CategoryUnexpected Category = "I"
	CategoryOther      Category = "O"
)

var categories = []Category{
	CategoryFood,
	CategoryHealth,
	CategoryHousing,
	CategoryTransport,
	CategoryEducation,
	CategoryLeisure,
	CategoryUnexpected,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryFood:       "Alimentação",
	CategoryHealth:     "Saúde",
	CategoryHousing:    "Moradia",
	CategoryTransport:  "Transporte",
	CategoryEducation:  "Educação",
	CategoryLeisure:    "Lazer",
	CategoryUnexpected: "Imprevisto",
	CategoryOther:      "Outro",
}

// Categories returns all category codes in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable name, or the raw code if unknown.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}
