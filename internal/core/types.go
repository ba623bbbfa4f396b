package core

// Question is one reviewable question/answer unit with its agreement score
// and category tags.
type Question struct {
	ID             int64
	QuestionText   string
	AnswerText     string
	Topic          string
	Score          *int16 // nil = not evaluated, 0 = disagree, 1 = agree
	AdditionalData map[string]any
	CategoryIDs    []int64
}

// Category is a reusable topical tag assignable to many questions.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Filter selects which questions an operation sees.
type Filter string

const (
	FilterAll         Filter = "all"
	FilterEvaluated   Filter = "evaluated"
	FilterUnevaluated Filter = "unevaluated"
)

// ParseFilter maps a query-string value to a Filter. Unknown values fall back
// to FilterAll, matching the original API's permissiveness.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterEvaluated:
		return FilterEvaluated
	case FilterUnevaluated:
		return FilterUnevaluated
	}
	return FilterAll
}
