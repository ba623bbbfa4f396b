package core

import "context"

// DefaultPageSize is the page length the original reviewer UI used.
const DefaultPageSize = 20

// summaryLen is the truncation width for list projections.
const summaryLen = 50

// QuestionSummary is the list projection: texts truncated for table display.
type QuestionSummary struct {
	ID            int64   `json:"id"`
	QuestionShort string  `json:"question_short"`
	AnswerShort   string  `json:"answer_short"`
	Topic         string  `json:"topic"`
	Score         *int16  `json:"score"`
	Categories    []int64 `json:"categories"`
}

// QuestionDetail is the full projection for a single question.
type QuestionDetail struct {
	ID             int64          `json:"id"`
	QuestionText   string         `json:"question_text"`
	AnswerText     string         `json:"answer_text"`
	Topic          string         `json:"topic"`
	Score          *int16         `json:"score"`
	Categories     []int64        `json:"categories"`
	AdditionalData map[string]any `json:"additional_data"`
}

// QuestionPage is one page of summaries plus pagination metadata.
type QuestionPage struct {
	Questions   []QuestionSummary `json:"questions"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
	HasNext     bool              `json:"has_next"`
	HasPrev     bool              `json:"has_prev"`
}

// Querier assembles list and detail projections over the store.
type Querier struct {
	store Store
}

// NewQuerier returns a Querier over the given store.
func NewQuerier(store Store) *Querier {
	return &Querier{store: store}
}

// List returns one page of question summaries ordered by ascending id.
// Pages are 1-indexed; perPage <= 0 falls back to DefaultPageSize. A page
// beyond the last yields an empty item list with the metadata still filled
// in rather than an error.
func (q *Querier) List(ctx context.Context, filter Filter, page, perPage int) (*QuestionPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}

	total, err := q.store.CountQuestions(ctx, filter)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	offset := (page - 1) * perPage
	summaries := []QuestionSummary{}
	if int64(offset) < total {
		questions, err := q.store.ListQuestions(ctx, filter, perPage, offset)
		if err != nil {
			return nil, err
		}
		for _, qu := range questions {
			summaries = append(summaries, summarize(qu))
		}
	}

	return &QuestionPage{
		Questions:   summaries,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

// Detail returns the full projection for one question, or ErrNotFound.
func (q *Querier) Detail(ctx context.Context, id int64) (*QuestionDetail, error) {
	qu, err := q.store.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	data := qu.AdditionalData
	if data == nil {
		data = map[string]any{}
	}
	return &QuestionDetail{
		ID:             qu.ID,
		QuestionText:   qu.QuestionText,
		AnswerText:     qu.AnswerText,
		Topic:          qu.Topic,
		Score:          qu.Score,
		Categories:     categoryIDs(*qu),
		AdditionalData: data,
	}, nil
}

func summarize(q Question) QuestionSummary {
	return QuestionSummary{
		ID:            q.ID,
		QuestionShort: Truncate(q.QuestionText, summaryLen),
		AnswerShort:   Truncate(q.AnswerText, summaryLen),
		Topic:         q.Topic,
		Score:         q.Score,
		Categories:    categoryIDs(q),
	}
}

// categoryIDs returns a non-nil slice so JSON renders [] instead of null.
func categoryIDs(q Question) []int64 {
	if q.CategoryIDs == nil {
		return []int64{}
	}
	return q.CategoryIDs
}

// Truncate shortens s to at most n characters, appending an ellipsis marker
// when anything was cut. It counts runes so multi-byte text is never split.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
