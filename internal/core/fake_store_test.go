package core

import (
	"context"
	"sort"
)

// fakeStore is an in-memory Store for exercising the service types without
// PostgreSQL. It applies the same filter and ordering semantics the real
// store promises.
type fakeStore struct {
	questions  []Question
	categories []Category

	replaceCalls int
	updateCalls  int
	failWith     error
}

func (f *fakeStore) sorted(filter Filter) []Question {
	out := make([]Question, 0, len(f.questions))
	for _, q := range f.questions {
		switch filter {
		case FilterEvaluated:
			if q.Score == nil {
				continue
			}
		case FilterUnevaluated:
			if q.Score != nil {
				continue
			}
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeStore) ReplaceQuestions(ctx context.Context, questions []Question) error {
	f.replaceCalls++
	if f.failWith != nil {
		return f.failWith
	}
	f.questions = questions
	return nil
}

func (f *fakeStore) ListQuestions(ctx context.Context, filter Filter, limit, offset int) ([]Question, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	qs := f.sorted(filter)
	if offset >= len(qs) {
		return nil, nil
	}
	qs = qs[offset:]
	if limit > 0 && limit < len(qs) {
		qs = qs[:limit]
	}
	return qs, nil
}

func (f *fakeStore) CountQuestions(ctx context.Context, filter Filter) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return int64(len(f.sorted(filter))), nil
}

func (f *fakeStore) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.questions {
		if f.questions[i].ID == id {
			q := f.questions[i]
			return &q, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpdateAnnotations(ctx context.Context, id int64, change AnnotationChange) (*Question, error) {
	f.updateCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.questions {
		if f.questions[i].ID != id {
			continue
		}
		if change.SetScore {
			f.questions[i].Score = change.Score
		}
		if change.SetCategories {
			known := make([]int64, 0, len(change.CategoryIDs))
			for _, cid := range change.CategoryIDs {
				for _, c := range f.categories {
					if c.ID == cid {
						known = append(known, cid)
						break
					}
				}
			}
			f.questions[i].CategoryIDs = known
		}
		q := f.questions[i]
		return &q, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.categories, nil
}

func scorePtr(v int16) *int16 { return &v }
