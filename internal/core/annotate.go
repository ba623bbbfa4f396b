package core

import "context"

// AnnotationChange describes an edit to one question. The Set flags record
// which fields the request actually carried: score and categories are
// independent, and a change with neither set is a valid no-op.
type AnnotationChange struct {
	SetScore bool
	Score    *int16 // nil clears the evaluation

	SetCategories bool
	CategoryIDs   []int64
}

// UpdateResult echoes the fields a PUT returns after a successful edit.
type UpdateResult struct {
	ID         int64   `json:"id"`
	Score      *int16  `json:"score"`
	Categories []int64 `json:"categories"`
}

// Annotator applies score and category edits to single questions.
type Annotator struct {
	store Store
}

// NewAnnotator returns an Annotator over the given store.
func NewAnnotator(store Store) *Annotator {
	return &Annotator{store: store}
}

// Update validates the change and applies it atomically: both edits persist
// or neither does. A score outside {0, 1, null} is rejected before anything
// is touched. Unknown category ids are dropped by the store, not an error.
func (a *Annotator) Update(ctx context.Context, id int64, change AnnotationChange) (*UpdateResult, error) {
	if change.SetScore && change.Score != nil && *change.Score != 0 && *change.Score != 1 {
		return nil, ErrInvalidScore
	}

	q, err := a.store.UpdateAnnotations(ctx, id, change)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{
		ID:         q.ID,
		Score:      q.Score,
		Categories: categoryIDs(*q),
	}, nil
}
