package core

import "context"

// Store is the persistence boundary for the service.
//
// Implementations must make ReplaceQuestions and UpdateAnnotations atomic:
// either the whole write commits or none of it does. ListQuestions must order
// by ascending id; a limit <= 0 means no limit (used by export).
type Store interface {
	ReplaceQuestions(ctx context.Context, questions []Question) error
	ListQuestions(ctx context.Context, filter Filter, limit, offset int) ([]Question, error)
	CountQuestions(ctx context.Context, filter Filter) (int64, error)
	GetQuestion(ctx context.Context, id int64) (*Question, error)
	UpdateAnnotations(ctx context.Context, id int64, change AnnotationChange) (*Question, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
