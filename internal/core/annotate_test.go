package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func annotatorFixture() (*fakeStore, *Annotator) {
	store := &fakeStore{
		questions: []Question{{ID: 1, QuestionText: "Q", AnswerText: "A"}},
		categories: []Category{
			{ID: 1, Name: "Diagnosis"},
			{ID: 2, Name: "Treatment"},
		},
	}
	return store, NewAnnotator(store)
}

func TestAnnotatorUpdate_Score(t *testing.T) {
	store, annotator := annotatorFixture()

	result, err := annotator.Update(context.Background(), 1, AnnotationChange{
		SetScore: true,
		Score:    scorePtr(1),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if result.Score == nil || *result.Score != 1 {
		t.Errorf("result score = %v, want 1", result.Score)
	}
	if store.questions[0].Score == nil || *store.questions[0].Score != 1 {
		t.Error("score not persisted")
	}

	// Clearing back to unevaluated
	result, err = annotator.Update(context.Background(), 1, AnnotationChange{SetScore: true})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if result.Score != nil {
		t.Errorf("cleared score = %v, want nil", result.Score)
	}
}

func TestAnnotatorUpdate_InvalidScore(t *testing.T) {
	store, annotator := annotatorFixture()

	_, err := annotator.Update(context.Background(), 1, AnnotationChange{
		SetScore: true,
		Score:    scorePtr(2),
	})
	if !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("Update() error = %v, want ErrInvalidScore", err)
	}
	if store.updateCalls != 0 {
		t.Errorf("store touched %d times for invalid score, want 0", store.updateCalls)
	}
}

func TestAnnotatorUpdate_Categories(t *testing.T) {
	store, annotator := annotatorFixture()

	// id 99 does not exist as a category and is silently dropped
	result, err := annotator.Update(context.Background(), 1, AnnotationChange{
		SetCategories: true,
		CategoryIDs:   []int64{2, 99},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !reflect.DeepEqual(result.Categories, []int64{2}) {
		t.Errorf("Categories = %v, want [2]", result.Categories)
	}

	// Empty list clears assignments
	result, err = annotator.Update(context.Background(), 1, AnnotationChange{
		SetCategories: true,
		CategoryIDs:   []int64{},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(result.Categories) != 0 {
		t.Errorf("Categories = %v, want empty", result.Categories)
	}
	if result.Categories == nil {
		t.Error("Categories should be an empty slice, not nil")
	}
	_ = store
}

func TestAnnotatorUpdate_NotFound(t *testing.T) {
	_, annotator := annotatorFixture()

	_, err := annotator.Update(context.Background(), 42, AnnotationChange{
		SetScore: true,
		Score:    scorePtr(0),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestAnnotatorUpdate_NoOp(t *testing.T) {
	store, annotator := annotatorFixture()
	store.questions[0].Score = scorePtr(1)

	result, err := annotator.Update(context.Background(), 1, AnnotationChange{})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if result.Score == nil || *result.Score != 1 {
		t.Errorf("no-op changed score: %v", result.Score)
	}
}
