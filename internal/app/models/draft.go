package models

import "sort"

// Draft is the in-progress state of one pillar for one respondent.
// Answers maps question id to choice id, Comments maps question id to the
// performance result text.
type Draft struct {
	Answers  map[int64]int64  `json:"answers"`
	Comments map[int64]string `json:"comments"`
}

// DraftSource tells where a loaded draft came from.
type DraftSource string

const (
	DraftSourceRemote DraftSource = "remote"
	// DraftSourceLocal is a cached draft holding edits the backend never
	// acknowledged.
	DraftSourceLocal DraftSource = "local"
	DraftSourceCache DraftSource = "cache"
	DraftSourceEmpty DraftSource = "empty"
)

type DraftItem struct {
	AssessmentID         int64   `json:"assessment_id"`
	EvaluationCriteriaID *int64  `json:"evaluation_criteria_id"`
	PerformanceResults   *string `json:"performance_results"`
}

func NewDraft() Draft {
	return Draft{
		Answers:  map[int64]int64{},
		Comments: map[int64]string{},
	}
}

func (d Draft) Clone() Draft {
	clone := NewDraft()
	for questionID, choiceID := range d.Answers {
		clone.Answers[questionID] = choiceID
	}
	for questionID, comment := range d.Comments {
		clone.Comments[questionID] = comment
	}
	return clone
}

func (d Draft) IsEmpty() bool {
	return len(d.Answers) == 0 && len(d.Comments) == 0
}

// Items returns one item per question that has a selection or a non-empty
// comment, ordered by question id.
func (d Draft) Items() []DraftItem {
	questionIDs := make(map[int64]struct{}, len(d.Answers)+len(d.Comments))
	for questionID := range d.Answers {
		questionIDs[questionID] = struct{}{}
	}
	for questionID, comment := range d.Comments {
		if comment != "" {
			questionIDs[questionID] = struct{}{}
		}
	}

	items := make([]DraftItem, 0, len(questionIDs))
	for questionID := range questionIDs {
		item := DraftItem{AssessmentID: questionID}
		if choiceID, ok := d.Answers[questionID]; ok {
			choiceID := choiceID
			item.EvaluationCriteriaID = &choiceID
		}
		if comment := d.Comments[questionID]; comment != "" {
			item.PerformanceResults = &comment
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].AssessmentID < items[j].AssessmentID
	})
	return items
}

// KeepQuestions drops entries whose question id is not in questionIDs.
func (d Draft) KeepQuestions(questionIDs map[int64]struct{}) Draft {
	kept := NewDraft()
	for questionID, choiceID := range d.Answers {
		if _, ok := questionIDs[questionID]; ok {
			kept.Answers[questionID] = choiceID
		}
	}
	for questionID, comment := range d.Comments {
		if _, ok := questionIDs[questionID]; ok {
			kept.Comments[questionID] = comment
		}
	}
	return kept
}

func DraftFromItems(items []DraftItem) Draft {
	draft := NewDraft()
	for _, item := range items {
		if item.EvaluationCriteriaID != nil {
			draft.Answers[item.AssessmentID] = *item.EvaluationCriteriaID
		}
		if item.PerformanceResults != nil && *item.PerformanceResults != "" {
			draft.Comments[item.AssessmentID] = *item.PerformanceResults
		}
	}
	return draft
}
