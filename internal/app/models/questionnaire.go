package models

type Pillar struct {
	Key       string     `json:"key" validate:"required,pillar_key"`
	Name      string     `json:"name"`
	Weight    float64    `json:"weight,omitempty" validate:"gte=0"`
	Questions []Question `json:"questions" validate:"dive"`
}

type Question struct {
	ID      int64    `json:"id" validate:"required,gt=0"`
	Title   string   `json:"title" validate:"required"`
	Detail  string   `json:"detail,omitempty"`
	Choices []Choice `json:"choices" validate:"dive"`
}

type Choice struct {
	ID      int64   `json:"id" validate:"required,gt=0"`
	Label   string  `json:"label"`
	Score   float64 `json:"score" validate:"gte=0"`
	PointID *int64  `json:"point_id,omitempty"`
}

func (p *Pillar) FindQuestion(questionID int64) (*Question, bool) {
	for i := range p.Questions {
		if p.Questions[i].ID == questionID {
			return &p.Questions[i], true
		}
	}
	return nil, false
}

func (p *Pillar) QuestionIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(p.Questions))
	for _, question := range p.Questions {
		ids[question.ID] = struct{}{}
	}
	return ids
}

func (q *Question) FindChoice(choiceID int64) (*Choice, bool) {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return &q.Choices[i], true
		}
	}
	return nil, false
}
