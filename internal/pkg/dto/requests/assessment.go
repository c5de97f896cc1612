package requests

type OpenWorkspace struct {
	PillarKey    string `validate:"required,pillar_key"`
	RespondentID string `validate:"required"`
}

type RecordAnswer struct {
	ChoiceID int64 `json:"choice_id" validate:"required,gt=0"`
}

type RecordComment struct {
	Comment string `json:"comment" validate:"max=5000"`
}

type RecordAuditorScore struct {
	CriteriaID int64 `json:"criteria_id" validate:"required,gt=0"`
}
