package authoring

import (
	"encoding/json"
	"strings"

	"prep_admin_backend/internal/model"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	Essay          QuestionType = "essay"
)

func (t QuestionType) Valid() bool {
	return t == MultipleChoice || t == TrueFalse || t == FillBlank || t == Essay
}

// AnswerSeparator splits the accepted answers of a fill_blank question.
const AnswerSeparator = "|"

var trueFalseOptions = []string{"true", "false"}

// QuestionInput is the editable form of an exercise question, as sent by the
// editor. ID is set only for questions that already exist in the store.
type QuestionInput struct {
	ID            *uint        `json:"id,omitempty"`
	QuestionType  QuestionType `json:"question_type"`
	QuestionText  string       `json:"question_text"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Points        int          `json:"points"`
}

// Normalize trims text, drops blank options and applies the per-type answer
// shape: true_false always offers true/false, essay carries no answer.
func (q QuestionInput) Normalize() QuestionInput {
	q.QuestionText = strings.TrimSpace(q.QuestionText)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	q.Explanation = strings.TrimSpace(q.Explanation)
	if q.Points <= 0 {
		q.Points = 1
	}

	switch q.QuestionType {
	case MultipleChoice:
		opts := make([]string, 0, len(q.Options))
		for _, o := range q.Options {
			if o = strings.TrimSpace(o); o != "" {
				opts = append(opts, o)
			}
		}
		q.Options = opts
	case TrueFalse:
		q.Options = append([]string(nil), trueFalseOptions...)
		q.CorrectAnswer = strings.ToLower(q.CorrectAnswer)
	case FillBlank:
		q.Options = nil
		q.CorrectAnswer = strings.Join(q.AcceptedAnswers(), AnswerSeparator)
	case Essay:
		q.Options = nil
		q.CorrectAnswer = ""
	}
	return q
}

// Validate checks the question as it will be saved.
func (q QuestionInput) Validate() error {
	q = q.Normalize()
	if !q.QuestionType.Valid() {
		return fieldError("question_type", MsgQuestionType)
	}
	if q.QuestionText == "" {
		return fieldError("question_text", MsgQuestionText)
	}

	switch q.QuestionType {
	case MultipleChoice:
		if len(q.Options) < 2 {
			return fieldError("options", MsgMinOptions)
		}
		if q.CorrectAnswer == "" || !contains(q.Options, q.CorrectAnswer) {
			return fieldError("correct_answer", MsgChooseCorrect)
		}
	case TrueFalse:
		if !contains(trueFalseOptions, q.CorrectAnswer) {
			return fieldError("correct_answer", MsgTrueFalse)
		}
	case FillBlank:
		if len(q.AcceptedAnswers()) == 0 {
			return fieldError("correct_answer", MsgFillBlank)
		}
	}
	return nil
}

// AcceptedAnswers lists the non-empty answers of a fill_blank question.
func (q QuestionInput) AcceptedAnswers() []string {
	var out []string
	for _, a := range strings.Split(q.CorrectAnswer, AnswerSeparator) {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Accepts reports whether answer is one of the accepted fill_blank answers,
// ignoring case and surrounding space.
func (q QuestionInput) Accepts(answer string) bool {
	answer = strings.TrimSpace(answer)
	for _, a := range q.AcceptedAnswers() {
		if strings.EqualFold(a, answer) {
			return true
		}
	}
	return false
}

// RemoveOption drops option i. Removing the option marked correct clears the
// correct answer, so the question fails validation until a new one is chosen.
func (q *QuestionInput) RemoveOption(i int) {
	if i < 0 || i >= len(q.Options) {
		return
	}
	removed := q.Options[i]
	q.Options = append(q.Options[:i:i], q.Options[i+1:]...)
	if removed == q.CorrectAnswer {
		q.CorrectAnswer = ""
	}
}

// SetOption edits option i, carrying the correct answer along with it.
func (q *QuestionInput) SetOption(i int, value string) {
	if i < 0 || i >= len(q.Options) {
		return
	}
	if q.Options[i] == q.CorrectAnswer && q.CorrectAnswer != "" {
		q.CorrectAnswer = value
	}
	q.Options[i] = value
}

func (q QuestionInput) clone() QuestionInput {
	q.Options = append([]string(nil), q.Options...)
	if q.ID != nil {
		id := *q.ID
		q.ID = &id
	}
	return q
}

// ToModel converts a validated input into a row. Order and ExerciseID are
// assigned by the repository.
func (q QuestionInput) ToModel() model.ExerciseQuestion {
	q = q.Normalize()
	row := model.ExerciseQuestion{
		QuestionType:  string(q.QuestionType),
		QuestionText:  q.QuestionText,
		Options:       EncodeOptions(q.Options),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Points:        q.Points,
	}
	if q.ID != nil {
		row.ID = *q.ID
	}
	return row
}

// FromModel turns a stored question back into its editable form.
func FromModel(row model.ExerciseQuestion) QuestionInput {
	id := row.ID
	return QuestionInput{
		ID:            &id,
		QuestionType:  QuestionType(row.QuestionType),
		QuestionText:  row.QuestionText,
		Options:       DecodeOptions(row.Options),
		CorrectAnswer: row.CorrectAnswer,
		Explanation:   row.Explanation,
		Points:        row.Points,
	}
}

// EncodeOptions stores options as a JSON array; no options is an empty array.
func EncodeOptions(options []string) datatypes.JSON {
	if options == nil {
		options = []string{}
	}
	raw, _ := json.Marshal(options)
	return datatypes.JSON(raw)
}

// DecodeOptions reads a JSON array of strings, tolerating NULL and junk.
func DecodeOptions(raw datatypes.JSON) []string {
	var out []string
	if len(raw) == 0 {
		return []string{}
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
