package authoring

import "errors"

// User-facing messages, in the admin's display language.
const (
	MsgRequiredFields = "Vui lòng điền đầy đủ thông tin bắt buộc"
	MsgChooseCorrect  = "Vui lòng chọn đáp án đúng cho câu hỏi trắc nghiệm"
	MsgQuestionText   = "Vui lòng nhập nội dung câu hỏi"
	MsgQuestionType   = "Loại câu hỏi không hợp lệ"
	MsgMinOptions     = "Câu hỏi trắc nghiệm cần ít nhất 2 đáp án"
	MsgTrueFalse      = "Vui lòng chọn đáp án Đúng hoặc Sai"
	MsgFillBlank      = "Vui lòng nhập ít nhất một đáp án được chấp nhận"
	MsgExerciseType   = "Loại bài tập không hợp lệ"
	MsgDifficulty     = "Mức độ khó không hợp lệ"
	MsgNegativeValues = "Điểm tối đa và thời gian làm bài không được âm"
	MsgQuestionIDs    = "Danh sách câu hỏi không hợp lệ"
)

var (
	// ErrSessionOpen is returned when an editing session is opened while another is active.
	ErrSessionOpen     = errors.New("authoring: another question is being edited")
	ErrNoSession       = errors.New("authoring: no question is being edited")
	ErrIndexOutOfRange = errors.New("authoring: question index out of range")
)

// ValidationError blocks a save. Message is shown to the operator as is.
type ValidationError struct {
	Field   string
	Message string
	// Index is the position of the offending question, -1 for exercise fields.
	Index int
	// Existing tells which index space Index refers to.
	Existing bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg, Index: -1}
}

// AsValidation unwraps a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
