package authoring

// Mode is the state of the question editing session.
type Mode int

const (
	Closed Mode = iota
	Adding
	EditingExisting
	EditingNew
)

func (m Mode) String() string {
	switch m {
	case Adding:
		return "adding"
	case EditingExisting:
		return "editing-existing"
	case EditingNew:
		return "editing-new"
	default:
		return "closed"
	}
}

// Draft is an exercise being edited with its questions held locally until
// the whole exercise is saved. At most one question is open at a time.
//
//	closed -> adding -> closed
//	closed -> editing-existing(i) -> closed
//	closed -> editing-new(i) -> closed
type Draft struct {
	Form     ExerciseForm
	Existing []QuestionInput
	New      []QuestionInput
	Removed  []uint

	// Working is the question open in the editor.
	Working QuestionInput

	mode  Mode
	index int
}

// NewDraft starts editing an exercise. existing are its stored questions
// and must carry ids; pass nil for a new exercise.
func NewDraft(form ExerciseForm, existing []QuestionInput) *Draft {
	d := &Draft{Form: form}
	for _, q := range existing {
		d.Existing = append(d.Existing, q.clone())
	}
	return d
}

func (d *Draft) Mode() Mode {
	return d.mode
}

// EditingIndex returns the index being edited; ok is false while adding or closed.
func (d *Draft) EditingIndex() (int, bool) {
	if d.mode == EditingExisting || d.mode == EditingNew {
		return d.index, true
	}
	return 0, false
}

func (d *Draft) StartAdd() error {
	if d.mode != Closed {
		return ErrSessionOpen
	}
	d.Working = QuestionInput{QuestionType: MultipleChoice, Options: []string{"", ""}, Points: 1}
	d.mode = Adding
	return nil
}

func (d *Draft) EditExisting(i int) error {
	if d.mode != Closed {
		return ErrSessionOpen
	}
	if i < 0 || i >= len(d.Existing) {
		return ErrIndexOutOfRange
	}
	d.Working = d.Existing[i].clone()
	d.mode, d.index = EditingExisting, i
	return nil
}

func (d *Draft) EditNew(i int) error {
	if d.mode != Closed {
		return ErrSessionOpen
	}
	if i < 0 || i >= len(d.New) {
		return ErrIndexOutOfRange
	}
	d.Working = d.New[i].clone()
	d.mode, d.index = EditingNew, i
	return nil
}

// Commit validates the working question and writes it back to the index
// space it came from. A failed validation keeps the session open.
func (d *Draft) Commit() error {
	if d.mode == Closed {
		return ErrNoSession
	}
	if err := d.Working.Validate(); err != nil {
		return err
	}
	q := d.Working.Normalize()

	switch d.mode {
	case Adding:
		q.ID = nil
		d.New = append(d.New, q)
	case EditingExisting:
		q.ID = d.Existing[d.index].ID
		d.Existing[d.index] = q
	case EditingNew:
		q.ID = nil
		d.New[d.index] = q
	}
	d.close()
	return nil
}

// Cancel discards the working question.
func (d *Draft) Cancel() {
	d.close()
}

func (d *Draft) close() {
	d.Working = QuestionInput{}
	d.mode, d.index = Closed, 0
}

// RemoveExisting drops a stored question; it is deleted when the exercise is saved.
func (d *Draft) RemoveExisting(i int) error {
	if d.mode != Closed {
		return ErrSessionOpen
	}
	if i < 0 || i >= len(d.Existing) {
		return ErrIndexOutOfRange
	}
	if id := d.Existing[i].ID; id != nil {
		d.Removed = append(d.Removed, *id)
	}
	d.Existing = append(d.Existing[:i:i], d.Existing[i+1:]...)
	return nil
}

func (d *Draft) RemoveNew(i int) error {
	if d.mode != Closed {
		return ErrSessionOpen
	}
	if i < 0 || i >= len(d.New) {
		return ErrIndexOutOfRange
	}
	d.New = append(d.New[:i:i], d.New[i+1:]...)
	return nil
}

// QuestionCount is the number of questions the exercise will have after saving.
func (d *Draft) QuestionCount() int {
	return len(d.Existing) + len(d.New)
}

// Payload builds the save request. It refuses while a question is open so
// unsaved edits are never silently dropped.
func (d *Draft) Payload() (SavePayload, error) {
	if d.mode != Closed {
		return SavePayload{}, ErrSessionOpen
	}
	p := SavePayload{
		ExerciseForm:       d.Form,
		Questions:          append([]QuestionInput{}, d.New...),
		ExistingQuestions:  append([]QuestionInput(nil), d.Existing...),
		RemovedQuestionIDs: append([]uint(nil), d.Removed...),
	}
	if err := p.Validate(); err != nil {
		return SavePayload{}, err
	}
	return p, nil
}
