package http

// PageData is the data every page template receives.
type PageData struct {
	Title string
}

// SourceView is one retrieved chunk listed under an answer.
type SourceView struct {
	ID    string
	Title string
	Score float64
}

// AnswerPage is rendered by POST /answer. Error is nil when the question
// was answered.
type AnswerPage struct {
	PageData
	Question string
	Answer   string
	Error    *string
	Sources  []SourceView
}
