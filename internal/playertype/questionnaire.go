package playertype

import (
	"github.com/abhisek/learnloop/internal/apperr"
)

// Option is one answer to a question. Choosing it adds its votes to the
// tally.
type Option struct {
	Text  string           `json:"text"`
	Votes map[Type]float64 `json:"votes"`
}

// Question is a binary-choice question.
type Question struct {
	ID      int       `json:"id"`
	Text    string    `json:"text"`
	Options [2]Option `json:"options"`
}

// Questionnaire is an ordered list of questions.
type Questionnaire struct {
	Questions []Question `json:"questions"`
}

// Answers maps a question id to the index of the chosen option.
type Answers map[int]int

func pick(text string, t Type) Option {
	return Option{Text: text, Votes: map[Type]float64{t: 1}}
}

// DefaultQuestionnaire returns the short Bartle test. Every question pits
// two types against each other and each pair appears twice.
func DefaultQuestionnaire() Questionnaire {
	return Questionnaire{Questions: []Question{
		{ID: 1, Text: "After finishing a chapter, would you rather",
			Options: [2]Option{pick("collect the badge for it", Achiever), pick("look around for hidden extras", Explorer)}},
		{ID: 2, Text: "Is it more fun to",
			Options: [2]Option{pick("finish every quiz with a perfect score", Achiever), pick("discuss the answers with classmates", Socializer)}},
		{ID: 3, Text: "Would you rather",
			Options: [2]Option{pick("level up faster than anyone else", Achiever), pick("top the course scoreboard", Killer)}},
		{ID: 4, Text: "When a new course opens, do you",
			Options: [2]Option{pick("skim every chapter first", Explorer), pick("see who else enrolled", Socializer)}},
		{ID: 5, Text: "Do you enjoy",
			Options: [2]Option{pick("finding content nobody told you about", Explorer), pick("beating other learners to it", Killer)}},
		{ID: 6, Text: "Is a good study session one where you",
			Options: [2]Option{pick("helped someone understand a topic", Socializer), pick("outscored the people around you", Killer)}},
		{ID: 7, Text: "Would you rather earn",
			Options: [2]Option{pick("a rare badge", Achiever), pick("a shortcut to an unexplored chapter", Explorer)}},
		{ID: 8, Text: "Do you prefer",
			Options: [2]Option{pick("study groups", Socializer), pick("head-to-head challenges", Killer)}},
	}}
}

// Evaluate scores answers against the questionnaire. Every question must be
// answered exactly once with a valid option.
func Evaluate(q Questionnaire, answers Answers) (Result, error) {
	known := make(map[int]bool, len(q.Questions))
	for _, question := range q.Questions {
		known[question.ID] = true
	}
	for id := range answers {
		if !known[id] {
			return Result{}, apperr.Invalid("answers", "unknown question %d", id)
		}
	}

	tally := make(Tally)
	for _, question := range q.Questions {
		choice, ok := answers[question.ID]
		if !ok {
			return Result{}, apperr.Invalid("answers", "question %d is not answered", question.ID)
		}
		if choice < 0 || choice >= len(question.Options) {
			return Result{}, apperr.Invalid("answers", "question %d has no option %d", question.ID, choice)
		}
		for typ, votes := range question.Options[choice].Votes {
			tally[typ] += votes
		}
	}
	return tally.Result(), nil
}
