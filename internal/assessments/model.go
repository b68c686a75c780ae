package assessments

import "time"

const CategoryTechnical = "TECHNICAL"

// Question is one generated multiple-choice question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuestionResult is one graded answer.
type QuestionResult struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	UserAnswer  string `json:"userAnswer"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

// Assessment is a graded quiz submission. It is never mutated.
type Assessment struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	QuizScore      float64          `json:"quizScore"`
	Questions      []QuestionResult `json:"questions"`
	Category       string           `json:"category"`
	ImprovementTip *string          `json:"improvementTip"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// SubmitInput is a finished quiz. Score is computed when omitted.
type SubmitInput struct {
	Questions []Question `json:"questions"`
	Answers   []string   `json:"answers"`
	Score     *float64   `json:"score"`
}

// Grade marks each answer by exact string equality with the correct answer.
// answers[i] pairs with questions[i]; a missing answer is wrong.
func Grade(questions []Question, answers []string) ([]QuestionResult, int) {
	results := make([]QuestionResult, len(questions))
	correct := 0
	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		ok := answer == q.CorrectAnswer
		if ok {
			correct++
		}
		results[i] = QuestionResult{
			Question:    q.Question,
			Answer:      q.CorrectAnswer,
			UserAnswer:  answer,
			IsCorrect:   ok,
			Explanation: q.Explanation,
		}
	}
	return results, correct
}

// Percent returns 100*correct/total, or 0 for an empty quiz.
func Percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}
