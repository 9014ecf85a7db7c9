package practice

// ResponseTimeRating grades how quickly the learner is working from the
// seconds left on the current countdown.
func ResponseTimeRating(timeRemaining int) string {
	switch {
	case timeRemaining > 30:
		return "excellent"
	case timeRemaining > 15:
		return "good"
	default:
		return "could be improved"
	}
}

// FocusArea names the topic to practise next for category.
func FocusArea(bank QuestionBank, category string) string {
	for _, c := range bank.Categories() {
		if c.Key == category && c.Focus != "" {
			return c.Focus
		}
	}
	return category
}
