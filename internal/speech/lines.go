package speech

// Spoken when voice input fails.

func LineDidNotCatch() string {
	return "Sorry, I didn't catch that."
}

func LineNetworkError() string {
	return "Network error, please check your connection."
}
