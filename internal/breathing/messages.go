package breathing

type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Variant string `json:"variant"`
}

var messages = []Message{
	{
		Title:   "You're Doing Something Beautiful 💙",
		Message: "Instead of chasing, you chose to pause. This is how healing happens - one breath at a time.",
		Variant: "blue",
	},
	{
		Title:   "This Feeling Will Pass 🌸",
		Message: "The urge to reach out is temporary, but the strength you're building right now is permanent.",
		Variant: "pink",
	},
	{
		Title:   "You Are Worthy of Secure Love 💜",
		Message: "Love that requires chasing isn't the love you deserve. You're learning to love yourself first.",
		Variant: "purple",
	},
	{
		Title:   "Your Growth is Beautiful ✨",
		Message: "Each time you resist the urge to chase, you're rewiring your brain for healthier relationships.",
		Variant: "mint",
	},
}

func Messages() []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}

// MessageAt wraps i around the message list, so "another reminder" can
// keep incrementing.
func MessageAt(i int) Message {
	n := len(messages)
	return messages[((i%n)+n)%n]
}
