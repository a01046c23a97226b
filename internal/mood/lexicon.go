package mood

// CopingMarker prefixes every coping strategy snippet.
const CopingMarker = "\n\n💡 **Coping Strategy**: "

type lexiconEntry struct {
	label   Label
	phrases []string
}

// lexicon is scanned in declaration order; ties go to the earlier entry.
var lexicon = []lexiconEntry{
	{Happy, []string{"happy", "joy", "great", "wonderful", "excited", "amazing", "fantastic",
		"good", "better", "excellent", "glad", "cheerful", "delighted"}},
	{Sad, []string{"sad", "depressed", "down", "unhappy", "miserable", "crying", "tears",
		"lonely", "empty", "hopeless", "worthless", "broken"}},
	{Anxious, []string{"anxious", "anxiety", "nervous", "worried", "panic", "fear", "scared",
		"overwhelmed", "restless", "uneasy", "tense", "stress"}},
	{Stressed, []string{"stressed", "pressure", "overworked", "exhausted", "tired", "burnt out",
		"overwhelmed", "too much", "cant cope", "struggling"}},
	{Angry, []string{"angry", "furious", "mad", "frustrated", "irritated", "annoyed", "rage"}},
}

var crisisPhrases = []string{
	"suicide", "suicidal", "kill myself", "end my life", "want to die",
	"hurt myself", "self harm", "no reason to live", "better off dead",
	"end it all", "take my life",
}

var responses = map[Label][]string{
	Happy: {
		"That's wonderful to hear! It's great that you're feeling positive. What's been making you feel this way?",
		"I'm so glad you're feeling happy! Positive emotions are precious. Would you like to share what's going well?",
		"Your happiness is contagious! Keep embracing these good feelings. What's bringing you joy today?",
	},
	Sad: {
		"I'm sorry you're feeling this way. It's okay to feel sad, and your feelings are valid. Would you like to talk about what's on your mind?",
		"I hear you, and I'm here for you. Sadness is a natural emotion. Remember, it's okay to not be okay sometimes.",
		"Thank you for sharing how you feel. Your feelings matter. Is there something specific that's making you feel down?",
	},
	Anxious: {
		"Anxiety can be really challenging. Let's take a moment together. Try taking a deep breath in for 4 counts, hold for 4, and exhale for 4. Would you like to talk about what's causing your anxiety?",
		"I understand that you're feeling anxious. Remember, you're not alone in this. Have you tried any grounding techniques like focusing on your five senses?",
		"Anxiety can feel overwhelming, but you're taking a positive step by reaching out. What's on your mind that's causing you worry?",
	},
	Stressed: {
		"Stress can be really tough to handle. Remember to be kind to yourself. Have you been able to take any breaks today?",
		"I hear that you're feeling stressed. It's important to acknowledge when things feel like too much. What's been weighing on you?",
		"Managing stress is challenging. Consider taking small breaks and focusing on one thing at a time. Want to talk about what's causing the pressure?",
	},
	Angry: {
		"I can sense you're feeling frustrated or angry. Those feelings are valid. Would you like to talk about what's upsetting you?",
		"Anger is a natural emotion. It's okay to feel this way. Taking a few deep breaths might help. What's triggering these feelings?",
		"I understand you're feeling angry. Let's work through this together. What happened that made you feel this way?",
	},
	Neutral: {
		"I'm here to listen. How are you feeling today?",
		"Thank you for sharing with me. What's on your mind?",
		"I'm here to support you. How can I help you today?",
	},
	Crisis: {
		"I'm really concerned about what you've shared. Your life matters, and help is available right now. Please reach out to a crisis helpline immediately:\n\n" +
			"🆘 **EMERGENCY RESOURCES:**\n" +
			"• National Suicide Prevention Lifeline: 988 (US)\n" +
			"• Crisis Text Line: Text HOME to 741741\n" +
			"• International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/\n\n" +
			"Please talk to someone who can provide immediate professional help. You don't have to go through this alone.",
	},
}

// Happy, neutral and crisis intentionally have no entry.
var copingStrategies = map[Label][]string{
	Anxious: {
		CopingMarker + "Try the 5-4-3-2-1 grounding technique - Name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, and 1 you taste.",
		CopingMarker + "Practice box breathing - Breathe in for 4 counts, hold for 4, breathe out for 4, hold for 4. Repeat 4 times.",
		CopingMarker + "Write down your worries in a journal. Sometimes putting thoughts on paper can help reduce their power.",
	},
	Stressed: {
		CopingMarker + "Take a 5-minute break. Step away from what's stressing you, stretch, or take a short walk.",
		CopingMarker + "Make a to-do list and prioritize. Break large tasks into smaller, manageable steps.",
		CopingMarker + "Practice progressive muscle relaxation - Tense and relax each muscle group in your body.",
	},
	Sad: {
		CopingMarker + "Reach out to a friend or loved one. Connection can help when you're feeling down.",
		CopingMarker + "Do something kind for yourself - Listen to music you love, take a warm bath, or enjoy a favorite snack.",
		CopingMarker + "Try gentle movement like a short walk or stretching. Physical activity can help improve mood.",
	},
	Angry: {
		CopingMarker + "Take a timeout. Step away from the situation and give yourself space to cool down.",
		CopingMarker + "Try physical release - Go for a run, punch a pillow, or do some vigorous exercise.",
		CopingMarker + "Write an angry letter (but don't send it). Express your feelings freely on paper.",
	},
}

// Phrases returns a copy of the trigger phrases for label.
func Phrases(label Label) []string {
	for _, entry := range lexicon {
		if entry.label == label {
			return append([]string(nil), entry.phrases...)
		}
	}
	return nil
}

// CrisisPhrases returns a copy of the crisis phrase set.
func CrisisPhrases() []string {
	return append([]string(nil), crisisPhrases...)
}

// Responses returns a copy of the response candidates for label, or nil.
func Responses(label Label) []string {
	return append([]string(nil), responses[label]...)
}

// CopingStrategies returns a copy of the coping snippets for label, or nil.
func CopingStrategies(label Label) []string {
	return append([]string(nil), copingStrategies[label]...)
}
