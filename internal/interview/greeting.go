package interview

const (
	defaultGreetingText = "Halo, perkenalkan nama saya Bella, dalam kesempatan kali ini " +
		"saya akan menjadi pewawancara Anda untuk posisi yang Anda lamar. Mari kita mulai wawancaranya."

	defaultGreetingAudioURL = "https://res.cloudinary.com/dx8d5yjt2/video/upload/v1769408059/interview_questions/mobile_senior_greeting_135.mp3"
)

// Greeting synthesizes the opening utterance for a session. The handoff
// payload never carries it; the interviewer persona is fixed unless the
// runtime config overrides text or audio.
func Greeting(cfg Config, questions []Question, textOverride, audioOverride string) Question {
	categoryID := cfg.CategoryID
	level := cfg.Level
	title := cfg.CategoryTitle
	if len(questions) > 0 {
		if categoryID == "" {
			categoryID = questions[0].CategoryID
		}
		if level == "" {
			level = questions[0].Level
		}
		if title == "" && questions[0].Category != nil {
			title = questions[0].Category.Title
		}
	}
	if categoryID == "" {
		categoryID = "greeting"
	}
	if title == "" {
		title = "Interview"
	}

	text := defaultGreetingText
	if textOverride != "" {
		text = textOverride
	}
	audioURL := defaultGreetingAudioURL
	if audioOverride != "" {
		audioURL = audioOverride
	}

	return Question{
		ID:         "greeting",
		CategoryID: categoryID,
		Level:      level,
		Type:       QuestionGreeting,
		Content:    text,
		FollowUp:   false,
		AudioURL:   audioURL,
		Category:   &Category{Title: title},
	}
}
