package ipc

type Request struct {
	Command string `json:"command"`
}

// Status is the structured session snapshot returned by the status command.
type Status struct {
	State         string `json:"state"`
	QuestionIndex int    `json:"questionIndex"`
	QuestionCount int    `json:"questionCount"`
	AnswerCount   int    `json:"answerCount"`
	Prompt        string `json:"prompt,omitempty"`
	LastError     string `json:"lastError,omitempty"`
	InterviewID   string `json:"interviewId,omitempty"`
}

type Response struct {
	OK      bool    `json:"ok"`
	State   string  `json:"state,omitempty"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
	Status  *Status `json:"status,omitempty"`
}
