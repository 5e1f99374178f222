package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	CandidateHandler *CandidateHandler
	VideoHandler     *VideoHandler
	QuestionHandler  *QuestionHandler
	AdminHandler     *AdminHandler
	FileHandler      *FileHandler
}
