package handlers

// AppHandlers содержит все хэндлеры приложения
type AppHandlers struct {
	CompanyHandler     *CompanyHandler
	VacancyHandler     *VacancyHandler
	ApplicationHandler *ApplicationHandler
	AdminHandler       *AdminHandler
	ResumeHandler      *ResumeHandler
	WSHandler          *WSHandler
	HealthHandler      *HealthHandler
}
