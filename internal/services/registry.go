package services

// ServiceContainer содержит все сервисы приложения
type ServiceContainer struct {
	CompanyService      CompanyService
	VacancyService      VacancyService
	PremiumService      PremiumService
	ApplicationService  ApplicationService
	SearchService       SearchService
	AdminService        AdminService
	ResumeService       ResumeService
	NotificationService *NotificationService
}
