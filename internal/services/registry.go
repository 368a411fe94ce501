package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	RegistrationService RegistrationService
	UserService         UserService
	OpportunityService  OpportunityService
	ApplicationService  ApplicationService
	AdminService        AdminService
	TalentService       TalentService
	ContentService      ContentService
	GeoService          GeoService
	MembershipService   MembershipService
	NotificationService NotificationService

	// PostingPolicy - правило автоодобрения, передается в OpportunityService.Create
	PostingPolicy PostingPolicy
}
