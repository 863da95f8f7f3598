package auth

import "jobh_backend/internal/models"

// Action - операция над сущностью, для которой проверяется право
type Action string

const (
	ActionCompanySubmit   Action = "company:submit"
	ActionCompanyEdit     Action = "company:edit"
	ActionCompanyModerate Action = "company:moderate"

	ActionVacancyCreate   Action = "vacancy:create"
	ActionVacancyEdit     Action = "vacancy:edit"
	ActionVacancySubmit   Action = "vacancy:submit"
	ActionVacancyRemove   Action = "vacancy:remove"
	ActionVacancyModerate Action = "vacancy:moderate"
	ActionVacancySave     Action = "vacancy:save"

	ActionPremiumBuy   Action = "premium:buy"
	ActionPremiumGrant Action = "premium:grant"

	ActionApplicationCreate    Action = "application:create"
	ActionApplicationListOwn   Action = "application:list-own"
	ActionApplicationSetStatus Action = "application:set-status"
	ActionApplicationEmployer  Action = "application:list-employer"

	ActionResumeManage Action = "resume:manage"

	ActionAdminView Action = "admin:view"
)

// rule: кто может выполнить действие.
// ownerOnly - роль из roles дополнительно должна совпадать с владельцем сущности.
// moderators - модератор проходит без проверки владения.
type rule struct {
	roles      []models.UserRole
	ownerOnly  bool
	moderators bool
}

var policy = map[Action]rule{
	ActionCompanySubmit:   {roles: []models.UserRole{models.UserRoleEmployer}},
	ActionCompanyEdit:     {roles: []models.UserRole{models.UserRoleEmployer}, ownerOnly: true},
	ActionCompanyModerate: {moderators: true},

	ActionVacancyCreate:   {roles: []models.UserRole{models.UserRoleEmployer}},
	ActionVacancyEdit:     {roles: []models.UserRole{models.UserRoleEmployer}, ownerOnly: true},
	ActionVacancySubmit:   {roles: []models.UserRole{models.UserRoleEmployer}, ownerOnly: true},
	ActionVacancyRemove:   {roles: []models.UserRole{models.UserRoleEmployer}, ownerOnly: true},
	ActionVacancyModerate: {moderators: true},
	ActionVacancySave: {roles: []models.UserRole{
		models.UserRoleCandidate, models.UserRoleEmployer, models.UserRoleAdmin, models.UserRoleSuperAdmin,
	}},

	ActionPremiumBuy:   {roles: []models.UserRole{models.UserRoleEmployer}, ownerOnly: true, moderators: true},
	ActionPremiumGrant: {moderators: true},

	ActionApplicationCreate:    {roles: []models.UserRole{models.UserRoleCandidate}},
	ActionApplicationListOwn:   {roles: []models.UserRole{models.UserRoleCandidate}},
	ActionApplicationSetStatus: {roles: []models.UserRole{models.UserRoleEmployer}, ownerOnly: true, moderators: true},
	ActionApplicationEmployer:  {roles: []models.UserRole{models.UserRoleEmployer}},

	ActionResumeManage: {roles: []models.UserRole{models.UserRoleCandidate}},

	ActionAdminView: {moderators: true},
}

// CanTransition - единый предикат авторизации ядра.
// ownerID - владелец сущности (для вакансий и откликов - владелец компании);
// для действий без владения передается пустая строка.
func CanTransition(p Principal, ownerID string, action Action) bool {
	if !p.Authenticated() {
		return false
	}

	r, ok := policy[action]
	if !ok {
		return false
	}

	if r.moderators && p.IsModerator() {
		return true
	}

	for _, role := range r.roles {
		if role != p.Role {
			continue
		}
		if r.ownerOnly {
			return ownerID != "" && ownerID == p.ID
		}
		return true
	}
	return false
}
