package repositories

import (
	"strings"
	"time"

	"jobh_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VacancySearchFilter - уже нормализованный публичный запрос
type VacancySearchFilter struct {
	Query          string
	City           string
	EmploymentType models.EmploymentType
	SalaryMin      *int64
	SalaryMax      *int64
	PublishedAfter *time.Time
	Now            time.Time
	Page           Page
}

type condition struct {
	SQL  string
	Args []interface{}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern строит ILIKE-шаблон подстроки; % и _ из ввода экранируются
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

const companyAliveJoin = "JOIN companies ON companies.id = vacancies.company_id AND companies.is_deleted = false"

func visibleCondition() condition {
	return condition{
		SQL:  "vacancies.is_deleted = false AND vacancies.is_active = true AND vacancies.status = ?",
		Args: []interface{}{models.VacancyStatusPublished},
	}
}

func searchConditions(f VacancySearchFilter) []condition {
	conds := []condition{visibleCondition()}

	if f.Query != "" {
		p := containsPattern(f.Query)
		conds = append(conds, condition{"(vacancies.title ILIKE ? OR companies.name ILIKE ?)", []interface{}{p, p}})
	}
	if f.City != "" {
		conds = append(conds, condition{"vacancies.city ILIKE ?", []interface{}{containsPattern(f.City)}})
	}
	if f.EmploymentType != "" {
		conds = append(conds, condition{"vacancies.employment_type = ?", []interface{}{f.EmploymentType}})
	}
	// Пересечение диапазонов; вакансия без вилки проходит всегда
	if f.SalaryMin != nil {
		conds = append(conds, condition{"(vacancies.salary_to IS NULL OR vacancies.salary_to >= ?)", []interface{}{*f.SalaryMin}})
	}
	if f.SalaryMax != nil {
		conds = append(conds, condition{"(vacancies.salary_from IS NULL OR vacancies.salary_from <= ?)", []interface{}{*f.SalaryMax}})
	}
	if f.PublishedAfter != nil {
		conds = append(conds, condition{"vacancies.published_at >= ?", []interface{}{*f.PublishedAfter}})
	}
	return conds
}

func applyConditions(db *gorm.DB, conds []condition) *gorm.DB {
	for _, c := range conds {
		db = db.Where(c.SQL, c.Args...)
	}
	return db
}

// COALESCE: при premium_until IS NULL выражение дает NULL, а NULL в DESC идет первым
const rankingOrderSQL = "COALESCE(vacancies.is_premium AND vacancies.premium_until > ?, false) DESC, " +
	"vacancies.published_at DESC NULLS LAST, vacancies.id ASC"

// rankingOrder: действующий премиум, затем свежесть публикации, затем id.
// models.RanksBefore повторяет этот порядок в памяти.
func rankingOrder(now time.Time) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{
		SQL:                rankingOrderSQL,
		Vars:               []interface{}{now},
		WithoutParentheses: true,
	}}
}
