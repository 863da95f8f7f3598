package repositories

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// Page - запрошенная страница, номера с единицы
type Page struct {
	Page  int
	Limit int
}

// Normalize приводит page и limit к допустимым границам
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}
