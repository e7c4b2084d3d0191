// Package synthetic generates CERT-shaped activity logs for demos and tests.
// A given seed always yields the same dataset.
package synthetic

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

type Employee struct {
	ID      string
	PC      string
	Email   string
	Insider bool
}

type EmployeeService struct {
	faker     *gofakeit.Faker
	orgDomain string
	seen      map[string]struct{}
}

func NewEmployeeService(faker *gofakeit.Faker, orgDomain string) *EmployeeService {
	return &EmployeeService{faker: faker, orgDomain: orgDomain, seen: make(map[string]struct{})}
}

// CreateNew returns an employee with a unique CERT-style id such as ABC0042.
func (s *EmployeeService) CreateNew() Employee {
	var id string
	for {
		id = fmt.Sprintf("%s%04d", strings.ToUpper(s.faker.LetterN(3)), s.faker.Number(0, 9999))
		if _, dup := s.seen[id]; !dup {
			break
		}
	}
	s.seen[id] = struct{}{}

	return Employee{
		ID:    id,
		PC:    fmt.Sprintf("PC-%04d", s.faker.Number(0, 9999)),
		Email: fmt.Sprintf("%s@%s", strings.ToLower(s.faker.Username()), s.orgDomain),
	}
}

func (s *EmployeeService) CreateMore(amount int) []Employee {
	employees := make([]Employee, 0, amount)
	for range amount {
		employees = append(employees, s.CreateNew())
	}
	return employees
}
