package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"jobportal/internal/errors"
	"jobportal/internal/model"
	"jobportal/internal/repository"
	"jobportal/internal/service"
)

// fixture is the on-disk seed format.
type fixture struct {
	Users     []userFixture    `json:"users"`
	Companies []companyFixture `json:"companies"`
	Jobs      []jobFixture     `json:"jobs"`
}

type userFixture struct {
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Bio         string `json:"bio"`
	Skills      string `json:"skills"`
}

type companyFixture struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
}

type jobFixture struct {
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Requirements string      `json:"requirements"`
	Salary       json.Number `json:"salary"`
	Location     string      `json:"location"`
	JobType      string      `json:"jobType"`
	Experience   json.Number `json:"experience"`
	Position     json.Number `json:"position"`
	Company      string      `json:"company"`
}

func loadFixture(path string) (*fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Code("FIXTURE_INVALID").With("file", path).Wrap(err)
	}
	defer f.Close()
	return decodeFixture(f)
}

func decodeFixture(r io.Reader) (*fixture, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var fx fixture
	if err := dec.Decode(&fx); err != nil {
		return nil, oops.Code("FIXTURE_INVALID").Wrapf(err, "decode fixture")
	}
	return &fx, nil
}

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type companyFinder interface {
	FindByName(ctx context.Context, name string) (*model.Company, error)
}

type seeder struct {
	auth      service.AuthService
	companies service.CompanyService
	jobs      service.JobService
	users     userFinder
	byName    companyFinder
	out       io.Writer
}

type summary struct {
	users, companies, jobs, reused int
}

// run applies fx in dependency order. Existing users and companies are
// looked up instead of recreated; any other failure aborts the run.
func (s *seeder) run(ctx context.Context, fx *fixture) (summary, error) {
	var sum summary
	owners := make(map[string]uuid.UUID, len(fx.Users))
	companyOwner := make(map[string]uuid.UUID, len(fx.Companies))
	companyIDs := make(map[string]uuid.UUID, len(fx.Companies))

	for _, u := range fx.Users {
		id, created, err := s.user(ctx, u)
		if err != nil {
			return sum, oops.Code("SEED_FAILED").With("email", u.Email).Wrap(err)
		}
		if created {
			sum.users++
		} else {
			sum.reused++
		}
		owners[u.Email] = id
	}

	for _, c := range fx.Companies {
		ownerID, ok := owners[c.Owner]
		if !ok {
			return sum, oops.Code("FIXTURE_INVALID").With("company", c.Name).Errorf("owner %q is not listed under users", c.Owner)
		}
		company, created, err := s.company(ctx, ownerID, c)
		if err != nil {
			return sum, oops.Code("SEED_FAILED").With("company", c.Name).Wrap(err)
		}
		if created {
			sum.companies++
		} else {
			sum.reused++
		}
		companyIDs[c.Name] = company.ID
		companyOwner[c.Name] = company.UserID
	}

	for _, j := range fx.Jobs {
		companyID, ok := companyIDs[j.Company]
		if !ok {
			return sum, oops.Code("FIXTURE_INVALID").With("job", j.Title).Errorf("company %q is not listed under companies", j.Company)
		}
		_, err := s.jobs.Post(ctx, companyOwner[j.Company], service.JobInput{
			Title:        j.Title,
			Description:  j.Description,
			Requirements: j.Requirements,
			Salary:       j.Salary.String(),
			Location:     j.Location,
			JobType:      j.JobType,
			Experience:   j.Experience.String(),
			Position:     j.Position.String(),
			CompanyID:    companyID.String(),
		})
		if err != nil {
			return sum, oops.Code("SEED_FAILED").With("job", j.Title).Wrap(err)
		}
		sum.jobs++
		fmt.Fprintf(s.out, "  job      %s @ %s\n", j.Title, j.Company)
	}

	return sum, nil
}

func (s *seeder) user(ctx context.Context, u userFixture) (uuid.UUID, bool, error) {
	created := true
	_, err := s.auth.Register(ctx, service.RegisterInput{
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Password:    u.Password,
		Role:        u.Role,
	})
	switch {
	case err == nil:
	case errors.Is(err, errors.CodeConflict):
		created = false
	default:
		return uuid.Nil, false, err
	}

	existing, err := s.users.FindByEmail(ctx, u.Email)
	if err != nil {
		return uuid.Nil, false, err
	}
	if created && (u.Bio != "" || u.Skills != "") {
		if _, err := s.auth.UpdateProfile(ctx, existing.ID, service.ProfileUpdate{Bio: u.Bio, Skills: u.Skills}, nil); err != nil {
			return uuid.Nil, false, err
		}
	}
	fmt.Fprintf(s.out, "  user     %s (%s)%s\n", u.Email, u.Role, reusedSuffix(created))
	return existing.ID, created, nil
}

func (s *seeder) company(ctx context.Context, ownerID uuid.UUID, c companyFixture) (*model.Company, bool, error) {
	company, err := s.companies.Register(ctx, ownerID, c.Name)
	created := true
	switch {
	case err == nil:
	case errors.Is(err, errors.CodeConflict):
		created = false
		company, err = s.byName.FindByName(ctx, c.Name)
		if err == repository.ErrNotFound {
			return nil, false, fmt.Errorf("company %q reported as existing but not found", c.Name)
		}
		if err != nil {
			return nil, false, err
		}
	default:
		return nil, false, err
	}

	if created && (c.Description != "" || c.Website != "" || c.Location != "") {
		if _, err := s.companies.Update(ctx, ownerID, company.ID, service.CompanyUpdate{
			Description: c.Description,
			Website:     c.Website,
			Location:    c.Location,
		}, nil); err != nil {
			return nil, false, err
		}
	}
	fmt.Fprintf(s.out, "  company  %s%s\n", c.Name, reusedSuffix(created))
	return company, created, nil
}

func reusedSuffix(created bool) string {
	if created {
		return ""
	}
	return " (exists)"
}
