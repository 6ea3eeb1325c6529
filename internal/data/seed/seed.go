// Package seed loads YAML fixtures into the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/data/repos"
	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

const dateLayout = "2006-01-02"

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidFixture  = errors.New("invalid fixture")
)

type Fixtures struct {
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
	Pets       []PetFixture      `yaml:"pets"`
}

type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ProductFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Categories  []string `yaml:"categories"`
}

type PetFixture struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type"`
	BirthDate string         `yaml:"birth_date"`
	Weight    float64        `yaml:"weight"`
	Visits    []VisitFixture `yaml:"visits"`
}

type VisitFixture struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
}

type Result struct {
	Categories int
	Products   int
	Pets       int
	Visits     int
}

func Parse(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &f, nil
}

func ParseFile(path string) (*Fixtures, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

type Seeder struct {
	db         *gorm.DB
	log        *logger.Logger
	categories repos.CategoryRepo
	products   repos.ProductRepo
	pets       repos.PetRepo
	visits     repos.VisitRepo
}

func NewSeeder(db *gorm.DB, baseLog *logger.Logger) *Seeder {
	return &Seeder{
		db:         db,
		log:        baseLog.With("service", "Seeder"),
		categories: repos.NewCategoryRepo(db, baseLog),
		products:   repos.NewProductRepo(db, baseLog),
		pets:       repos.NewPetRepo(db, baseLog),
		visits:     repos.NewVisitRepo(db, baseLog),
	}
}

// Apply writes f in a single transaction. Categories that already exist by
// name are reused so fixtures can be applied more than once.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) (Result, error) {
	var res Result
	if f == nil {
		return res, nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		byName := map[string]*types.Category{}
		for _, cf := range f.Categories {
			name := strings.TrimSpace(cf.Name)
			if name == "" {
				return fmt.Errorf("%w: category without name", ErrInvalidFixture)
			}
			existing, err := s.categories.GetByName(ctx, tx, name)
			if err != nil {
				return err
			}
			if existing != nil {
				byName[name] = existing
				continue
			}
			created, err := s.categories.Create(ctx, tx, []*types.Category{{Name: name, Description: cf.Description}})
			if err != nil {
				return err
			}
			byName[name] = created[0]
			res.Categories++
		}

		for _, pf := range f.Products {
			price, err := decimal.NewFromString(strings.TrimSpace(pf.Price))
			if err != nil {
				return fmt.Errorf("%w: product %q price: %v", ErrInvalidFixture, pf.Name, err)
			}
			created, err := s.products.Create(ctx, tx, []*types.Product{{
				Name:        pf.Name,
				Description: pf.Description,
				Price:       price,
			}})
			if err != nil {
				return err
			}
			for _, cname := range pf.Categories {
				cat, ok := byName[cname]
				if !ok {
					if cat, err = s.categories.GetByName(ctx, tx, cname); err != nil {
						return err
					}
					if cat == nil {
						return fmt.Errorf("%w: %q (product %q)", ErrUnknownCategory, cname, pf.Name)
					}
					byName[cname] = cat
				}
				if err := s.categories.AddProducts(ctx, tx, cat.ID, []uuid.UUID{created[0].ID}); err != nil {
					return err
				}
			}
			res.Products++
		}

		for _, pf := range f.Pets {
			birth, err := parseDate(pf.BirthDate)
			if err != nil {
				return fmt.Errorf("%w: pet %q birth_date: %v", ErrInvalidFixture, pf.Name, err)
			}
			created, err := s.pets.Create(ctx, tx, []*types.Pet{{
				Name:      pf.Name,
				Type:      pf.Type,
				BirthDate: birth,
				Weight:    pf.Weight,
			}})
			if err != nil {
				return err
			}
			res.Pets++

			visits := make([]*types.Visit, 0, len(pf.Visits))
			for _, vf := range pf.Visits {
				d, err := parseDate(vf.Date)
				if err != nil {
					return fmt.Errorf("%w: visit of %q date: %v", ErrInvalidFixture, pf.Name, err)
				}
				visits = append(visits, &types.Visit{PetID: created[0].ID, VisitDate: d, Description: vf.Description})
			}
			if _, err := s.visits.Create(ctx, tx, visits); err != nil {
				return err
			}
			res.Visits += len(visits)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	s.log.Info("fixtures applied",
		"categories", res.Categories,
		"products", res.Products,
		"pets", res.Pets,
		"visits", res.Visits,
	)
	return res, nil
}

func parseDate(s string) (datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return datatypes.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
