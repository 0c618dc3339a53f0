package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jobportal/internal/model"
)

// Collection names used by the document store.
const (
	usersCollection     = "users"
	companiesCollection = "companies"
	jobsCollection      = "jobs"
)

// EnsureMongoIndexes creates the unique and lookup indexes the repositories
// rely on. It is idempotent.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{usersCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{companiesCollection, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{companiesCollection, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
		{jobsCollection, mongo.IndexModel{Keys: bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}
	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("create index on %s: %w", s.collection, err)
		}
	}
	return nil
}

type profileDocument struct {
	Bio                string   `bson:"bio"`
	Skills             []string `bson:"skills"`
	Resume             string   `bson:"resume"`
	ResumeOriginalName string   `bson:"resumeOriginalName"`
	ProfilePhoto       string   `bson:"profilePhoto"`
}

type userDocument struct {
	ID          string          `bson:"_id"`
	Fullname    string          `bson:"fullname"`
	Email       string          `bson:"email"`
	PhoneNumber string          `bson:"phoneNumber"`
	Password    string          `bson:"password"`
	Role        string          `bson:"role"`
	Profile     profileDocument `bson:"profile"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

func newUserDocument(u *model.User) userDocument {
	return userDocument{
		ID:          u.ID.String(),
		Fullname:    u.Fullname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Password:    u.Password,
		Role:        string(u.Role),
		Profile: profileDocument{
			Bio:                u.Profile.Bio,
			Skills:             u.Profile.Skills,
			Resume:             u.Profile.Resume,
			ResumeOriginalName: u.Profile.ResumeOriginalName,
			ProfilePhoto:       u.Profile.ProfilePhoto,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDocument) toModel() (*model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user id %q: %w", d.ID, err)
	}
	return &model.User{
		ID:          id,
		Fullname:    d.Fullname,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Password:    d.Password,
		Role:        model.Role(d.Role),
		Profile: model.Profile{
			Bio:                d.Profile.Bio,
			Skills:             d.Profile.Skills,
			Resume:             d.Profile.Resume,
			ResumeOriginalName: d.Profile.ResumeOriginalName,
			ProfilePhoto:       d.Profile.ProfilePhoto,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

// userSetDocument translates a patch into a $set document on dotted paths.
func userSetDocument(p model.UserPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("fullname", p.Fullname)
	setIf("email", p.Email)
	setIf("phoneNumber", p.PhoneNumber)
	setIf("password", p.Password)
	setIf("profile.bio", p.Bio)
	if p.Skills != nil {
		set["profile.skills"] = []string(p.Skills)
	}
	setIf("profile.resume", p.Resume)
	setIf("profile.resumeOriginalName", p.ResumeOriginalName)
	setIf("profile.profilePhoto", p.ProfilePhoto)
	return set
}

type mongoUserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoUserRepository builds a MongoDB-backed credential store.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection), now: time.Now}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, newUserDocument(user))
	return translate(err)
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel()
}

func (r *mongoUserRepository) Update(ctx context.Context, id uuid.UUID, patch model.UserPatch) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": userSetDocument(patch, r.now().UTC())}

	var doc userDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, update, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel()
}

type companyDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Website     string    `bson:"website"`
	Location    string    `bson:"location"`
	Logo        string    `bson:"logo"`
	UserID      string    `bson:"userId"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func (d companyDocument) toModel() (*model.Company, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode company id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("decode company owner %q: %w", d.UserID, err)
	}
	return &model.Company{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Website:     d.Website,
		Location:    d.Location,
		Logo:        d.Logo,
		UserID:      userID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type mongoCompanyRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoCompanyRepository builds a MongoDB-backed company repository.
func NewMongoCompanyRepository(db *mongo.Database) CompanyRepository {
	return &mongoCompanyRepository{coll: db.Collection(companiesCollection), now: time.Now}
}

func (r *mongoCompanyRepository) Create(ctx context.Context, c *model.Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := r.now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, companyDocument{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Website:     c.Website,
		Location:    c.Location,
		Logo:        c.Logo,
		UserID:      c.UserID.String(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	})
	return translate(err)
}

func (r *mongoCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoCompanyRepository) FindByName(ctx context.Context, name string) (*model.Company, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoCompanyRepository) findOne(ctx context.Context, filter bson.M) (*model.Company, error) {
	var doc companyDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel()
}

func (r *mongoCompanyRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Company, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID.String()}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []companyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	companies := make([]model.Company, 0, len(docs))
	for _, d := range docs {
		c, err := d.toModel()
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, nil
}

func (r *mongoCompanyRepository) Update(ctx context.Context, id uuid.UUID, patch model.CompanyPatch) (*model.Company, error) {
	set := bson.M{"updatedAt": r.now().UTC()}
	for k, v := range patch.Columns() {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc companyDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel()
}

type jobDocument struct {
	ID              string    `bson:"_id"`
	Title           string    `bson:"title"`
	Description     string    `bson:"description"`
	Requirements    []string  `bson:"requirements"`
	Salary          int64     `bson:"salary"`
	Location        string    `bson:"location"`
	JobType         string    `bson:"jobType"`
	ExperienceLevel int       `bson:"experienceLevel"`
	Position        int       `bson:"position"`
	CompanyID       string    `bson:"companyId"`
	CreatedBy       string    `bson:"createdBy"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

func (d jobDocument) toModel() (*model.Job, error) {
	ids := make([]uuid.UUID, 3)
	for i, raw := range []string{d.ID, d.CompanyID, d.CreatedBy} {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("decode job reference %q: %w", raw, err)
		}
		ids[i] = id
	}
	return &model.Job{
		ID:              ids[0],
		Title:           d.Title,
		Description:     d.Description,
		Requirements:    d.Requirements,
		Salary:          d.Salary,
		Location:        d.Location,
		JobType:         d.JobType,
		ExperienceLevel: d.ExperienceLevel,
		Position:        d.Position,
		CompanyID:       ids[1],
		CreatedBy:       ids[2],
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

type mongoJobRepository struct {
	coll      *mongo.Collection
	companies *mongoCompanyRepository
	now       func() time.Time
}

// NewMongoJobRepository builds a MongoDB-backed job repository.
func NewMongoJobRepository(db *mongo.Database) JobRepository {
	return &mongoJobRepository{
		coll:      db.Collection(jobsCollection),
		companies: &mongoCompanyRepository{coll: db.Collection(companiesCollection), now: time.Now},
		now:       time.Now,
	}
}

func (r *mongoJobRepository) Create(ctx context.Context, j *model.Job) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	now := r.now().UTC()
	j.CreatedAt, j.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, jobDocument{
		ID:              j.ID.String(),
		Title:           j.Title,
		Description:     j.Description,
		Requirements:    j.Requirements,
		Salary:          j.Salary,
		Location:        j.Location,
		JobType:         j.JobType,
		ExperienceLevel: j.ExperienceLevel,
		Position:        j.Position,
		CompanyID:       j.CompanyID.String(),
		CreatedBy:       j.CreatedBy.String(),
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	})
	return translate(err)
}

func (r *mongoJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var doc jobDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	jobs, err := r.withCompanies(ctx, []jobDocument{doc})
	if err != nil {
		return nil, err
	}
	return &jobs[0], nil
}

func (r *mongoJobRepository) Search(ctx context.Context, keyword string) ([]model.Job, error) {
	filter := bson.M{}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"title": pattern}, bson.M{"description": pattern}}
	}
	return r.find(ctx, filter)
}

func (r *mongoJobRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	return r.find(ctx, bson.M{"createdBy": userID.String()})
}

func (r *mongoJobRepository) find(ctx context.Context, filter bson.M) ([]model.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []jobDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return r.withCompanies(ctx, docs)
}

// withCompanies converts documents and attaches each job's company, the
// document-store counterpart of Preload("Company").
func (r *mongoJobRepository) withCompanies(ctx context.Context, docs []jobDocument) ([]model.Job, error) {
	jobs := make([]model.Job, 0, len(docs))
	cache := map[uuid.UUID]*model.Company{}
	for _, d := range docs {
		j, err := d.toModel()
		if err != nil {
			return nil, err
		}
		c, ok := cache[j.CompanyID]
		if !ok {
			c, err = r.companies.FindByID(ctx, j.CompanyID)
			if err != nil && err != ErrNotFound {
				return nil, err
			}
			cache[j.CompanyID] = c
		}
		j.Company = c
		jobs = append(jobs, *j)
	}
	return jobs, nil
}
