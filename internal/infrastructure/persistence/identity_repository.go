package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuthIdentityRepository implements identity.AuthIdentityRepository using GORM
type GormAuthIdentityRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormAuthIdentityRepository creates a new GormAuthIdentityRepository
func NewGormAuthIdentityRepository(db *gorm.DB) *GormAuthIdentityRepository {
	return &GormAuthIdentityRepository{db: db}
}

// Save creates or updates an auth identity
func (r *GormAuthIdentityRepository) Save(ctx context.Context, a *identity.AuthIdentity) error {
	return r.save(ctx, r.db, a, models.AuthIdentityModelFromDomain(a), nil)
}

// FindByEmail finds the identity of an actor type by email, case-insensitively
func (r *GormAuthIdentityRepository) FindByEmail(ctx context.Context, actorType identity.ActorType, email string) (*identity.AuthIdentity, error) {
	var model models.AuthIdentityModel
	if err := r.db.WithContext(ctx).
		Where("actor_type = ? AND LOWER(email) = ?", actorType, strings.ToLower(email)).
		First(&model).Error; err != nil {
		return nil, notFound(err, "AuthIdentity", email)
	}
	return model.ToDomain(), nil
}

// FindByActor finds the identity attached to an actor
func (r *GormAuthIdentityRepository) FindByActor(ctx context.Context, actorType identity.ActorType, actorID uuid.UUID) (*identity.AuthIdentity, error) {
	var model models.AuthIdentityModel
	if err := r.db.WithContext(ctx).
		Where("actor_type = ? AND actor_id = ?", actorType, actorID).
		First(&model).Error; err != nil {
		return nil, notFound(err, "AuthIdentity", actorID)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail reports whether an identity of the actor type uses email
func (r *GormAuthIdentityRepository) ExistsByEmail(ctx context.Context, actorType identity.ActorType, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AuthIdentityModel{}).
		Where("actor_type = ? AND LOWER(email) = ?", actorType, strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save creates or updates an admin user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.save(ctx, r.db, u, models.UserModelFromDomain(u), nil)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "User", id)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		return nil, notFound(err, "User", email)
	}
	return model.ToDomain(), nil
}

// FindAll lists users
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	var rows []models.UserModel
	q := listQuery{sortFields: UserSortFields, defaultSort: "created_at", searchFields: []string{"email", "first_name", "last_name"}}
	total, err := q.find(r.db.WithContext(ctx).Model(&models.UserModel{}), filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

// GormCustomerRepository implements identity.CustomerRepository using GORM
type GormCustomerRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *identity.Customer) error {
	return r.save(ctx, r.db, c, models.CustomerModelFromDomain(c), nil)
}

// FindByID finds a customer by ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Customer", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads customers in one query; missing ids are skipped
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Customer, error) {
	if len(ids) == 0 {
		return []identity.Customer{}, nil
	}
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	customers := make([]identity.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

// FindByEmail finds a customer by email, case-insensitively
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*identity.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Customer", email)
	}
	return model.ToDomain(), nil
}

// FindAll lists customers
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Customer, int64, error) {
	var rows []models.CustomerModel
	q := listQuery{sortFields: CustomerSortFields, defaultSort: "created_at", searchFields: []string{"email", "first_name", "last_name"}}
	total, err := q.find(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	customers := make([]identity.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, total, nil
}
