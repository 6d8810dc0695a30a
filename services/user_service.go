package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/kkarimsherif/iron-forge/configs"
	"github.com/kkarimsherif/iron-forge/models"
)

// ProfileUpdate carries the self-service mutable profile fields
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// UserService owns accounts, credentials and token issuance
type UserService struct {
	users *mongo.Collection
	jwt   configs.JWTConfig
}

func NewUserService(users *mongo.Collection, jwtConfig configs.JWTConfig) *UserService {
	return &UserService{users: users, jwt: jwtConfig}
}

// Signup registers a new account with a bcrypt-hashed password
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Id:       primitive.NewObjectID(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
		Membership: models.Membership{
			Type:   models.MembershipNone,
			Active: false,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.users.InsertOne(ctx, &user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks the credentials and returns the matching user
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID fetches a user by id
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListIDs returns the ids of every user, optionally restricted to a role.
// Used for broadcast notifications.
func (s *UserService) ListIDs(ctx context.Context, role string) ([]primitive.ObjectID, error) {
	query := bson.M{}
	if role != "" {
		query["role"] = role
	}

	cursor, err := s.users.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			Id primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.Id)
	}
	return ids, cursor.Err()
}

// UpdateProfile applies the non-nil profile fields and returns the user
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}

	_, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// MembersRenewingOn returns users with active memberships whose renewal date
// falls on the given day. Used by the daily reminder job.
func (s *UserService) MembersRenewingOn(ctx context.Context, day time.Time) ([]models.User, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	cursor, err := s.users.Find(ctx, bson.M{
		"membership.active":      true,
		"membership.renewalDate": bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GenerateToken issues a signed JWT carrying the user id claim
func (s *UserService) GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":  user.Id.Hex(),
		"exp": time.Now().Add(time.Duration(s.jwt.ExpirationHours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwt.Secret))
}
