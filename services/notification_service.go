package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kkarimsherif/iron-forge/models"
)

// NotificationInput is the template for creating notifications. User is set
// per recipient by Send/SendBulk.
type NotificationInput struct {
	Title     string
	Message   string
	Type      string
	Priority  string
	Reference *models.Reference
	Action    *models.Action
	Category  string
	ExpiresAt *time.Time
}

// NotificationFilter enumerates the supported inbox filters
type NotificationFilter struct {
	Read           *bool
	Type           string
	Priority       string
	IncludeExpired bool
	Page           int64
	Limit          int64
}

// NotificationPage is one page of a user's inbox plus its counters
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	TotalCount    int64                 `json:"totalCount"`
	TotalPages    int64                 `json:"totalPages"`
	CurrentPage   int64                 `json:"currentPage"`
}

// NotificationService owns the in-app inbox. Sends are plain inserts with no
// delivery guarantee beyond persistence.
type NotificationService struct {
	notifications *mongo.Collection
}

func NewNotificationService(notifications *mongo.Collection) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Send creates one notification for the user
func (s *NotificationService) Send(ctx context.Context, userID primitive.ObjectID, input NotificationInput) (*models.Notification, error) {
	n := newNotification(userID, input)
	if _, err := s.notifications.InsertOne(ctx, n); err != nil {
		return nil, err
	}
	return &n, nil
}

// SendBulk creates one notification per user from a shared template
func (s *NotificationService) SendBulk(ctx context.Context, userIDs []primitive.ObjectID, input NotificationInput) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(userIDs))
	for _, userID := range userIDs {
		docs = append(docs, newNotification(userID, input))
	}

	result, err := s.notifications.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

func newNotification(userID primitive.ObjectID, input NotificationInput) models.Notification {
	now := time.Now()
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	return models.Notification{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		Priority:  priority,
		Read:      false,
		Reference: input.Reference,
		Action:    input.Action,
		Category:  input.Category,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (f *NotificationFilter) query(userID primitive.ObjectID) bson.M {
	query := bson.M{"user": userID}
	if f.Read != nil {
		query["read"] = *f.Read
	}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Priority != "" {
		query["priority"] = f.Priority
	}
	if !f.IncludeExpired {
		query["$or"] = bson.A{
			bson.M{"expiresAt": bson.M{"$exists": false}},
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": time.Now()}},
		}
	}
	return query
}

// List returns one inbox page for the user. Expired notifications are
// excluded unless the filter asks for them.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, filter NotificationFilter) (*NotificationPage, error) {
	query := filter.query(userID)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 10
	}

	total, err := s.notifications.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}
	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := s.notifications.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	return &NotificationPage{
		Notifications: notifications,
		UnreadCount:   unread,
		TotalCount:    total,
		TotalPages:    (total + limit - 1) / limit,
		CurrentPage:   page,
	}, nil
}

// UnreadCount counts the user's unread, unexpired notifications
func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.notifications.CountDocuments(ctx, bson.M{
		"user": userID,
		"read": false,
		"$or": bson.A{
			bson.M{"expiresAt": bson.M{"$exists": false}},
			bson.M{"expiresAt": nil},
			bson.M{"expiresAt": bson.M{"$gt": time.Now()}},
		},
	})
}

// MarkAsRead flips a single notification to read. Only the recipient or an
// admin may do so.
func (s *NotificationService) MarkAsRead(ctx context.Context, id primitive.ObjectID, actingUser *models.User) (*models.Notification, error) {
	var notification models.Notification
	err := s.notifications.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	if notification.User != actingUser.Id && !actingUser.IsAdmin() {
		return nil, ErrForbidden
	}

	if notification.Read {
		return &notification, nil
	}

	now := time.Now()
	_, err = s.notifications.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"read":      true,
		"readAt":    now,
		"updatedAt": now,
	}})
	if err != nil {
		return nil, err
	}
	notification.Read = true
	notification.ReadAt = &now
	return &notification, nil
}

// MarkAllAsRead flips every unread notification for the user, optionally
// restricted to one type. Already-read records are untouched.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID, notificationType string) (int64, error) {
	query := bson.M{"user": userID, "read": false}
	if notificationType != "" {
		query["type"] = notificationType
	}

	now := time.Now()
	result, err := s.notifications.UpdateMany(ctx, query, bson.M{"$set": bson.M{
		"read":      true,
		"readAt":    now,
		"updatedAt": now,
	}})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Delete removes a single notification (recipient or admin)
func (s *NotificationService) Delete(ctx context.Context, id primitive.ObjectID, actingUser *models.User) error {
	var notification models.Notification
	err := s.notifications.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err == mongo.ErrNoDocuments {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}

	if notification.User != actingUser.Id && !actingUser.IsAdmin() {
		return ErrForbidden
	}

	_, err = s.notifications.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteRead removes the user's read notifications, optionally by type
func (s *NotificationService) DeleteRead(ctx context.Context, userID primitive.ObjectID, notificationType string) (int64, error) {
	query := bson.M{"user": userID, "read": true}
	if notificationType != "" {
		query["type"] = notificationType
	}

	result, err := s.notifications.DeleteMany(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Cleanup deletes notifications older than the cutoff, optionally only read
// ones or one type. Used by the admin endpoint and the weekly job.
func (s *NotificationService) Cleanup(ctx context.Context, olderThanDays int, readOnly bool, notificationType string) (int64, error) {
	if olderThanDays < 1 {
		return 0, Validationf("olderThanDays must be a positive number")
	}

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	query := bson.M{"createdAt": bson.M{"$lt": cutoff}}
	if readOnly {
		query["read"] = true
	}
	if notificationType != "" {
		query["type"] = notificationType
	}

	result, err := s.notifications.DeleteMany(ctx, query)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
